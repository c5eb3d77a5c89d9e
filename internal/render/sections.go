package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/harunnryd/verblume/internal/lesson"
)

func lessonSections(p lesson.Payload) ([]section, error) {
	switch c := p.(type) {
	case *lesson.GrammarContent:
		return grammarSections(c), nil
	case *lesson.VocabularyContent:
		return vocabularySections(c), nil
	case *lesson.ListeningContent:
		s := section{title: "Listening"}
		s.add("Instruction", c.Instruction)
		addPassage(&s, c.Paragraph, c.PronunciationEn, c.PronunciationInBase, c.Translation, c.WordByWord)
		s.add("Pro tip", c.ProTip)
		return []section{s}, nil
	case *lesson.SpeakingContent:
		s := section{title: "Speaking"}
		s.add("Instruction", c.Instruction)
		s.add("Phrase", c.Phrase)
		s.add("Pronunciation", c.PronunciationEn)
		s.add("In base", c.PronunciationInBase)
		s.add("Meaning", c.Meaning)
		s.add("Word by word", wordByWord(c.WordByWord))
		s.add("Pro tip", c.ProTip)
		return []section{s}, nil
	case *lesson.VisualContextContent:
		s := section{title: "Visual context"}
		s.add("Instruction", c.Instruction)
		s.add("Image", imageLabel(c.ImageBytes))
		addPassage(&s, c.Paragraph, c.PronunciationEn, c.PronunciationInBase, c.Translation, c.WordByWord)
		s.add("Pro tip", c.ProTip)
		return []section{s}, nil
	case *lesson.StoryboardContent:
		out := make([]section, 0, len(c.Scenes))
		for _, scene := range c.Scenes {
			s := section{title: fmt.Sprintf("%s · scene %d", c.Title, scene.SceneNumber)}
			s.add("Image", imageLabel(scene.ImageBytes))
			addPassage(&s, scene.Paragraph, scene.PronunciationEn, scene.PronunciationInBase, scene.Translation, scene.WordByWord)
			s.add("Pro tip", scene.ProTip)
			out = append(out, s)
		}
		return out, nil
	case *lesson.QuizContent:
		return quizSections(c), nil
	case *lesson.SituationalPracticeInitContent:
		s := section{title: c.Title}
		s.add("Instruction", c.Instruction)
		return []section{s}, nil
	case *lesson.SituationalPracticeResponseContent:
		s := section{title: "Situation"}
		s.add("Situation", c.Situation)
		s.add("Advice", c.Response.Advice)
		for _, kp := range c.Response.KeyPhrases {
			s.add("Key phrase", kp.Phrase+" · "+kp.Meaning)
		}
		s.add("Example", dialogue(c.Response.ExampleDialogue))
		return []section{s}, nil
	case *lesson.RolePlaySetupContent:
		out := make([]section, 0, len(c.Scenarios))
		for i, sc := range c.Scenarios {
			s := section{title: fmt.Sprintf("Scenario %d: %s", i+1, sc.Title)}
			s.add("Description", sc.Description)
			s.add("You are", sc.UserPersona)
			s.add("Partner", sc.AIPersona)
			s.add("Opening line", sc.OpeningLine)
			out = append(out, s)
		}
		return out, nil
	case *lesson.AITutorInitContent:
		s := section{title: "AI tutor"}
		s.add("Persona", c.TutorPersona)
		s.add("Tutor", c.InitialMessage)
		return []section{s}, nil
	default:
		return nil, fmt.Errorf("cannot render payload type %q", p.Kind())
	}
}

func grammarSections(c *lesson.GrammarContent) []section {
	intro := section{title: "Grammar"}
	intro.add("Explanation", c.Explanation)
	intro.add("Pro tip", c.ProTip)
	if t := c.ComparisonTable; t != nil && len(t.Headers) > 0 {
		lines := []string{strings.Join(t.Headers, " | ")}
		for _, row := range t.Rows {
			lines = append(lines, strings.Join(row, " | "))
		}
		intro.add("Comparison", strings.Join(lines, "\n"))
	}

	out := []section{intro}
	for i, ex := range c.Examples {
		s := section{title: fmt.Sprintf("Example %d", i+1)}
		s.add("Sentence", ex.Sentence)
		s.add("Pronunciation", ex.PronunciationEn)
		s.add("In base", ex.PronunciationInBase)
		s.add("Meaning", ex.Meaning)
		s.add("Word by word", wordByWord(ex.WordByWord))
		if ex.VisualizableNoun != nil {
			s.add("Image", imageLabel(ex.ImageBytes))
		}
		out = append(out, s)
	}
	return out
}

func vocabularySections(c *lesson.VocabularyContent) []section {
	intro := section{title: "Vocabulary"}
	intro.add("Intro", c.Intro)
	intro.add("Pro tip", c.ProTip)

	out := []section{intro}
	for _, w := range c.Words {
		s := section{title: w.Word}
		s.add("Pronunciation", w.PronunciationEn)
		s.add("In base", w.PronunciationInBase)
		s.add("Meaning", w.Meaning)
		s.add("Example", w.ExampleSentence)
		s.add("Example meaning", w.ExampleSentenceMeaning)
		s.add("Word by word", wordByWord(w.ExampleWordByWord))
		if w.IsVisualizable {
			s.add("Image", imageLabel(w.ImageBytes))
		}
		out = append(out, s)
	}
	return out
}

func quizSections(c *lesson.QuizContent) []section {
	intro := section{title: "Quiz"}
	intro.add("Intro", c.Intro)
	intro.add("Read", c.ComprehensionText)

	out := []section{intro}
	for i := range c.Questions {
		q := &c.Questions[i]
		s := section{title: fmt.Sprintf("Question %d · %s", i+1, q.QuestionType)}
		s.add("Question", q.QuestionText)
		s.add("In base", q.QuestionTextInBase)
		if q.QuestionType == lesson.FormatPictureMCQ {
			s.add("Image", imageLabel(q.Image()))
		}
		s.add("Dialogue", dialogue(q.DialogueContext))
		s.add("Line", q.LineWithBlank)
		s.add("Sentence", q.IncorrectSentence)
		s.add("Options", options(q.Options))
		s.add("Words", strings.Join(q.JumbledWords, " / "))
		s.add("Premises", options(q.Premises))
		s.add("Responses", options(q.Responses))
		s.add("Answer", answer(q))
		out = append(out, s)
	}
	return out
}

func answer(q *lesson.Question) string {
	if q.QuestionType != lesson.FormatMatching {
		return q.CorrectText()
	}
	keys := make([]string, 0, len(q.CorrectPairs))
	for k := range q.CorrectPairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"→"+q.CorrectPairs[k])
	}
	return strings.Join(pairs, ", ")
}

func addPassage(s *section, paragraph, pronEn, pronBase, translation string, words []lesson.WordByWord) {
	s.add("Text", paragraph)
	s.add("Pronunciation", pronEn)
	s.add("In base", pronBase)
	s.add("Translation", translation)
	s.add("Word by word", wordByWord(words))
}

func wordByWord(words []lesson.WordByWord) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		parts = append(parts, w.Word+" = "+w.Translation)
	}
	return strings.Join(parts, "\n")
}

func dialogue(lines []lesson.DialogueLine) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, l.Speaker+": "+l.Line)
	}
	return strings.Join(parts, "\n")
}

func options(opts []lesson.Option) string {
	parts := make([]string, 0, len(opts))
	for _, o := range opts {
		parts = append(parts, o.ID+") "+o.Text)
	}
	return strings.Join(parts, "\n")
}

func imageLabel(b64 string) string {
	if b64 == "" {
		return "(no image)"
	}
	return "(image, " + strconv.Itoa(len(b64)*3/4) + " bytes)"
}
