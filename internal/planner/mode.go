package planner

import (
	"fmt"
	"strings"

	apperrors "github.com/harunnryd/verblume/internal/errors"
	"github.com/harunnryd/verblume/internal/lesson"
)

type Mode string

const (
	ModeListening           Mode = "Listening"
	ModeSpeaking            Mode = "Speaking"
	ModeNewVocabulary       Mode = "New Vocabulary"
	ModeCoreGrammar         Mode = "Core Grammar"
	ModeVisualContext       Mode = "Visual Context"
	ModeStoryboard          Mode = "Storyboard Scenario"
	ModeSituationalPractice Mode = "Situational Practice"
	ModeRolePlay            Mode = "AI Role-Play"
	ModeTutor               Mode = "AI Tutor"
	ModeQuiz                Mode = "Quiz"
)

var Modes = []Mode{
	ModeListening,
	ModeSpeaking,
	ModeNewVocabulary,
	ModeCoreGrammar,
	ModeVisualContext,
	ModeStoryboard,
	ModeSituationalPractice,
	ModeRolePlay,
	ModeTutor,
	ModeQuiz,
}

type QuizType string

const (
	QuizVocabulary         QuizType = "Vocabulary"
	QuizGrammarUsage       QuizType = "Grammar Usage"
	QuizComprehension      QuizType = "Comprehension"
	QuizErrorCorrection    QuizType = "Error Correction"
	QuizMatchingPairs      QuizType = "Matching Pairs"
	QuizDialogueCompletion QuizType = "Dialogue Completion"
	QuizVisualAssociation  QuizType = "Visual Association"
	QuizMixedReview        QuizType = "Mixed Review"
)

var QuizTypes = []QuizType{
	QuizVocabulary,
	QuizGrammarUsage,
	QuizComprehension,
	QuizErrorCorrection,
	QuizMatchingPairs,
	QuizDialogueCompletion,
	QuizVisualAssociation,
	QuizMixedReview,
}

// quizFormats restricts each quiz subtype to its question formats. Subtypes
// missing here may use every format.
var quizFormats = map[QuizType][]lesson.QuestionFormat{
	QuizVocabulary:         {lesson.FormatMCQ, lesson.FormatFillBlank},
	QuizGrammarUsage:       {lesson.FormatMCQ, lesson.FormatTrueFalse},
	QuizComprehension:      {lesson.FormatMCQ, lesson.FormatTrueFalse},
	QuizErrorCorrection:    {lesson.FormatErrorCorrection},
	QuizMatchingPairs:      {lesson.FormatMatching},
	QuizDialogueCompletion: {lesson.FormatDialogueCompletion},
	QuizVisualAssociation:  {lesson.FormatPictureMCQ},
}

// QuestionFormats returns the question formats a quiz of this subtype may use.
func (q QuizType) QuestionFormats() []lesson.QuestionFormat {
	if formats, ok := quizFormats[q]; ok {
		return formats
	}
	return lesson.QuestionFormats
}

// checkQuizFormats rejects a quiz holding a question its subtype does not allow.
func checkQuizFormats(quiz *lesson.QuizContent, quizType QuizType) error {
	allowed := quizType.QuestionFormats()
	for i, q := range quiz.Questions {
		ok := false
		for _, f := range allowed {
			if q.QuestionType == f {
				ok = true
				break
			}
		}
		if !ok {
			return apperrors.InvalidModelOutput(fmt.Sprintf("questions[%d]: %s quiz cannot use %s questions", i, quizType, q.QuestionType))
		}
	}
	return nil
}

type Tone string

var Tones = []Tone{
	"Professional", "Conversational", "Sarcastic", "Formal", "Informal",
	"Poetic", "Humorous", "Cinematic", "Inspirational", "Mysterious",
	"Playful", "Dark", "Assertive", "Empathetic", "Motivational",
	"Explanatory", "Narrative", "Reflective", "Dramatic", "Promotional",
}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

var Difficulties = []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

// Options are the mode-specific knobs of a request. Zero values mean unset.
type Options struct {
	QuizType   QuizType   `json:"quizType,omitempty"`
	Tone       Tone       `json:"tone,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
}

// RequestSpec describes one generation request. It is built per user action
// and not retained after the call returns.
type RequestSpec struct {
	Language     string
	BaseLanguage string
	Category     string
	SubCategory  string
	Mode         Mode
	History      []lesson.Payload
	Options      Options
}

// Validate checks the fields every mode needs and the option values.
func (s RequestSpec) Validate() error {
	var missing []string
	if strings.TrimSpace(s.Language) == "" {
		missing = append(missing, "language")
	}
	if strings.TrimSpace(s.BaseLanguage) == "" {
		missing = append(missing, "baseLanguage")
	}
	if strings.TrimSpace(s.SubCategory) == "" && s.Mode != ModeSituationalPractice {
		missing = append(missing, "subCategory")
	}
	if len(missing) > 0 {
		return apperrors.InvalidInput("missing " + strings.Join(missing, ", "))
	}

	if s.Options.Tone != "" && !contains(Tones, s.Options.Tone) {
		return apperrors.InvalidInput(fmt.Sprintf("unknown tone %q", s.Options.Tone))
	}
	if s.Options.Difficulty != "" && !contains(Difficulties, s.Options.Difficulty) {
		return apperrors.InvalidInput(fmt.Sprintf("unknown difficulty %q", s.Options.Difficulty))
	}
	return nil
}

// ContractFor maps a mode (and, for quizzes, its subtype) to the payload
// variant it produces. Unknown combinations fail with ErrUnsupportedMode.
func ContractFor(mode Mode, quizType QuizType) (lesson.Kind, error) {
	switch mode {
	case ModeListening:
		return lesson.KindListening, nil
	case ModeSpeaking:
		return lesson.KindSpeaking, nil
	case ModeNewVocabulary:
		return lesson.KindVocabulary, nil
	case ModeCoreGrammar:
		return lesson.KindGrammar, nil
	case ModeVisualContext:
		return lesson.KindVisualContext, nil
	case ModeStoryboard:
		return lesson.KindStoryboard, nil
	case ModeSituationalPractice:
		return lesson.KindSituationalPracticeInit, nil
	case ModeRolePlay:
		return lesson.KindRolePlaySetup, nil
	case ModeTutor:
		return lesson.KindAITutorInit, nil
	case ModeQuiz:
		if quizType == "" {
			return "", apperrors.UnsupportedMode("quiz type is required for Quiz mode")
		}
		if !contains(QuizTypes, quizType) {
			return "", apperrors.UnsupportedMode(fmt.Sprintf("unsupported quiz type %q", quizType))
		}
		return lesson.KindQuiz, nil
	default:
		return "", apperrors.UnsupportedMode(fmt.Sprintf("unsupported learning mode %q", mode))
	}
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
