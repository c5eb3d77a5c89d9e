package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/harunnryd/verblume/internal/errors"
	"github.com/harunnryd/verblume/internal/lesson"
)

const basePromptTemplate = `You are an expert language tutor creating a structured JSON lesson for a user who speaks %[1]s and wants to learn %[2]s. The topic is Category '%[3]s', Sub-Category '%[4]s'. %[5]s All explanations, instructions, and meanings MUST be in clear, accessible %[1]s.
CRITICAL RULE FOR WORD-BY-WORD: For any sentence, phrase, or paragraph you generate in the target language, you MUST also provide a complete, word-by-word breakdown with its corresponding %[1]s translation (in the 'wordByWord' or 'exampleWordByWord' field).
IMPORTANT DETAIL: For languages OTHER THAN English and Hindi, for each word in the breakdown, you MUST ALSO provide a %[1]s pronunciation for the full word ('pronunciationInBase') AND a breakdown of each alphabet in the word with its %[1]s pronunciation ('alphabets'). For English and Hindi, these 'pronunciationInBase' and 'alphabets' fields MUST be omitted entirely.
Where relevant, also provide a helpful 'Pro Tip' in %[1]s.`

func difficultyInstruction(d Difficulty) string {
	if d == "" {
		return "The difficulty level is not specified, assume an intermediate level."
	}
	return fmt.Sprintf("The lesson MUST be tailored for a '%s' level.", d)
}

func basePrompt(spec RequestSpec) string {
	return fmt.Sprintf(basePromptTemplate,
		spec.BaseLanguage, spec.Language, spec.Category, spec.SubCategory,
		difficultyInstruction(spec.Options.Difficulty))
}

// noveltyInstruction embeds prior payloads so the service avoids repeating them.
func noveltyInstruction(history []lesson.Payload) (string, error) {
	if len(history) == 0 {
		return "", nil
	}

	encoded := make([]json.RawMessage, 0, len(history))
	for _, p := range history {
		raw, err := lesson.Encode(p)
		if err != nil {
			return "", apperrors.InvalidInput(fmt.Sprintf("history entry cannot be encoded: %v", err))
		}
		encoded = append(encoded, raw)
	}
	all, err := json.Marshal(encoded)
	if err != nil {
		return "", apperrors.InvalidInput(fmt.Sprintf("history cannot be encoded: %v", err))
	}
	return "\n\nCRITICAL INSTRUCTION: You have already provided the following content. Generate a new, different response. Do not repeat any of the following: " + string(all), nil
}

func quizFocus(quizType QuizType, difficulty Difficulty) string {
	var b strings.Builder
	b.WriteString("IMPORTANT: Quizzes do not need word-by-word breakdowns or pro-tips.")

	switch difficulty {
	case DifficultyBeginner:
		b.WriteString(" For this 'Beginner' level quiz, all questions must be simple, direct, and test fundamental knowledge.")
	case DifficultyIntermediate:
		b.WriteString(" For this 'Intermediate' level quiz, questions should require some inference or understanding of nuance.")
	case DifficultyAdvanced:
		b.WriteString(" For this 'Advanced' level quiz, questions must be challenging, testing subtle grammar points or idiomatic expressions.")
	}

	switch quizType {
	case QuizVocabulary:
		b.WriteString(" This is a Vocabulary quiz. Focus on definitions, synonyms, antonyms, and using the correct word in a sentence. Use question types: MCQ, FILL_BLANK.")
	case QuizGrammarUsage:
		b.WriteString(" This is a Grammar Usage quiz. Focus on applying grammar rules correctly. Use question types: MCQ, TRUE_FALSE.")
	case QuizComprehension:
		b.WriteString(" This is a Comprehension quiz. FIRST, create a short paragraph (as `comprehensionText`). THEN, create questions (MCQ, TRUE_FALSE) that can ONLY be answered by reading it.")
	case QuizErrorCorrection:
		b.WriteString(" This is an Error Correction quiz. ONLY use the 'ERROR_CORRECTION' question type.")
	case QuizMatchingPairs:
		b.WriteString(" This is a Matching Pairs quiz. ONLY use the 'MATCHING' question type.")
	case QuizDialogueCompletion:
		b.WriteString(" This is a Dialogue Completion quiz. ONLY use the 'DIALOGUE_COMPLETION' question type.")
	case QuizMixedReview:
		b.WriteString(" This is a Mixed Review quiz. Use a wide mix of ALL available question formats. For PICTURE_MCQ questions, you MUST provide a detailed `imagePrompt`.")
	}
	return b.String()
}

// buildPrompt assembles the instruction for a single-call mode.
func buildPrompt(spec RequestSpec) (string, error) {
	base := basePrompt(spec)

	novelty := ""
	if spec.Mode != ModeQuiz {
		var err error
		if novelty, err = noveltyInstruction(spec.History); err != nil {
			return "", err
		}
	}

	var body string
	switch spec.Mode {
	case ModeTutor:
		body = fmt.Sprintf("The user wants an 'AI Tutor' session. Create an initial state for a conversation about '%s'. The tutor should be helpful and correct mistakes.", spec.SubCategory)
	case ModeRolePlay:
		body = fmt.Sprintf("The user wants to do an 'AI Role-Play'. Create 2-3 distinct, engaging role-playing scenarios related to the sub-category. Follow the JSON schema precisely. Each scenario needs personas for the user and AI, and a good opening line for the AI to start the conversation in %s.", spec.Language)
	case ModeStoryboard:
		tone := "The tone should be neutral and narrative."
		if spec.Options.Tone != "" {
			tone = fmt.Sprintf("The story MUST be written in a %s tone.", spec.Options.Tone)
		}
		body = "The user wants a 'Storyboard Scenario'. Create a short, engaging 2-3 scene story related to the sub-category. " + tone + " Follow the JSON schema precisely."
	case ModeVisualContext:
		tone := "The tone should be neutral and descriptive."
		if spec.Options.Tone != "" {
			tone = fmt.Sprintf("The paragraph MUST be written in a %s tone.", spec.Options.Tone)
		}
		body = "The user wants a 'Visual Context' lesson. Create content according to the JSON schema. The paragraph must describe a vivid scene related to the sub-category, and the imagePrompt must be a good prompt to generate a picture of that scene. " + tone
	case ModeCoreGrammar:
		body = fmt.Sprintf("The user is studying 'Core Grammar' on the topic '%s'. Create a detailed lesson according to the provided JSON schema. CRITICAL: If the grammar topic involves comparing or contrasting related concepts (e.g., different verb tenses, articles 'a' vs 'an', or prepositions 'in' vs 'on'), you MUST provide a 'comparisonTable' to clearly illustrate the differences with examples. For each example sentence in the main lesson, identify a single 'visualizableNoun' if one exists (otherwise null).", spec.SubCategory)
	case ModeNewVocabulary:
		body = fmt.Sprintf("The user wants to learn 'New Vocabulary'. Create a lesson with 3 new words according to the JSON schema. For each word, determine if it is 'isVisualizable'. Ensure each example sentence has a clear, corresponding translation in %s.", spec.BaseLanguage)
	case ModeListening:
		body = "The user wants to practice 'Listening'. Create a lesson with a short paragraph according to the JSON schema."
	case ModeSpeaking:
		body = "The user wants to practice 'Speaking'. Create a lesson with a practical phrase to repeat, according to the JSON schema."
	case ModeQuiz:
		body = fmt.Sprintf("The user wants to take a '%s Quiz'. %s Create a quiz with 2-4 questions based on the JSON schema. Questions must be in %s, but provide a %s translation for the question text itself for clarity.",
			spec.Options.QuizType, quizFocus(spec.Options.QuizType, spec.Options.Difficulty), spec.Language, spec.BaseLanguage)
	default:
		return "", apperrors.UnsupportedMode(fmt.Sprintf("unsupported learning mode %q", spec.Mode))
	}

	return base + " " + body + novelty, nil
}

func imagePromptForTerm(term, context string) string {
	return fmt.Sprintf(`A clear, high-quality, photorealistic image of a "%s" in the context of %s. No text, no logos, just the object or scene.`, term, context)
}

func conceptPrompt(language, subCategory string) string {
	return fmt.Sprintf(`Generate one concrete noun and three distractor nouns in %s for a visual quiz about "%s". Return a JSON object matching the schema.`, language, subCategory)
}

func situationalPrompt(language, base, situation string) string {
	return fmt.Sprintf(`A user who speaks %[2]s is learning %[1]s and needs help with a real-world situation. Situation: "%[3]s". Provide a structured JSON response containing: 1. 'advice' in clear %[2]s. 2. A list of 'keyPhrases' in %[1]s with their %[2]s meanings. 3. A short 'exampleDialogue' in %[1]s demonstrating the phrases. Follow the provided JSON schema precisely.`,
		language, base, situation)
}

func subCategoryPrompt(category string) string {
	return fmt.Sprintf(`Generate a list of 5 to 8 relevant sub-category topics for the main category: "%s". Return a JSON object matching the required schema.`, category)
}

func languageDetailsPrompt(name, base string) string {
	return fmt.Sprintf(`For the language "%[1]s", provide its name in the %[2]s language, a single suitable emoji, its standard BCP-47 TTS code, and a common greeting with its meaning in %[2]s. Return a JSON object matching the schema.`, name, base)
}

func explanationPrompt(language, base string, questionText string, userAnswer, correctAnswer any) string {
	return fmt.Sprintf("A user is learning %[1]s and answered a quiz question incorrectly. The user needs a concise explanation in %[2]s about why their answer was wrong and why the correct answer is right. Question: %[3]s. User's Answer: %[4]s. Correct Answer: %[5]s. Provide a short, clear explanation in %[2]s.",
		language, base, jsonText(questionText), jsonText(userAnswer), jsonText(correctAnswer))
}

func topicBatchPrompt(topics []string, language, base string) string {
	return fmt.Sprintf(`You are a linguistics expert. For the following list of English grammar topics, provide translations and phonetic guides.
Target Language: %s
Base Language: %s

For each topic, provide:
1. The translation in the target language.
2. The translation in the base language.
3. A phonetic pronunciation guide for the target language translation using simple English letters.
4. A phonetic pronunciation guide for the target language translation using the native script of the base language.

List of topics:
%s

Return the data as a JSON object matching the provided schema. Ensure every original topic from the list is present in the response.`,
		language, base, strings.Join(topics, "\n"))
}

func rolePlayInstruction(s lesson.RolePlayScenario, language, base string) string {
	return fmt.Sprintf(`You are playing the role of: %[1]s. The user is playing the role of: %[2]s. Your conversation should be in %[3]s. You must also provide feedback on the user's grammar. Respond with a JSON object: {"response": "your response text...", "feedback": {"hasError": boolean, "correctedSentence": "...", "explanation": "..."}}. The feedback explanation MUST be in %[4]s. If there's no error, set hasError to false and other fields to empty strings. Start the conversation with your opening line now.`,
		s.AIPersona, s.UserPersona, language, base)
}

func tutorInstruction(t lesson.AITutorInitContent, subCategory, language, base string) string {
	return fmt.Sprintf(`You are a language tutor with this personality: %[1]s. You are having a conversation in %[2]s with a learner who speaks %[3]s about '%[4]s'. Keep each reply short and in %[2]s, and end with a question that keeps the conversation going. When the learner makes a mistake, show the corrected sentence and explain the correction briefly in %[3]s. You opened the conversation with: %[5]s`,
		t.TutorPersona, language, base, subCategory, t.InitialMessage)
}

func jsonText(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}
