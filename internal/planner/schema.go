package planner

import (
	"fmt"

	"github.com/harunnryd/verblume/internal/lesson"
	"github.com/harunnryd/verblume/internal/model/contract"
)

const imagePromptDescription = "A detailed, SFW, photorealistic image prompt for an image generation model"

func discriminator(k lesson.Kind) *contract.Schema {
	return &contract.Schema{Type: contract.TypeString, Enum: []string{k.String()}}
}

func wordByWordSchema(base string) *contract.Schema {
	alphabet := contract.Object(map[string]*contract.Schema{
		"character":           contract.String("A single character/alphabet from the word."),
		"pronunciationInBase": contract.String(fmt.Sprintf("The %s pronunciation of this single character.", base)),
	}, "character", "pronunciationInBase")

	word := contract.Object(map[string]*contract.Schema{
		"word":                contract.String("A word from the source sentence/paragraph."),
		"translation":         contract.String(fmt.Sprintf("The %s translation of the word.", base)),
		"pronunciationInBase": contract.String(fmt.Sprintf("OPTIONAL: For non-English/Hindi languages, the pronunciation of the word in %s script.", base)),
		"alphabets": contract.ArrayOf(alphabet,
			fmt.Sprintf("OPTIONAL: For non-English/Hindi languages, a breakdown of each character in the word and its %s pronunciation.", base)),
	}, "word", "translation")

	return contract.ArrayOf(word, fmt.Sprintf("A word-by-word breakdown with %s translations.", base))
}

func proTipSchema(base string) *contract.Schema {
	return contract.String(fmt.Sprintf("OPTIONAL: A helpful 'Pro Tip' in %s about grammar, usage, or culture related to the lesson.", base))
}

func phonetics(subject, base string) (*contract.Schema, *contract.Schema) {
	return contract.String(fmt.Sprintf("Phonetic guide for %s using English letters.", subject)),
		contract.String(fmt.Sprintf("Phonetic guide for %s using %s script.", subject, base))
}

func grammarSchema(base string) *contract.Schema {
	pronEn, pronBase := phonetics("the sentence", base)
	example := contract.Object(map[string]*contract.Schema{
		"sentence":            contract.String("The example sentence in the target language."),
		"pronunciationEn":     pronEn,
		"pronunciationInBase": pronBase,
		"meaning":             contract.String(fmt.Sprintf("The complete meaning of the sentence in %s.", base)),
		"wordByWord":          wordByWordSchema(base),
		"visualizableNoun":    contract.String("A single, concrete, easily visualizable noun from the sentence. If none, this MUST be null.").AsNullable(),
	}, "sentence", "pronunciationEn", "pronunciationInBase", "meaning", "wordByWord", "visualizableNoun")

	table := contract.Object(map[string]*contract.Schema{
		"headers": contract.ArrayOf(contract.String(""), ""),
		"rows":    contract.ArrayOf(contract.ArrayOf(contract.String(""), ""), ""),
	}).WithDescription("OPTIONAL: A comparison table to contrast related concepts. This MUST be included if the topic is inherently comparative (e.g., comparing verb tenses, articles, prepositions). The table should have clear headers and rows with examples to highlight the differences. For example, headers could be ['Concept', 'Use Case', 'Example'].")

	return contract.Object(map[string]*contract.Schema{
		"type":            discriminator(lesson.KindGrammar),
		"explanation":     contract.String(fmt.Sprintf("Explain the grammar rule in detail. This explanation MUST be in %s.", base)),
		"examples":        contract.ArrayOf(example, "Provide 2-3 clear example sentences in the target language."),
		"proTip":          contract.String(fmt.Sprintf("A helpful 'Pro Tip' in %s.", base)),
		"comparisonTable": table,
	}, "type", "explanation", "examples", "proTip")
}

func vocabularySchema(base string) *contract.Schema {
	pronEn, pronBase := phonetics("the word", base)
	exEn, exBase := phonetics("the example sentence", base)
	word := contract.Object(map[string]*contract.Schema{
		"word":                       contract.String("The vocabulary word in the target language."),
		"pronunciationEn":            pronEn,
		"pronunciationInBase":        pronBase,
		"meaning":                    contract.String(fmt.Sprintf("The %s meaning of the word.", base)),
		"exampleSentence":            contract.String("An example sentence using the word in the target language."),
		"exampleSentenceMeaning":     contract.String(fmt.Sprintf("The complete meaning of the example sentence in %s.", base)),
		"examplePronunciationEn":     exEn,
		"examplePronunciationInBase": exBase,
		"exampleWordByWord":          wordByWordSchema(base),
		"isVisualizable":             contract.Boolean("True if the word represents a concrete, easily visualizable object, otherwise false."),
	}, "word", "pronunciationEn", "pronunciationInBase", "meaning", "exampleSentence", "exampleSentenceMeaning",
		"examplePronunciationEn", "examplePronunciationInBase", "exampleWordByWord", "isVisualizable")

	return contract.Object(map[string]*contract.Schema{
		"type":   discriminator(lesson.KindVocabulary),
		"intro":  contract.String(fmt.Sprintf("A brief, encouraging instruction in %s.", base)),
		"words":  contract.ArrayOf(word, "A list of 3 key vocabulary words related to the sub-category."),
		"proTip": proTipSchema(base),
	}, "type", "intro", "words")
}

func paragraphLesson(kind lesson.Kind, base, paragraph string, withImage bool) *contract.Schema {
	pronEn, pronBase := phonetics("the entire paragraph", base)
	props := map[string]*contract.Schema{
		"type":                discriminator(kind),
		"instruction":         contract.String(fmt.Sprintf("A simple instruction in %s.", base)),
		"paragraph":           contract.String(paragraph),
		"pronunciationEn":     pronEn,
		"pronunciationInBase": pronBase,
		"translation":         contract.String(fmt.Sprintf("The full, accurate translation of the paragraph in %s.", base)),
		"wordByWord":          wordByWordSchema(base),
		"proTip":              proTipSchema(base),
	}
	required := []string{"type", "instruction"}
	if withImage {
		props["imagePrompt"] = contract.String(imagePromptDescription + " based on the paragraph below.")
		required = append(required, "imagePrompt")
	}
	required = append(required, "paragraph", "pronunciationEn", "pronunciationInBase", "translation", "wordByWord")
	return contract.Object(props, required...)
}

func listeningSchema(base string) *contract.Schema {
	return paragraphLesson(lesson.KindListening, base,
		"A short, interesting paragraph (2-3 sentences) in the target language about the sub-category.", false)
}

func visualContextSchema(base string) *contract.Schema {
	return paragraphLesson(lesson.KindVisualContext, base,
		"A short, interesting paragraph (2-3 sentences) in the target language describing the scene in the image prompt.", true)
}

func speakingSchema(base string) *contract.Schema {
	pronEn, pronBase := phonetics("the phrase", base)
	return contract.Object(map[string]*contract.Schema{
		"type":                discriminator(lesson.KindSpeaking),
		"instruction":         contract.String(fmt.Sprintf("A simple instruction in %s.", base)),
		"phrase":              contract.String("A common, practical question or phrase in the target language related to the sub-category."),
		"pronunciationEn":     pronEn,
		"pronunciationInBase": pronBase,
		"meaning":             contract.String(fmt.Sprintf("The meaning of the phrase in %s.", base)),
		"wordByWord":          wordByWordSchema(base),
		"proTip":              proTipSchema(base),
	}, "type", "instruction", "phrase", "pronunciationEn", "pronunciationInBase", "meaning", "wordByWord")
}

func storyboardSchema(base string) *contract.Schema {
	pronEn, pronBase := phonetics("the paragraph", base)
	scene := contract.Object(map[string]*contract.Schema{
		"sceneNumber":         contract.Integer(""),
		"imagePrompt":         contract.String(imagePromptDescription + " to create a visual for this scene."),
		"paragraph":           contract.String("A short paragraph (1-2 sentences) in the target language describing this scene's action or dialogue."),
		"pronunciationEn":     pronEn,
		"pronunciationInBase": pronBase,
		"translation":         contract.String(fmt.Sprintf("The full, accurate translation of the paragraph in %s.", base)),
		"wordByWord":          wordByWordSchema(base),
		"proTip":              proTipSchema(base),
	}, "sceneNumber", "imagePrompt", "paragraph", "pronunciationEn", "pronunciationInBase", "translation", "wordByWord")

	return contract.Object(map[string]*contract.Schema{
		"type":   discriminator(lesson.KindStoryboard),
		"title":  contract.String("A creative, short title for the story in English."),
		"scenes": contract.ArrayOf(scene, "A list of 2 to 3 scenes that tell a short story."),
	}, "type", "title", "scenes")
}

func rolePlaySchema(base string) *contract.Schema {
	scenario := contract.Object(map[string]*contract.Schema{
		"title":       contract.String("A short, catchy title for the scenario in English."),
		"description": contract.String(fmt.Sprintf("A one-sentence description of the scenario in %s.", base)),
		"userPersona": contract.String(fmt.Sprintf("The role the user will play, described in %s.", base)),
		"aiPersona":   contract.String("The role the AI will play, described in English."),
		"openingLine": contract.String("The first line the AI will say to start the conversation, in the target language."),
	}, "title", "description", "userPersona", "aiPersona", "openingLine")

	return contract.Object(map[string]*contract.Schema{
		"type":      discriminator(lesson.KindRolePlaySetup),
		"scenarios": contract.ArrayOf(scenario, "A list of 2 to 3 distinct role-playing scenarios."),
	}, "type", "scenarios")
}

func tutorSchema(language, subCategory string) *contract.Schema {
	return contract.Object(map[string]*contract.Schema{
		"type":           discriminator(lesson.KindAITutorInit),
		"initialMessage": contract.String(fmt.Sprintf("An engaging opening question or greeting in %s to start a conversation about %s.", language, subCategory)),
		"tutorPersona":   contract.String("A short description of the tutor's personality (e.g., 'Friendly & Patient', 'Strict but Fair')."),
	}, "type", "initialMessage", "tutorPersona")
}

func quizSchema(base string, allowed []lesson.QuestionFormat) *contract.Schema {
	formats := make([]string, 0, len(allowed))
	for _, f := range allowed {
		formats = append(formats, string(f))
	}

	idText := func(description string) *contract.Schema {
		return contract.ArrayOf(contract.Object(map[string]*contract.Schema{
			"id":   contract.String(""),
			"text": contract.String(""),
		}), description)
	}

	question := contract.Object(map[string]*contract.Schema{
		"questionType":       {Type: contract.TypeString, Enum: formats, Description: "The format of the question."},
		"questionText":       contract.String("The main question or instruction text in the target language. For FILL_BLANK, it should contain '___'."),
		"questionTextInBase": contract.String(fmt.Sprintf("The question text translated into %s for clarity.", base)),
		"options":            idText(""),
		"correctAnswerId":    contract.String(""),
		"imagePrompt":        contract.String("For PICTURE_MCQ type only. " + imagePromptDescription + " that relates to the question."),
		"correctAnswer":      contract.String(""),
		"correctAnswerBool":  contract.Boolean(""),
		"jumbledWords":       contract.ArrayOf(contract.String(""), ""),
		"premises":           idText("Column A items"),
		"responses":          idText("Column B items"),
		"correctPairs":       contract.Object(nil).WithDescription("An object mapping premise IDs to response IDs."),
		"incorrectSentence":  contract.String(""),
		"dialogueContext": contract.ArrayOf(contract.Object(map[string]*contract.Schema{
			"speaker": contract.String(""),
			"line":    contract.String(""),
		}), "The lines of conversation before the blank."),
		"lineWithBlank": contract.String("The line of conversation containing the blank."),
	}, "questionType", "questionText", "questionTextInBase")

	return contract.Object(map[string]*contract.Schema{
		"type":              discriminator(lesson.KindQuiz),
		"intro":             contract.String(fmt.Sprintf("A brief, encouraging instruction in %s.", base)),
		"comprehensionText": contract.String("OPTIONAL: A paragraph for comprehension-based questions. Only include for 'Comprehension' quiz type."),
		"questions":         contract.ArrayOf(question, "A list of 2-4 questions with a mix of formats."),
	}, "type", "intro", "questions")
}

func situationalSchema(language, base string) *contract.Schema {
	advice := contract.Object(map[string]*contract.Schema{
		"advice": contract.String(fmt.Sprintf("Actionable advice for the user's situation, in %s.", base)),
		"keyPhrases": contract.ArrayOf(contract.Object(map[string]*contract.Schema{
			"phrase":  contract.String(fmt.Sprintf("A key phrase in %s.", language)),
			"meaning": contract.String(fmt.Sprintf("The meaning of the phrase in %s.", base)),
		}, "phrase", "meaning"), ""),
		"exampleDialogue": contract.ArrayOf(contract.Object(map[string]*contract.Schema{
			"speaker": contract.String(""),
			"line":    contract.String(fmt.Sprintf("A line of dialogue in %s.", language)),
		}, "speaker", "line"), ""),
	}, "advice", "keyPhrases", "exampleDialogue")

	return contract.Object(map[string]*contract.Schema{
		"type":     discriminator(lesson.KindSituationalPracticeResponse),
		"response": advice,
	}, "type", "response")
}

func conceptSchema(language, subCategory string) *contract.Schema {
	return contract.Object(map[string]*contract.Schema{
		"correctTerm": contract.String(fmt.Sprintf("A single, concrete, easily visualizable noun in %s related to %s.", language, subCategory)),
		"distractors": contract.ArrayOf(contract.String(""),
			fmt.Sprintf("Three other plausible but incorrect nouns in %s, from the same general domain.", language)),
	}, "correctTerm", "distractors")
}

func subCategorySchema() *contract.Schema {
	return contract.Object(map[string]*contract.Schema{
		"subCategories": contract.ArrayOf(contract.String(""), "An array of 5 to 8 distinct string values for the sub-topics."),
	}, "subCategories")
}

func languageDetailsSchema() *contract.Schema {
	return contract.Object(map[string]*contract.Schema{
		"nativeName":     contract.String("The name of the language in the requested base language."),
		"emoji":          contract.String("A single, representative emoji for the language."),
		"ttsCode":        contract.String("The BCP-47 language tag for Text-to-Speech (e.g., 'ja-JP' for Japanese)."),
		"greeting":       contract.String("A common greeting or short friendly phrase in the language."),
		"greetingInBase": contract.String("The meaning of the greeting in the base language."),
	}, "nativeName", "emoji", "ttsCode", "greeting", "greetingInBase")
}

func topicDetailsSchema() *contract.Schema {
	topic := contract.Object(map[string]*contract.Schema{
		"originalTopic":         contract.String("The original English topic name provided in the input."),
		"topicInTargetLanguage": contract.String("The topic name accurately translated into the target language."),
		"topicInBaseLanguage":   contract.String("The topic name accurately translated into the base language."),
		"pronunciationEn":       contract.String("Phonetic guide for the target language topic name, using English letters."),
		"pronunciationInBase":   contract.String("Phonetic guide for the target language topic name, using the base language's native script."),
	}, "originalTopic", "topicInTargetLanguage", "topicInBaseLanguage", "pronunciationEn", "pronunciationInBase")

	return contract.Object(map[string]*contract.Schema{
		"topics": contract.ArrayOf(topic, "An array containing details for each provided grammar topic."),
	}, "topics")
}

// schemaFor returns the response schema for a single-call mode.
func schemaFor(kind lesson.Kind, spec RequestSpec) *contract.Schema {
	base := spec.BaseLanguage
	switch kind {
	case lesson.KindGrammar:
		return grammarSchema(base)
	case lesson.KindVocabulary:
		return vocabularySchema(base)
	case lesson.KindListening:
		return listeningSchema(base)
	case lesson.KindSpeaking:
		return speakingSchema(base)
	case lesson.KindVisualContext:
		return visualContextSchema(base)
	case lesson.KindStoryboard:
		return storyboardSchema(base)
	case lesson.KindQuiz:
		return quizSchema(base, spec.Options.QuizType.QuestionFormats())
	case lesson.KindRolePlaySetup:
		return rolePlaySchema(base)
	case lesson.KindAITutorInit:
		return tutorSchema(spec.Language, spec.SubCategory)
	default:
		return nil
	}
}
