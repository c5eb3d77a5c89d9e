package lesson

// Kind is the discriminator carried in every payload's "type" field.
type Kind string

const (
	KindGrammar                     Kind = "grammar"
	KindVocabulary                  Kind = "vocabulary"
	KindListening                   Kind = "listening"
	KindSpeaking                    Kind = "speaking"
	KindVisualContext               Kind = "visual_context"
	KindStoryboard                  Kind = "storyboard"
	KindQuiz                        Kind = "quiz"
	KindSituationalPracticeInit     Kind = "situational_practice_init"
	KindSituationalPracticeResponse Kind = "situational_practice_response"
	KindRolePlaySetup               Kind = "role_play_setup"
	KindAITutorInit                 Kind = "ai_tutor_init"
)

// Kinds lists every payload variant.
var Kinds = []Kind{
	KindGrammar,
	KindVocabulary,
	KindListening,
	KindSpeaking,
	KindVisualContext,
	KindStoryboard,
	KindQuiz,
	KindSituationalPracticeInit,
	KindSituationalPracticeResponse,
	KindRolePlaySetup,
	KindAITutorInit,
}

func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}

// Payload is one generated lesson. The concrete type is fixed by Kind.
type Payload interface {
	Kind() Kind
}

// newPayload returns an empty payload for k, or nil when k is not a variant.
func newPayload(k Kind) Payload {
	switch k {
	case KindGrammar:
		return &GrammarContent{}
	case KindVocabulary:
		return &VocabularyContent{}
	case KindListening:
		return &ListeningContent{}
	case KindSpeaking:
		return &SpeakingContent{}
	case KindVisualContext:
		return &VisualContextContent{}
	case KindStoryboard:
		return &StoryboardContent{}
	case KindQuiz:
		return &QuizContent{}
	case KindSituationalPracticeInit:
		return &SituationalPracticeInitContent{}
	case KindSituationalPracticeResponse:
		return &SituationalPracticeResponseContent{}
	case KindRolePlaySetup:
		return &RolePlaySetupContent{}
	case KindAITutorInit:
		return &AITutorInitContent{}
	default:
		return nil
	}
}
