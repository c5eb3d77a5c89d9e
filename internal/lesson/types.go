package lesson

type Alphabet struct {
	Character           string `json:"character" validate:"required"`
	PronunciationInBase string `json:"pronunciationInBase" validate:"required"`
}

type WordByWord struct {
	Word                string     `json:"word" validate:"required"`
	Translation         string     `json:"translation" validate:"required"`
	PronunciationInBase string     `json:"pronunciationInBase,omitempty"`
	Alphabets           []Alphabet `json:"alphabets,omitempty" validate:"dive"`
}

type DialogueLine struct {
	Speaker string `json:"speaker" validate:"required"`
	Line    string `json:"line" validate:"required"`
}

type ComparisonTable struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

type GrammarExample struct {
	Sentence            string       `json:"sentence" validate:"required"`
	PronunciationEn     string       `json:"pronunciationEn" validate:"required"`
	PronunciationInBase string       `json:"pronunciationInBase" validate:"required"`
	Meaning             string       `json:"meaning" validate:"required"`
	WordByWord          []WordByWord `json:"wordByWord" validate:"required,dive"`
	VisualizableNoun    *string      `json:"visualizableNoun"`
	ImageBytes          string       `json:"imageBytes,omitempty"`
}

type GrammarContent struct {
	Type            Kind             `json:"type"`
	Explanation     string           `json:"explanation" validate:"required"`
	Examples        []GrammarExample `json:"examples" validate:"required,min=1,dive"`
	ProTip          string           `json:"proTip" validate:"required"`
	ComparisonTable *ComparisonTable `json:"comparisonTable,omitempty"`
}

func (*GrammarContent) Kind() Kind { return KindGrammar }

type VocabularyItem struct {
	Word                       string       `json:"word" validate:"required"`
	PronunciationEn            string       `json:"pronunciationEn" validate:"required"`
	PronunciationInBase        string       `json:"pronunciationInBase" validate:"required"`
	Meaning                    string       `json:"meaning" validate:"required"`
	ExampleSentence            string       `json:"exampleSentence" validate:"required"`
	ExampleSentenceMeaning     string       `json:"exampleSentenceMeaning" validate:"required"`
	ExamplePronunciationEn     string       `json:"examplePronunciationEn" validate:"required"`
	ExamplePronunciationInBase string       `json:"examplePronunciationInBase" validate:"required"`
	ExampleWordByWord          []WordByWord `json:"exampleWordByWord" validate:"required,dive"`
	IsVisualizable             bool         `json:"isVisualizable"`
	ImageBytes                 string       `json:"imageBytes,omitempty"`
}

type VocabularyContent struct {
	Type   Kind             `json:"type"`
	Intro  string           `json:"intro" validate:"required"`
	Words  []VocabularyItem `json:"words" validate:"required,min=1,dive"`
	ProTip string           `json:"proTip,omitempty"`
}

func (*VocabularyContent) Kind() Kind { return KindVocabulary }

type ListeningContent struct {
	Type                Kind         `json:"type"`
	Instruction         string       `json:"instruction" validate:"required"`
	Paragraph           string       `json:"paragraph" validate:"required"`
	PronunciationEn     string       `json:"pronunciationEn" validate:"required"`
	PronunciationInBase string       `json:"pronunciationInBase" validate:"required"`
	Translation         string       `json:"translation" validate:"required"`
	WordByWord          []WordByWord `json:"wordByWord" validate:"required,dive"`
	ProTip              string       `json:"proTip,omitempty"`
}

func (*ListeningContent) Kind() Kind { return KindListening }

type SpeakingContent struct {
	Type                Kind         `json:"type"`
	Instruction         string       `json:"instruction" validate:"required"`
	Phrase              string       `json:"phrase" validate:"required"`
	PronunciationEn     string       `json:"pronunciationEn" validate:"required"`
	PronunciationInBase string       `json:"pronunciationInBase" validate:"required"`
	Meaning             string       `json:"meaning" validate:"required"`
	WordByWord          []WordByWord `json:"wordByWord" validate:"required,dive"`
	ProTip              string       `json:"proTip,omitempty"`
}

func (*SpeakingContent) Kind() Kind { return KindSpeaking }

// VisualContextContent always carries imageBytes, empty when drawing failed.
type VisualContextContent struct {
	Type                Kind         `json:"type"`
	Instruction         string       `json:"instruction" validate:"required"`
	ImagePrompt         string       `json:"imagePrompt,omitempty"`
	ImageBytes          string       `json:"imageBytes"`
	Paragraph           string       `json:"paragraph" validate:"required"`
	PronunciationEn     string       `json:"pronunciationEn" validate:"required"`
	PronunciationInBase string       `json:"pronunciationInBase" validate:"required"`
	Translation         string       `json:"translation" validate:"required"`
	WordByWord          []WordByWord `json:"wordByWord" validate:"required,dive"`
	ProTip              string       `json:"proTip,omitempty"`
}

func (*VisualContextContent) Kind() Kind { return KindVisualContext }

type StoryboardScene struct {
	SceneNumber         int          `json:"sceneNumber"`
	ImagePrompt         string       `json:"imagePrompt,omitempty"`
	ImageBytes          string       `json:"imageBytes"`
	Paragraph           string       `json:"paragraph" validate:"required"`
	PronunciationEn     string       `json:"pronunciationEn" validate:"required"`
	PronunciationInBase string       `json:"pronunciationInBase" validate:"required"`
	Translation         string       `json:"translation" validate:"required"`
	WordByWord          []WordByWord `json:"wordByWord" validate:"required,dive"`
	ProTip              string       `json:"proTip,omitempty"`
}

type StoryboardContent struct {
	Type   Kind              `json:"type"`
	Title  string            `json:"title" validate:"required"`
	Scenes []StoryboardScene `json:"scenes" validate:"required,min=1,dive"`
}

func (*StoryboardContent) Kind() Kind { return KindStoryboard }

type QuizContent struct {
	Type              Kind       `json:"type"`
	Intro             string     `json:"intro" validate:"required"`
	ComprehensionText string     `json:"comprehensionText,omitempty"`
	Questions         []Question `json:"questions" validate:"required,min=1,dive"`
}

func (*QuizContent) Kind() Kind { return KindQuiz }

type SituationalPracticeInitContent struct {
	Type        Kind   `json:"type"`
	Title       string `json:"title" validate:"required"`
	Instruction string `json:"instruction" validate:"required"`
}

func (*SituationalPracticeInitContent) Kind() Kind { return KindSituationalPracticeInit }

type KeyPhrase struct {
	Phrase  string `json:"phrase" validate:"required"`
	Meaning string `json:"meaning" validate:"required"`
}

type SituationalAdvice struct {
	Advice          string         `json:"advice" validate:"required"`
	KeyPhrases      []KeyPhrase    `json:"keyPhrases" validate:"required,dive"`
	ExampleDialogue []DialogueLine `json:"exampleDialogue" validate:"required,dive"`
}

type SituationalPracticeResponseContent struct {
	Type      Kind              `json:"type"`
	Situation string            `json:"situation"`
	Response  SituationalAdvice `json:"response"`
}

func (*SituationalPracticeResponseContent) Kind() Kind { return KindSituationalPracticeResponse }

type RolePlayScenario struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	UserPersona string `json:"userPersona" validate:"required"`
	AIPersona   string `json:"aiPersona" validate:"required"`
	OpeningLine string `json:"openingLine" validate:"required"`
}

type RolePlaySetupContent struct {
	Type      Kind               `json:"type"`
	Scenarios []RolePlayScenario `json:"scenarios" validate:"required,min=1,dive"`
}

func (*RolePlaySetupContent) Kind() Kind { return KindRolePlaySetup }

type AITutorInitContent struct {
	Type           Kind   `json:"type"`
	InitialMessage string `json:"initialMessage" validate:"required"`
	TutorPersona   string `json:"tutorPersona" validate:"required"`
}

func (*AITutorInitContent) Kind() Kind { return KindAITutorInit }

// TopicDetails is one enriched topic name.
type TopicDetails struct {
	OriginalTopic         string `json:"originalTopic" validate:"required"`
	TopicInTargetLanguage string `json:"topicInTargetLanguage" validate:"required"`
	TopicInBaseLanguage   string `json:"topicInBaseLanguage" validate:"required"`
	PronunciationEn       string `json:"pronunciationEn"`
	PronunciationInBase   string `json:"pronunciationInBase"`
}

// LanguageDetails describes a learnable language.
type LanguageDetails struct {
	Name           string `json:"name"`
	NativeName     string `json:"nativeName" validate:"required"`
	Emoji          string `json:"emoji"`
	TTSCode        string `json:"ttsCode" validate:"required"`
	IsCustom       bool   `json:"isCustom,omitempty"`
	Greeting       string `json:"greeting,omitempty"`
	GreetingInBase string `json:"greetingInBase,omitempty"`
}

// Feedback is the grammar check attached to a role-play reply.
type Feedback struct {
	HasError          bool   `json:"hasError"`
	CorrectedSentence string `json:"correctedSentence"`
	Explanation       string `json:"explanation"`
	PronunciationTip  string `json:"pronunciationTip,omitempty"`
}

type RolePlayReply struct {
	Response string    `json:"response" validate:"required"`
	Feedback *Feedback `json:"feedback,omitempty"`
}
