package lesson

import (
	"encoding/json"
	"testing"

	apperrors "github.com/harunnryd/verblume/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const speakingBody = `{
  "type": "speaking",
  "instruction": "Repeat after me",
  "phrase": "Buenos días",
  "pronunciationEn": "bweh-nos dee-as",
  "pronunciationInBase": "bweh-nos dee-as",
  "meaning": "Good morning",
  "wordByWord": [{"word": "Buenos", "translation": "Good"}, {"word": "días", "translation": "days"}]
}`

func TestDecodeSpeaking(t *testing.T) {
	p, err := Decode(KindSpeaking, []byte(speakingBody))
	require.NoError(t, err)

	speaking, ok := p.(*SpeakingContent)
	require.True(t, ok)
	assert.Equal(t, "Buenos días", speaking.Phrase)
	assert.Len(t, speaking.WordByWord, 2)
	assert.Empty(t, speaking.ProTip)
}

func TestDecodeStripsCodeFence(t *testing.T) {
	p, err := Decode(KindSpeaking, []byte("```json\n"+speakingBody+"\n```"))
	require.NoError(t, err)
	assert.Equal(t, KindSpeaking, p.Kind())
}

func TestDecodeMissingDiscriminatorUsesExpected(t *testing.T) {
	body := `{"title": "Situational Practice", "instruction": "Describe a situation."}`

	p, err := Decode(KindSituationalPracticeInit, []byte(body))
	require.NoError(t, err)

	practice := p.(*SituationalPracticeInitContent)
	assert.Equal(t, KindSituationalPracticeInit, practice.Type)

	_, err = Decode("", []byte(body))
	assert.ErrorIs(t, err, apperrors.ErrInvalidModelOutput)
}

func TestDecodeRejectsUnknownAndMismatchedKinds(t *testing.T) {
	_, err := Decode("", []byte(`{"type": "poetry"}`))
	assert.ErrorIs(t, err, apperrors.ErrInvalidModelOutput)

	_, err = Decode(KindQuiz, []byte(speakingBody))
	assert.ErrorIs(t, err, apperrors.ErrInvalidModelOutput)
	assert.Contains(t, err.Error(), `"quiz"`)
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode(KindSpeaking, []byte(`{"type": "speaking",`))
	assert.ErrorIs(t, err, apperrors.ErrInvalidModelOutput)
}

func TestDecodeRejectsMissingRequiredField(t *testing.T) {
	body := `{"type": "speaking", "instruction": "Repeat", "pronunciationEn": "x", "pronunciationInBase": "x", "meaning": "m", "wordByWord": []}`

	_, err := Decode(KindSpeaking, []byte(body))
	require.ErrorIs(t, err, apperrors.ErrInvalidModelOutput)
	assert.Contains(t, err.Error(), "phrase")
}

func TestDecodeQuizNormalizesTrueFalse(t *testing.T) {
	body := `{
	  "type": "quiz",
	  "intro": "Let's check",
	  "questions": [
	    {"questionType": "TRUE_FALSE", "questionText": "El gato es un perro.", "questionTextInBase": "The cat is a dog.", "correctAnswer": "False"},
	    {"questionType": "TRUE_FALSE", "questionText": "Hola significa hello.", "questionTextInBase": "Hola means hello.", "correctAnswerBool": "true"},
	    {"questionType": "TRUE_FALSE", "questionText": "Uno es one.", "questionTextInBase": "Uno is one.", "correctAnswer": "TRUE"}
	  ]
	}`

	p, err := Decode(KindQuiz, []byte(body))
	require.NoError(t, err)

	quiz := p.(*QuizContent)
	require.Len(t, quiz.Questions, 3)

	v, ok := quiz.Questions[0].BoolAnswer()
	assert.True(t, ok)
	assert.False(t, v)
	assert.Nil(t, quiz.Questions[0].CorrectAnswer)

	v, ok = quiz.Questions[1].BoolAnswer()
	assert.True(t, ok)
	assert.True(t, v)

	v, _ = quiz.Questions[2].BoolAnswer()
	assert.True(t, v)
	assert.Equal(t, "True", quiz.Questions[2].CorrectText())
}

func TestNormalizeTrueFalse(t *testing.T) {
	answer := func(s string) *FlexString { v := FlexString(s); return &v }
	explicit := FlexBool(true)

	q := Question{QuestionType: FormatTrueFalse, CorrectAnswer: answer("false"), CorrectAnswerBool: &explicit}
	q.Normalize()
	v, ok := q.BoolAnswer()
	require.True(t, ok)
	assert.True(t, v)
	assert.Nil(t, q.CorrectAnswer)

	q = Question{QuestionType: FormatTrueFalse, CorrectAnswer: answer("verdadero")}
	q.Normalize()
	_, ok = q.BoolAnswer()
	assert.False(t, ok)
	assert.Error(t, q.Check())
}

func TestDecodeQuizRejectsUnparsableTrueFalse(t *testing.T) {
	body := `{"type": "quiz", "intro": "Go", "questions": [
	  {"questionType": "TRUE_FALSE", "questionText": "q", "questionTextInBase": "q", "correctAnswer": "yes"}
	]}`
	_, err := Decode(KindQuiz, []byte(body))
	require.ErrorIs(t, err, apperrors.ErrInvalidModelOutput)
	assert.Contains(t, err.Error(), "correctAnswerBool")
}

func TestDecodeQuizChecksFormatFields(t *testing.T) {
	body := `{
	  "type": "quiz",
	  "intro": "Pick one",
	  "questions": [
	    {"questionType": "MCQ", "questionText": "q", "questionTextInBase": "q",
	     "options": [{"id": "A", "text": "uno"}, {"id": "B", "text": "dos"}], "correctAnswerId": "C"}
	  ]
	}`

	_, err := Decode(KindQuiz, []byte(body))
	require.ErrorIs(t, err, apperrors.ErrInvalidModelOutput)
	assert.Contains(t, err.Error(), "question 1")

	_, err = Decode(KindQuiz, []byte(`{"type": "quiz", "intro": "x", "questions": [{"questionType": "ESSAY", "questionText": "q", "questionTextInBase": "q"}]}`))
	assert.ErrorIs(t, err, apperrors.ErrInvalidModelOutput)
}

func TestCorrectText(t *testing.T) {
	answer := FlexString("fui")
	cases := []struct {
		name string
		q    Question
		want string
	}{
		{
			name: "mcq",
			q: Question{QuestionType: FormatMCQ, CorrectAnswerID: "B",
				Options: []Option{{ID: "A", Text: "uno"}, {ID: "B", Text: "dos"}}},
			want: "dos",
		},
		{name: "matching", q: Question{QuestionType: FormatMatching}, want: "See correct pairs below."},
		{name: "fill blank", q: Question{QuestionType: FormatFillBlank, CorrectAnswer: &answer}, want: "fui"},
		{name: "true false without answer", q: Question{QuestionType: FormatTrueFalse}, want: "False"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.q.CorrectText())
		})
	}
}

func TestFlexStringAcceptsScalars(t *testing.T) {
	var q Question
	require.NoError(t, json.Unmarshal([]byte(`{"questionType": "FILL_BLANK", "correctAnswer": 42}`), &q))
	assert.Equal(t, "42", q.Answer())

	err := json.Unmarshal([]byte(`{"correctAnswer": {"a": 1}}`), &q)
	assert.Error(t, err)
}

func TestEncodeSetsDiscriminatorAndKeepsImageBytes(t *testing.T) {
	story := &StoryboardContent{
		Title: "At the market",
		Scenes: []StoryboardScene{{
			SceneNumber: 1, Paragraph: "p", PronunciationEn: "p", PronunciationInBase: "p",
			Translation: "t", WordByWord: []WordByWord{},
		}},
	}

	raw, err := Encode(story)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Equal(t, "storyboard", generic["type"])

	scene := generic["scenes"].([]any)[0].(map[string]any)
	imageBytes, present := scene["imageBytes"]
	assert.True(t, present)
	assert.Equal(t, "", imageBytes)

	back, err := Decode("", raw)
	require.NoError(t, err)
	assert.Equal(t, story, back)
}

func TestDecodeIntoValidates(t *testing.T) {
	var reply RolePlayReply
	err := DecodeInto([]byte(`{"response": "¡Claro!", "feedback": {"hasError": false, "correctedSentence": "", "explanation": ""}}`), &reply)
	require.NoError(t, err)
	assert.Equal(t, "¡Claro!", reply.Response)
	require.NotNil(t, reply.Feedback)

	var empty RolePlayReply
	err = DecodeInto([]byte(`{"feedback": null}`), &empty)
	assert.ErrorIs(t, err, apperrors.ErrInvalidModelOutput)
}
