package lesson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type QuestionFormat string

const (
	FormatMCQ                QuestionFormat = "MCQ"
	FormatFillBlank          QuestionFormat = "FILL_BLANK"
	FormatTrueFalse          QuestionFormat = "TRUE_FALSE"
	FormatScramble           QuestionFormat = "SCRAMBLE"
	FormatMatching           QuestionFormat = "MATCHING"
	FormatErrorCorrection    QuestionFormat = "ERROR_CORRECTION"
	FormatDialogueCompletion QuestionFormat = "DIALOGUE_COMPLETION"
	FormatPictureMCQ         QuestionFormat = "PICTURE_MCQ"
)

var QuestionFormats = []QuestionFormat{
	FormatMCQ,
	FormatFillBlank,
	FormatTrueFalse,
	FormatScramble,
	FormatMatching,
	FormatErrorCorrection,
	FormatDialogueCompletion,
	FormatPictureMCQ,
}

func (f QuestionFormat) Valid() bool {
	for _, known := range QuestionFormats {
		if f == known {
			return true
		}
	}
	return false
}

type Option struct {
	ID   string `json:"id" validate:"required"`
	Text string `json:"text" validate:"required"`
}

// FlexBool decodes from a JSON boolean or from a "true"/"false" string.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var native bool
	if err := json.Unmarshal(trimmed, &native); err == nil {
		*b = FlexBool(native)
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return fmt.Errorf("correctAnswerBool: expected boolean, got %s", string(trimmed))
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("correctAnswerBool: expected boolean, got %q", s)
	}
	*b = FlexBool(parsed)
	return nil
}

// FlexString decodes from a JSON string, boolean or number.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var str string
	if err := json.Unmarshal(trimmed, &str); err == nil {
		*s = FlexString(str)
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] != '{' && trimmed[0] != '[' {
		*s = FlexString(trimmed)
		return nil
	}
	return fmt.Errorf("correctAnswer: expected scalar, got %s", string(trimmed))
}

// Question is one quiz question; which fields are set depends on QuestionType.
type Question struct {
	QuestionType       QuestionFormat    `json:"questionType" validate:"required"`
	QuestionText       string            `json:"questionText" validate:"required"`
	QuestionTextInBase string            `json:"questionTextInBase" validate:"required"`
	Options            []Option          `json:"options,omitempty" validate:"dive"`
	CorrectAnswerID    string            `json:"correctAnswerId,omitempty"`
	ImagePrompt        string            `json:"imagePrompt,omitempty"`
	ImageBytes         *string           `json:"imageBytes,omitempty"`
	CorrectAnswer      *FlexString       `json:"correctAnswer,omitempty"`
	CorrectAnswerBool  *FlexBool         `json:"correctAnswerBool,omitempty"`
	JumbledWords       []string          `json:"jumbledWords,omitempty"`
	Premises           []Option          `json:"premises,omitempty" validate:"dive"`
	Responses          []Option          `json:"responses,omitempty" validate:"dive"`
	CorrectPairs       map[string]string `json:"correctPairs,omitempty"`
	IncorrectSentence  string            `json:"incorrectSentence,omitempty"`
	DialogueContext    []DialogueLine    `json:"dialogueContext,omitempty" validate:"dive"`
	LineWithBlank      string            `json:"lineWithBlank,omitempty"`
}

// Answer returns the textual correct answer, empty when the format has none.
func (q *Question) Answer() string {
	if q.CorrectAnswer == nil {
		return ""
	}
	return string(*q.CorrectAnswer)
}

// BoolAnswer returns the TRUE_FALSE answer and whether one is present.
func (q *Question) BoolAnswer() (bool, bool) {
	if q.CorrectAnswerBool == nil {
		return false, false
	}
	return bool(*q.CorrectAnswerBool), true
}

// SetImage stores base64 image data; an empty string marks a failed drawing.
func (q *Question) SetImage(b64 string) {
	q.ImageBytes = &b64
}

// Image returns the attached base64 image, empty when none.
func (q *Question) Image() string {
	if q.ImageBytes == nil {
		return ""
	}
	return *q.ImageBytes
}

// Normalize moves a TRUE_FALSE answer delivered in correctAnswer into
// correctAnswerBool and clears correctAnswer. An explicit correctAnswerBool
// wins; an unparsable correctAnswer leaves the answer unset so Check fails.
func (q *Question) Normalize() {
	if q.QuestionType != FormatTrueFalse || q.CorrectAnswer == nil {
		return
	}
	raw := strings.TrimSpace(string(*q.CorrectAnswer))
	q.CorrectAnswer = nil
	if q.CorrectAnswerBool != nil {
		return
	}
	if parsed, err := strconv.ParseBool(raw); err == nil {
		v := FlexBool(parsed)
		q.CorrectAnswerBool = &v
	}
}

// CorrectText is the human-readable correct answer, used for explanations.
func (q *Question) CorrectText() string {
	switch q.QuestionType {
	case FormatMCQ, FormatPictureMCQ:
		for _, opt := range q.Options {
			if opt.ID == q.CorrectAnswerID {
				return opt.Text
			}
		}
		return ""
	case FormatTrueFalse:
		if v, _ := q.BoolAnswer(); v {
			return "True"
		}
		return "False"
	case FormatMatching:
		return "See correct pairs below."
	default:
		return q.Answer()
	}
}

// Check validates the fields required by the question's format.
func (q *Question) Check() error {
	if !q.QuestionType.Valid() {
		return fmt.Errorf("unknown questionType %q", q.QuestionType)
	}

	switch q.QuestionType {
	case FormatMCQ, FormatPictureMCQ:
		if len(q.Options) < 2 {
			return fmt.Errorf("%s question needs at least 2 options", q.QuestionType)
		}
		found := false
		for _, opt := range q.Options {
			if opt.ID == q.CorrectAnswerID {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%s correctAnswerId %q matches no option", q.QuestionType, q.CorrectAnswerID)
		}
	case FormatTrueFalse:
		if q.CorrectAnswerBool == nil {
			return fmt.Errorf("TRUE_FALSE question is missing correctAnswerBool")
		}
	case FormatFillBlank:
		if q.Answer() == "" {
			return fmt.Errorf("FILL_BLANK question is missing correctAnswer")
		}
	case FormatScramble:
		if len(q.JumbledWords) == 0 || q.Answer() == "" {
			return fmt.Errorf("SCRAMBLE question needs jumbledWords and correctAnswer")
		}
	case FormatMatching:
		if len(q.Premises) == 0 || len(q.Responses) == 0 || len(q.CorrectPairs) == 0 {
			return fmt.Errorf("MATCHING question needs premises, responses and correctPairs")
		}
	case FormatErrorCorrection:
		if q.IncorrectSentence == "" || q.Answer() == "" {
			return fmt.Errorf("ERROR_CORRECTION question needs incorrectSentence and correctAnswer")
		}
	case FormatDialogueCompletion:
		if q.LineWithBlank == "" || q.Answer() == "" {
			return fmt.Errorf("DIALOGUE_COMPLETION question needs lineWithBlank and correctAnswer")
		}
	}
	return nil
}
