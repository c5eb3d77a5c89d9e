package lesson

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	apperrors "github.com/harunnryd/verblume/internal/errors"
	"github.com/harunnryd/verblume/internal/model/contract"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Decode parses raw into the payload variant named by its "type" field.
// When expected is set the discriminator must match it; a body without a
// discriminator is read as expected. Every failure wraps ErrInvalidModelOutput.
func Decode(expected Kind, raw []byte) (Payload, error) {
	body := []byte(contract.CleanJSON(string(raw)))

	var probe struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, apperrors.InvalidModelOutput(fmt.Sprintf("malformed JSON: %v", err))
	}

	kind := probe.Type
	switch {
	case kind == "" && expected != "":
		kind = expected
	case kind == "":
		return nil, apperrors.InvalidModelOutput("payload has no type discriminator")
	case !kind.Valid():
		return nil, apperrors.InvalidModelOutput(fmt.Sprintf("unknown payload type %q", kind))
	case expected != "" && kind != expected:
		return nil, apperrors.InvalidModelOutput(fmt.Sprintf("expected payload type %q, got %q", expected, kind))
	}

	payload := newPayload(kind)
	if err := json.Unmarshal(body, payload); err != nil {
		return nil, apperrors.InvalidModelOutput(fmt.Sprintf("malformed %s JSON: %v", kind, err))
	}
	stamp(payload)

	if quiz, ok := payload.(*QuizContent); ok {
		for i := range quiz.Questions {
			quiz.Questions[i].Normalize()
		}
	}

	if err := Validate(payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Validate checks required fields and per-format quiz rules.
func Validate(p Payload) error {
	if p == nil {
		return apperrors.InvalidModelOutput("payload is nil")
	}
	if err := validatorInstance().Struct(p); err != nil {
		return apperrors.InvalidModelOutput(fmt.Sprintf("%s payload failed validation: %s", p.Kind(), describe(err)))
	}
	if quiz, ok := p.(*QuizContent); ok {
		for i := range quiz.Questions {
			if err := quiz.Questions[i].Check(); err != nil {
				return apperrors.InvalidModelOutput(fmt.Sprintf("quiz question %d: %v", i+1, err))
			}
		}
	}
	return nil
}

// DecodeInto parses a non-payload JSON value (topic lists, replies, details)
// and validates it the same way payloads are.
func DecodeInto(raw []byte, target any) error {
	body := []byte(contract.CleanJSON(string(raw)))
	if err := json.Unmarshal(body, target); err != nil {
		return apperrors.InvalidModelOutput(fmt.Sprintf("malformed JSON: %v", err))
	}
	if err := validatorInstance().Struct(target); err != nil {
		return apperrors.InvalidModelOutput(fmt.Sprintf("response failed validation: %s", describe(err)))
	}
	return nil
}

// Encode marshals p with its discriminator set.
func Encode(p Payload) ([]byte, error) {
	if p == nil {
		return nil, apperrors.InvalidInput("payload is nil")
	}
	stamp(p)
	return json.Marshal(p)
}

func stamp(p Payload) {
	switch v := p.(type) {
	case *GrammarContent:
		v.Type = KindGrammar
	case *VocabularyContent:
		v.Type = KindVocabulary
	case *ListeningContent:
		v.Type = KindListening
	case *SpeakingContent:
		v.Type = KindSpeaking
	case *VisualContextContent:
		v.Type = KindVisualContext
	case *StoryboardContent:
		v.Type = KindStoryboard
	case *QuizContent:
		v.Type = KindQuiz
	case *SituationalPracticeInitContent:
		v.Type = KindSituationalPracticeInit
	case *SituationalPracticeResponseContent:
		v.Type = KindSituationalPracticeResponse
	case *RolePlaySetupContent:
		v.Type = KindRolePlaySetup
	case *AITutorInitContent:
		v.Type = KindAITutorInit
	}
}

func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s (%s)", trimNamespace(fe.Namespace()), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}

func trimNamespace(ns string) string {
	if _, rest, found := strings.Cut(ns, "."); found {
		return rest
	}
	return ns
}
