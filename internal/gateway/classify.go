package gateway

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/harunnryd/verblume/internal/errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// Outcome is the classification of a single attempt.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeTransient
	OutcomeFatal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeTransient:
		return "transient"
	default:
		return "fatal"
	}
}

// Classifier decides whether an attempt error is worth retrying.
type Classifier func(err error) Outcome

// retryable message fragments, matched against the lowercased error text.
var transientMarkers = []string{
	"429",
	"resource_exhausted",
	"resource exhausted",
	"rate limit",
	"500",
	"503",
	"rpc failed",
}

var transientStatusCodes = map[int]struct{}{
	429: {},
	500: {},
	503: {},
}

// DefaultClassifier treats rate limiting, 500/503 server errors and failed RPCs
// as transient. Structured provider errors are judged by their status code;
// anything else falls back to the error text.
func DefaultClassifier(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return OutcomeFatal
	}
	if apperrors.IsFatal(err) {
		return OutcomeFatal
	}
	if apperrors.IsRetryable(err) {
		return OutcomeTransient
	}

	if code, ok := StatusCode(err); ok {
		if _, transient := transientStatusCodes[code]; transient {
			return OutcomeTransient
		}
		return OutcomeFatal
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return OutcomeTransient
		}
	}
	return OutcomeFatal
}

// StatusCode extracts the HTTP status carried by a provider SDK error.
func StatusCode(err error) (int, bool) {
	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) && genaiErr.Code != 0 {
		return genaiErr.Code, true
	}
	var genaiErrPtr *genai.APIError
	if errors.As(err, &genaiErrPtr) && genaiErrPtr != nil && genaiErrPtr.Code != 0 {
		return genaiErrPtr.Code, true
	}

	var openaiErr *openai.APIError
	if errors.As(err, &openaiErr) && openaiErr.HTTPStatusCode != 0 {
		return openaiErr.HTTPStatusCode, true
	}
	var openaiReqErr *openai.RequestError
	if errors.As(err, &openaiReqErr) && openaiReqErr.HTTPStatusCode != 0 {
		return openaiReqErr.HTTPStatusCode, true
	}

	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) && anthropicErr.StatusCode != 0 {
		return anthropicErr.StatusCode, true
	}

	var statusErr interface{ HTTPStatus() int }
	if errors.As(err, &statusErr) && statusErr.HTTPStatus() != 0 {
		return statusErr.HTTPStatus(), true
	}
	return 0, false
}
