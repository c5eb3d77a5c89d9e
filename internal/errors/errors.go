package errors

import (
	"errors"
)

// Sentinel errors for different categories
var (
	// ErrInvalidInput - invalid input (show validation error to the caller, never retried)
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound - resource not found
	ErrNotFound = errors.New("not found")

	// ErrTransient - transient error (rate limit, server error, rpc hiccup; retried by the gateway)
	ErrTransient = errors.New("transient error")

	// ErrRetryExhausted - transient failures persisted through the whole attempt budget
	ErrRetryExhausted = errors.New("retries exhausted")

	// ErrInvalidModelOutput - model returned malformed structured output
	ErrInvalidModelOutput = errors.New("invalid model output")

	// ErrUnsupportedMode - learning mode or quiz subtype has no response contract
	ErrUnsupportedMode = errors.New("unsupported mode")

	// ErrInternal - internal error (generic message + trace id)
	ErrInternal = errors.New("internal error")
)
