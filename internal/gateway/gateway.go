package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	apperrors "github.com/harunnryd/verblume/internal/errors"
	"github.com/harunnryd/verblume/internal/logger"
)

const (
	DefaultMaxAttempts  = 5
	DefaultInitialDelay = 2 * time.Second

	jitterMin  = 0.8
	jitterSpan = 0.4
)

// Policy bounds one retried call.
type Policy struct {
	MaxAttempts  int
	InitialDelay time.Duration
}

func DefaultPolicy() Policy {
	return Policy{MaxAttempts: DefaultMaxAttempts, InitialDelay: DefaultInitialDelay}
}

// RetryState describes the attempt about to run. It lives for one Do call.
type RetryState struct {
	Attempt int
	Delay   time.Duration
}

// Observer is notified about retries and exhaustion.
type Observer interface {
	OnRetry(ctx context.Context, op string, state RetryState, err error)
	OnExhausted(ctx context.Context, op string, attempts int, err error)
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Gateway wraps every call to the generation service with bounded,
// jittered exponential backoff.
type Gateway struct {
	policy     Policy
	classifier Classifier
	observer   Observer
	sleep      Sleeper
	jitter     func() float64
}

type Option func(*Gateway)

func WithClassifier(c Classifier) Option {
	return func(g *Gateway) {
		if c != nil {
			g.classifier = c
		}
	}
}

func WithObserver(o Observer) Option {
	return func(g *Gateway) { g.observer = o }
}

func WithSleeper(s Sleeper) Option {
	return func(g *Gateway) {
		if s != nil {
			g.sleep = s
		}
	}
}

// WithJitter overrides the random source; f must return values in [0, 1).
func WithJitter(f func() float64) Option {
	return func(g *Gateway) {
		if f != nil {
			g.jitter = f
		}
	}
}

func New(policy Policy, opts ...Option) *Gateway {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = DefaultMaxAttempts
	}
	if policy.InitialDelay < 0 {
		policy.InitialDelay = 0
	}

	g := &Gateway{
		policy:     policy,
		classifier: DefaultClassifier,
		sleep:      sleepContext,
		jitter:     rand.Float64,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) Policy() Policy {
	return g.policy
}

// Backoff returns the delay before attempt n (n >= 2). Attempt 1 never waits.
func (g *Gateway) Backoff(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}
	factor := jitterMin + g.jitter()*jitterSpan
	base := float64(g.policy.InitialDelay) * math.Pow(2, float64(attempt-2))
	return time.Duration(base * factor)
}

// Do runs op until it succeeds, fails fatally, or the attempt budget is spent.
// op is a label used in logs and metrics.
func Do[T any](ctx context.Context, g *Gateway, op string, call func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= g.policy.MaxAttempts; attempt++ {
		state := RetryState{Attempt: attempt, Delay: g.Backoff(attempt)}
		if attempt > 1 {
			if g.observer != nil {
				g.observer.OnRetry(ctx, op, state, lastErr)
			}
			slog.Warn("Retrying generation call",
				"op", op,
				"attempt", attempt,
				"max_attempts", g.policy.MaxAttempts,
				"delay", state.Delay,
				"error", lastErr,
				"trace_id", logger.GetTraceID(ctx))
			if err := g.sleep(ctx, state.Delay); err != nil {
				return zero, err
			}
		}

		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := call(ctx)
		switch g.classifier(err) {
		case OutcomeSuccess:
			return result, nil
		case OutcomeFatal:
			return zero, err
		}
		lastErr = err
	}

	if g.observer != nil {
		g.observer.OnExhausted(ctx, op, g.policy.MaxAttempts, lastErr)
	}
	slog.Error("Generation call failed after retries",
		"op", op,
		"attempts", g.policy.MaxAttempts,
		"error", lastErr,
		"trace_id", logger.GetTraceID(ctx))
	return zero, fmt.Errorf("%s failed after %d attempts (last error: %v): %w",
		op, g.policy.MaxAttempts, lastErr, apperrors.ErrRetryExhausted)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
