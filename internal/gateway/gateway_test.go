package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	apperrors "github.com/harunnryd/verblume/internal/errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.delays = append(r.delays, d)
	r.mu.Unlock()
	return ctx.Err()
}

type recordingObserver struct {
	retries   []RetryState
	exhausted int
}

func (o *recordingObserver) OnRetry(_ context.Context, _ string, state RetryState, _ error) {
	o.retries = append(o.retries, state)
}

func (o *recordingObserver) OnExhausted(_ context.Context, _ string, attempts int, _ error) {
	o.exhausted = attempts
}

func newTestGateway(sleeper *recordingSleeper, opts ...Option) *Gateway {
	base := []Option{
		WithSleeper(sleeper.sleep),
		WithJitter(func() float64 { return 0.5 }),
	}
	return New(DefaultPolicy(), append(base, opts...)...)
}

func TestDo_SucceedsFirstAttemptWithoutDelay(t *testing.T) {
	sleeper := &recordingSleeper{}
	g := newTestGateway(sleeper)

	calls := 0
	got, err := Do(context.Background(), g, "text", func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeper.delays)
}

func TestDo_RetriesTransientThenSucceeds(t *testing.T) {
	sleeper := &recordingSleeper{}
	g := newTestGateway(sleeper)

	calls := 0
	got, err := Do(context.Background(), g, "text", func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("got status 503 Service Unavailable")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, sleeper.delays)
}

func TestDo_FatalErrorIsNotRetried(t *testing.T) {
	sleeper := &recordingSleeper{}
	g := newTestGateway(sleeper)
	fatal := errors.New("invalid argument: schema rejected")

	calls := 0
	_, err := Do(context.Background(), g, "text", func(context.Context) (string, error) {
		calls++
		return "", fatal
	})

	require.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeper.delays)
}

func TestDo_ExhaustionReturnsDistinctError(t *testing.T) {
	sleeper := &recordingSleeper{}
	observer := &recordingObserver{}
	g := newTestGateway(sleeper, WithObserver(observer))
	cause := errors.New("429 RESOURCE_EXHAUSTED")

	calls := 0
	_, err := Do(context.Background(), g, "text", func(context.Context) (string, error) {
		calls++
		return "", cause
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRetryExhausted)
	assert.NotErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "429 RESOURCE_EXHAUSTED")
	assert.Equal(t, DefaultMaxAttempts, calls)
	assert.Len(t, sleeper.delays, DefaultMaxAttempts-1)
	assert.Len(t, observer.retries, DefaultMaxAttempts-1)
	assert.Equal(t, DefaultMaxAttempts, observer.exhausted)
	assert.Equal(t, 2, observer.retries[0].Attempt)
}

func TestDo_ExhaustedInnerCallIsNotRetriedAgain(t *testing.T) {
	sleeper := &recordingSleeper{}
	g := newTestGateway(sleeper)

	calls := 0
	_, err := Do(context.Background(), g, "outer", func(context.Context) (string, error) {
		calls++
		return "", fmt.Errorf("inner 503: %w", apperrors.ErrRetryExhausted)
	})

	require.ErrorIs(t, err, apperrors.ErrRetryExhausted)
	assert.Equal(t, 1, calls)
}

func TestDo_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := New(Policy{MaxAttempts: 3, InitialDelay: time.Hour})

	calls := 0
	done := make(chan error, 1)
	go func() {
		_, err := Do(ctx, g, "text", func(context.Context) (string, error) {
			calls++
			return "", errors.New("rate limit exceeded")
		})
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after cancellation")
	}
}

func TestBackoffBounds(t *testing.T) {
	low := New(DefaultPolicy(), WithJitter(func() float64 { return 0 }))
	high := New(DefaultPolicy(), WithJitter(func() float64 { return 0.999999 }))

	assert.Zero(t, low.Backoff(1))
	for attempt := 2; attempt <= DefaultMaxAttempts; attempt++ {
		nominal := float64(DefaultInitialDelay) * float64(int(1)<<(attempt-2))
		assert.InDelta(t, nominal*0.8, float64(low.Backoff(attempt)), 1, "attempt %d", attempt)
		assert.Less(t, float64(high.Backoff(attempt)), nominal*1.2, "attempt %d", attempt)
		assert.GreaterOrEqual(t, float64(high.Backoff(attempt)), nominal*0.8, "attempt %d", attempt)
	}
}

func TestDefaultClassifier(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Outcome
	}{
		{"nil", nil, OutcomeSuccess},
		{"rate limit text", errors.New("Rate Limit reached"), OutcomeTransient},
		{"resource exhausted", errors.New("RESOURCE_EXHAUSTED: quota"), OutcomeTransient},
		{"500 text", errors.New("server said 500"), OutcomeTransient},
		{"rpc failed", errors.New("Rpc failed due to xhr error"), OutcomeTransient},
		{"plain failure", errors.New("permission denied"), OutcomeFatal},
		{"wrapped transient", apperrors.Transient("upstream hiccup"), OutcomeTransient},
		{"invalid output", apperrors.InvalidModelOutput("bad json"), OutcomeFatal},
		{"cancelled", context.Canceled, OutcomeFatal},
		{"genai 429", genai.APIError{Code: 429, Message: "quota"}, OutcomeTransient},
		{"genai 400 mentioning 500", genai.APIError{Code: 400, Message: "max 500 tokens"}, OutcomeFatal},
		{"openai 503", &openai.APIError{HTTPStatusCode: 503, Message: "overloaded"}, OutcomeTransient},
		{"openai request 401", &openai.RequestError{HTTPStatusCode: 401, Err: errors.New("unauthorized")}, OutcomeFatal},
		{"anthropic 500", &anthropic.Error{StatusCode: 500}, OutcomeTransient},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DefaultClassifier(tc.err))
		})
	}
}
