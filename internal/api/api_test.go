package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/harunnryd/verblume/internal/config"
	apperrors "github.com/harunnryd/verblume/internal/errors"
	"github.com/harunnryd/verblume/internal/gateway"
	"github.com/harunnryd/verblume/internal/lesson"
	"github.com/harunnryd/verblume/internal/model/contract"
	"github.com/harunnryd/verblume/internal/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	mu       sync.Mutex
	specs    []planner.RequestSpec
	generate func(planner.RequestSpec) (lesson.Payload, error)
	subs     []string
}

func (f *fakeGenerator) Generate(_ context.Context, spec planner.RequestSpec) (lesson.Payload, error) {
	f.mu.Lock()
	f.specs = append(f.specs, spec)
	f.mu.Unlock()
	return f.generate(spec)
}

func (f *fakeGenerator) SituationalResponse(_ context.Context, _, _, situation string) (*lesson.SituationalPracticeResponseContent, error) {
	return &lesson.SituationalPracticeResponseContent{
		Type:      lesson.KindSituationalPracticeResponse,
		Situation: situation,
		Response:  lesson.SituationalAdvice{Advice: "Be polite."},
	}, nil
}

func (f *fakeGenerator) EnrichTopics(_ context.Context, topics []string, _, _ string) ([]lesson.TopicDetails, error) {
	out := make([]lesson.TopicDetails, 0, len(topics))
	for _, t := range topics {
		out = append(out, lesson.TopicDetails{OriginalTopic: t, TopicInTargetLanguage: "es:" + t, TopicInBaseLanguage: t})
	}
	return out, nil
}

func (f *fakeGenerator) QuizExplanation(_ context.Context, _, _ string, q lesson.Question, _, correct any) (string, error) {
	if correct == nil {
		correct = q.CorrectText()
	}
	return "The answer is " + correct.(string), nil
}

func (f *fakeGenerator) SubCategories(_ context.Context, category string) []string {
	return f.subs
}

func newTestServer(gen Generator) (*Server, *Metrics) {
	metrics := NewMetrics()
	return NewServer(gen, metrics, config.ServerConfig{CORSOrigins: []string{"http://localhost:5173"}}, WithVersion("test")), metrics
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(&fakeGenerator{})

	rec := do(t, srv.Handler(), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(TraceHeader))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestLessonEndpoint(t *testing.T) {
	gen := &fakeGenerator{
		generate: func(spec planner.RequestSpec) (lesson.Payload, error) {
			return &lesson.SituationalPracticeInitContent{Title: "Situational Practice", Instruction: "Describe it."}, nil
		},
	}
	srv, _ := newTestServer(gen)

	body := `{
		"language": "Spanish", "baseLanguage": "English", "category": "Travel",
		"subCategory": "At the Airport", "mode": "Quiz", "quizType": "Vocabulary",
		"tone": "Formal", "difficulty": "Beginner",
		"history": [{"type": "situational_practice_init", "title": "t", "instruction": "i"}]
	}`
	rec := do(t, srv.Handler(), http.MethodPost, "/api/v1/lessons", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "situational_practice_init", payload["type"])

	require.Len(t, gen.specs, 1)
	spec := gen.specs[0]
	assert.Equal(t, planner.ModeQuiz, spec.Mode)
	assert.Equal(t, planner.QuizVocabulary, spec.Options.QuizType)
	assert.Equal(t, planner.Tone("Formal"), spec.Options.Tone)
	require.Len(t, spec.History, 1)
	assert.Equal(t, lesson.KindSituationalPracticeInit, spec.History[0].Kind())
}

func TestLessonEndpointRejectsBadHistory(t *testing.T) {
	gen := &fakeGenerator{}
	srv, _ := newTestServer(gen)

	rec := do(t, srv.Handler(), http.MethodPost, "/api/v1/lessons", `{"language": "Spanish", "history": [{"type": "bogus"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorBody(t, rec), "history[0]")
	assert.Empty(t, gen.specs)

	rec = do(t, srv.Handler(), http.MethodPost, "/api/v1/lessons", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv.Handler(), http.MethodPost, "/api/v1/lessons", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorBody(t, rec), "empty")
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "unsupported mode", err: apperrors.UnsupportedMode("no contract"), status: http.StatusBadRequest},
		{name: "invalid input", err: apperrors.InvalidInput("missing language"), status: http.StatusBadRequest},
		{name: "invalid model output", err: apperrors.InvalidModelOutput("bad json"), status: http.StatusBadGateway},
		{name: "retry exhausted", err: apperrors.ErrRetryExhausted, status: http.StatusServiceUnavailable},
		{name: "unknown", err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(&fakeGenerator{
				generate: func(planner.RequestSpec) (lesson.Payload, error) { return nil, tt.err },
			})

			rec := do(t, srv.Handler(), http.MethodPost, "/api/v1/lessons", `{"language": "Spanish"}`)
			assert.Equal(t, tt.status, rec.Code)
			msg := errorBody(t, rec)
			if tt.status == http.StatusInternalServerError {
				assert.NotContains(t, msg, "boom")
				assert.Contains(t, msg, rec.Header().Get(TraceHeader))
			} else {
				assert.Contains(t, msg, tt.err.Error())
			}
		})
	}
}

func TestPracticeEndpoints(t *testing.T) {
	srv, _ := newTestServer(&fakeGenerator{subs: []string{"Ordering Food"}})
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/api/v1/situations", `{"language": "Spanish", "baseLanguage": "English", "situation": "lost luggage"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"situation":"lost luggage"`)

	rec = do(t, h, http.MethodPost, "/api/v1/topics/details", `{"language": "Spanish", "baseLanguage": "English", "topics": ["Articles"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"topicInTargetLanguage":"es:Articles"`)

	rec = do(t, h, http.MethodPost, "/api/v1/topics/details", `{"topics": ["Articles"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/quiz/explanation", `{
		"language": "Spanish", "baseLanguage": "English", "userAnswer": "A",
		"question": {"questionType": "MCQ", "questionText": "q", "questionTextInBase": "q",
			"options": [{"id": "A", "text": "uno"}, {"id": "B", "text": "dos"}], "correctAnswerId": "B"}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The answer is dos")

	rec = do(t, h, http.MethodGet, "/api/v1/categories/Restaurant/subcategories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"subCategories": ["Ordering Food"]}`, rec.Body.String())
}

func TestHandlerPanicBecomes500(t *testing.T) {
	srv, metrics := newTestServer(&fakeGenerator{
		generate: func(planner.RequestSpec) (lesson.Payload, error) { panic("nil map") },
	})

	rec := do(t, srv.Handler(), http.MethodPost, "/api/v1/lessons", `{"language": "Spanish"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, errorBody(t, rec), "nil map")

	rec = do(t, metrics.Handler(), http.MethodGet, "/metrics", "")
	assert.Contains(t, rec.Body.String(), `verblume_http_requests_total{route="/api/v1/lessons",status="500"} 1`)
}

func TestTraceIDIsPropagated(t *testing.T) {
	srv, _ := newTestServer(&fakeGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(TraceHeader, "trace-123")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "trace-123", rec.Header().Get(TraceHeader))
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(&fakeGenerator{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/lessons", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

type flakyService struct {
	mu    sync.Mutex
	calls int
}

func (f *flakyService) Route(context.Context, string, contract.CompletionRequest) (*contract.CompletionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls == 1 {
		return nil, errors.New("503 service unavailable")
	}
	return &contract.CompletionResponse{Content: `{"subCategories": ["Ordering Food", "Paying the Bill"]}`}, nil
}

func (f *flakyService) RouteImage(context.Context, string, contract.ImageRequest) (*contract.ImageResponse, error) {
	return nil, errors.New("no images")
}

func TestMetricsRecordGatewayRetries(t *testing.T) {
	metrics := NewMetrics()
	gw := gateway.New(gateway.Policy{MaxAttempts: 3, InitialDelay: time.Millisecond},
		gateway.WithSleeper(func(context.Context, time.Duration) error { return nil }),
		gateway.WithObserver(metrics))
	p := planner.New(&flakyService{}, gw, planner.Config{TextModel: "text", ImageModel: "image"})
	srv := NewServer(p, metrics, config.ServerConfig{})

	rec := do(t, srv.Handler(), http.MethodGet, "/api/v1/categories/Restaurant/subcategories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Paying the Bill")

	rec = do(t, srv.Handler(), http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `verblume_gateway_retries_total{op="generate.sub_categories"} 1`)
	assert.Contains(t, rec.Body.String(), `verblume_http_requests_total{route="/api/v1/categories/{name}/subcategories",status="200"} 1`)
}
