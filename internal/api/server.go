// Package api serves the content planner over HTTP for the browser UI.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/harunnryd/verblume/internal/config"
	"github.com/harunnryd/verblume/internal/lesson"
	"github.com/harunnryd/verblume/internal/planner"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Generator is the planner surface the API exposes.
type Generator interface {
	Generate(ctx context.Context, spec planner.RequestSpec) (lesson.Payload, error)
	SituationalResponse(ctx context.Context, language, base, situation string) (*lesson.SituationalPracticeResponseContent, error)
	EnrichTopics(ctx context.Context, topics []string, language, base string) ([]lesson.TopicDetails, error)
	QuizExplanation(ctx context.Context, language, base string, q lesson.Question, userAnswer, correctAnswer any) (string, error)
	SubCategories(ctx context.Context, category string) []string
}

type Server struct {
	gen      Generator
	metrics  *Metrics
	cfg      config.ServerConfig
	router   *mux.Router
	handler  http.Handler
	started  time.Time
	version  string
	maxBytes int64
}

type Option func(*Server)

func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

func NewServer(gen Generator, metrics *Metrics, cfg config.ServerConfig, opts ...Option) *Server {
	s := &Server{
		gen:      gen,
		metrics:  metrics,
		cfg:      cfg,
		router:   mux.NewRouter(),
		started:  time.Now(),
		version:  "dev",
		maxBytes: 4 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.routes()

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.handler = cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", TraceHeader},
		ExposedHeaders: []string{TraceHeader},
	}).Handler(s.router)
	return s
}

func (s *Server) routes() {
	s.router.Use(s.traceMiddleware, s.recoverMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	v1 := s.router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/lessons", s.handleLesson).Methods(http.MethodPost)
	v1.HandleFunc("/situations", s.handleSituation).Methods(http.MethodPost)
	v1.HandleFunc("/topics/details", s.handleTopicDetails).Methods(http.MethodPost)
	v1.HandleFunc("/quiz/explanation", s.handleQuizExplanation).Methods(http.MethodPost)
	v1.HandleFunc("/categories/{name}/subcategories", s.handleSubCategories).Methods(http.MethodGet)
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down within the configured
// shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	readTimeout, err := config.DurationOrDefault(s.cfg.ReadTimeout, config.DefaultServerReadTimeout)
	if err != nil {
		return fmt.Errorf("parse server read timeout: %w", err)
	}
	writeTimeout, err := config.DurationOrDefault(s.cfg.WriteTimeout, config.DefaultServerWriteTimeout)
	if err != nil {
		return fmt.Errorf("parse server write timeout: %w", err)
	}
	idleTimeout, err := config.DurationOrDefault(s.cfg.IdleTimeout, config.DefaultServerIdleTimeout)
	if err != nil {
		return fmt.Errorf("parse server idle timeout: %w", err)
	}
	shutdownTimeout, err := config.DurationOrDefault(s.cfg.ShutdownTimeout, config.DefaultServerShutdownTimeout)
	if err != nil {
		return fmt.Errorf("parse server shutdown timeout: %w", err)
	}

	port := s.cfg.Port
	if port == 0 {
		port = config.DefaultServerPort
	}
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
		return err
	}
	slog.Info("HTTP server stopped")
	return nil
}
