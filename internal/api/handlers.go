package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/harunnryd/verblume/internal/errors"
	"github.com/harunnryd/verblume/internal/lesson"
	"github.com/harunnryd/verblume/internal/logger"
	"github.com/harunnryd/verblume/internal/planner"

	"github.com/gorilla/mux"
)

type lessonRequest struct {
	Language     string             `json:"language"`
	BaseLanguage string             `json:"baseLanguage"`
	Category     string             `json:"category"`
	SubCategory  string             `json:"subCategory"`
	Mode         planner.Mode       `json:"mode"`
	History      []json.RawMessage  `json:"history"`
	QuizType     planner.QuizType   `json:"quizType"`
	Tone         planner.Tone       `json:"tone"`
	Difficulty   planner.Difficulty `json:"difficulty"`
}

func (req lessonRequest) spec() (planner.RequestSpec, error) {
	history := make([]lesson.Payload, 0, len(req.History))
	for i, raw := range req.History {
		p, err := lesson.Decode("", raw)
		if err != nil {
			return planner.RequestSpec{}, apperrors.InvalidInput(fmt.Sprintf("history[%d]: %v", i, err))
		}
		history = append(history, p)
	}

	return planner.RequestSpec{
		Language:     req.Language,
		BaseLanguage: req.BaseLanguage,
		Category:     req.Category,
		SubCategory:  req.SubCategory,
		Mode:         req.Mode,
		History:      history,
		Options: planner.Options{
			QuizType:   req.QuizType,
			Tone:       req.Tone,
			Difficulty: req.Difficulty,
		},
	}, nil
}

type situationRequest struct {
	Language     string `json:"language"`
	BaseLanguage string `json:"baseLanguage"`
	Situation    string `json:"situation"`
}

type topicsRequest struct {
	Language     string   `json:"language"`
	BaseLanguage string   `json:"baseLanguage"`
	Topics       []string `json:"topics"`
}

type explanationRequest struct {
	Language      string          `json:"language"`
	BaseLanguage  string          `json:"baseLanguage"`
	Question      lesson.Question `json:"question"`
	UserAnswer    any             `json:"userAnswer"`
	CorrectAnswer any             `json:"correctAnswer,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleLesson(w http.ResponseWriter, r *http.Request) {
	var req lessonRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	spec, err := req.spec()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := logger.WithLanguage(r.Context(), spec.Language)
	payload, err := s.gen.Generate(ctx, spec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	raw, err := lesson.Encode(payload)
	if err != nil {
		s.writeError(w, r, apperrors.Wrap(err, "encode payload"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		slog.Error("Failed to write lesson response", "error", err, "trace_id", logger.GetTraceID(r.Context()))
	}
}

func (s *Server) handleSituation(w http.ResponseWriter, r *http.Request) {
	var req situationRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	resp, err := s.gen.SituationalResponse(r.Context(), req.Language, req.BaseLanguage, req.Situation)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTopicDetails(w http.ResponseWriter, r *http.Request) {
	var req topicsRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Language) == "" || strings.TrimSpace(req.BaseLanguage) == "" {
		s.writeError(w, r, apperrors.InvalidInput("language and baseLanguage are required"))
		return
	}

	details, err := s.gen.EnrichTopics(r.Context(), req.Topics, req.Language, req.BaseLanguage)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"topics": details})
}

func (s *Server) handleQuizExplanation(w http.ResponseWriter, r *http.Request) {
	var req explanationRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.Question.Normalize()

	explanation, err := s.gen.QuizExplanation(r.Context(), req.Language, req.BaseLanguage, req.Question, req.UserAnswer, req.CorrectAnswer)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"explanation": explanation})
}

func (s *Server) handleSubCategories(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(mux.Vars(r)["name"])
	if name == "" {
		s.writeError(w, r, apperrors.InvalidInput("category name is required"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"subCategories": s.gen.SubCategories(r.Context(), name)})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.maxBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.InvalidInput("request body is empty")
		}
		return apperrors.InvalidInput(fmt.Sprintf("malformed request body: %v", err))
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError answers with {"error": "..."}. Internal failures hide their
// cause behind the trace id.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	traceID := logger.GetTraceID(r.Context())

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = fmt.Sprintf("internal error (trace id %s)", traceID)
	}

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(r.Context(), level, "Request failed",
		"path", r.URL.Path,
		"status", status,
		"category", apperrors.Category(err),
		"error", err,
		"trace_id", traceID)

	writeJSON(w, status, map[string]string{"error": message})
}
