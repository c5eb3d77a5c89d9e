package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/harunnryd/verblume/internal/errors"
	"github.com/harunnryd/verblume/internal/logger"

	"github.com/gorilla/mux"
)

const TraceHeader = "X-Trace-Id"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// traceMiddleware gives every request a trace id (reusing an incoming
// X-Trace-Id) and records request metrics.
func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if incoming := strings.TrimSpace(r.Header.Get(TraceHeader)); incoming != "" {
			ctx = logger.WithTraceID(ctx, incoming)
		}
		ctx, traceID := logger.EnsureTraceID(ctx)
		w.Header().Set(TraceHeader, traceID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))
		elapsed := time.Since(start)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		if s.metrics != nil {
			s.metrics.requestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
			s.metrics.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
		}

		slog.Debug("HTTP request served",
			"method", r.Method,
			"route", route,
			"status", rec.status,
			"duration_ms", elapsed.Milliseconds(),
			"trace_id", traceID)
	})
}

// recoverMiddleware turns a handler panic into a 500 instead of dropping the
// connection.
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				slog.Error("Panic recovered", "panic", v, "stack", string(debug.Stack()), "trace_id", logger.GetTraceID(r.Context()))
				s.writeError(w, r, apperrors.Internal(fmt.Sprintf("panic: %v", v)))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
