package model

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/harunnryd/verblume/internal/config"
	apperrors "github.com/harunnryd/verblume/internal/errors"
	"github.com/harunnryd/verblume/internal/logger"
	"github.com/harunnryd/verblume/internal/model/contract"
)

// DefaultModelRouter implements ModelRouter interface
type DefaultModelRouter struct {
	cfg       config.ModelsConfig
	providers map[string]Provider
	mu        sync.RWMutex
}

var _ ModelRouter = (*DefaultModelRouter)(nil)

// NewModelRouter creates a new model router
func NewModelRouter(cfg config.ModelsConfig) (*DefaultModelRouter, error) {
	router := &DefaultModelRouter{
		cfg:       cfg,
		providers: make(map[string]Provider),
	}

	if err := router.initProviders(); err != nil {
		return nil, err
	}

	return router, nil
}

// NewModelRouterWithProviders builds a router over already constructed providers.
func NewModelRouterWithProviders(cfg config.ModelsConfig, providers map[string]Provider) *DefaultModelRouter {
	r := &DefaultModelRouter{cfg: cfg, providers: make(map[string]Provider, len(providers))}
	for name, p := range providers {
		r.providers[name] = p
	}
	return r
}

// Route routes a completion request to the appropriate provider
func (r *DefaultModelRouter) Route(ctx context.Context, model string, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	traceID := logger.GetTraceID(ctx)
	if model == "" {
		model = r.cfg.Default
	}

	slog.Debug("Routing completion request", "model", model, "trace_id", traceID)

	currentModel, provider, err := r.resolveProvider(ctx, model)
	if err != nil {
		return nil, err
	}

	return r.executeWithFallback(ctx, currentModel, provider, req, traceID)
}

// RouteImage routes an image request. Images have no fallback: not every
// provider can draw.
func (r *DefaultModelRouter) RouteImage(ctx context.Context, model string, req contract.ImageRequest) (*contract.ImageResponse, error) {
	traceID := logger.GetTraceID(ctx)
	if model == "" {
		model = r.cfg.Image
	}

	slog.Debug("Routing image request", "model", model, "trace_id", traceID)

	r.mu.RLock()
	provider, exists := r.providers[model]
	r.mu.RUnlock()
	if !exists {
		return nil, apperrors.NotFound(fmt.Sprintf("image model %s not found", model))
	}

	req.Model = model
	resp, err := provider.GenerateImage(ctx, req)
	if err != nil {
		return nil, apperrors.Wrap(err, "image request failed")
	}
	return resp, nil
}

// ListModels returns all registered model names
func (r *DefaultModelRouter) ListModels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	models := make([]string, 0, len(r.providers))
	for name := range r.providers {
		models = append(models, name)
	}
	sort.Strings(models)

	return models
}

// Health checks the health of the router and its providers
func (r *DefaultModelRouter) Health(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.providers) == 0 {
		return apperrors.NotFound("no model providers configured")
	}

	for name, provider := range r.providers {
		if err := provider.Health(ctx); err != nil {
			slog.Warn("Provider unhealthy", "provider", name, "error", err)
			return apperrors.Transient(fmt.Sprintf("provider %s unhealthy", name))
		}
	}

	return nil
}

// initProviders initializes all providers from configuration
func (r *DefaultModelRouter) initProviders() error {
	for _, entry := range r.cfg.Registry {
		provider, err := newProvider(entry)
		if err != nil {
			slog.Warn("Failed to create provider", "provider", entry.Provider, "model", entry.Name, "error", err)
			continue
		}

		r.providers[entry.Name] = provider
		slog.Debug("Provider initialized", "name", entry.Name, "type", entry.Provider)
	}

	if len(r.providers) == 0 && len(r.cfg.Registry) > 0 {
		return apperrors.Internal("no providers initialized; set GEMINI_API_KEY, OPENAI_API_KEY or ANTHROPIC_API_KEY")
	}

	return nil
}

// resolveProvider resolves a provider by model name with fallback
func (r *DefaultModelRouter) resolveProvider(ctx context.Context, model string) (string, Provider, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, apperrors.Wrap(err, "provider resolution cancelled")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if provider, exists := r.providers[model]; exists {
		return model, provider, nil
	}

	slog.Warn("Model not found", "model", model)
	if r.cfg.Fallback != "" && model != r.cfg.Fallback {
		if fallbackProvider, ok := r.providers[r.cfg.Fallback]; ok {
			slog.Info("Trying fallback model", "model", model, "fallback", r.cfg.Fallback)
			return r.cfg.Fallback, fallbackProvider, nil
		}
	}

	return "", nil, apperrors.NotFound(fmt.Sprintf("model %s not found", model))
}

// executeWithFallback executes a request, switching to the fallback model
// after a provider failure. Errors keep their cause so the gateway can
// classify them.
func (r *DefaultModelRouter) executeWithFallback(ctx context.Context, model string, provider Provider, req contract.CompletionRequest, traceID string) (*contract.CompletionResponse, error) {
	maxAttempts := r.cfg.MaxFallbackAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	currentModel := model
	currentProvider := provider
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.Wrap(err, "request execution cancelled")
		}

		req.Model = currentModel
		resp, err := currentProvider.Generate(ctx, req)
		if err == nil {
			slog.Debug("Request completed", "model", currentModel, "attempt", attempt+1, "trace_id", traceID)
			return resp, nil
		}
		lastErr = err

		slog.Warn("Provider request failed", "model", currentModel, "attempt", attempt+1, "error", err, "trace_id", traceID)

		if r.cfg.Fallback == "" || currentModel == r.cfg.Fallback {
			break
		}

		r.mu.RLock()
		fallbackProvider, exists := r.providers[r.cfg.Fallback]
		r.mu.RUnlock()
		if !exists {
			break
		}

		slog.Info("Attempting fallback", "from", currentModel, "to", r.cfg.Fallback, "trace_id", traceID)
		currentModel = r.cfg.Fallback
		currentProvider = fallbackProvider
	}

	return nil, apperrors.Wrap(lastErr, "provider request failed")
}
