package model

import (
	"context"
	"fmt"

	"github.com/harunnryd/verblume/internal/config"
	apperrors "github.com/harunnryd/verblume/internal/errors"
	"github.com/harunnryd/verblume/internal/model/contract"
	anthropicProvider "github.com/harunnryd/verblume/internal/model/providers/anthropic"
	geminiProvider "github.com/harunnryd/verblume/internal/model/providers/gemini"
	openaiProvider "github.com/harunnryd/verblume/internal/model/providers/openai"
)

// backend is what every SDK-specific provider package implements.
type backend interface {
	Generate(ctx context.Context, req contract.CompletionRequest) (*contract.CompletionResponse, error)
	GenerateImage(ctx context.Context, req contract.ImageRequest) (*contract.ImageResponse, error)
}

// ProviderAdapter binds a backend to one registry entry so requests without
// a model name go to that entry's model.
type ProviderAdapter struct {
	backend      backend
	name         string
	providerType string
}

func (a *ProviderAdapter) Generate(ctx context.Context, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	if req.Model == "" {
		req.Model = a.name
	}
	return a.backend.Generate(ctx, req)
}

func (a *ProviderAdapter) GenerateImage(ctx context.Context, req contract.ImageRequest) (*contract.ImageResponse, error) {
	if req.Model == "" {
		req.Model = a.name
	}
	return a.backend.GenerateImage(ctx, req)
}

func (a *ProviderAdapter) Name() string { return a.name }

func (a *ProviderAdapter) Type() string { return a.providerType }

// Health is a no-op: the SDK clients connect lazily and a probe would spend quota.
func (a *ProviderAdapter) Health(ctx context.Context) error {
	return ctx.Err()
}

type providerFactory func(entry config.ModelRegistry) (backend, error)

var providerFactories = map[string]providerFactory{
	config.ProviderGemini: func(entry config.ModelRegistry) (backend, error) {
		p, err := geminiProvider.New(entry.APIKey)
		if err != nil {
			return nil, apperrors.WrapWithCategory(err, "failed to create Gemini provider", apperrors.ErrInternal)
		}
		return p, nil
	},
	config.ProviderOpenAI: func(entry config.ModelRegistry) (backend, error) {
		return openaiProvider.New(entry.APIKey, entry.BaseURL, entry.Name), nil
	},
	config.ProviderAnthropic: func(entry config.ModelRegistry) (backend, error) {
		return anthropicProvider.New(entry.APIKey, entry.MaxTokens), nil
	},
}

// newProvider builds the adapter for one registry entry. Every provider needs
// an API key.
func newProvider(entry config.ModelRegistry) (Provider, error) {
	factory, ok := providerFactories[entry.Provider]
	if !ok {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown provider type: %s", entry.Provider))
	}
	if entry.APIKey == "" {
		return nil, apperrors.InvalidInput(fmt.Sprintf("API key required for %s provider", entry.Provider))
	}
	b, err := factory(entry)
	if err != nil {
		return nil, err
	}
	return &ProviderAdapter{backend: b, name: entry.Name, providerType: entry.Provider}, nil
}
