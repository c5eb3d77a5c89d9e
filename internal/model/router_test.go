package model

import (
	"context"
	"errors"
	"testing"

	"github.com/harunnryd/verblume/internal/config"
	apperrors "github.com/harunnryd/verblume/internal/errors"
	"github.com/harunnryd/verblume/internal/model/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name     string
	content  string
	err      error
	calls    int
	lastReq  contract.CompletionRequest
	image    []byte
	imageErr error
}

func (s *stubProvider) Generate(_ context.Context, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &contract.CompletionResponse{Content: s.content}, nil
}

func (s *stubProvider) GenerateImage(_ context.Context, req contract.ImageRequest) (*contract.ImageResponse, error) {
	s.calls++
	if s.imageErr != nil {
		return nil, s.imageErr
	}
	return &contract.ImageResponse{Data: s.image, MIMEType: contract.MIMETypeJPEG}, nil
}

func (s *stubProvider) Name() string                 { return s.name }
func (s *stubProvider) Type() string                 { return "stub" }
func (s *stubProvider) Health(context.Context) error { return nil }

func TestRouteUsesRequestedModel(t *testing.T) {
	primary := &stubProvider{name: "primary", content: `{"ok":true}`}
	r := NewModelRouterWithProviders(config.ModelsConfig{Default: "primary"}, map[string]Provider{"primary": primary})

	resp, err := r.Route(context.Background(), "", contract.CompletionRequest{Messages: contract.UserPrompt("hi")})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, resp.Content)
	assert.Equal(t, "primary", primary.lastReq.Model)
}

func TestRouteFallsBackAndKeepsCause(t *testing.T) {
	cause := errors.New("status 503")
	primary := &stubProvider{name: "primary", err: cause}
	fallback := &stubProvider{name: "fallback", err: cause}
	r := NewModelRouterWithProviders(config.ModelsConfig{
		Default:             "primary",
		Fallback:            "fallback",
		MaxFallbackAttempts: 2,
	}, map[string]Provider{"primary": primary, "fallback": fallback})

	_, err := r.Route(context.Background(), "primary", contract.CompletionRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestRouteFallbackSucceeds(t *testing.T) {
	primary := &stubProvider{name: "primary", err: errors.New("boom")}
	fallback := &stubProvider{name: "fallback", content: "answer"}
	r := NewModelRouterWithProviders(config.ModelsConfig{
		Fallback:            "fallback",
		MaxFallbackAttempts: 2,
	}, map[string]Provider{"primary": primary, "fallback": fallback})

	resp, err := r.Route(context.Background(), "primary", contract.CompletionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "answer", resp.Content)
	assert.Equal(t, "fallback", fallback.lastReq.Model)
}

func TestRouteUnknownModel(t *testing.T) {
	r := NewModelRouterWithProviders(config.ModelsConfig{}, map[string]Provider{})

	_, err := r.Route(context.Background(), "missing", contract.CompletionRequest{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRouteImage(t *testing.T) {
	imager := &stubProvider{name: "imagen", image: []byte{0xff, 0xd8}}
	r := NewModelRouterWithProviders(config.ModelsConfig{Image: "imagen"}, map[string]Provider{"imagen": imager})

	resp, err := r.RouteImage(context.Background(), "", contract.ImageRequest{Prompt: "a cat"})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8}, resp.Data)

	_, err = r.RouteImage(context.Background(), "dall-e-3", contract.ImageRequest{Prompt: "a cat"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListModelsSorted(t *testing.T) {
	r := NewModelRouterWithProviders(config.ModelsConfig{}, map[string]Provider{
		"b": &stubProvider{}, "a": &stubProvider{},
	})
	assert.Equal(t, []string{"a", "b"}, r.ListModels())
	assert.NoError(t, r.Health(context.Background()))
}

func TestNewModelRouterSkipsEntriesWithoutKeys(t *testing.T) {
	_, err := NewModelRouter(config.ModelsConfig{Registry: []config.ModelRegistry{
		{Name: "gemini-2.5-flash", Provider: config.ProviderGemini},
	}})
	assert.ErrorIs(t, err, apperrors.ErrInternal)
}

func TestNewProvider(t *testing.T) {
	_, err := newProvider(config.ModelRegistry{Name: "x", Provider: "zai", APIKey: "k"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = newProvider(config.ModelRegistry{Name: "gpt-4o-mini", Provider: config.ProviderOpenAI})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	p, err := newProvider(config.ModelRegistry{Name: "gpt-4o-mini", Provider: config.ProviderOpenAI, APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", p.Name())
	assert.Equal(t, config.ProviderOpenAI, p.Type())
}
