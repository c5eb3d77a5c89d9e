package model

import (
	"context"

	"github.com/harunnryd/verblume/internal/model/contract"
)

type ModelRouter interface {
	Route(ctx context.Context, model string, req contract.CompletionRequest) (*contract.CompletionResponse, error)
	RouteImage(ctx context.Context, model string, req contract.ImageRequest) (*contract.ImageResponse, error)
	ListModels() []string
	Health(ctx context.Context) error
}

type Provider interface {
	Generate(ctx context.Context, req contract.CompletionRequest) (*contract.CompletionResponse, error)
	GenerateImage(ctx context.Context, req contract.ImageRequest) (*contract.ImageResponse, error)
	Name() string
	Type() string
	Health(ctx context.Context) error
}
