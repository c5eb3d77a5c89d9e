package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/harunnryd/verblume/internal/model/contract"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultMaxTokens = 8192

// ErrImagesUnsupported is returned for image requests; Claude has no image output.
var ErrImagesUnsupported = errors.New("image generation not supported by anthropic provider")

type Provider struct {
	client    anthropic.Client
	maxTokens int64
}

func New(apiKey string, maxTokens int) *Provider {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Provider{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		maxTokens: int64(maxTokens),
	}
}

func (p *Provider) Name() string {
	return "anthropic"
}

func (p *Provider) Generate(ctx context.Context, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	var messages []anthropic.MessageParam
	for _, m := range req.Messages {
		if m.Role == contract.RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
			continue
		}
		messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
	}

	modelName := req.Model
	if modelName == "" {
		modelName = string(anthropic.ModelClaude3_7SonnetLatest)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(modelName),
		MaxTokens: p.maxTokens,
		Messages:  messages,
	}
	if system := systemPrompt(req); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(float64(*req.Temperature))
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}

	var out strings.Builder
	for _, block := range msg.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			out.WriteString(b.Text)
		}
	}

	content := out.String()
	if req.WantsJSON() {
		content = contract.CleanJSON(content)
	}
	return &contract.CompletionResponse{Content: content}, nil
}

func (p *Provider) GenerateImage(ctx context.Context, req contract.ImageRequest) (*contract.ImageResponse, error) {
	return nil, ErrImagesUnsupported
}

// systemPrompt folds the response schema into the system prompt since the
// Messages API has no structured output mode.
func systemPrompt(req contract.CompletionRequest) string {
	if !req.WantsJSON() {
		return req.System
	}

	var b strings.Builder
	if req.System != "" {
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}
	b.WriteString("Respond with a single JSON object and nothing else.")
	if req.Schema != nil {
		if schema, err := json.Marshal(req.Schema); err == nil {
			b.WriteString(" The object must match this JSON Schema:\n")
			b.Write(schema)
		}
	}
	return b.String()
}
