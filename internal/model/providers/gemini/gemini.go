package gemini

import (
	"context"
	"fmt"
	"os"

	"github.com/harunnryd/verblume/internal/model/contract"

	"google.golang.org/genai"
)

type Provider struct {
	client *genai.Client
}

func New(apiKey string) (*Provider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &Provider{client: client}, nil
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) Generate(ctx context.Context, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	var contents []*genai.Content
	for _, m := range req.Messages {
		role := genai.RoleUser
		if m.Role == contract.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, genai.Role(role)))
	}

	cfg := &genai.GenerateContentConfig{Temperature: req.Temperature}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.WantsJSON() {
		cfg.ResponseMIMEType = contract.MIMETypeJSON
	}
	if req.Schema != nil {
		cfg.ResponseSchema = toGenaiSchema(req.Schema)
	}

	resp, err := p.client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	if resp == nil {
		return &contract.CompletionResponse{}, nil
	}
	return &contract.CompletionResponse{Content: resp.Text()}, nil
}

func (p *Provider) GenerateImage(ctx context.Context, req contract.ImageRequest) (*contract.ImageResponse, error) {
	mimeType := req.MIMEType
	if mimeType == "" {
		mimeType = contract.MIMETypeJPEG
	}

	resp, err := p.client.Models.GenerateImages(ctx, req.Model, req.Prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: mimeType,
		AspectRatio:    req.AspectRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini image request failed: %w", err)
	}
	if resp == nil || len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return nil, fmt.Errorf("gemini image request returned no image")
	}

	img := resp.GeneratedImages[0].Image
	if img.MIMEType != "" {
		mimeType = img.MIMEType
	}
	return &contract.ImageResponse{Data: img.ImageBytes, MIMEType: mimeType}, nil
}

func toGenaiSchema(s *contract.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        genaiType(s.Type),
		Description: s.Description,
		Enum:        s.Enum,
		Required:    s.Required,
		Items:       toGenaiSchema(s.Items),
	}
	if s.Nullable {
		out.Nullable = genai.Ptr(true)
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for _, name := range s.PropertyNames() {
			out.Properties[name] = toGenaiSchema(s.Properties[name])
		}
	}
	return out
}

func genaiType(t contract.SchemaType) genai.Type {
	switch t {
	case contract.TypeNumber:
		return genai.TypeNumber
	case contract.TypeInteger:
		return genai.TypeInteger
	case contract.TypeBoolean:
		return genai.TypeBoolean
	case contract.TypeArray:
		return genai.TypeArray
	case contract.TypeObject:
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}
