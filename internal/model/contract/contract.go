package contract

import (
	"encoding/base64"
	"strings"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	MIMETypeJSON = "application/json"
	MIMETypeJPEG = "image/jpeg"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is one text generation call. When Schema is set the
// provider is asked for a JSON body matching it.
type CompletionRequest struct {
	Model       string    `json:"model"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature *float32  `json:"temperature,omitempty"`
	Schema      *Schema   `json:"schema,omitempty"`
	SchemaName  string    `json:"schema_name,omitempty"`
	JSON        bool      `json:"json,omitempty"`
}

// WantsJSON reports whether the caller expects a JSON body.
func (r CompletionRequest) WantsJSON() bool {
	return r.JSON || r.Schema != nil
}

func UserPrompt(text string) []Message {
	return []Message{{Role: RoleUser, Content: text}}
}

type CompletionResponse struct {
	Content string `json:"content"`
}

type ImageRequest struct {
	Model       string `json:"model"`
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
	MIMEType    string `json:"mime_type,omitempty"`
}

type ImageResponse struct {
	Data     []byte `json:"-"`
	MIMEType string `json:"mime_type"`
}

// Base64 returns the image encoded the way lesson payloads carry it.
func (r *ImageResponse) Base64() string {
	if r == nil || len(r.Data) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(r.Data)
}

// CleanJSON strips markdown fences some models wrap around JSON bodies.
func CleanJSON(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}
