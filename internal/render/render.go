// Package render turns lessons and learner progress into terminal output.
package render

import (
	"fmt"
	"strings"

	"github.com/harunnryd/verblume/internal/lesson"
	"github.com/harunnryd/verblume/internal/progress"
)

type OutputFormat string

const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
)

// Summary is the learner dashboard shown by `verblume progress`.
type Summary struct {
	Language       string                    `json:"language"`
	Streak         int                       `json:"streak"`
	Points         int                       `json:"points"`
	Mastery        float64                   `json:"mastery"`
	Performance    map[string]progress.Score `json:"performance"`
	CompletedToday []string                  `json:"completedToday"`
}

type Renderer interface {
	Lesson(lesson.Payload) (string, error)
	Topics([]lesson.TopicDetails) (string, error)
	SavedLessons([]progress.SavedLesson) (string, error)
	Categories([]progress.Category) (string, error)
	Languages([]lesson.LanguageDetails) (string, error)
	Progress(Summary) (string, error)
}

func New(format OutputFormat) (Renderer, error) {
	switch format {
	case OutputFormatTable:
		return NewTableRenderer(), nil
	case OutputFormatJSON:
		return NewJSONRenderer(), nil
	case OutputFormatYAML:
		return NewYAMLRenderer(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: table, json, yaml)", format)
	}
}

func ParseOutputFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	switch format {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("invalid output format: %s (supported: table, json, yaml)", s)
	}
}
