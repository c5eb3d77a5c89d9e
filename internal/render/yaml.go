package render

import (
	"encoding/json"
	"strings"

	"github.com/harunnryd/verblume/internal/lesson"
	"github.com/harunnryd/verblume/internal/progress"

	"gopkg.in/yaml.v3"
)

// YAMLRenderer reuses the JSON field names so both outputs share one schema.
type YAMLRenderer struct{}

func NewYAMLRenderer() *YAMLRenderer {
	return &YAMLRenderer{}
}

func (r *YAMLRenderer) Lesson(p lesson.Payload) (string, error) {
	if p == nil {
		return "null", nil
	}
	raw, err := lesson.Encode(p)
	if err != nil {
		return "", err
	}
	return jsonToYAML(raw)
}

func (r *YAMLRenderer) Topics(topics []lesson.TopicDetails) (string, error) {
	return marshalYAML(topics)
}

func (r *YAMLRenderer) SavedLessons(saved []progress.SavedLesson) (string, error) {
	return marshalYAML(saved)
}

func (r *YAMLRenderer) Categories(cats []progress.Category) (string, error) {
	return marshalYAML(cats)
}

func (r *YAMLRenderer) Languages(langs []lesson.LanguageDetails) (string, error) {
	return marshalYAML(langs)
}

func (r *YAMLRenderer) Progress(s Summary) (string, error) {
	return marshalYAML(s)
}

func marshalYAML(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return jsonToYAML(raw)
}

// jsonToYAML parses JSON as YAML, which keeps key order, then drops the
// flow styles so the output is block YAML.
func jsonToYAML(raw []byte) (string, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return "", err
	}
	blockStyle(&node)

	data, err := yaml.Marshal(&node)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func blockStyle(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style = 0
	}
	if n.Kind == yaml.ScalarNode && n.Style == yaml.DoubleQuotedStyle {
		n.Style = 0
	}
	for _, child := range n.Content {
		blockStyle(child)
	}
}
