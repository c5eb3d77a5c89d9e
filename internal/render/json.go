package render

import (
	"bytes"
	"encoding/json"

	"github.com/harunnryd/verblume/internal/lesson"
	"github.com/harunnryd/verblume/internal/progress"
)

type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

func (r *JSONRenderer) Lesson(p lesson.Payload) (string, error) {
	if p == nil {
		return "null", nil
	}
	raw, err := lesson.Encode(p)
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return "", err
	}
	return out.String(), nil
}

func (r *JSONRenderer) Topics(topics []lesson.TopicDetails) (string, error) {
	return indentJSON(topics)
}

func (r *JSONRenderer) SavedLessons(saved []progress.SavedLesson) (string, error) {
	return indentJSON(saved)
}

func (r *JSONRenderer) Categories(cats []progress.Category) (string, error) {
	return indentJSON(cats)
}

func (r *JSONRenderer) Languages(langs []lesson.LanguageDetails) (string, error) {
	return indentJSON(langs)
}

func (r *JSONRenderer) Progress(s Summary) (string, error) {
	return indentJSON(s)
}

func indentJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
