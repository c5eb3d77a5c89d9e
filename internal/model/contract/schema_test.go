package contract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaJSONSchema(t *testing.T) {
	s := Object(map[string]*Schema{
		"word":  String("the word"),
		"count": Integer(""),
		"tags":  ArrayOf(String(""), "labels"),
		"noun":  String("optional noun").AsNullable(),
	}, "word", "count")

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, "object", doc["type"])
	assert.ElementsMatch(t, []any{"word", "count"}, doc["required"])

	props := doc["properties"].(map[string]any)
	assert.Equal(t, "string", props["word"].(map[string]any)["type"])
	assert.Equal(t, []any{"string", "null"}, props["noun"].(map[string]any)["type"])
	assert.Equal(t, "string", props["tags"].(map[string]any)["items"].(map[string]any)["type"])
}

func TestSchemaCopiesDoNotMutateOriginal(t *testing.T) {
	base := String("base")
	described := base.WithDescription("other")
	nullable := base.AsNullable()

	assert.Equal(t, "base", base.Description)
	assert.False(t, base.Nullable)
	assert.Equal(t, "other", described.Description)
	assert.True(t, nullable.Nullable)
}

func TestPropertyNamesSorted(t *testing.T) {
	s := Object(map[string]*Schema{"b": String(""), "a": String(""), "c": String("")})
	assert.Equal(t, []string{"a", "b", "c"}, s.PropertyNames())
}

func TestCleanJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, CleanJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, CleanJSON("  {\"a\":1}  "))
	assert.Equal(t, `[1]`, CleanJSON("```\n[1]\n```"))
}

func TestImageResponseBase64(t *testing.T) {
	assert.Empty(t, (*ImageResponse)(nil).Base64())
	assert.Empty(t, (&ImageResponse{}).Base64())
	assert.Equal(t, "AQID", (&ImageResponse{Data: []byte{1, 2, 3}}).Base64())
}
