package aiclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[string]any
	}{
		{
			name: "clean object",
			text: `{"selected_index": 2, "reason_short": "most actionable"}`,
			want: map[string]any{"selected_index": float64(2), "reason_short": "most actionable"},
		},
		{
			name: "object wrapped in prose",
			text: "Sure! Here is the JSON you asked for:\n{\"template_number\": 4}\nHope that helps.",
			want: map[string]any{"template_number": float64(4)},
		},
		{
			name: "object in code fence",
			text: "```json\n{\"post_text\": \"hello\"}\n```",
			want: map[string]any{"post_text": "hello"},
		},
		{
			name: "empty input",
			text: "",
			want: map[string]any{},
		},
		{
			name: "no braces",
			text: "I could not decide.",
			want: map[string]any{},
		},
		{
			name: "broken json inside braces",
			text: "{not valid at all}",
			want: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSONObject(tt.text))
		})
	}
}

func TestJSONInt(t *testing.T) {
	obj := map[string]any{
		"num":    float64(7),
		"str":    " 3 ",
		"badstr": "many",
		"list":   []any{1},
	}
	assert.Equal(t, 7, JSONInt(obj, "num", 0))
	assert.Equal(t, 3, JSONInt(obj, "str", 0))
	assert.Equal(t, 9, JSONInt(obj, "badstr", 9))
	assert.Equal(t, 9, JSONInt(obj, "list", 9))
	assert.Equal(t, 9, JSONInt(obj, "missing", 9))
}

func TestJSONString(t *testing.T) {
	obj := map[string]any{"s": "value", "n": float64(1)}
	assert.Equal(t, "value", JSONString(obj, "s"))
	assert.Equal(t, "", JSONString(obj, "n"))
	assert.Equal(t, "", JSONString(obj, "missing"))
}

func TestJSONStrings(t *testing.T) {
	obj := map[string]any{
		"tags":  []any{"#infosec", "", float64(3), "#darija"},
		"plain": "not a list",
	}
	assert.Equal(t, []string{"#infosec", "#darija"}, JSONStrings(obj, "tags"))
	assert.Nil(t, JSONStrings(obj, "plain"))
	assert.Nil(t, JSONStrings(obj, "missing"))
}
