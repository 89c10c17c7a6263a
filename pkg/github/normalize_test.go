package github

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_normalizeResponse_emptyShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{name: "nil", raw: nil},
		{name: "empty array", raw: []any{}},
		{name: "empty content list", raw: map[string]any{"content": []any{}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			items := normalizeResponse(tc.raw)
			require.Len(t, items, 1)
			assert.Equal(t, itemKindText, items[0].Kind)
			assert.Equal(t, noDataText, items[0].Text)
		})
	}
}

func Test_normalizeResponse_errorPassthrough(t *testing.T) {
	items := normalizeResponse(map[string]any{"error": "rate limited"})
	require.Len(t, items, 1)
	assert.Equal(t, itemKindError, items[0].Kind)
	assert.Equal(t, "rate limited", items[0].Text)

	// Non-string error payloads survive as canonical JSON.
	items = normalizeResponse(map[string]any{"error": map[string]any{"code": 403}})
	require.Len(t, items, 1)
	assert.Equal(t, itemKindError, items[0].Kind)
	assert.JSONEq(t, `{"code":403}`, items[0].Text)
}

func Test_normalizeResponse_titledNodes(t *testing.T) {
	items := normalizeResponse(map[string]any{"content": []any{
		map[string]any{
			"title":  "Fix bug",
			"number": 5,
			"state":  "open",
			"body":   "hello <b>world</b>",
		},
	}})
	require.Len(t, items, 1)
	assert.Equal(t, itemKindText, items[0].Kind)
	assert.Equal(t, "#5 Fix bug [open]\nhello world", items[0].Text)
}

func Test_normalizeResponse_nestedContentNode(t *testing.T) {
	// Project items carry number and state on their nested content object.
	items := normalizeResponse(map[string]any{"content": []any{
		map[string]any{
			"id":    "ITEM_1",
			"title": "Fix bug",
			"content": map[string]any{
				"number": 5,
				"state":  "open",
			},
		},
	}})
	require.Len(t, items, 1)
	assert.Equal(t, "#5 Fix bug [open]", items[0].Text)
}

func Test_normalizeResponse_untitledObject(t *testing.T) {
	items := normalizeResponse(map[string]any{"id": "F1", "data_type": "TEXT"})
	require.Len(t, items, 1)
	assert.Equal(t, itemKindText, items[0].Kind)
	assert.JSONEq(t, `{"id":"F1","data_type":"TEXT"}`, items[0].Text)
}

func Test_normalizeResponse_scalars(t *testing.T) {
	items := normalizeResponse("plain string")
	require.Len(t, items, 1)
	assert.Equal(t, "plain string", items[0].Text)

	items = normalizeResponse([]any{"a", 1, true})
	require.Len(t, items, 3)
	assert.Equal(t, "a", items[0].Text)
	assert.Equal(t, "1", items[1].Text)
	assert.Equal(t, "true", items[2].Text)
}

func Test_normalizeResponse_typedStructs(t *testing.T) {
	// Typed values go through the same canonicalization as raw maps.
	items := normalizeResponse(map[string]any{"content": []*MinimalProject{
		{ID: 1, Number: 7, Title: "Roadmap", Public: true},
	}})
	require.Len(t, items, 1)
	assert.Equal(t, "#7 Roadmap", items[0].Text)
}

func Test_normalizeResponse_idempotent(t *testing.T) {
	inputs := []any{
		nil,
		map[string]any{"error": "boom"},
		map[string]any{"content": []any{
			map[string]any{"title": "Fix bug", "number": 5, "state": "open"},
			map[string]any{"id": "F1"},
		}},
	}
	for _, raw := range inputs {
		once := normalizeResponse(raw)

		var roundTripped []any
		data, err := json.Marshal(once)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &roundTripped))

		twice := normalizeResponse(roundTripped)
		assert.Equal(t, once, twice)
	}
}

func Test_toolResultFromItems(t *testing.T) {
	result := toolResultFromItems([]resultItem{
		{Kind: itemKindText, Text: "fine"},
		{Kind: itemKindText, Text: "also fine"},
	})
	assert.False(t, result.IsError)
	require.Len(t, result.Content, 2)

	result = toolResultFromItems([]resultItem{
		{Kind: itemKindText, Text: "fine"},
		{Kind: itemKindError, Text: "broken"},
	})
	assert.True(t, result.IsError)
	require.Len(t, result.Content, 2)
}

func Test_jsonNumberString(t *testing.T) {
	assert.Equal(t, "5", jsonNumberString(float64(5)))
	assert.Equal(t, "5.5", jsonNumberString(5.5))
	assert.Equal(t, "7", jsonNumberString(7))
}
