package github

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/microcosm-cc/bluemonday"
)

// resultItem is the atomic unit of every normalized response. A response is
// always a sequence of one or more items, never a bare scalar or a nested
// structure, so callers have exactly one shape to render.
type resultItem struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

const (
	itemKindText  = "text"
	itemKindError = "error"
)

// noDataText is the sentinel rendered when a response carries no data at
// all. The envelope is never empty.
const noDataText = "no data"

// bodyPolicy strips HTML from issue and pull request bodies before they are
// rendered into result items.
var bodyPolicy = bluemonday.StrictPolicy()

// normalizeResponse collapses any remote payload shape (object, array,
// paginated node list, nil) into a flat sequence of result items. It is total
// over its input: it never panics and never returns an empty slice.
func normalizeResponse(raw any) (items []resultItem) {
	defer func() {
		if r := recover(); r != nil {
			items = []resultItem{{Kind: itemKindError, Text: fmt.Sprintf("failed to normalize response: %v", r)}}
		}
	}()

	switch v := toCanonical(raw).(type) {
	case nil:
		return []resultItem{{Kind: itemKindText, Text: noDataText}}
	case map[string]any:
		// An upstream error signal is passed through, never swallowed.
		if errVal, ok := v["error"]; ok {
			return []resultItem{errorItem(errVal)}
		}
		if content, ok := v["content"].([]any); ok {
			return normalizeSequence(content)
		}
		return []resultItem{convertItem(v)}
	case []any:
		return normalizeSequence(v)
	default:
		return []resultItem{{Kind: itemKindText, Text: fmt.Sprint(v)}}
	}
}

func normalizeSequence(elems []any) []resultItem {
	if len(elems) == 0 {
		return []resultItem{{Kind: itemKindText, Text: noDataText}}
	}
	items := make([]resultItem, 0, len(elems))
	for _, e := range elems {
		items = append(items, convertItem(e))
	}
	return items
}

// convertItem renders one raw node. A node with a title is rendered as a
// display line embedding its identifier and state, followed by its body; a
// node that is already a normalized item passes through unchanged; any other
// object is rendered as canonical JSON; primitives render as themselves.
func convertItem(elem any) resultItem {
	node, ok := elem.(map[string]any)
	if !ok {
		if elem == nil {
			return resultItem{Kind: itemKindText, Text: noDataText}
		}
		return resultItem{Kind: itemKindText, Text: fmt.Sprint(elem)}
	}

	// Re-normalizing an already-normalized item is the identity.
	if kind, kindOK := node["kind"].(string); kindOK {
		if text, textOK := node["text"].(string); textOK && len(node) == 2 {
			return resultItem{Kind: kind, Text: text}
		}
	}

	if title, hasTitle := node["title"].(string); hasTitle && title != "" {
		return resultItem{Kind: itemKindText, Text: displayLine(title, node)}
	}

	return structuredItem(node)
}

func displayLine(title string, node map[string]any) string {
	// Project items carry number, state and body on their nested content
	// object; bare issue/PR nodes carry them at the top level.
	lookup := func(key string) any {
		if v, ok := node[key]; ok {
			return v
		}
		if content, ok := node["content"].(map[string]any); ok {
			if v, ok := content[key]; ok {
				return v
			}
		}
		return nil
	}

	line := title
	if number := lookup("number"); number != nil {
		line = fmt.Sprintf("#%s %s", jsonNumberString(number), title)
	}
	if state, ok := lookup("state").(string); ok && state != "" {
		line = fmt.Sprintf("%s [%s]", line, state)
	}
	if body, ok := lookup("body").(string); ok && body != "" {
		line = fmt.Sprintf("%s\n%s", line, bodyPolicy.Sanitize(body))
	}
	return line
}

// structuredItem renders v as its canonical JSON form.
func structuredItem(v any) resultItem {
	data, err := json.Marshal(v)
	if err != nil {
		return resultItem{Kind: itemKindError, Text: fmt.Sprintf("failed to render response item: %v", err)}
	}
	return resultItem{Kind: itemKindText, Text: string(data)}
}

func errorItem(v any) resultItem {
	if s, ok := v.(string); ok {
		return resultItem{Kind: itemKindError, Text: s}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return resultItem{Kind: itemKindError, Text: fmt.Sprint(v)}
	}
	return resultItem{Kind: itemKindError, Text: string(data)}
}

// toCanonical reduces any Go value to the shapes JSON decoding produces
// (map[string]any, []any, float64, string, bool, nil), so conversion rules
// apply uniformly to typed structs and raw decoded payloads.
func toCanonical(raw any) any {
	if raw == nil {
		return nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Sprint(raw)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return string(data)
	}
	return v
}

// jsonNumberString renders a decoded JSON number without a trailing ".0" so
// issue numbers read as identifiers, not floats.
func jsonNumberString(v any) string {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprint(v)
}

// toolResultFromItems wraps normalized items into the uniform tool envelope.
// The error flag is derived here, at the dispatch edge, from whether any
// error-kind item is present; the normalizer itself never sets it.
func toolResultFromItems(items []resultItem) *mcp.CallToolResult {
	contents := make([]mcp.Content, 0, len(items))
	isError := false
	for _, item := range items {
		if item.Kind == itemKindError {
			isError = true
		}
		contents = append(contents, mcp.NewTextContent(item.Text))
	}
	return &mcp.CallToolResult{Content: contents, IsError: isError}
}
