package github

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"
)

func createMCPRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func getTextResult(t *testing.T, result *mcp.CallToolResult) mcp.TextContent {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return textContent
}

func getTextContents(t *testing.T, result *mcp.CallToolResult) []string {
	t.Helper()
	require.NotNil(t, result)
	texts := make([]string, 0, len(result.Content))
	for _, c := range result.Content {
		textContent, ok := c.(mcp.TextContent)
		require.True(t, ok, "expected text content, got %T", c)
		texts = append(texts, textContent.Text)
	}
	return texts
}
