package toolsets

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool {
	return &b
}

func newTestTool(name string, readOnly bool) mcp.Tool {
	return mcp.NewTool(name, mcp.WithToolAnnotation(mcp.ToolAnnotation{
		ReadOnlyHint: boolPtr(readOnly),
	}))
}

func Test_Toolset_GetActiveTools(t *testing.T) {
	ts := NewToolset("projects", "test toolset").
		AddReadTools(NewServerTool(newTestTool("read_thing", true), nil)).
		AddWriteTools(NewServerTool(newTestTool("write_thing", false), nil))

	assert.Nil(t, ts.GetActiveTools(), "disabled toolset exposes no tools")

	ts.Enabled = true
	assert.Len(t, ts.GetActiveTools(), 2)
}

func Test_ToolsetGroup_readOnlyDropsWriteTools(t *testing.T) {
	tsg := NewToolsetGroup(true)
	ts := NewToolset("projects", "test toolset")
	tsg.AddToolset(ts)
	ts.AddReadTools(NewServerTool(newTestTool("read_thing", true), nil)).
		AddWriteTools(NewServerTool(newTestTool("write_thing", false), nil))

	require.NoError(t, tsg.EnableToolsets([]string{"projects"}))

	active := ts.GetActiveTools()
	require.Len(t, active, 1)
	assert.Equal(t, "read_thing", active[0].Tool.Name)
}

func Test_ToolsetGroup_EnableToolsets(t *testing.T) {
	tsg := NewToolsetGroup(false)
	tsg.AddToolset(NewToolset("projects", ""))
	tsg.AddToolset(NewToolset("issues", ""))

	require.Error(t, tsg.EnableToolsets([]string{"nonexistent"}))

	require.NoError(t, tsg.EnableToolsets([]string{"projects"}))
	assert.True(t, tsg.IsEnabled("projects"))
	assert.False(t, tsg.IsEnabled("issues"))

	require.NoError(t, tsg.EnableToolsets([]string{"all"}))
	assert.True(t, tsg.IsEnabled("issues"))
}

func Test_Toolset_annotationsEnforced(t *testing.T) {
	ts := NewToolset("projects", "")

	assert.Panics(t, func() {
		ts.AddReadTools(NewServerTool(newTestTool("sneaky_write", false), nil))
	})
	assert.Panics(t, func() {
		ts.AddWriteTools(NewServerTool(newTestTool("mislabeled_read", true), nil))
	})
}
