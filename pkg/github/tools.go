package github

import (
	"github.com/github/github-projects-mcp-server/pkg/auth"
	"github.com/github/github-projects-mcp-server/pkg/toolsets"
	"github.com/github/github-projects-mcp-server/pkg/translations"
)

// DefaultToolsetGroup assembles the server's toolsets. Tools backed by the
// REST API work with any credential; tools backed by the GraphQL API carry a
// capability gate and refuse up front when the configured credential cannot
// reach org-scoped GraphQL.
func DefaultToolsetGroup(readOnly bool, getClient GetClientFn, getGQLClient GetGQLClientFn, cred auth.Credential, t translations.TranslationHelperFunc) *toolsets.ToolsetGroup {
	tsg := toolsets.NewToolsetGroup(readOnly)

	projects := toolsets.NewToolset("projects", "GitHub Projects related tools").
		AddReadTools(
			toolsets.NewServerTool(ListProjects(getClient, t)),
			toolsets.NewServerTool(GetProject(getClient, t)),
			toolsets.NewServerTool(ListProjectFields(getClient, t)),
			toolsets.NewServerTool(GetProjectField(getClient, t)),
			toolsets.NewServerTool(ListProjectItems(getClient, t)),
			toolsets.NewServerTool(GetProjectItem(getClient, t)),
			toolsets.NewServerTool(ListProjectViews(getGQLClient, cred, t)),
		).
		AddWriteTools(
			toolsets.NewServerTool(AddProjectItem(getClient, t)),
			toolsets.NewServerTool(DeleteProjectItem(getClient, t)),
			toolsets.NewServerTool(AddDraftIssue(getGQLClient, cred, t)),
			toolsets.NewServerTool(UpdateProjectItemField(getGQLClient, cred, t)),
			toolsets.NewServerTool(BulkAddIssuesToProject(getGQLClient, cred, t)),
			toolsets.NewServerTool(BulkUpdateItemStatus(getGQLClient, getClient, cred, t)),
		)

	issues := toolsets.NewToolset("issues", "GitHub Issues related tools").
		AddReadTools(
			toolsets.NewServerTool(GetIssue(getClient, t)),
		).
		AddWriteTools(
			toolsets.NewServerTool(CreateIssue(getClient, t)),
			toolsets.NewServerTool(AddIssueComment(getClient, t)),
		)

	tsg.AddToolset(projects)
	tsg.AddToolset(issues)

	return tsg
}
