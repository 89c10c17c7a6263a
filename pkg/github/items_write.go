package github

import (
	"context"
	"fmt"

	"github.com/github/github-projects-mcp-server/pkg/auth"
	ghErrors "github.com/github/github-projects-mcp-server/pkg/errors"
	"github.com/github/github-projects-mcp-server/pkg/translations"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/shurcooL/githubv4"
)

// resolutionErrorResult renders a resolution-layer failure (unknown field,
// unknown option, malformed value) as a diagnostic item in the normalized
// envelope. These never escape as Go errors to the tool boundary.
func resolutionErrorResult(err error) *mcp.CallToolResult {
	return toolResultFromItems([]resultItem{{Kind: itemKindError, Text: err.Error()}})
}

// UpdateProjectItemField sets one field value on a project item. The field is
// addressed by its display name and the value by its human-readable form; the
// field catalogue is discovered from the project schema and the value is
// resolved against the field's data type before the mutation is issued.
func UpdateProjectItemField(getGQLClient GetGQLClientFn, cred auth.Credential, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("update_project_item_field",
			mcp.WithDescription(t("TOOL_UPDATE_PROJECT_ITEM_FIELD_DESCRIPTION", `Update a field value on a Project item.

The field is addressed by name (as returned by list_project_fields) and the
value by its human-readable form: option name for single-select fields,
iteration title for iteration fields, YYYY-MM-DD for date fields.`)),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        t("TOOL_UPDATE_PROJECT_ITEM_FIELD_USER_TITLE", "Update project item field"),
				ReadOnlyHint: ToBoolPtr(false),
			}),
			mcp.WithString("owner_type",
				mcp.Required(),
				mcp.Description("Owner type"),
				mcp.Enum("user", "org"),
			),
			mcp.WithString("owner",
				mcp.Required(),
				mcp.Description("User handle or organization name. The name is not case sensitive."),
			),
			mcp.WithNumber("project_number",
				mcp.Required(),
				mcp.Description("The project's number."),
			),
			mcp.WithString("item_id",
				mcp.Required(),
				mcp.Description("The project item's node ID (from list_project_items), not the issue or pull request ID."),
			),
			mcp.WithString("field",
				mcp.Required(),
				mcp.Description("The field's name, exactly as returned by list_project_fields."),
			),
			mcp.WithString("value",
				mcp.Required(),
				mcp.Description("The new value: text, a number, YYYY-MM-DD, an option name, or an iteration title, depending on the field's type."),
			),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			if refusal := requireFullCapability(cred, "update_project_item_field"); refusal != nil {
				return refusal, nil
			}

			owner, err := RequiredParam[string](req, "owner")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			ownerType, err := RequiredParam[string](req, "owner_type")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			projectNumber, err := RequiredInt(req, "project_number")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			itemID, err := RequiredParam[string](req, "item_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			fieldName, err := RequiredParam[string](req, "field")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			rawValue, ok := req.GetArguments()["value"]
			if !ok {
				return mcp.NewToolResultError("missing required parameter: value"), nil
			}

			client, err := getGQLClient(ctx)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			fields, err := getProjectFields(ctx, client, owner, ownerType, projectNumber)
			if err != nil {
				return ghErrors.NewGitHubGraphQLErrorResponse(ctx,
					"failed to resolve project fields",
					err,
				), nil
			}

			field, found := fields.byName(fieldName)
			if !found {
				return resolutionErrorResult(&fieldNotFoundError{Name: fieldName, ValidNames: fields.names()}), nil
			}

			value, err := resolveFieldValue(field, rawValue)
			if err != nil {
				return resolutionErrorResult(err), nil
			}

			var mut struct {
				UpdateProjectV2ItemFieldValue struct {
					ProjectV2Item struct {
						ID githubv4.ID
					}
				} `graphql:"updateProjectV2ItemFieldValue(input: $input)"`
			}
			input := githubv4.UpdateProjectV2ItemFieldValueInput{
				ProjectID: fields.ProjectID,
				ItemID:    githubv4.ID(itemID),
				FieldID:   githubv4.ID(field.ID),
				Value:     value,
			}
			if err := client.Mutate(ctx, &mut, input, nil); err != nil {
				return ghErrors.NewGitHubGraphQLErrorResponse(ctx,
					"failed to update project item field",
					err,
				), nil
			}

			return toolResultFromItems(normalizeResponse(map[string]any{
				"item_id": itemID,
				"field":   field.Name,
				"updated": true,
			})), nil
		}
}

// AddDraftIssue creates a draft issue directly on a project.
func AddDraftIssue(getGQLClient GetGQLClientFn, cred auth.Credential, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("add_draft_issue",
			mcp.WithDescription(t("TOOL_ADD_DRAFT_ISSUE_DESCRIPTION", "Create a draft issue in a Project")),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        t("TOOL_ADD_DRAFT_ISSUE_USER_TITLE", "Add draft issue"),
				ReadOnlyHint: ToBoolPtr(false),
			}),
			mcp.WithString("owner_type",
				mcp.Required(),
				mcp.Description("Owner type"),
				mcp.Enum("user", "org"),
			),
			mcp.WithString("owner",
				mcp.Required(),
				mcp.Description("User handle or organization name. The name is not case sensitive."),
			),
			mcp.WithNumber("project_number",
				mcp.Required(),
				mcp.Description("The project's number."),
			),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("The draft issue's title."),
			),
			mcp.WithString("body",
				mcp.Description("The draft issue's body."),
			),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			if refusal := requireFullCapability(cred, "add_draft_issue"); refusal != nil {
				return refusal, nil
			}

			owner, err := RequiredParam[string](req, "owner")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			ownerType, err := RequiredParam[string](req, "owner_type")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			projectNumber, err := RequiredInt(req, "project_number")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			title, err := RequiredParam[string](req, "title")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			body, err := OptionalParam[string](req, "body")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := getGQLClient(ctx)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			fields, err := getProjectFields(ctx, client, owner, ownerType, projectNumber)
			if err != nil {
				return ghErrors.NewGitHubGraphQLErrorResponse(ctx,
					"failed to resolve project",
					err,
				), nil
			}

			input := githubv4.AddProjectV2DraftIssueInput{
				ProjectID: fields.ProjectID,
				Title:     githubv4.String(title),
			}
			if body != "" {
				input.Body = githubv4.NewString(githubv4.String(body))
			}

			var mut struct {
				AddProjectV2DraftIssue struct {
					ProjectItem struct {
						ID githubv4.ID
					}
				} `graphql:"addProjectV2DraftIssue(input: $input)"`
			}
			if err := client.Mutate(ctx, &mut, input, nil); err != nil {
				return ghErrors.NewGitHubGraphQLErrorResponse(ctx,
					"failed to create draft issue",
					err,
				), nil
			}

			// The confirmation stays a structured item: the titled-node
			// rendering would drop the new item's ID, which follow-up field
			// updates and deletes need.
			return toolResultFromItems([]resultItem{structuredItem(map[string]any{
				"item_id": fmt.Sprintf("%v", mut.AddProjectV2DraftIssue.ProjectItem.ID),
				"title":   title,
			})}), nil
		}
}

// ListProjectViews lists the views configured on a project. Views are only
// reachable over GraphQL, so this path is gated on full capability.
func ListProjectViews(getGQLClient GetGQLClientFn, cred auth.Credential, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("list_project_views",
			mcp.WithDescription(t("TOOL_LIST_PROJECT_VIEWS_DESCRIPTION", "List views for a Project")),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        t("TOOL_LIST_PROJECT_VIEWS_USER_TITLE", "List project views"),
				ReadOnlyHint: ToBoolPtr(true),
			}),
			mcp.WithString("owner_type",
				mcp.Required(),
				mcp.Description("Owner type"),
				mcp.Enum("user", "org"),
			),
			mcp.WithString("owner",
				mcp.Required(),
				mcp.Description("User handle or organization name. The name is not case sensitive."),
			),
			mcp.WithNumber("project_number",
				mcp.Required(),
				mcp.Description("The project's number."),
			),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			if refusal := requireFullCapability(cred, "list_project_views"); refusal != nil {
				return refusal, nil
			}

			owner, err := RequiredParam[string](req, "owner")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			ownerType, err := RequiredParam[string](req, "owner_type")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			projectNumber, err := RequiredInt(req, "project_number")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := getGQLClient(ctx)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			views, err := queryProjectViews(ctx, client, owner, ownerType, projectNumber)
			if err != nil {
				return ghErrors.NewGitHubGraphQLErrorResponse(ctx,
					"failed to list project views",
					err,
				), nil
			}

			return toolResultFromItems(normalizeResponse(map[string]any{"content": views})), nil
		}
}

type projectView struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Name   string `json:"name"`
	Layout string `json:"layout"`
}

type projectViewsNode struct {
	ID     githubv4.ID
	Number githubv4.Int
	Name   githubv4.String
	Layout githubv4.String
}

func queryProjectViews(ctx context.Context, gql *githubv4.Client, owner, ownerType string, projectNumber int) ([]projectView, error) {
	variables := map[string]any{
		"login":  githubv4.String(owner),
		"number": githubv4.Int(projectNumber), //nolint:gosec // project numbers are small
	}

	var nodes []projectViewsNode

	if ownerType == "org" {
		var q struct {
			Organization struct {
				ProjectV2 struct {
					Views struct {
						Nodes []projectViewsNode
					} `graphql:"views(first: 50)"`
				} `graphql:"projectV2(number: $number)"`
			} `graphql:"organization(login: $login)"`
		}
		if err := gql.Query(ctx, &q, variables); err != nil {
			return nil, err
		}
		nodes = q.Organization.ProjectV2.Views.Nodes
	} else {
		var q struct {
			User struct {
				ProjectV2 struct {
					Views struct {
						Nodes []projectViewsNode
					} `graphql:"views(first: 50)"`
				} `graphql:"projectV2(number: $number)"`
			} `graphql:"user(login: $login)"`
		}
		if err := gql.Query(ctx, &q, variables); err != nil {
			return nil, err
		}
		nodes = q.User.ProjectV2.Views.Nodes
	}

	views := make([]projectView, 0, len(nodes))
	for _, n := range nodes {
		views = append(views, projectView{
			ID:     fmt.Sprintf("%v", n.ID),
			Number: int(n.Number),
			Name:   string(n.Name),
			Layout: string(n.Layout),
		})
	}
	return views, nil
}
