package github

import (
	"context"
	"fmt"

	"github.com/github/github-projects-mcp-server/pkg/auth"
	ghErrors "github.com/github/github-projects-mcp-server/pkg/errors"
	"github.com/github/github-projects-mcp-server/pkg/translations"
	"github.com/go-viper/mapstructure/v2"
	"github.com/google/go-github/v79/github"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/shurcooL/githubv4"
)

// statusFieldName is the built-in single-select field every project carries.
const statusFieldName = "Status"

// BulkAddIssuesToProject adds a list of repository issues to a project,
// best-effort: a failure on one issue is recorded in that issue's outcome and
// the batch continues. When a field and value are supplied, each added item
// additionally gets that field set; a failure there is recorded as the
// outcome's secondary error without voiding the add.
func BulkAddIssuesToProject(getGQLClient GetGQLClientFn, cred auth.Credential, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("bulk_add_issues_to_project",
			mcp.WithDescription(t("TOOL_BULK_ADD_ISSUES_TO_PROJECT_DESCRIPTION", `Add multiple repository issues to a Project.

Processes issues in order and continues past individual failures; the result
reports one outcome per issue plus an aggregate success count. Optionally
sets one field (by name) on every added item.`)),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        t("TOOL_BULK_ADD_ISSUES_TO_PROJECT_USER_TITLE", "Bulk add issues to project"),
				ReadOnlyHint: ToBoolPtr(false),
			}),
			mcp.WithString("owner_type",
				mcp.Required(),
				mcp.Description("Project owner type"),
				mcp.Enum("user", "org"),
			),
			mcp.WithString("owner",
				mcp.Required(),
				mcp.Description("Project owner: user handle or organization name."),
			),
			mcp.WithNumber("project_number",
				mcp.Required(),
				mcp.Description("The project's number."),
			),
			mcp.WithString("repo_owner",
				mcp.Required(),
				mcp.Description("Owner of the repository the issues live in."),
			),
			mcp.WithString("repo",
				mcp.Required(),
				mcp.Description("Repository name."),
			),
			mcp.WithArray("issue_numbers",
				mcp.Required(),
				mcp.Description("Issue numbers to add, in order."),
				mcp.Items(map[string]any{"type": "number"}),
			),
			mcp.WithString("field",
				mcp.Description("Optional field name to set on every added item."),
			),
			mcp.WithString("value",
				mcp.Description("Value for the optional field, in its human-readable form."),
			),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			if refusal := requireFullCapability(cred, "bulk_add_issues_to_project"); refusal != nil {
				return refusal, nil
			}

			var params struct {
				Owner         string `mapstructure:"owner"`
				OwnerType     string `mapstructure:"owner_type"`
				ProjectNumber int    `mapstructure:"project_number"`
				RepoOwner     string `mapstructure:"repo_owner"`
				Repo          string `mapstructure:"repo"`
				IssueNumbers  []int  `mapstructure:"issue_numbers"`
				Field         string `mapstructure:"field"`
				Value         any    `mapstructure:"value"`
			}
			if err := mapstructure.Decode(req.GetArguments(), &params); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if len(params.IssueNumbers) == 0 {
				return mcp.NewToolResultError("missing required parameter: issue_numbers"), nil
			}

			client, err := getGQLClient(ctx)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			fields, err := getProjectFields(ctx, client, params.Owner, params.OwnerType, params.ProjectNumber)
			if err != nil {
				return ghErrors.NewGitHubGraphQLErrorResponse(ctx,
					"failed to resolve project fields",
					err,
				), nil
			}

			// The optional field and value resolve once, up front. A field
			// the project does not have is a request error, not n per-item
			// errors.
			var fieldValue githubv4.ProjectV2FieldValue
			var fieldDef FieldDefinition
			if params.Field != "" {
				var found bool
				fieldDef, found = fields.byName(params.Field)
				if !found {
					return resolutionErrorResult(&fieldNotFoundError{Name: params.Field, ValidNames: fields.names()}), nil
				}
				fieldValue, err = resolveFieldValue(fieldDef, params.Value)
				if err != nil {
					return resolutionErrorResult(err), nil
				}
			}

			report := runBatch(params.IssueNumbers,
				func(n int) string { return fmt.Sprintf("%s/%s#%d", params.RepoOwner, params.Repo, n) },
				func(n int) (any, error, error) {
					issueID, err := lookupIssueNodeID(ctx, client, params.RepoOwner, params.Repo, n)
					if err != nil {
						return nil, nil, err
					}

					itemID, err := addItemByID(ctx, client, fields.ProjectID, issueID)
					if err != nil {
						return nil, nil, err
					}

					var secondaryErr error
					if params.Field != "" {
						secondaryErr = updateItemFieldValue(ctx, client, fields.ProjectID, itemID, fieldDef.ID, fieldValue)
						if secondaryErr != nil {
							secondaryErr = fmt.Errorf("item added, but setting field %q failed: %w", fieldDef.Name, secondaryErr)
						}
					}

					return map[string]any{"item_id": fmt.Sprintf("%v", itemID)}, secondaryErr, nil
				})

			return toolResultFromItems(report.resultItems()), nil
		}
}

// BulkUpdateItemStatus moves a list of project items to a Status option,
// optionally leaving a comment on each item's underlying issue. The comment
// is a best-effort secondary action: a failed comment is recorded on that
// item's outcome while the status change stands.
func BulkUpdateItemStatus(getGQLClient GetGQLClientFn, getClient GetClientFn, cred auth.Credential, t translations.TranslationHelperFunc) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool("bulk_update_item_status",
			mcp.WithDescription(t("TOOL_BULK_UPDATE_ITEM_STATUS_DESCRIPTION", `Set the Status field on multiple Project items.

Processes items in order and continues past individual failures. When a
comment is supplied (with repo_owner and repo), it is added to each item's
underlying issue after the status change; a failed comment does not undo the
status change.`)),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:        t("TOOL_BULK_UPDATE_ITEM_STATUS_USER_TITLE", "Bulk update item status"),
				ReadOnlyHint: ToBoolPtr(false),
			}),
			mcp.WithString("owner_type",
				mcp.Required(),
				mcp.Description("Project owner type"),
				mcp.Enum("user", "org"),
			),
			mcp.WithString("owner",
				mcp.Required(),
				mcp.Description("Project owner: user handle or organization name."),
			),
			mcp.WithNumber("project_number",
				mcp.Required(),
				mcp.Description("The project's number."),
			),
			mcp.WithString("status",
				mcp.Required(),
				mcp.Description("Target Status option name, e.g. \"In Progress\" or \"Done\"."),
			),
			mcp.WithArray("items",
				mcp.Required(),
				mcp.Description("Items to update: objects with item_id (project item node ID) and, when commenting, issue_number."),
				mcp.Items(map[string]any{
					"type": "object",
					"properties": map[string]any{
						"item_id":      map[string]any{"type": "string"},
						"issue_number": map[string]any{"type": "number"},
					},
					"required": []string{"item_id"},
				}),
			),
			mcp.WithString("comment",
				mcp.Description("Optional comment to add to each item's underlying issue."),
			),
			mcp.WithString("repo_owner",
				mcp.Description("Repository owner, required when comment is set."),
			),
			mcp.WithString("repo",
				mcp.Description("Repository name, required when comment is set."),
			),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			if refusal := requireFullCapability(cred, "bulk_update_item_status"); refusal != nil {
				return refusal, nil
			}

			var params struct {
				Owner         string `mapstructure:"owner"`
				OwnerType     string `mapstructure:"owner_type"`
				ProjectNumber int    `mapstructure:"project_number"`
				Status        string `mapstructure:"status"`
				Comment       string `mapstructure:"comment"`
				RepoOwner     string `mapstructure:"repo_owner"`
				Repo          string `mapstructure:"repo"`
				Items         []struct {
					ItemID      string `mapstructure:"item_id"`
					IssueNumber int    `mapstructure:"issue_number"`
				} `mapstructure:"items"`
			}
			if err := mapstructure.Decode(req.GetArguments(), &params); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if len(params.Items) == 0 {
				return mcp.NewToolResultError("missing required parameter: items"), nil
			}
			if params.Comment != "" && (params.RepoOwner == "" || params.Repo == "") {
				return mcp.NewToolResultError("repo_owner and repo are required when comment is set"), nil
			}

			gql, err := getGQLClient(ctx)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			fields, err := getProjectFields(ctx, gql, params.Owner, params.OwnerType, params.ProjectNumber)
			if err != nil {
				return ghErrors.NewGitHubGraphQLErrorResponse(ctx,
					"failed to resolve project fields",
					err,
				), nil
			}

			statusField, found := fields.byName(statusFieldName)
			if !found {
				return resolutionErrorResult(&fieldNotFoundError{Name: statusFieldName, ValidNames: fields.names()}), nil
			}
			statusValue, err := resolveFieldValue(statusField, params.Status)
			if err != nil {
				return resolutionErrorResult(err), nil
			}

			var rest *github.Client
			if params.Comment != "" {
				rest, err = getClient(ctx)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
			}

			type statusItem = struct {
				ItemID      string `mapstructure:"item_id"`
				IssueNumber int    `mapstructure:"issue_number"`
			}

			report := runBatch(params.Items,
				func(item statusItem) string { return item.ItemID },
				func(item statusItem) (any, error, error) {
					if err := updateItemFieldValue(ctx, gql, fields.ProjectID, githubv4.ID(item.ItemID), statusField.ID, statusValue); err != nil {
						return nil, nil, err
					}

					var secondaryErr error
					if params.Comment != "" && item.IssueNumber > 0 {
						_, _, commentErr := rest.Issues.CreateComment(ctx, params.RepoOwner, params.Repo, item.IssueNumber,
							&github.IssueComment{Body: github.Ptr(params.Comment)})
						if commentErr != nil {
							secondaryErr = fmt.Errorf("status updated, but comment failed: %w", commentErr)
						}
					}

					return map[string]any{"status": params.Status}, secondaryErr, nil
				})

			return toolResultFromItems(report.resultItems()), nil
		}
}

func lookupIssueNodeID(ctx context.Context, gql *githubv4.Client, owner, repo string, number int) (githubv4.ID, error) {
	var q struct {
		Repository struct {
			Issue struct {
				ID githubv4.ID
			} `graphql:"issue(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	variables := map[string]any{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(repo),
		"number": githubv4.Int(number), //nolint:gosec // issue numbers are small
	}
	if err := gql.Query(ctx, &q, variables); err != nil {
		return nil, err
	}
	if q.Repository.Issue.ID == nil || q.Repository.Issue.ID == "" {
		return nil, fmt.Errorf("issue %s/%s#%d not found", owner, repo, number)
	}
	return q.Repository.Issue.ID, nil
}

func addItemByID(ctx context.Context, gql *githubv4.Client, projectID, contentID githubv4.ID) (githubv4.ID, error) {
	var mut struct {
		AddProjectV2ItemByID struct {
			Item struct {
				ID githubv4.ID
			}
		} `graphql:"addProjectV2ItemById(input: $input)"`
	}
	input := githubv4.AddProjectV2ItemByIdInput{
		ProjectID: projectID,
		ContentID: contentID,
	}
	if err := gql.Mutate(ctx, &mut, input, nil); err != nil {
		return nil, err
	}
	return mut.AddProjectV2ItemByID.Item.ID, nil
}

func updateItemFieldValue(ctx context.Context, gql *githubv4.Client, projectID, itemID githubv4.ID, fieldID string, value githubv4.ProjectV2FieldValue) error {
	var mut struct {
		UpdateProjectV2ItemFieldValue struct {
			ProjectV2Item struct {
				ID githubv4.ID
			}
		} `graphql:"updateProjectV2ItemFieldValue(input: $input)"`
	}
	input := githubv4.UpdateProjectV2ItemFieldValueInput{
		ProjectID: projectID,
		ItemID:    itemID,
		FieldID:   githubv4.ID(fieldID),
		Value:     value,
	}
	return gql.Mutate(ctx, &mut, input, nil)
}
