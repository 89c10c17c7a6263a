package github

import (
	"context"
	"net/http"
	"testing"

	"github.com/github/github-projects-mcp-server/internal/toolsnaps"
	"github.com/github/github-projects-mcp-server/pkg/translations"
	"github.com/google/go-github/v79/github"
	"github.com/migueleliasweb/go-github-mock/src/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	listOrgProjectsEndpoint = mock.EndpointPattern{
		Pattern: "/orgs/{org}/projectsV2",
		Method:  "GET",
	}
	getUserProjectEndpoint = mock.EndpointPattern{
		Pattern: "/users/{username}/projectsV2/{number}",
		Method:  "GET",
	}
	listOrgProjectFieldsEndpoint = mock.EndpointPattern{
		Pattern: "/orgs/{org}/projectsV2/{number}/fields",
		Method:  "GET",
	}
	listUserProjectItemsEndpoint = mock.EndpointPattern{
		Pattern: "/users/{username}/projectsV2/{number}/items",
		Method:  "GET",
	}
	addOrgProjectItemEndpoint = mock.EndpointPattern{
		Pattern: "/orgs/{org}/projectsV2/{number}/items",
		Method:  "POST",
	}
	deleteOrgProjectItemEndpoint = mock.EndpointPattern{
		Pattern: "/orgs/{org}/projectsV2/{number}/items/{item_id}",
		Method:  "DELETE",
	}
)

func stubGetClientFn(client *github.Client) GetClientFn {
	return func(_ context.Context) (*github.Client, error) {
		return client, nil
	}
}

func Test_ListProjects(t *testing.T) {
	tool, _ := ListProjects(nil, translations.NullTranslationHelper)
	require.NoError(t, toolsnaps.Test(tool.Name, tool))

	assert.Equal(t, "list_projects", tool.Name)
	assert.Contains(t, tool.InputSchema.Required, "owner")
	assert.Contains(t, tool.InputSchema.Required, "owner_type")

	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatchHandler(
			listOrgProjectsEndpoint,
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "50", r.URL.Query().Get("per_page"))
				_, _ = w.Write(mock.MustMarshal([]map[string]any{
					{"id": 1, "number": 7, "title": "Roadmap", "public": true},
					{"id": 2, "number": 9, "title": "Bug Triage", "public": false},
				}))
			}),
		),
	)

	_, handler := ListProjects(stubGetClientFn(github.NewClient(mockedClient)), translations.NullTranslationHelper)
	result, err := handler(context.Background(), createMCPRequest(map[string]any{
		"owner_type": "org",
		"owner":      "octo-org",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	texts := getTextContents(t, result)
	require.Len(t, texts, 3)
	assert.Equal(t, "#7 Roadmap", texts[0])
	assert.Equal(t, "#9 Bug Triage", texts[1])
	assert.Contains(t, texts[2], "pageInfo")
}

func Test_ListProjects_apiError(t *testing.T) {
	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatchHandler(
			listOrgProjectsEndpoint,
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				mock.WriteError(w, http.StatusNotFound, "no such org")
			}),
		),
	)

	_, handler := ListProjects(stubGetClientFn(github.NewClient(mockedClient)), translations.NullTranslationHelper)
	result, err := handler(context.Background(), createMCPRequest(map[string]any{
		"owner_type": "org",
		"owner":      "ghost-org",
	}))
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, getTextResult(t, result).Text, "failed to list projects")
}

func Test_ListProjects_missingParams(t *testing.T) {
	_, handler := ListProjects(stubGetClientFn(github.NewClient(nil)), translations.NullTranslationHelper)

	result, err := handler(context.Background(), createMCPRequest(map[string]any{
		"owner_type": "org",
	}))
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, getTextResult(t, result).Text, "missing required parameter: owner")
}

func Test_GetProject(t *testing.T) {
	tool, _ := GetProject(nil, translations.NullTranslationHelper)
	require.NoError(t, toolsnaps.Test(tool.Name, tool))

	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatchHandler(
			getUserProjectEndpoint,
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write(mock.MustMarshal(map[string]any{
					"id":          42,
					"number":      3,
					"title":       "Personal Tasks",
					"description": "things to do",
					"public":      false,
				}))
			}),
		),
	)

	_, handler := GetProject(stubGetClientFn(github.NewClient(mockedClient)), translations.NullTranslationHelper)
	result, err := handler(context.Background(), createMCPRequest(map[string]any{
		"owner_type":     "user",
		"owner":          "octocat",
		"project_number": float64(3),
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, "#3 Personal Tasks", getTextResult(t, result).Text)
}

func Test_ListProjectFields_filtersSpecialTypes(t *testing.T) {
	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatchHandler(
			listOrgProjectFieldsEndpoint,
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write(mock.MustMarshal([]map[string]any{
					{"id": 101, "name": "Status", "data_type": "single_select"},
					{"id": 102, "name": "Title", "data_type": "title"},
					{"id": 103, "name": "Points", "data_type": "number"},
					{"id": 104, "name": "Labels", "data_type": "labels"},
				}))
			}),
		),
	)

	_, handler := ListProjectFields(stubGetClientFn(github.NewClient(mockedClient)), translations.NullTranslationHelper)
	result, err := handler(context.Background(), createMCPRequest(map[string]any{
		"owner_type":     "org",
		"owner":          "octo-org",
		"project_number": float64(7),
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	texts := getTextContents(t, result)
	// Two real fields plus the pageInfo trailer; title and labels are
	// special types and stay out of the field catalogue.
	require.Len(t, texts, 3)
	assert.Contains(t, texts[0], "Status")
	assert.Contains(t, texts[1], "Points")
	assert.Contains(t, texts[2], "pageInfo")
}

func Test_ListProjectItems(t *testing.T) {
	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatchHandler(
			listUserProjectItemsEndpoint,
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "is:issue state:open", r.URL.Query().Get("q"))
				_, _ = w.Write(mock.MustMarshal([]map[string]any{
					{
						"id":    9001,
						"title": "Fix bug",
						"content": map[string]any{
							"number": 5,
							"state":  "open",
						},
					},
				}))
			}),
		),
	)

	_, handler := ListProjectItems(stubGetClientFn(github.NewClient(mockedClient)), translations.NullTranslationHelper)
	result, err := handler(context.Background(), createMCPRequest(map[string]any{
		"owner_type":     "user",
		"owner":          "octocat",
		"project_number": float64(3),
		"query":          "is:issue state:open",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	texts := getTextContents(t, result)
	require.Len(t, texts, 2)
	assert.Equal(t, "#5 Fix bug [open]", texts[0])
	assert.Contains(t, texts[1], "pageInfo")
}

func Test_ListProjectItems_empty(t *testing.T) {
	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatchHandler(
			listUserProjectItemsEndpoint,
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write(mock.MustMarshal([]map[string]any{}))
			}),
		),
	)

	_, handler := ListProjectItems(stubGetClientFn(github.NewClient(mockedClient)), translations.NullTranslationHelper)
	result, err := handler(context.Background(), createMCPRequest(map[string]any{
		"owner_type":     "user",
		"owner":          "octocat",
		"project_number": float64(3),
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	texts := getTextContents(t, result)
	require.Len(t, texts, 2)
	assert.Equal(t, noDataText, texts[0])
}

func Test_AddProjectItem(t *testing.T) {
	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatchHandler(
			addOrgProjectItemEndpoint,
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write(mock.MustMarshal(map[string]any{
					"id":    9002,
					"title": "New item",
				}))
			}),
		),
	)

	_, handler := AddProjectItem(stubGetClientFn(github.NewClient(mockedClient)), translations.NullTranslationHelper)
	result, err := handler(context.Background(), createMCPRequest(map[string]any{
		"owner_type":     "org",
		"owner":          "octo-org",
		"project_number": float64(7),
		"item_type":      "issue",
		"item_id":        float64(12345),
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, getTextResult(t, result).Text, "New item")
}

func Test_AddProjectItem_rejectsBadType(t *testing.T) {
	_, handler := AddProjectItem(stubGetClientFn(github.NewClient(nil)), translations.NullTranslationHelper)
	result, err := handler(context.Background(), createMCPRequest(map[string]any{
		"owner_type":     "org",
		"owner":          "octo-org",
		"project_number": float64(7),
		"item_type":      "discussion",
		"item_id":        float64(12345),
	}))
	require.NoError(t, err)
	require.True(t, result.IsError)
}

func Test_DeleteProjectItem(t *testing.T) {
	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatchHandler(
			deleteOrgProjectItemEndpoint,
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}),
		),
	)

	_, handler := DeleteProjectItem(stubGetClientFn(github.NewClient(mockedClient)), translations.NullTranslationHelper)
	result, err := handler(context.Background(), createMCPRequest(map[string]any{
		"owner_type":     "org",
		"owner":          "octo-org",
		"project_number": float64(7),
		"item_id":        float64(9002),
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, getTextResult(t, result).Text, "successfully deleted")
}
