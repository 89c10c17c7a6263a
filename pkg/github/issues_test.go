package github

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/github/github-projects-mcp-server/pkg/translations"
	"github.com/google/go-github/v79/github"
	"github.com/migueleliasweb/go-github-mock/src/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_CreateIssue(t *testing.T) {
	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatchHandler(
			mock.PostReposIssuesByOwnerByRepo,
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var payload map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
				assert.Equal(t, "Something is broken", payload["title"])

				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write(mock.MustMarshal(map[string]any{
					"number":  12,
					"title":   "Something is broken",
					"state":   "open",
					"body":    "steps to reproduce",
					"node_id": "I_12",
				}))
			}),
		),
	)

	_, handler := CreateIssue(stubGetClientFn(github.NewClient(mockedClient)), translations.NullTranslationHelper)
	result, err := handler(context.Background(), createMCPRequest(map[string]any{
		"owner": "octo",
		"repo":  "demo",
		"title": "Something is broken",
		"body":  "steps to reproduce",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := getTextResult(t, result).Text
	assert.Contains(t, text, "#12 Something is broken [open]")
	assert.Contains(t, text, "steps to reproduce")
}

func Test_CreateIssue_missingTitle(t *testing.T) {
	_, handler := CreateIssue(stubGetClientFn(github.NewClient(nil)), translations.NullTranslationHelper)
	result, err := handler(context.Background(), createMCPRequest(map[string]any{
		"owner": "octo",
		"repo":  "demo",
	}))
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, getTextResult(t, result).Text, "missing required parameter: title")
}

func Test_GetIssue(t *testing.T) {
	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatchHandler(
			mock.GetReposIssuesByOwnerByRepoByIssueNumber,
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write(mock.MustMarshal(map[string]any{
					"number":  5,
					"title":   "Fix bug",
					"state":   "open",
					"body":    "it crashes",
					"node_id": "I_5",
				}))
			}),
		),
	)

	_, handler := GetIssue(stubGetClientFn(github.NewClient(mockedClient)), translations.NullTranslationHelper)
	result, err := handler(context.Background(), createMCPRequest(map[string]any{
		"owner":        "octo",
		"repo":         "demo",
		"issue_number": float64(5),
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, "#5 Fix bug [open]\nit crashes", getTextResult(t, result).Text)
}

func Test_GetIssue_notFound(t *testing.T) {
	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatchHandler(
			mock.GetReposIssuesByOwnerByRepoByIssueNumber,
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				mock.WriteError(w, http.StatusNotFound, "Not Found")
			}),
		),
	)

	_, handler := GetIssue(stubGetClientFn(github.NewClient(mockedClient)), translations.NullTranslationHelper)
	result, err := handler(context.Background(), createMCPRequest(map[string]any{
		"owner":        "octo",
		"repo":         "demo",
		"issue_number": float64(404),
	}))
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, getTextResult(t, result).Text, "failed to get issue")
}

func Test_AddIssueComment(t *testing.T) {
	mockedClient := mock.NewMockedHTTPClient(
		mock.WithRequestMatchHandler(
			mock.PostReposIssuesCommentsByOwnerByRepoByIssueNumber,
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write(mock.MustMarshal(map[string]any{
					"id":   77,
					"body": "looks good",
				}))
			}),
		),
	)

	_, handler := AddIssueComment(stubGetClientFn(github.NewClient(mockedClient)), translations.NullTranslationHelper)
	result, err := handler(context.Background(), createMCPRequest(map[string]any{
		"owner":        "octo",
		"repo":         "demo",
		"issue_number": float64(5),
		"body":         "looks good",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, getTextResult(t, result).Text, "looks good")
}
