package errors

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-github/v79/github"
	"github.com/mark3labs/mcp-go/mcp"
)

type GitHubAPIError struct {
	Message  string           `json:"message"`
	Response *github.Response `json:"-"`
	Err      error            `json:"-"`
}

// newGitHubAPIError keeps the raw status and underlying message intact so
// that nothing is lost between the API response and the tool caller.
func newGitHubAPIError(message string, resp *github.Response, err error) *GitHubAPIError {
	return &GitHubAPIError{
		Message:  message,
		Response: resp,
		Err:      err,
	}
}

func (e *GitHubAPIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *GitHubAPIError) Unwrap() error {
	return e.Err
}

type GitHubGraphQLError struct {
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func newGitHubGraphQLError(message string, err error) *GitHubGraphQLError {
	return &GitHubGraphQLError{
		Message: message,
		Err:     err,
	}
}

func (e *GitHubGraphQLError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *GitHubGraphQLError) Unwrap() error {
	return e.Err
}

type contextKey string

const (
	githubAPIErrorKey     contextKey = "githubAPIErrors"
	githubGraphQLErrorKey contextKey = "githubGraphQLErrors"
)

// ContextWithGitHubErrors initializes (or resets) the error collections in the
// context. The middleware that owns the request lifecycle calls this once, and
// handlers append to the collections as remote calls fail.
func ContextWithGitHubErrors(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if apiErrs, ok := ctx.Value(githubAPIErrorKey).(*[]*GitHubAPIError); ok {
		*apiErrs = []*GitHubAPIError{}
	} else {
		ctx = context.WithValue(ctx, githubAPIErrorKey, &[]*GitHubAPIError{})
	}
	if gqlErrs, ok := ctx.Value(githubGraphQLErrorKey).(*[]*GitHubGraphQLError); ok {
		*gqlErrs = []*GitHubGraphQLError{}
	} else {
		ctx = context.WithValue(ctx, githubGraphQLErrorKey, &[]*GitHubGraphQLError{})
	}
	return ctx
}

// GetGitHubAPIErrors returns the API errors recorded on the context so far.
func GetGitHubAPIErrors(ctx context.Context) ([]*GitHubAPIError, error) {
	if apiErrs, ok := ctx.Value(githubAPIErrorKey).(*[]*GitHubAPIError); ok {
		return *apiErrs, nil
	}
	return nil, errors.New("context does not contain GitHubAPIErrors")
}

// GetGitHubGraphQLErrors returns the GraphQL errors recorded on the context so far.
func GetGitHubGraphQLErrors(ctx context.Context) ([]*GitHubGraphQLError, error) {
	if gqlErrs, ok := ctx.Value(githubGraphQLErrorKey).(*[]*GitHubGraphQLError); ok {
		return *gqlErrs, nil
	}
	return nil, errors.New("context does not contain GitHubGraphQLErrors")
}

func addGitHubAPIErrorToContext(ctx context.Context, err *GitHubAPIError) {
	if ctx == nil {
		return
	}
	if apiErrs, ok := ctx.Value(githubAPIErrorKey).(*[]*GitHubAPIError); ok {
		*apiErrs = append(*apiErrs, err)
	}
}

func addGitHubGraphQLErrorToContext(ctx context.Context, err *GitHubGraphQLError) {
	if ctx == nil {
		return
	}
	if gqlErrs, ok := ctx.Value(githubGraphQLErrorKey).(*[]*GitHubGraphQLError); ok {
		*gqlErrs = append(*gqlErrs, err)
	}
}

// NewGitHubAPIErrorResponse records the error on the context and returns an
// error tool result carrying the raw status, the underlying message, and the
// documentation URL when the API provided one.
func NewGitHubAPIErrorResponse(ctx context.Context, message string, resp *github.Response, err error) *mcp.CallToolResult {
	apiErr := newGitHubAPIError(message, resp, err)
	addGitHubAPIErrorToContext(ctx, apiErr)

	detail := message
	if resp != nil {
		detail = fmt.Sprintf("%s: %s", detail, resp.Status)
	}
	if err != nil {
		detail = fmt.Sprintf("%s: %v", detail, err)
	}
	var ghErrResp *github.ErrorResponse
	if errors.As(err, &ghErrResp) && ghErrResp.DocumentationURL != "" {
		detail = fmt.Sprintf("%s (see %s)", detail, ghErrResp.DocumentationURL)
	}
	return mcp.NewToolResultError(detail)
}

// NewGitHubGraphQLErrorResponse records the error on the context and returns
// an error tool result with the GraphQL error message verbatim.
func NewGitHubGraphQLErrorResponse(ctx context.Context, message string, err error) *mcp.CallToolResult {
	gqlErr := newGitHubGraphQLError(message, err)
	addGitHubGraphQLErrorToContext(ctx, gqlErr)
	return mcp.NewToolResultError(gqlErr.Error())
}
