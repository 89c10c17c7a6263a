package github

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/github/github-projects-mcp-server/pkg/auth"
	"github.com/google/go-github/v79/github"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/shurcooL/githubv4"
)

// GetClientFn returns the REST client for the current request.
type GetClientFn func(context.Context) (*github.Client, error)

// GetGQLClientFn returns the GraphQL client for the current request.
type GetGQLClientFn func(context.Context) (*githubv4.Client, error)

// RequiredParam is a helper function that can be used to fetch a required
// parameter from the request. It checks that the parameter is present, of the
// expected type, and not zero-valued.
func RequiredParam[T comparable](r mcp.CallToolRequest, p string) (T, error) {
	var zero T

	if _, ok := r.GetArguments()[p]; !ok {
		return zero, fmt.Errorf("missing required parameter: %s", p)
	}

	value, ok := r.GetArguments()[p].(T)
	if !ok {
		return zero, fmt.Errorf("parameter %s is not of type %T", p, zero)
	}

	if value == zero {
		return zero, fmt.Errorf("missing required parameter: %s", p)
	}

	return value, nil
}

// OptionalParam fetches an optional parameter, returning the zero value when
// the parameter is absent and an error only on a type mismatch.
func OptionalParam[T any](r mcp.CallToolRequest, p string) (T, error) {
	var zero T

	if _, ok := r.GetArguments()[p]; !ok {
		return zero, nil
	}

	value, ok := r.GetArguments()[p].(T)
	if !ok {
		return zero, fmt.Errorf("parameter %s is not of type %T, is %T", p, zero, r.GetArguments()[p])
	}

	return value, nil
}

// RequiredInt fetches a required integer parameter. JSON numbers arrive as
// float64, so this narrows through RequiredParam[float64].
func RequiredInt(r mcp.CallToolRequest, p string) (int, error) {
	v, err := RequiredParam[float64](r, p)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// OptionalIntParam fetches an optional integer parameter.
func OptionalIntParam(r mcp.CallToolRequest, p string) (int, error) {
	v, err := OptionalParam[float64](r, p)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// OptionalIntParamWithDefault fetches an optional integer parameter, falling
// back to d when the parameter is absent or zero.
func OptionalIntParamWithDefault(r mcp.CallToolRequest, p string, d int) (int, error) {
	v, err := OptionalIntParam(r, p)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return d, nil
	}
	return v, nil
}

// OptionalStringArrayParam fetches an optional string array parameter. Both
// []string and []any (the shape JSON decoding produces) are accepted.
func OptionalStringArrayParam(r mcp.CallToolRequest, p string) ([]string, error) {
	if _, ok := r.GetArguments()[p]; !ok {
		return []string{}, nil
	}

	switch v := r.GetArguments()[p].(type) {
	case nil:
		return []string{}, nil
	case []string:
		return v, nil
	case []any:
		strSlice := make([]string, len(v))
		for i, vv := range v {
			s, ok := vv.(string)
			if !ok {
				return []string{}, fmt.Errorf("parameter %s is not of type string, is %T", p, vv)
			}
			strSlice[i] = s
		}
		return strSlice, nil
	default:
		return []string{}, fmt.Errorf("parameter %s could not be coerced to []string, is %T", p, v)
	}
}

// MarshalledTextResult marshals v to JSON and wraps it in a text result. A
// marshaling failure renders an error result rather than panicking.
func MarshalledTextResult(v any) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal text result to json: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

// ToBoolPtr converts a bool to a *bool pointer.
func ToBoolPtr(b bool) *bool {
	return &b
}

// requireFullCapability is the capability gate for GraphQL-backed handlers.
// It returns nil when the credential may attempt the operation, and otherwise
// a structured refusal naming the capability class and the classifier's
// diagnostic. The gate short-circuits before any network call so the caller
// gets a specific explanation instead of a generic remote 403.
func requireFullCapability(cred auth.Credential, operation string) *mcp.CallToolResult {
	if cred.IsSuitable(auth.CapabilityFull) {
		return nil
	}
	return mcp.NewToolResultError(fmt.Sprintf(
		"%s requires a credential with full API access, but the configured credential is classified as %q: %s",
		operation, cred.Class(), cred.Diagnostic(),
	))
}
