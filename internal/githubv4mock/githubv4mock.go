// Package githubv4mock provides an in-process HTTP double for GraphQL
// handlers under test. Matching is deliberately loose: a matcher claims a
// request when its operation fragment appears in the query text and its
// variables are a subset of the request's variables, so tests do not have to
// reproduce the full generated query string.
package githubv4mock

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
)

// GQLResponse is the canned body a matcher replies with.
type GQLResponse struct {
	Data   map[string]any `json:"data,omitempty"`
	Errors []gqlError     `json:"errors,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

// DataResponse wraps payload as a successful GraphQL response.
func DataResponse(data map[string]any) GQLResponse {
	return GQLResponse{Data: data}
}

// ErrorResponse produces a GraphQL error response with the given message.
func ErrorResponse(message string) GQLResponse {
	return GQLResponse{Errors: []gqlError{{Message: message}}}
}

// Matcher pairs a request predicate with a canned response. Matchers are
// consulted in registration order; the first claim wins.
type Matcher struct {
	operation string
	variables map[string]any
	response  GQLResponse
}

// NewQueryMatcher builds a matcher for requests whose query text contains
// operation and whose variables include every entry of variables. A nil
// variables map matches any variables.
func NewQueryMatcher(operation string, variables map[string]any, response GQLResponse) Matcher {
	return Matcher{
		operation: operation,
		variables: canonicalVariables(variables),
		response:  response,
	}
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type mockTransport struct {
	matchers []Matcher
}

func (t *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	defer func() { _ = req.Body.Close() }()

	var parsed gqlRequest
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("githubv4mock: request body is not a GraphQL request: %w", err)
	}

	for _, m := range t.matchers {
		if m.claims(parsed) {
			return jsonResponse(m.response)
		}
	}

	return jsonResponse(ErrorResponse(fmt.Sprintf("githubv4mock: no matcher claimed query %q with variables %v", parsed.Query, parsed.Variables)))
}

func (m Matcher) claims(req gqlRequest) bool {
	if !bytes.Contains([]byte(req.Query), []byte(m.operation)) {
		return false
	}
	for key, want := range m.variables {
		got, ok := req.Variables[key]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

func jsonResponse(resp GQLResponse) (*http.Response, error) {
	payload, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(payload)),
	}, nil
}

// canonicalVariables JSON-roundtrips the matcher's variables so numeric types
// compare equal to the float64 values produced by decoding the request body.
func canonicalVariables(variables map[string]any) map[string]any {
	if variables == nil {
		return nil
	}
	data, err := json.Marshal(variables)
	if err != nil {
		return variables
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return variables
	}
	return out
}

// NewMockedHTTPClient returns an http.Client whose transport answers GraphQL
// requests from the given matchers without touching the network.
func NewMockedHTTPClient(matchers ...Matcher) *http.Client {
	return &http.Client{Transport: &mockTransport{matchers: matchers}}
}
