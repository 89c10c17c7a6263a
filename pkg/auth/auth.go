// Package auth classifies GitHub credentials by shape and gates API surfaces
// on the resulting capability class. Classification never talks to the
// network: the token prefix alone decides what the credential can do.
package auth

import "strings"

// CapabilityClass is the protocol surface a credential is known to support.
type CapabilityClass string

const (
	// CapabilityFull tokens work against every API path, including
	// organization-scoped GraphQL queries.
	CapabilityFull CapabilityClass = "full"
	// CapabilityRestricted tokens cannot execute organization-scoped GraphQL
	// queries but can still issue repository-scoped REST calls.
	CapabilityRestricted CapabilityClass = "restricted"
	// CapabilityUnknown tokens have an unrecognized shape. They are treated
	// as full for gating purposes but carry an advisory diagnostic.
	CapabilityUnknown CapabilityClass = "unknown"
)

const (
	classicTokenPrefix     = "ghp_"
	fineGrainedTokenPrefix = "github_pat_"
)

// Credential is an opaque token plus its derived capability class. Construct
// one with Classify at process start and thread it by parameter; nothing in
// this package reads ambient environment state.
type Credential struct {
	token      string
	class      CapabilityClass
	diagnostic string
}

// Classify derives the capability class from the token's prefix. It is a pure
// function: the same token always yields the same classification.
func Classify(token string) Credential {
	switch {
	case token == "":
		return Credential{
			class:      CapabilityUnknown,
			diagnostic: "credential not configured",
		}
	case strings.HasPrefix(token, classicTokenPrefix):
		return Credential{token: token, class: CapabilityFull}
	case strings.HasPrefix(token, fineGrainedTokenPrefix):
		return Credential{
			token: token,
			class: CapabilityRestricted,
			diagnostic: "fine-grained personal access tokens cannot execute " +
				"organization-scoped GraphQL queries; use a classic token " +
				"(ghp_ prefix) for Projects write operations",
		}
	default:
		return Credential{
			token: token,
			class: CapabilityUnknown,
			diagnostic: "unrecognized token format; assuming full API access. " +
				"If GraphQL requests fail with 403, switch to a classic " +
				"personal access token",
		}
	}
}

// Token returns the raw secret.
func (c Credential) Token() string {
	return c.token
}

// Class returns the detected capability class.
func (c Credential) Class() CapabilityClass {
	return c.class
}

// Diagnostic returns the advisory message attached during classification, if
// any. Empty for cleanly classified full-capability tokens.
func (c Credential) Diagnostic() string {
	return c.diagnostic
}

// IsSuitable reports whether the credential may legally attempt an operation
// requiring the given capability. Unknown tokens pass the full-capability
// gate: the shape check is advisory, and the remote service remains the
// authority for tokens we cannot classify.
func (c Credential) IsSuitable(required CapabilityClass) bool {
	if required != CapabilityFull {
		return true
	}
	return c.class != CapabilityRestricted
}
