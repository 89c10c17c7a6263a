package github

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/muesli/cache2go"
	"github.com/shurcooL/githubv4"
)

// Field data types the value resolver understands. The set is closed: any
// other data type reported by the API is an unsupported-type error, never a
// best-effort coercion.
const (
	fieldTypeText         = "TEXT"
	fieldTypeNumber       = "NUMBER"
	fieldTypeDate         = "DATE"
	fieldTypeSingleSelect = "SINGLE_SELECT"
	fieldTypeIteration    = "ITERATION"
)

// fieldOption is one legal value of a single-select field.
type fieldOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// fieldIteration is one iteration of an iteration field.
type fieldIteration struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// FieldDefinition is a project field as discovered from the GraphQL schema.
type FieldDefinition struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	DataType   string           `json:"data_type"`
	Options    []fieldOption    `json:"options,omitempty"`
	Iterations []fieldIteration `json:"iterations,omitempty"`
}

func (f FieldDefinition) optionNames() []string {
	names := make([]string, 0, len(f.Options))
	for _, o := range f.Options {
		names = append(names, o.Name)
	}
	return names
}

func (f FieldDefinition) iterationTitles() []string {
	titles := make([]string, 0, len(f.Iterations))
	for _, it := range f.Iterations {
		titles = append(titles, it.Title)
	}
	return titles
}

// fieldSet is the discovered field catalogue of one project, together with
// the project's node ID (mutations need it). Lookups are case-sensitive
// exact matches and report absence with ok=false rather than an error; the
// caller owns turning a miss into a diagnostic that lists valid names.
type fieldSet struct {
	ProjectID githubv4.ID
	Fields    []FieldDefinition
}

func (fs *fieldSet) byID(id string) (FieldDefinition, bool) {
	for _, f := range fs.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

func (fs *fieldSet) byName(name string) (FieldDefinition, bool) {
	for _, f := range fs.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

func (fs *fieldSet) names() []string {
	names := make([]string, 0, len(fs.Fields))
	for _, f := range fs.Fields {
		names = append(names, f.Name)
	}
	return names
}

// projectFieldsNode mirrors the ProjectV2 field union. Special field types
// (title, labels, assignees, ...) surface here too; they stay in the
// catalogue so byName can find them, and the value resolver rejects them.
type projectFieldsNode struct {
	Common struct {
		ID       githubv4.ID
		Name     githubv4.String
		DataType githubv4.String
	} `graphql:"... on ProjectV2FieldCommon"`
	SingleSelect struct {
		Options []struct {
			ID   githubv4.String
			Name githubv4.String
		}
	} `graphql:"... on ProjectV2SingleSelectField"`
	Iteration struct {
		Configuration struct {
			Iterations []struct {
				ID    githubv4.String
				Title githubv4.String
			}
		}
	} `graphql:"... on ProjectV2IterationField"`
}

func (n projectFieldsNode) toDefinition() FieldDefinition {
	def := FieldDefinition{
		ID:       fmt.Sprintf("%v", n.Common.ID),
		Name:     string(n.Common.Name),
		DataType: strings.ToUpper(string(n.Common.DataType)),
	}
	for _, o := range n.SingleSelect.Options {
		def.Options = append(def.Options, fieldOption{ID: string(o.ID), Name: string(o.Name)})
	}
	for _, it := range n.Iteration.Configuration.Iterations {
		def.Iterations = append(def.Iterations, fieldIteration{ID: string(it.ID), Title: string(it.Title)})
	}
	return def
}

type projectNotFoundError struct {
	owner         string
	projectNumber int
}

func (e *projectNotFoundError) Error() string {
	return fmt.Sprintf("project %d not found for owner %q", e.projectNumber, e.owner)
}

type contextKey string

const fieldMemoKey contextKey = "projectFieldsMemo"

// ContextWithFieldMemo attaches a fresh memoization scope for project field
// catalogues to the context. The server installs one per tool call, so a
// catalogue fetched during one invocation is reused within that invocation
// and never across invocations.
func ContextWithFieldMemo(ctx context.Context) context.Context {
	return context.WithValue(ctx, fieldMemoKey, uuid.NewString())
}

// projectFieldsCacheTTL bounds how long finished invocations' entries linger
// in the backing table before eviction. Reuse is scoped by the
// per-invocation memo key, never by this window.
const projectFieldsCacheTTL = 30 * time.Second

var projectFieldsCache = cache2go.Cache("projectFields")

// getProjectFields fetches the field catalogue and node ID of one project,
// memoized per owner/project within the current tool invocation. Without a
// memo scope on the context every call refetches.
func getProjectFields(ctx context.Context, gql *githubv4.Client, owner, ownerType string, projectNumber int) (*fieldSet, error) {
	memoToken, memoized := ctx.Value(fieldMemoKey).(string)
	if !memoized {
		return queryProjectFields(ctx, gql, owner, ownerType, projectNumber)
	}

	cacheKey := fmt.Sprintf("%s/%s/%s/%d", memoToken, ownerType, owner, projectNumber)
	if cached, err := projectFieldsCache.Value(cacheKey); err == nil {
		return cached.Data().(*fieldSet), nil
	}

	fs, err := queryProjectFields(ctx, gql, owner, ownerType, projectNumber)
	if err != nil {
		return nil, err
	}

	projectFieldsCache.Add(cacheKey, projectFieldsCacheTTL, fs)
	return fs, nil
}

func queryProjectFields(ctx context.Context, gql *githubv4.Client, owner, ownerType string, projectNumber int) (*fieldSet, error) {
	variables := map[string]any{
		"login":  githubv4.String(owner),
		"number": githubv4.Int(projectNumber), //nolint:gosec // project numbers are small
	}

	var projectID githubv4.ID
	var nodes []projectFieldsNode

	if ownerType == "org" {
		var q struct {
			Organization struct {
				ProjectV2 struct {
					ID     githubv4.ID
					Fields struct {
						Nodes []projectFieldsNode
					} `graphql:"fields(first: 100)"`
				} `graphql:"projectV2(number: $number)"`
			} `graphql:"organization(login: $login)"`
		}
		if err := gql.Query(ctx, &q, variables); err != nil {
			return nil, err
		}
		projectID = q.Organization.ProjectV2.ID
		nodes = q.Organization.ProjectV2.Fields.Nodes
	} else {
		var q struct {
			User struct {
				ProjectV2 struct {
					ID     githubv4.ID
					Fields struct {
						Nodes []projectFieldsNode
					} `graphql:"fields(first: 100)"`
				} `graphql:"projectV2(number: $number)"`
			} `graphql:"user(login: $login)"`
		}
		if err := gql.Query(ctx, &q, variables); err != nil {
			return nil, err
		}
		projectID = q.User.ProjectV2.ID
		nodes = q.User.ProjectV2.Fields.Nodes
	}

	if projectID == nil || projectID == "" {
		return nil, &projectNotFoundError{owner: owner, projectNumber: projectNumber}
	}

	fs := &fieldSet{ProjectID: projectID}
	for _, n := range nodes {
		if n.Common.Name == "" {
			continue
		}
		fs.Fields = append(fs.Fields, n.toDefinition())
	}
	return fs, nil
}

type fieldNotFoundError struct {
	Name       string
	ValidNames []string
}

func (e *fieldNotFoundError) Error() string {
	return fmt.Sprintf("field %q not found; available fields: %s", e.Name, strings.Join(e.ValidNames, ", "))
}

type optionNotFoundError struct {
	Field      string
	Value      string
	ValidNames []string
}

func (e *optionNotFoundError) Error() string {
	return fmt.Sprintf("%q is not an option of field %q; valid options: %s", e.Value, e.Field, strings.Join(e.ValidNames, ", "))
}

type valueFormatError struct {
	Field    string
	RawValue any
	Reason   string
}

func (e *valueFormatError) Error() string {
	return fmt.Sprintf("invalid value %v for field %q: %s", e.RawValue, e.Field, e.Reason)
}

type unsupportedFieldTypeError struct {
	Field    string
	DataType string
}

func (e *unsupportedFieldTypeError) Error() string {
	return fmt.Sprintf("field %q has unsupported field type %q; supported types: %s, %s, %s, %s, %s",
		e.Field, e.DataType, fieldTypeText, fieldTypeNumber, fieldTypeDate, fieldTypeSingleSelect, fieldTypeIteration)
}

// Dates are a strict format contract, not a lenient parser: a plain date or a
// full UTC timestamp, nothing else.
var (
	dateOnlyPattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d{1,3})?Z$`)
)

// resolveFieldValue turns a caller-supplied raw value into the typed payload
// fragment the updateProjectV2ItemFieldValue mutation accepts for the field's
// data type. Pure function: no network, no side effects. Select and iteration
// values resolve by human-readable name, never by raw option ID, so caller
// input stays decoupled from internal identifiers.
func resolveFieldValue(field FieldDefinition, raw any) (githubv4.ProjectV2FieldValue, error) {
	var zero githubv4.ProjectV2FieldValue

	switch field.DataType {
	case fieldTypeText:
		text, ok := raw.(string)
		if !ok {
			return zero, &valueFormatError{Field: field.Name, RawValue: raw, Reason: "text fields require a string value"}
		}
		return githubv4.ProjectV2FieldValue{Text: githubv4.NewString(githubv4.String(text))}, nil

	case fieldTypeNumber:
		num, err := toNumber(raw)
		if err != nil {
			return zero, &valueFormatError{Field: field.Name, RawValue: raw, Reason: "not a number"}
		}
		return githubv4.ProjectV2FieldValue{Number: githubv4.NewFloat(githubv4.Float(num))}, nil

	case fieldTypeDate:
		s, ok := raw.(string)
		if !ok || !(dateOnlyPattern.MatchString(s) || timestampPattern.MatchString(s)) {
			return zero, &valueFormatError{
				Field:    field.Name,
				RawValue: raw,
				Reason:   "expected format YYYY-MM-DD or YYYY-MM-DDThh:mm:ssZ",
			}
		}
		t, err := parseStrictDate(s)
		if err != nil {
			return zero, &valueFormatError{Field: field.Name, RawValue: raw, Reason: err.Error()}
		}
		return githubv4.ProjectV2FieldValue{Date: &githubv4.Date{Time: t}}, nil

	case fieldTypeSingleSelect:
		name, ok := raw.(string)
		if !ok {
			return zero, &valueFormatError{Field: field.Name, RawValue: raw, Reason: "single select fields require an option name"}
		}
		for _, option := range field.Options {
			if option.Name == name {
				return githubv4.ProjectV2FieldValue{SingleSelectOptionID: githubv4.NewString(githubv4.String(option.ID))}, nil
			}
		}
		return zero, &optionNotFoundError{Field: field.Name, Value: name, ValidNames: field.optionNames()}

	case fieldTypeIteration:
		title, ok := raw.(string)
		if !ok {
			return zero, &valueFormatError{Field: field.Name, RawValue: raw, Reason: "iteration fields require an iteration title"}
		}
		for _, iteration := range field.Iterations {
			if iteration.Title == title {
				return githubv4.ProjectV2FieldValue{IterationID: githubv4.NewString(githubv4.String(iteration.ID))}, nil
			}
		}
		return zero, &optionNotFoundError{Field: field.Name, Value: title, ValidNames: field.iterationTitles()}

	default:
		return zero, &unsupportedFieldTypeError{Field: field.Name, DataType: field.DataType}
	}
}

func toNumber(raw any) (float64, error) {
	var num float64
	switch v := raw.(type) {
	case float64:
		num = v
	case int:
		num = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, err
		}
		num = parsed
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", raw)
	}
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return 0, fmt.Errorf("value is not a finite number")
	}
	return num, nil
}

func parseStrictDate(s string) (time.Time, error) {
	if dateOnlyPattern.MatchString(s) {
		return time.Parse("2006-01-02", s)
	}
	// The timestamp pattern is a strict subset of RFC 3339.
	return time.Parse(time.RFC3339, s)
}
