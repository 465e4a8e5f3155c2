package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-mdpublish/pkg/interfaces"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
)

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string
	Message  string
}

// PayloadValidationError lists every schema violation found in a payload.
type PayloadValidationError struct {
	Issues []ValidationIssue
	Cause  error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from an error.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectValidationIssues(validationErr)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// PayloadValidator checks outbound publish requests against the wire schema.
type PayloadValidator struct {
	schema *jsonschema.Schema
}

// NewPayloadValidator compiles the publish request schema allowing up to
// maxTags tags.
func NewPayloadValidator(maxTags int) (*PayloadValidator, error) {
	compiled, err := compileSchema(PublishRequestSchema(maxTags))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return &PayloadValidator{schema: compiled}, nil
}

// Validate encodes req exactly as it will be sent and validates the result.
func (v *PayloadValidator) Validate(req interfaces.PublishRequest) error {
	encoded, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("%w: encode payload: %v", ErrSchemaValidation, err)
	}
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return fmt.Errorf("%w: decode payload: %v", ErrSchemaValidation, err)
	}
	if err := v.schema.Validate(payload); err != nil {
		return &PayloadValidationError{
			Issues: Issues(err),
			Cause:  err,
		}
	}
	return nil
}

// PublishRequestSchema describes the JSON accepted by the posts endpoint.
func PublishRequestSchema(maxTags int) map[string]any {
	statuses := make([]any, 0, 3)
	for _, status := range interfaces.PublishStatuses() {
		statuses = append(statuses, string(status))
	}
	tags := map[string]any{
		"type":        "array",
		"uniqueItems": true,
		"items": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
	}
	if maxTags > 0 {
		tags["maxItems"] = maxTags
	}
	return map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"title", "content", "contentFormat", "tags", "publishStatus"},
		"properties": map[string]any{
			"title":         map[string]any{"type": "string", "minLength": 1, "pattern": `\S`},
			"subtitle":      map[string]any{"type": "string"},
			"content":       map[string]any{"type": "string"},
			"contentFormat": map[string]any{"const": interfaces.ContentFormatMarkdown},
			"tags":          tags,
			"canonicalUrl":  map[string]any{"type": "string", "format": "uri"},
			"publishStatus": map[string]any{"enum": statuses},
		},
	}
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if err := compiler.AddResource("publish_request.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("publish_request.json")
}

func collectValidationIssues(err *jsonschema.ValidationError) []ValidationIssue {
	if err == nil {
		return nil
	}
	issues := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
