// Package validation checks decoded front matter against an optional JSON
// schema so site-specific keys (tags, series, images) can be enforced
// without teaching the loader about them.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
)

const schemaURL = "frontmatter.schema.json"

// ValidationIssue is a single failed constraint. Location is a JSON pointer
// into the front matter ("/title").
type ValidationIssue struct {
	Location string
	Message  string
}

func (i ValidationIssue) String() string {
	location := strings.TrimSpace(i.Location)
	if !strings.HasPrefix(location, "#") {
		location = "#" + location
	}
	if i.Message == "" {
		return location
	}
	return location + ": " + i.Message
}

// PayloadValidationError lists every issue found in one front matter block.
// It unwraps to ErrSchemaValidation.
type PayloadValidationError struct {
	Issues []ValidationIssue
	Cause  error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) > 0 {
		parts := make([]string, len(e.Issues))
		for i, issue := range e.Issues {
			parts[i] = issue.String()
		}
		return strings.Join(parts, "; ")
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return ErrSchemaValidation.Error()
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from err.
func Issues(err error) []ValidationIssue {
	var payloadErr *PayloadValidationError
	var schemaErr *jsonschema.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &payloadErr):
		return payloadErr.Issues
	case errors.As(err, &schemaErr):
		return leafIssues(schemaErr, nil)
	default:
		return []ValidationIssue{{Message: err.Error()}}
	}
}

// FrontMatterValidator holds a compiled schema. A nil validator accepts
// everything, which is what an empty schema path produces.
type FrontMatterValidator struct {
	schema *jsonschema.Schema
}

// NewFrontMatterValidator compiles schema, expanding the fields shorthand
// first. An empty schema yields a nil validator.
func NewFrontMatterValidator(schema map[string]any) (*FrontMatterValidator, error) {
	normalized := NormalizeSchema(schema)
	if normalized == nil {
		return nil, nil
	}

	encoded, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, bytes.NewReader(encoded)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	compiled, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return &FrontMatterValidator{schema: compiled}, nil
}

// LoadFrontMatterValidator reads a YAML or JSON schema document. An empty
// path disables validation.
func LoadFrontMatterValidator(path string) (*FrontMatterValidator, error) {
	if path = strings.TrimSpace(path); path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("validation: read schema %s: %w", path, err)
	}
	var schema map[string]any
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrSchemaInvalid, path, err)
	}
	return NewFrontMatterValidator(schema)
}

// Validate checks the JSON form of values, so TOML dates are seen as RFC3339
// strings and integers as numbers.
func (v *FrontMatterValidator) Validate(values map[string]any) error {
	if v == nil || v.schema == nil {
		return nil
	}
	doc, err := jsonDocument(values)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return &PayloadValidationError{Issues: Issues(err), Cause: err}
	}
	return nil
}

// ValidateSchema reports whether schema compiles.
func ValidateSchema(schema map[string]any) error {
	_, err := NewFrontMatterValidator(schema)
	return err
}

// NormalizeSchema returns schema unchanged when it already is a JSON schema
// and otherwise expands the shorthand
//
//	fields:
//	  - name: title
//	    type: string
//	    required: true
//
// into an object schema. Keys not listed stay allowed unless
// additionalProperties is false.
func NormalizeSchema(schema map[string]any) map[string]any {
	if len(schema) == 0 {
		return nil
	}
	for _, key := range []string{"$schema", "type", "properties", "oneOf", "anyOf", "allOf"} {
		if _, ok := schema[key]; ok {
			return schema
		}
	}

	entries, ok := schema["fields"].([]any)
	if !ok {
		return nil
	}
	properties := map[string]any{}
	required := []any{}
	for _, entry := range entries {
		name, property, isRequired := fieldSchema(entry)
		if name == "" {
			continue
		}
		properties[name] = property
		if isRequired {
			required = append(required, name)
		}
	}
	if len(properties) == 0 {
		return nil
	}

	additional := true
	if flag, ok := schema["additionalProperties"].(bool); ok {
		additional = flag
	}
	out := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": additional,
	}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}

// fieldSchema accepts either a bare key name or a {name, type, required} map.
func fieldSchema(entry any) (string, map[string]any, bool) {
	switch field := entry.(type) {
	case string:
		return strings.TrimSpace(field), map[string]any{}, false
	case map[string]any:
		name, _ := field["name"].(string)
		property := map[string]any{}
		if kind, ok := field["type"].(string); ok && isJSONType(kind) {
			property["type"] = strings.ToLower(strings.TrimSpace(kind))
		}
		isRequired, _ := field["required"].(bool)
		return strings.TrimSpace(name), property, isRequired
	default:
		return "", nil, false
	}
}

func isJSONType(kind string) bool {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "string", "number", "integer", "boolean", "object", "array", "null":
		return true
	}
	return false
}

func jsonDocument(values map[string]any) (any, error) {
	if values == nil {
		values = map[string]any{}
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	var doc any
	if err := decoder.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// leafIssues flattens the cause tree; only leaves describe a concrete failure.
func leafIssues(node *jsonschema.ValidationError, into []ValidationIssue) []ValidationIssue {
	if node == nil {
		return into
	}
	if len(node.Causes) == 0 {
		return append(into, ValidationIssue{
			Location: strings.TrimSpace(node.InstanceLocation),
			Message:  strings.TrimSpace(node.Message),
		})
	}
	for _, cause := range node.Causes {
		into = leafIssues(cause, into)
	}
	return into
}
