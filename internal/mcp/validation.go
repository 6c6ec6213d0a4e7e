package mcpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaValidator checks tool arguments against the tool's input schema.
type SchemaValidator struct {
	schema *jsonschema.Schema
}

// NewSchemaValidator compiles the input schema of a tool.
func NewSchemaValidator(input mcp.ToolInputSchema) (*SchemaValidator, error) {
	doc := map[string]any{
		"type":       "object",
		"properties": input.Properties,
	}
	if input.Properties == nil {
		doc["properties"] = map[string]any{}
	}
	if len(input.Required) > 0 {
		doc["required"] = input.Required
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &SchemaValidator{schema: schema}, nil
}

// Validate returns a *ValidationError naming the first offending argument.
func (v *SchemaValidator) Validate(args map[string]any) error {
	err := v.schema.Validate(args)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("validation failed: %w", err)
	}
	// the leaf cause carries the location of the bad value
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	field := strings.TrimPrefix(ve.InstanceLocation, "/")
	return &ValidationError{Field: field, Message: ve.Message, Value: args[field]}
}

// ValidationError describes an argument rejected by the schema.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("'%s': %s", e.Field, e.Message)
}
