package forms

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const definitionSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["fields"],
  "properties": {
    "fields": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "label": {"type": "string"},
          "type": {"type": "string"},
          "required": {"type": "boolean"},
          "max_length": {"type": "integer", "minimum": 0},
          "choices": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

// DefinitionIssue is one schema violation in a form node's content.
type DefinitionIssue struct {
	Location string
	Message  string
}

// DefinitionError lists the schema violations found in form node content.
type DefinitionError struct {
	Issues []DefinitionIssue
}

func (e *DefinitionError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return ErrFieldsInvalid.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if location == "" {
			location = "/"
		}
		parts = append(parts, location+": "+issue.Message)
	}
	return fmt.Sprintf("%s: %s", ErrFieldsInvalid, strings.Join(parts, "; "))
}

func (e *DefinitionError) Unwrap() error {
	return ErrFieldsInvalid
}

var compiledDefinition = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("form-definition.json", strings.NewReader(definitionSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile("form-definition.json")
})

// ValidateDefinition checks node content against the form definition schema.
// Content built in Go is normalised through JSON first.
func ValidateDefinition(content map[string]any) error {
	schema, err := compiledDefinition()
	if err != nil {
		return fmt.Errorf("forms: compile definition schema: %w", err)
	}

	encoded, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFieldsInvalid, err)
	}
	var payload any
	if err := json.Unmarshal(encoded, &payload); err != nil {
		return fmt.Errorf("%w: %v", ErrFieldsInvalid, err)
	}
	if payload == nil {
		payload = map[string]any{}
	}

	if err := schema.Validate(payload); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &DefinitionError{Issues: collectIssues(validationErr)}
		}
		return fmt.Errorf("%w: %v", ErrFieldsInvalid, err)
	}
	return nil
}

func collectIssues(err *jsonschema.ValidationError) []DefinitionIssue {
	issues := []DefinitionIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, DefinitionIssue{
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
