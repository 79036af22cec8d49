package forms

import (
	"fmt"
	"strings"
)

var knownFieldTypes = map[string]struct{}{
	FieldText:     {},
	FieldTextarea: {},
	FieldEmail:    {},
	FieldURL:      {},
	FieldNumber:   {},
	FieldChoice:   {},
	FieldCheckbox: {},
}

// ParseFields reads field definitions from node content. Content decoded
// from JSON and content built in Go are both accepted.
func ParseFields(content map[string]any) ([]Field, error) {
	raw, ok := content["fields"]
	if !ok {
		return nil, fmt.Errorf("%w: missing fields", ErrFieldsInvalid)
	}

	var entries []map[string]any
	switch typed := raw.(type) {
	case []map[string]any:
		entries = typed
	case []any:
		for i, item := range typed {
			entry, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: field %d is not an object", ErrFieldsInvalid, i)
			}
			entries = append(entries, entry)
		}
	case []Field:
		return normalizeFields(typed)
	default:
		return nil, fmt.Errorf("%w: fields must be a list", ErrFieldsInvalid)
	}

	fields := make([]Field, 0, len(entries))
	for _, entry := range entries {
		fields = append(fields, Field{
			Name:      stringValue(entry["name"]),
			Label:     stringValue(entry["label"]),
			Type:      stringValue(entry["type"]),
			Required:  boolValue(entry["required"]),
			MaxLength: intValue(entry["max_length"]),
			Choices:   stringSlice(entry["choices"]),
		})
	}
	return normalizeFields(fields)
}

func normalizeFields(fields []Field) ([]Field, error) {
	seen := make(map[string]struct{}, len(fields))
	out := make([]Field, 0, len(fields))
	for i, field := range fields {
		field.Name = strings.TrimSpace(field.Name)
		if field.Name == "" {
			return nil, fmt.Errorf("%w: field %d has no name", ErrFieldsInvalid, i)
		}
		if _, dup := seen[field.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrFieldsInvalid, field.Name)
		}
		seen[field.Name] = struct{}{}
		field.Type = strings.ToLower(strings.TrimSpace(field.Type))
		if field.Type == "" {
			field.Type = FieldText
		}
		if _, ok := knownFieldTypes[field.Type]; !ok {
			return nil, fmt.Errorf("%w: unknown type %q for %s", ErrFieldsInvalid, field.Type, field.Name)
		}
		if field.Type == FieldChoice && len(field.Choices) == 0 {
			return nil, fmt.Errorf("%w: choice field %s has no choices", ErrFieldsInvalid, field.Name)
		}
		out = append(out, field)
	}
	return out, nil
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func boolValue(v any) bool {
	b, _ := v.(bool)
	return b
}

func intValue(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func stringSlice(v any) []string {
	switch typed := v.(type) {
	case []string:
		return append([]string(nil), typed...)
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
