package forms

// FieldState is a field as a template shows it: definition, bound value and
// the validation message, if any.
type FieldState struct {
	Name      string
	Label     string
	Type      string
	InputType string
	Required  bool
	MaxLength int
	Choices   []string
	Value     string
	Error     string
}

// States returns the fields of form in definition order with their bound
// values and errors.
func States(form Form) []FieldState {
	if form == nil {
		return nil
	}
	values := form.Values()
	errs := form.Errors()
	fields := form.Fields()

	out := make([]FieldState, 0, len(fields))
	for _, field := range fields {
		label := field.Label
		if label == "" {
			label = field.Name
		}
		out = append(out, FieldState{
			Name:      field.Name,
			Label:     label,
			Type:      field.Type,
			InputType: inputType(field.Type),
			Required:  field.Required,
			MaxLength: field.MaxLength,
			Choices:   append([]string(nil), field.Choices...),
			Value:     values[field.Name],
			Error:     errs[field.Name],
		})
	}
	return out
}

func inputType(fieldType string) string {
	switch fieldType {
	case FieldEmail:
		return "email"
	case FieldURL:
		return "url"
	case FieldNumber:
		return "number"
	case FieldCheckbox:
		return "checkbox"
	default:
		return "text"
	}
}
