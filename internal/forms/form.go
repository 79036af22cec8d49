package forms

import (
	"context"
	"fmt"
	"maps"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-cms-widgy/internal/nodes"
	"github.com/google/uuid"
)

// Form is a bound form instance built from a form node.
type Form interface {
	NodeID() uuid.UUID
	Fields() []Field
	Bind(values url.Values)
	Validate() error
	Errors() map[string]string
	Values() map[string]string
	Submit(ctx context.Context) (*Submission, error)
}

// Builder turns a form node into a Form.
type Builder interface {
	Build(ctx context.Context, node *nodes.Node) (Form, error)
}

// FieldSetBuilder builds forms from the "fields" list stored in node content.
type FieldSetBuilder struct {
	store SubmissionStore
}

var _ Builder = (*FieldSetBuilder)(nil)

// NewFieldSetBuilder returns a builder whose forms record into store.
func NewFieldSetBuilder(store SubmissionStore) *FieldSetBuilder {
	return &FieldSetBuilder{store: store}
}

func (b *FieldSetBuilder) Build(_ context.Context, node *nodes.Node) (Form, error) {
	if node == nil {
		return nil, nodes.ErrNodeRequired
	}
	if node.ContentType != FormContentType {
		return nil, fmt.Errorf("%w: %s", ErrNotAForm, node.ContentType)
	}
	if err := ValidateDefinition(node.Content); err != nil {
		return nil, err
	}
	fields, err := ParseFields(node.Content)
	if err != nil {
		return nil, err
	}
	return &fieldForm{
		nodeID: node.ID,
		fields: fields,
		store:  b.store,
	}, nil
}

type fieldForm struct {
	nodeID uuid.UUID
	fields []Field
	store  SubmissionStore

	values    map[string]string
	errs      validation.Errors
	bound     bool
	validated bool
}

func (f *fieldForm) NodeID() uuid.UUID { return f.nodeID }

func (f *fieldForm) Fields() []Field {
	out := make([]Field, len(f.fields))
	copy(out, f.fields)
	return out
}

func (f *fieldForm) Bind(values url.Values) {
	f.values = make(map[string]string, len(f.fields))
	for _, field := range f.fields {
		f.values[field.Name] = strings.TrimSpace(values.Get(field.Name))
	}
	f.bound = true
	f.validated = false
	f.errs = nil
}

// Validate checks the bound values and returns validation.Errors keyed by
// field name.
func (f *fieldForm) Validate() error {
	if !f.bound {
		return ErrFormNotBound
	}
	errs := validation.Errors{}
	for _, field := range f.fields {
		if err := validation.Validate(f.values[field.Name], fieldRules(field)...); err != nil {
			errs[field.Name] = err
		}
	}
	f.validated = true
	if len(errs) > 0 {
		f.errs = errs
		return errs
	}
	f.errs = nil
	return nil
}

func (f *fieldForm) Errors() map[string]string {
	out := make(map[string]string, len(f.errs))
	for name, err := range f.errs {
		out[name] = err.Error()
	}
	return out
}

func (f *fieldForm) Values() map[string]string {
	return maps.Clone(f.values)
}

func (f *fieldForm) Submit(ctx context.Context) (*Submission, error) {
	if !f.validated {
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormInvalid, err)
		}
	}
	if len(f.errs) > 0 {
		return nil, ErrFormInvalid
	}
	submission := &Submission{
		FormNodeID: f.nodeID,
		Data:       maps.Clone(f.values),
	}
	if f.store == nil {
		return submission, nil
	}
	return f.store.Record(ctx, submission)
}

func fieldRules(field Field) []validation.Rule {
	var rules []validation.Rule
	if field.Required {
		rules = append(rules, validation.Required.Error(requiredMessage(field)))
	}
	if field.MaxLength > 0 {
		rules = append(rules, validation.RuneLength(0, field.MaxLength))
	}
	switch field.Type {
	case FieldEmail:
		rules = append(rules, is.EmailFormat)
	case FieldURL:
		rules = append(rules, is.URL)
	case FieldNumber:
		rules = append(rules, is.Float)
	case FieldChoice:
		choices := make([]any, 0, len(field.Choices))
		for _, choice := range field.Choices {
			choices = append(choices, choice)
		}
		rules = append(rules, validation.In(choices...))
	}
	return rules
}

func requiredMessage(field Field) string {
	label := field.Label
	if label == "" {
		label = field.Name
	}
	return label + " is required"
}
