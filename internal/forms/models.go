package forms

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FormContentType marks nodes whose content describes a form.
const FormContentType = "form"

// Field types understood by the default builder.
const (
	FieldText     = "text"
	FieldTextarea = "textarea"
	FieldEmail    = "email"
	FieldURL      = "url"
	FieldNumber   = "number"
	FieldChoice   = "choice"
	FieldCheckbox = "checkbox"
)

// Field describes one input of a form node.
type Field struct {
	Name      string   `json:"name"`
	Label     string   `json:"label,omitempty"`
	Type      string   `json:"type,omitempty"`
	Required  bool     `json:"required,omitempty"`
	MaxLength int      `json:"max_length,omitempty"`
	Choices   []string `json:"choices,omitempty"`
}

// Submission is a stored valid form post.
type Submission struct {
	bun.BaseModel `bun:"table:widgy_form_submissions,alias:wfs"`

	ID         uuid.UUID         `bun:",pk,type:uuid" json:"id"`
	FormNodeID uuid.UUID         `bun:"form_node_id,notnull,type:uuid" json:"form_node_id"`
	Data       map[string]string `bun:"data,type:jsonb" json:"data"`
	CreatedAt  time.Time         `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}
