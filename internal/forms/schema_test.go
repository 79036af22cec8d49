package forms_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-cms-widgy/internal/forms"
	"github.com/goliatone/go-cms-widgy/internal/nodes"
	"github.com/google/uuid"
)

func TestValidateDefinitionAcceptsGoAndJSONContent(t *testing.T) {
	cases := map[string]map[string]any{
		"decoded json": {"fields": []any{
			map[string]any{"name": "email", "type": "email", "max_length": float64(120)},
		}},
		"go maps": {"fields": []map[string]any{
			{"name": "email", "required": true, "max_length": 120},
		}},
		"typed fields": {"fields": []forms.Field{
			{Name: "topic", Type: forms.FieldChoice, Choices: []string{"a", "b"}},
		}},
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if err := forms.ValidateDefinition(content); err != nil {
				t.Fatalf("expected valid definition, got %v", err)
			}
		})
	}
}

func TestValidateDefinitionReportsIssues(t *testing.T) {
	content := map[string]any{"fields": []any{
		map[string]any{"name": "age", "max_length": "ten"},
	}}
	err := forms.ValidateDefinition(content)
	if !errors.Is(err, forms.ErrFieldsInvalid) {
		t.Fatalf("expected ErrFieldsInvalid, got %v", err)
	}
	var defErr *forms.DefinitionError
	if !errors.As(err, &defErr) || len(defErr.Issues) == 0 {
		t.Fatalf("expected definition issues, got %#v", err)
	}
	if !strings.Contains(defErr.Issues[0].Location, "max_length") {
		t.Fatalf("expected issue at max_length, got %+v", defErr.Issues)
	}
}

func TestBuildRejectsMalformedDefinition(t *testing.T) {
	node := &nodes.Node{
		ID:          uuid.New(),
		Path:        "00010001",
		ContentType: forms.FormContentType,
		Content:     map[string]any{"fields": []any{map[string]any{"label": "no name"}}},
	}
	_, err := forms.NewFieldSetBuilder(forms.NewMemorySubmissionStore()).Build(context.Background(), node)
	if !errors.Is(err, forms.ErrFieldsInvalid) {
		t.Fatalf("expected ErrFieldsInvalid, got %v", err)
	}
}
