package logging

import (
	"context"

	"github.com/goliatone/go-cms-widgy/pkg/interfaces"
	"github.com/google/uuid"
)

const (
	rootModule    = "widgy"
	pagesModule   = "widgy.pages"
	previewModule = "widgy.preview"
	formsModule   = "widgy.forms"
	renderModule  = "widgy.render"
)

const (
	fieldNodeID     = "node_id"
	fieldRootNodeID = "root_node_id"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so entries can be filtered
// per handler.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// PagesLogger returns the logger namespace reserved for page resolution.
func PagesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, pagesModule)
}

// PreviewLogger returns the logger namespace reserved for the preview handler.
func PreviewLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, previewModule)
}

// FormsLogger returns the logger namespace reserved for form submissions.
func FormsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, formsModule)
}

// RenderLogger returns the logger namespace reserved for page rendering.
func RenderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, renderModule)
}

// WithNodeContext attaches node and root identifiers to the logger. Nil ids
// are skipped.
func WithNodeContext(logger interfaces.Logger, nodeID, rootID uuid.UUID) interfaces.Logger {
	fields := map[string]any{}
	if nodeID != uuid.Nil {
		fields[fieldNodeID] = nodeID.String()
	}
	if rootID != uuid.Nil {
		fields[fieldRootNodeID] = rootID.String()
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
