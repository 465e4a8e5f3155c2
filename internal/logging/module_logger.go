package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-mdpublish/pkg/interfaces"
)

const (
	rootModule    = "mdpublish"
	publishModule = "mdpublish.publish"
	mediumModule  = "mdpublish.medium"
)

const (
	fieldDocumentPath = "document_path"
	fieldDocumentID   = "document_id"
	fieldRunID        = "run_id"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
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

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// PublishLogger returns the logger namespace reserved for the publish pipeline.
func PublishLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, publishModule)
}

// MediumLogger returns the logger namespace reserved for the API transport.
func MediumLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, mediumModule)
}

// WithDocumentContext enriches logger with the document path and its stable
// identifier. Empty values are ignored.
func WithDocumentContext(logger interfaces.Logger, path, documentID string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldDocumentPath] = trimmed
	}
	if trimmed := strings.TrimSpace(documentID); trimmed != "" {
		fields[fieldDocumentID] = trimmed
	}
	return WithFields(logger, fields)
}

// WithRunContext tags every entry written through ctx with the batch run id.
func WithRunContext(ctx context.Context, runID string) context.Context {
	if strings.TrimSpace(runID) == "" {
		return ctx
	}
	return ContextWithFields(ctx, map[string]any{fieldRunID: runID})
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var (
	_ interfaces.Logger       = noopLogger{}
	_ interfaces.FieldsLogger = noopLogger{}
)

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
