package publishcmd

import (
	"context"
	"errors"
	"fmt"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-mdpublish/internal/commands"
	"github.com/goliatone/go-mdpublish/internal/logging"
	"github.com/goliatone/go-mdpublish/internal/publish"
	"github.com/goliatone/go-mdpublish/pkg/interfaces"
)

const (
	publishFileOperation = "publish.file"
	publishListOperation = "publish.list"
)

// ErrFilesFailed is returned when at least one document in a run failed.
var ErrFilesFailed = errors.New("publish command: one or more files failed")

var (
	_ command.Commander[PublishFileCommand] = (*PublishFileHandler)(nil)
	_ command.Commander[PublishListCommand] = (*PublishListHandler)(nil)
)

// Publisher is the part of publish.Service the handlers depend on.
type Publisher interface {
	PublishBatch(ctx context.Context, paths []string) publish.BatchResult
	PublishList(ctx context.Context, listPath string) (publish.BatchResult, error)
}

// PublishFileHandler publishes one document through the shared handler.
type PublishFileHandler struct {
	inner *commands.Handler[PublishFileCommand]
}

// NewPublishFileHandler binds the handler to service. Publishing has no
// deadline unless the caller passes commands.WithTimeout.
func NewPublishFileHandler(service Publisher, logger interfaces.Logger, opts ...commands.HandlerOption[PublishFileCommand]) *PublishFileHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg PublishFileCommand) error {
		result := service.PublishBatch(ctx, []string{msg.Path})
		return finish(baseLogger, result, msg.Report)
	}

	handlerOpts := []commands.HandlerOption[PublishFileCommand]{
		commands.WithLogger[PublishFileCommand](baseLogger),
		commands.WithOperation[PublishFileCommand](publishFileOperation),
		commands.WithTimeout[PublishFileCommand](0),
		commands.WithMessageFields(func(msg PublishFileCommand) map[string]any {
			return map[string]any{"path": msg.Path}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[PublishFileCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PublishFileHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[PublishFileCommand].
func (h *PublishFileHandler) Execute(ctx context.Context, msg PublishFileCommand) error {
	return h.inner.Execute(ctx, msg)
}

// PublishListHandler publishes every entry of a list file.
type PublishListHandler struct {
	inner *commands.Handler[PublishListCommand]
}

// NewPublishListHandler binds the handler to service. An unreadable list
// file is reported as a validation error.
func NewPublishListHandler(service Publisher, logger interfaces.Logger, opts ...commands.HandlerOption[PublishListCommand]) *PublishListHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg PublishListCommand) error {
		result, err := service.PublishList(ctx, msg.ListPath)
		if err != nil {
			return commands.ValidationError(err, "list file could not be read")
		}
		return finish(baseLogger, result, msg.Report)
	}

	handlerOpts := []commands.HandlerOption[PublishListCommand]{
		commands.WithLogger[PublishListCommand](baseLogger),
		commands.WithOperation[PublishListCommand](publishListOperation),
		commands.WithTimeout[PublishListCommand](0),
		commands.WithMessageFields(func(msg PublishListCommand) map[string]any {
			return map[string]any{"list_path": msg.ListPath}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[PublishListCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PublishListHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[PublishListCommand].
func (h *PublishListHandler) Execute(ctx context.Context, msg PublishListCommand) error {
	return h.inner.Execute(ctx, msg)
}

func finish(logger interfaces.Logger, result publish.BatchResult, report Reporter) error {
	if report != nil {
		report(result)
	}
	failed := len(result.Failures())
	logging.WithFields(logger, map[string]any{
		"run_id":        result.RunID,
		"total":         len(result.Files),
		"failed_count":  failed,
		"skipped_count": len(result.Skipped),
		"duration_ms":   result.Duration.Milliseconds(),
	}).Info("publish.command.completed")
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrFilesFailed, failed, len(result.Files))
	}
	return nil
}
