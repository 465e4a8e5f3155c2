// Package mdpublish publishes Markdown documents with front matter to the
// Medium API. New wires the pipeline from a Config; PublishFile and
// PublishList run it and return per-file results.
package mdpublish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-mdpublish/internal/commands"
	publishcmd "github.com/goliatone/go-mdpublish/internal/commands/publish"
	"github.com/goliatone/go-mdpublish/internal/envconfig"
	"github.com/goliatone/go-mdpublish/internal/logging"
	"github.com/goliatone/go-mdpublish/internal/logging/console"
	"github.com/goliatone/go-mdpublish/internal/logging/gologger"
	"github.com/goliatone/go-mdpublish/internal/medium"
	"github.com/goliatone/go-mdpublish/internal/publish"
	"github.com/goliatone/go-mdpublish/internal/request"
	"github.com/goliatone/go-mdpublish/pkg/interfaces"
)

// PublishStatus is the visibility of a post.
type PublishStatus = interfaces.PublishStatus

const (
	StatusPublic   = interfaces.PublishStatusPublic
	StatusUnlisted = interfaces.PublishStatusUnlisted
	StatusDraft    = interfaces.PublishStatusDraft
)

// PublishRequest is the payload sent for one document.
type PublishRequest = interfaces.PublishRequest

// PlatformClient is the transport contract used to reach the API.
type PlatformClient = interfaces.PlatformClient

// FileResult is the outcome for one document.
type FileResult = publish.FileResult

// BatchResult aggregates the outcomes of a run.
type BatchResult = publish.BatchResult

// SkippedEntry is a list-file line that did not name a usable file.
type SkippedEntry = publish.SkippedEntry

// ErrFilesFailed is returned by PublishFile and PublishList when at least one
// document failed. The results are still returned.
var ErrFilesFailed = publishcmd.ErrFilesFailed

// Option customises New.
type Option func(*moduleOptions)

type moduleOptions struct {
	provider  interfaces.LoggerProvider
	client    interfaces.PlatformClient
	logWriter io.Writer
	color     bool
}

// WithLoggerProvider replaces the provider selected from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *moduleOptions) {
		o.provider = provider
	}
}

// WithPlatformClient replaces the Medium HTTP client.
func WithPlatformClient(client interfaces.PlatformClient) Option {
	return func(o *moduleOptions) {
		o.client = client
	}
}

// WithLogWriter sets where the console logger writes. Defaults to stderr.
func WithLogWriter(w io.Writer) Option {
	return func(o *moduleOptions) {
		o.logWriter = w
	}
}

// WithLogColor colours console level labels.
func WithLogColor(enabled bool) Option {
	return func(o *moduleOptions) {
		o.color = enabled
	}
}

// Module is the publishing runtime facade.
type Module struct {
	cfg         Config
	logger      interfaces.Logger
	service     *publish.Service
	fileHandler *publishcmd.PublishFileHandler
	listHandler *publishcmd.PublishListHandler
}

// New validates cfg and wires the pipeline. Configuration problems are
// reported as validation errors; see IsUsageError.
func New(cfg Config, opts ...Option) (*Module, error) {
	options := moduleOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	if err := envconfig.ResolveAuthorBlock(&cfg); err != nil {
		return nil, commands.ValidationError(err, "author block could not be read")
	}
	validate := cfg.Validate
	if options.client != nil {
		validate = cfg.ValidateSettings
	}
	if err := validate(); err != nil {
		return nil, commands.ValidationError(err, "invalid configuration")
	}

	provider := options.provider
	if provider == nil {
		built, err := NewLoggerProvider(cfg.Logging, options.logWriter, options.color)
		if err != nil {
			return nil, commands.ValidationError(err, "invalid logging configuration")
		}
		provider = built
	}

	status, err := interfaces.ParsePublishStatus(cfg.Publish.DefaultStatus)
	if err != nil {
		return nil, commands.ValidationError(err, "invalid default status")
	}
	builder, err := request.NewBuilder(request.Options{
		DefaultStatus:     status,
		AppendAuthorBlock: cfg.Publish.AppendAuthorBlock,
		AuthorBlock:       cfg.Publish.AuthorBlock,
		MaxTags:           cfg.Publish.MaxTags,
	})
	if err != nil {
		return nil, commands.ValidationError(err, "invalid publish options")
	}

	client := options.client
	if client == nil && !cfg.Publish.DryRun {
		mediumClient, err := medium.NewClient(cfg.Medium.BaseURL, cfg.Medium.Token,
			medium.WithTimeout(cfg.Medium.Timeout),
			medium.WithUserAgent(cfg.Medium.UserAgent),
			medium.WithLogger(logging.MediumLogger(provider)),
		)
		if err != nil {
			return nil, commands.ValidationError(err, "invalid medium configuration")
		}
		client = mediumClient
	}

	service, err := publish.NewService(publish.Config{
		DryRun:       cfg.Publish.DryRun,
		DumpDir:      strings.TrimSpace(cfg.Publish.DumpDir),
		UploadImages: cfg.Publish.UploadImages,
	}, builder, client, publish.WithLogger(logging.PublishLogger(provider)))
	if err != nil {
		return nil, err
	}

	commandLogger := commands.CommandLogger(provider, "publish")
	return &Module{
		cfg:         cfg,
		logger:      logging.ModuleLogger(provider, ""),
		service:     service,
		fileHandler: publishcmd.NewPublishFileHandler(service, commandLogger),
		listHandler: publishcmd.NewPublishListHandler(service, commandLogger),
	}, nil
}

// PublishFile publishes the document at path.
func (m *Module) PublishFile(ctx context.Context, path string) (BatchResult, error) {
	var result BatchResult
	err := m.fileHandler.Execute(ctx, publishcmd.PublishFileCommand{
		Path:   path,
		Report: func(r publish.BatchResult) { result = r },
	})
	return result, err
}

// PublishList publishes every document named in the list file at listPath.
func (m *Module) PublishList(ctx context.Context, listPath string) (BatchResult, error) {
	var result BatchResult
	err := m.listHandler.Execute(ctx, publishcmd.PublishListCommand{
		ListPath: listPath,
		Report:   func(r publish.BatchResult) { result = r },
	})
	return result, err
}

// Config returns the validated configuration.
func (m *Module) Config() Config {
	return m.cfg
}

// Logger returns the root module logger.
func (m *Module) Logger() interfaces.Logger {
	return m.logger
}

// NewLoggerProvider builds the provider named by cfg.Provider. w is only
// used by the console provider.
func NewLoggerProvider(cfg LoggingConfig, w io.Writer, color bool) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "console":
		level, ok := console.ParseLevel(cfg.Level)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, cfg.Level)
		}
		return console.NewProvider(console.Options{Writer: w, MinLevel: &level, Color: color}), nil
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
		})
	default:
		return nil, fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Provider)
	}
}

// IsUsageError reports whether err stems from invalid input or
// configuration rather than a failed publish.
func IsUsageError(err error) bool {
	return err != nil && goerrors.IsCategory(err, goerrors.CategoryValidation)
}

// IsFilesFailed reports whether err signals that some documents failed.
func IsFilesFailed(err error) bool {
	return errors.Is(err, ErrFilesFailed)
}
