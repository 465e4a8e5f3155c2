package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-mdpublish"
	"github.com/goliatone/go-mdpublish/pkg/interfaces"
)

// Options captures the command-line overrides applied on top of the loaded
// configuration. Nil pointers leave the loaded value untouched.
type Options struct {
	ConfigFiles  []string
	Status       string
	AuthorBlock  *bool
	DryRun       *bool
	DumpDir      string
	SkipImages   *bool
	LogLevel     string
	LogWriter    io.Writer
	LogColor     bool
	ModuleOption []mdpublish.Option
}

// Publisher is the part of the module the CLI drives.
type Publisher interface {
	PublishFile(ctx context.Context, path string) (mdpublish.BatchResult, error)
	PublishList(ctx context.Context, listPath string) (mdpublish.BatchResult, error)
}

// Module bundles the publisher with its logger.
type Module struct {
	Module    *mdpublish.Module
	Publisher Publisher
	Logger    interfaces.Logger
}

// BuildModule loads configuration, applies opts and constructs the module.
func BuildModule(opts Options) (*Module, error) {
	cfg, err := mdpublish.LoadConfig(opts.ConfigFiles...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	Apply(&cfg, opts)

	moduleOpts := []mdpublish.Option{mdpublish.WithLogColor(opts.LogColor)}
	if opts.LogWriter != nil {
		moduleOpts = append(moduleOpts, mdpublish.WithLogWriter(opts.LogWriter))
	}
	moduleOpts = append(moduleOpts, opts.ModuleOption...)

	module, err := mdpublish.New(cfg, moduleOpts...)
	if err != nil {
		return nil, err
	}
	return &Module{Module: module, Publisher: module, Logger: module.Logger()}, nil
}

// Apply copies the set overrides from opts into cfg.
func Apply(cfg *mdpublish.Config, opts Options) {
	if status := strings.TrimSpace(opts.Status); status != "" {
		cfg.Publish.DefaultStatus = status
	}
	if opts.AuthorBlock != nil {
		cfg.Publish.AppendAuthorBlock = *opts.AuthorBlock
	}
	if opts.DryRun != nil {
		cfg.Publish.DryRun = *opts.DryRun
	}
	if dir := strings.TrimSpace(opts.DumpDir); dir != "" {
		cfg.Publish.DumpDir = dir
	}
	if opts.SkipImages != nil && *opts.SkipImages {
		cfg.Publish.UploadImages = false
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}
}
