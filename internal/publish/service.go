// Package publish drives Markdown documents through front matter parsing,
// request building, payload validation and delivery. Every document yields
// its own FileResult so one bad file never stops a batch.
package publish

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-mdpublish/internal/frontmatter"
	"github.com/goliatone/go-mdpublish/internal/identity"
	"github.com/goliatone/go-mdpublish/internal/logging"
	"github.com/goliatone/go-mdpublish/internal/markdown"
	"github.com/goliatone/go-mdpublish/internal/request"
	"github.com/goliatone/go-mdpublish/internal/validation"
	"github.com/goliatone/go-mdpublish/pkg/interfaces"
)

var (
	ErrBuilderRequired = errors.New("publish: request builder is required")
	ErrClientRequired  = errors.New("publish: platform client is required unless dry run is enabled")
)

// Config toggles the optional stages of the pipeline.
type Config struct {
	// DryRun builds and validates payloads without contacting the API.
	DryRun bool
	// DumpDir, when set, receives one JSON file per built payload.
	DumpDir string
	// UploadImages uploads local images and rewrites their references.
	UploadImages bool
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sets the logger used for pipeline events.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithValidator replaces the payload validator derived from the builder options.
func WithValidator(validator *validation.PayloadValidator) Option {
	return func(s *Service) {
		if validator != nil {
			s.validator = validator
		}
	}
}

func WithInspector(inspector *markdown.Inspector) Option {
	return func(s *Service) {
		if inspector != nil {
			s.inspector = inspector
		}
	}
}

// WithRunIDGenerator overrides how batch run identifiers are minted.
func WithRunIDGenerator(next func() string) Option {
	return func(s *Service) {
		if next != nil {
			s.newRunID = next
		}
	}
}

// Service publishes documents one at a time.
type Service struct {
	cfg       Config
	builder   *request.Builder
	client    interfaces.PlatformClient
	validator *validation.PayloadValidator
	inspector *markdown.Inspector
	logger    interfaces.Logger
	newRunID  func() string
}

// NewService wires the pipeline. client may be nil only for dry runs.
func NewService(cfg Config, builder *request.Builder, client interfaces.PlatformClient, opts ...Option) (*Service, error) {
	if builder == nil {
		return nil, ErrBuilderRequired
	}
	if client == nil && !cfg.DryRun {
		return nil, ErrClientRequired
	}

	s := &Service{
		cfg:       cfg,
		builder:   builder,
		client:    client,
		inspector: markdown.NewInspector(),
		logger:    logging.NoOp(),
		newRunID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.validator == nil {
		maxTags := builder.Options().MaxTags
		if maxTags <= 0 {
			maxTags = request.DefaultMaxTags
		}
		validator, err := validation.NewPayloadValidator(maxTags)
		if err != nil {
			return nil, err
		}
		s.validator = validator
	}
	return s, nil
}

// PublishFile runs a single document through the pipeline.
func (s *Service) PublishFile(ctx context.Context, path string) FileResult {
	ctx = logging.WithRunContext(ctx, s.newRunID())
	return s.process(ctx, path, &authorSession{})
}

// PublishBatch processes paths sequentially in order. The author is resolved
// at most once per batch. Cancelling ctx marks the remaining files as failed.
func (s *Service) PublishBatch(ctx context.Context, paths []string) BatchResult {
	started := time.Now()
	runID := s.newRunID()
	ctx = logging.WithRunContext(ctx, runID)

	session := &authorSession{}
	files := make([]FileResult, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			files = append(files, FileResult{Path: path, DocumentID: identity.DocumentUUID(path), DryRun: s.cfg.DryRun, Err: err})
			continue
		}
		files = append(files, s.process(ctx, path, session))
	}

	batch := BatchResult{RunID: runID, Files: files, Duration: time.Since(started)}
	succeeded := batch.Succeeded()
	s.logger.WithContext(ctx).Info("publish.batch.completed",
		"total", len(files),
		"succeeded", succeeded,
		"failed", len(files)-succeeded,
		"dry_run", s.cfg.DryRun,
		"duration_ms", batch.Duration.Milliseconds(),
	)
	return batch
}

// PublishList reads a list file and publishes every usable entry. Only an
// unreadable list file is returned as an error.
func (s *Service) PublishList(ctx context.Context, listPath string) (BatchResult, error) {
	paths, skipped, err := ReadList(listPath, s.logger.WithContext(ctx))
	if err != nil {
		return BatchResult{}, err
	}
	batch := s.PublishBatch(ctx, paths)
	batch.Skipped = skipped
	return batch, nil
}

func (s *Service) process(ctx context.Context, path string, session *authorSession) FileResult {
	result := FileResult{Path: path, DocumentID: identity.DocumentUUID(path), DryRun: s.cfg.DryRun}
	logger := logging.WithDocumentContext(s.logger.WithContext(ctx), path, result.DocumentID.String())

	fail := func(err error) FileResult {
		result.Err = err
		logger.Error("publish.file.failed", "error", err)
		return result
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fail(fmt.Errorf("publish: read %s: %w", path, err))
	}

	parsed, err := frontmatter.Parse(path, source)
	if err != nil {
		return fail(err)
	}
	if len(parsed.FrontMatter.Unrecognized) > 0 {
		logger.Debug("publish.frontmatter.unrecognized", "keys", slices.Sorted(maps.Keys(parsed.FrontMatter.Unrecognized)))
	}

	req, err := s.builder.Build(request.Input{Path: path, FrontMatter: parsed.FrontMatter, Body: parsed.Body})
	if err != nil {
		return fail(err)
	}
	if status, ignored := s.builder.ResolveStatus(parsed.FrontMatter); ignored {
		result.StatusIgnored = true
		logger.Warn("publish.status.ignored", "status", parsed.FrontMatter.Status, "applied", status.String())
	}

	if err := s.validator.Validate(req); err != nil {
		return fail(fmt.Errorf("publish: %s: %w", path, err))
	}

	if s.cfg.UploadImages && !s.cfg.DryRun {
		req.Content, result.Images = s.uploadImages(ctx, logger, path, result.DocumentID, req.Content)
	}
	result.Request = &req

	if s.cfg.DumpDir != "" {
		dumpPath, err := writeDump(s.cfg.DumpDir, req, result.DocumentID)
		if err != nil {
			return fail(err)
		}
		result.DumpPath = dumpPath
		logger.Debug("publish.file.dumped", "dump_path", dumpPath)
	}

	if s.cfg.DryRun {
		logger.Info("publish.file.dry_run", "title", req.Title, "status", req.PublishStatus.String(), "tags", req.Tags)
		return result
	}

	authorID, err := session.resolve(ctx, s.client, logger)
	if err != nil {
		return fail(err)
	}
	post, err := s.client.CreatePost(ctx, authorID, req)
	if err != nil {
		return fail(fmt.Errorf("publish: %s: %w", path, err))
	}
	result.Post = post
	logger.Info("publish.file.published", "title", req.Title, "status", req.PublishStatus.String(), "url", post.URL)
	return result
}

// uploadImages uploads every local image in content. A failed upload is
// logged and its reference is left as written.
func (s *Service) uploadImages(ctx context.Context, logger interfaces.Logger, docPath string, documentID uuid.UUID, content string) (string, []ImageUpload) {
	refs := s.inspector.LocalImages(content)
	if len(refs) == 0 {
		return content, nil
	}

	replacements := make(map[string]string, len(refs))
	uploads := make([]ImageUpload, 0, len(refs))
	for _, ref := range refs {
		upload := ImageUpload{
			ID:          identity.ImageUUID(documentID, ref.Destination),
			Destination: ref.Destination,
			Path:        resolveImagePath(docPath, ref.Destination),
		}
		image, err := s.client.UploadImage(ctx, upload.Path)
		if err != nil {
			upload.Err = err
			logger.Warn("publish.image.upload_failed", "image", upload.Path, "image_id", upload.ID.String(), "error", err)
		} else {
			upload.URL = image.URL
			replacements[ref.Destination] = image.URL
			logger.Debug("publish.image.uploaded", "image", upload.Path, "image_id", upload.ID.String(), "url", image.URL)
		}
		uploads = append(uploads, upload)
	}
	return markdown.RewriteImages(content, replacements), uploads
}

// resolveImagePath maps an image destination onto the filesystem. Relative
// destinations are resolved against the document's directory.
func resolveImagePath(docPath, destination string) string {
	if unescaped, err := url.PathUnescape(destination); err == nil {
		destination = unescaped
	}
	local := filepath.FromSlash(destination)
	if filepath.IsAbs(local) {
		return local
	}
	return filepath.Join(filepath.Dir(docPath), local)
}

type authorSession struct {
	resolved bool
	id       string
	err      error
}

func (a *authorSession) resolve(ctx context.Context, client interfaces.PlatformClient, logger interfaces.Logger) (string, error) {
	if a.resolved {
		return a.id, a.err
	}
	a.resolved = true
	author, err := client.Me(ctx)
	if err != nil {
		a.err = fmt.Errorf("publish: resolve author: %w", err)
		return "", a.err
	}
	a.id = author.ID
	logger.Debug("publish.author.resolved", "author_id", author.ID, "username", author.Username)
	return a.id, nil
}
