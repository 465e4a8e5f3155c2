// Package request turns parsed front matter and a Markdown body into the
// payload sent to the publishing API. It performs no I/O.
package request

import (
	"fmt"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/goliatone/go-mdpublish/internal/frontmatter"
	"github.com/goliatone/go-mdpublish/internal/markdown"
	"github.com/goliatone/go-mdpublish/pkg/interfaces"
)

// DefaultMaxTags is the number of tags the platform keeps per post.
const DefaultMaxTags = 5

// Options are the global, per-run settings applied to every document.
type Options struct {
	DefaultStatus     interfaces.PublishStatus
	AppendAuthorBlock bool
	AuthorBlock       string
	// MaxTags caps the tag list. Zero selects DefaultMaxTags.
	MaxTags int
}

// Validate reports configuration errors. An invalid default status is a
// configuration error, unlike an invalid front matter status.
func (o Options) Validate() error {
	err := validation.ValidateStruct(&o,
		validation.Field(&o.DefaultStatus, validation.Required, validation.By(func(value any) error {
			status, _ := value.(interfaces.PublishStatus)
			if !status.IsValid() {
				return validation.NewError("mdpublish.request.status_invalid", "must be one of public, unlisted or draft")
			}
			return nil
		})),
		validation.Field(&o.MaxTags, validation.Min(0)),
		validation.Field(&o.AuthorBlock, validation.When(o.AppendAuthorBlock, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("mdpublish.request.author_block_required", "author block is empty")
			}
			return nil
		}))),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}

func (o Options) maxTags() int {
	if o.MaxTags <= 0 {
		return DefaultMaxTags
	}
	return o.MaxTags
}

// Input is everything known about one document.
type Input struct {
	Path        string
	FrontMatter frontmatter.FrontMatter
	Body        string
}

// Builder maps Input onto interfaces.PublishRequest.
type Builder struct {
	opts  Options
	title TitleSource
}

// BuilderOption customises a Builder.
type BuilderOption func(*Builder)

// WithTitleSource replaces the default title chain.
func WithTitleSource(source TitleSource) BuilderOption {
	return func(b *Builder) {
		if source != nil {
			b.title = source
		}
	}
}

// NewBuilder validates opts and returns a Builder using the default title chain.
func NewBuilder(opts Options, builderOpts ...BuilderOption) (*Builder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	b := &Builder{
		opts:  opts,
		title: DefaultTitleChain(markdown.NewInspector()),
	}
	for _, opt := range builderOpts {
		opt(b)
	}
	return b, nil
}

// Options returns the options the builder was created with.
func (b *Builder) Options() Options {
	return b.opts
}

// Build derives the publish request for in.
func (b *Builder) Build(in Input) (interfaces.PublishRequest, error) {
	title, ok := b.title(in)
	if !ok || strings.TrimSpace(title) == "" {
		return interfaces.PublishRequest{}, &ValidationError{
			Path:   in.Path,
			Field:  "title",
			Reason: "no title in front matter, no level-1 heading and no usable file name",
		}
	}

	canonical, err := canonicalURL(in)
	if err != nil {
		return interfaces.PublishRequest{}, err
	}

	status, _ := b.ResolveStatus(in.FrontMatter)

	return interfaces.PublishRequest{
		Title:         title,
		Subtitle:      strings.TrimSpace(in.FrontMatter.Subtitle),
		Content:       b.content(in.Body),
		ContentFormat: interfaces.ContentFormatMarkdown,
		Tags:          NormalizeTags(in.FrontMatter.Tags, b.opts.maxTags()),
		CanonicalURL:  canonical,
		PublishStatus: status,
	}, nil
}

// ResolveStatus picks the front matter status when it is valid and the
// configured default otherwise. ignored is true when the front matter named
// a status that was not accepted.
func (b *Builder) ResolveStatus(fm frontmatter.FrontMatter) (status interfaces.PublishStatus, ignored bool) {
	if !fm.Has(frontmatter.KeyStatus) || strings.TrimSpace(fm.Status) == "" {
		return b.opts.DefaultStatus, false
	}
	parsed, err := interfaces.ParsePublishStatus(fm.Status)
	if err != nil {
		return b.opts.DefaultStatus, true
	}
	return parsed, false
}

func (b *Builder) content(body string) string {
	if !b.opts.AppendAuthorBlock {
		return body
	}
	separator := "\n\n"
	switch {
	case body == "", strings.HasSuffix(body, "\n\n"):
		separator = ""
	case strings.HasSuffix(body, "\n"):
		separator = "\n"
	}
	return body + separator + b.opts.AuthorBlock
}

// NormalizeTags drops case-insensitive duplicates, keeping the first
// spelling, then keeps at most max tags in their original order.
func NormalizeTags(tags []string, max int) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, trimmed)
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

func canonicalURL(in Input) (string, error) {
	raw := strings.TrimSpace(in.FrontMatter.CanonicalURL)
	if raw == "" {
		return "", nil
	}
	err := validation.Validate(raw, is.RequestURL, validation.By(func(value any) error {
		parsed, err := url.Parse(value.(string))
		if err != nil || parsed.Host == "" {
			return validation.NewError("mdpublish.request.canonical_host", "must include a host")
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return validation.NewError("mdpublish.request.canonical_scheme", "must use http or https")
		}
		return nil
	}))
	if err != nil {
		return "", &ValidationError{
			Path:   in.Path,
			Field:  string(frontmatter.KeyCanonicalURL),
			Reason: fmt.Sprintf("%q is not a valid URL: %v", in.FrontMatter.CanonicalURL, err),
		}
	}
	return raw, nil
}
