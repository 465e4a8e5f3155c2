package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ErrDefaultStatusInvalid reports a default publish status outside public, unlisted and draft.
var ErrDefaultStatusInvalid = errors.New("mdpublish config: default status is invalid")

// ErrAuthorBlockRequired reports an enabled author block with no content.
var ErrAuthorBlockRequired = errors.New("mdpublish config: author block is required when appending is enabled")
var ErrMaxTagsInvalid = errors.New("mdpublish config: max tags must be zero or positive")
var ErrTokenRequired = errors.New("mdpublish config: medium auth token is required")
var ErrBaseURLInvalid = errors.New("mdpublish config: medium api url must be an absolute http(s) url")
var ErrTimeoutInvalid = errors.New("mdpublish config: medium timeout must be zero or positive")
var ErrLoggingProviderRequired = errors.New("mdpublish config: logging provider is required")
var ErrLoggingProviderUnknown = errors.New("mdpublish config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("mdpublish config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("mdpublish config: logging format is invalid")

// Config aggregates every setting a publish run needs.
type Config struct {
	Publish PublishConfig `mapstructure:"publish"`
	Medium  MediumConfig  `mapstructure:"medium"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// PublishConfig holds the per-run options applied to every document.
type PublishConfig struct {
	DefaultStatus     string `mapstructure:"default_status"`
	AppendAuthorBlock bool   `mapstructure:"append_author_block"`
	AuthorBlock       string `mapstructure:"author_block"`
	// AuthorBlockFile is read into AuthorBlock when AuthorBlock is empty.
	AuthorBlockFile string `mapstructure:"author_block_file"`
	MaxTags         int    `mapstructure:"max_tags"`
	UploadImages    bool   `mapstructure:"upload_images"`
	DryRun          bool   `mapstructure:"dry_run"`
	DumpDir         string `mapstructure:"dump_dir"`
}

// MediumConfig captures the API endpoint and credentials.
type MediumConfig struct {
	BaseURL   string        `mapstructure:"api_url"`
	Token     string        `mapstructure:"auth_token"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// LoggingConfig selects the logger provider and its verbosity.
type LoggingConfig struct {
	Provider  string `mapstructure:"provider"`
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	AddSource bool   `mapstructure:"add_source"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Publish: PublishConfig{
			DefaultStatus: "public",
			MaxTags:       5,
			UploadImages:  true,
		},
		Medium: MediumConfig{
			BaseURL: "https://api.medium.com/v1",
			Timeout: 60 * time.Second,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs consistency checks. The token is only required when the
// run talks to the API.
func (cfg Config) Validate() error {
	if err := cfg.ValidateSettings(); err != nil {
		return err
	}
	if !cfg.Publish.DryRun && strings.TrimSpace(cfg.Medium.Token) == "" {
		return ErrTokenRequired
	}
	return nil
}

// ValidateSettings checks everything except credentials, for callers that
// supply their own authenticated client.
func (cfg Config) ValidateSettings() error {
	switch strings.ToLower(strings.TrimSpace(cfg.Publish.DefaultStatus)) {
	case "public", "unlisted", "draft":
	default:
		return fmt.Errorf("%w: %q", ErrDefaultStatusInvalid, cfg.Publish.DefaultStatus)
	}
	if cfg.Publish.AppendAuthorBlock && strings.TrimSpace(cfg.Publish.AuthorBlock) == "" {
		return ErrAuthorBlockRequired
	}
	if cfg.Publish.MaxTags < 0 {
		return ErrMaxTagsInvalid
	}

	if raw := strings.TrimSpace(cfg.Medium.BaseURL); raw != "" {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return fmt.Errorf("%w: %q", ErrBaseURLInvalid, raw)
		}
	}
	if cfg.Medium.Timeout < 0 {
		return ErrTimeoutInvalid
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// LoggingProvider returns the normalised provider name.
func (cfg Config) LoggingProvider() string {
	return normalizeProvider(cfg.Logging.Provider)
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
