package runtimeconfig_test

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-mdpublish/internal/runtimeconfig"
)

func validConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Medium.Token = "token"
	return cfg
}

func TestDefaultConfigNeedsOnlyAToken(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if err := runtimeconfig.DefaultConfig().Validate(); !errors.Is(err, runtimeconfig.ErrTokenRequired) {
		t.Fatalf("expected ErrTokenRequired, got %v", err)
	}
}

func TestConfigValidate_DryRunDoesNotNeedToken(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Publish.DryRun = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_DefaultStatus(t *testing.T) {
	for _, status := range []string{"public", "UNLISTED", " draft "} {
		cfg := validConfig()
		cfg.Publish.DefaultStatus = status
		if err := cfg.Validate(); err != nil {
			t.Fatalf("expected %q to be accepted, got %v", status, err)
		}
	}
	for _, status := range []string{"", "scheduled"} {
		cfg := validConfig()
		cfg.Publish.DefaultStatus = status
		if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrDefaultStatusInvalid) {
			t.Fatalf("expected ErrDefaultStatusInvalid for %q, got %v", status, err)
		}
	}
}

func TestConfigValidate_Failures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{"author block", func(c *runtimeconfig.Config) { c.Publish.AppendAuthorBlock = true; c.Publish.AuthorBlock = " " }, runtimeconfig.ErrAuthorBlockRequired},
		{"max tags", func(c *runtimeconfig.Config) { c.Publish.MaxTags = -1 }, runtimeconfig.ErrMaxTagsInvalid},
		{"relative api url", func(c *runtimeconfig.Config) { c.Medium.BaseURL = "api.medium.com/v1" }, runtimeconfig.ErrBaseURLInvalid},
		{"ftp api url", func(c *runtimeconfig.Config) { c.Medium.BaseURL = "ftp://api.medium.com" }, runtimeconfig.ErrBaseURLInvalid},
		{"timeout", func(c *runtimeconfig.Config) { c.Medium.Timeout = -time.Second }, runtimeconfig.ErrTimeoutInvalid},
		{"provider missing", func(c *runtimeconfig.Config) { c.Logging.Provider = "" }, runtimeconfig.ErrLoggingProviderRequired},
		{"provider unknown", func(c *runtimeconfig.Config) { c.Logging.Provider = "syslog" }, runtimeconfig.ErrLoggingProviderUnknown},
		{"level", func(c *runtimeconfig.Config) { c.Logging.Level = "loud" }, runtimeconfig.ErrLoggingLevelInvalid},
		{"format", func(c *runtimeconfig.Config) { c.Logging.Provider = "gologger"; c.Logging.Format = "xml" }, runtimeconfig.ErrLoggingFormatInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidate_FormatIgnoredForConsoleProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Provider = " Console "
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if cfg.LoggingProvider() != "console" {
		t.Fatalf("expected normalised provider, got %q", cfg.LoggingProvider())
	}
}
