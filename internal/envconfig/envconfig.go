// Package envconfig loads runtime configuration from dotenv files and the
// process environment.
package envconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/goliatone/go-mdpublish/internal/runtimeconfig"
)

// DefaultFiles are the dotenv files consulted when none are given. Missing
// files are skipped.
var DefaultFiles = []string{filepath.Join("config", "token.config"), ".env"}

type binding struct {
	key string
	env string
}

var bindings = []binding{
	{"medium.auth_token", "MEDIUM_AUTH_TOKEN"},
	{"medium.api_url", "MEDIUM_API_URL"},
	{"medium.timeout", "MEDIUM_TIMEOUT"},
	{"medium.user_agent", "MEDIUM_USER_AGENT"},
	{"publish.default_status", "MDPUBLISH_DEFAULT_STATUS"},
	{"publish.append_author_block", "MDPUBLISH_APPEND_AUTHOR_BLOCK"},
	{"publish.author_block", "MDPUBLISH_AUTHOR_BLOCK"},
	{"publish.author_block_file", "MDPUBLISH_AUTHOR_BLOCK_FILE"},
	{"publish.max_tags", "MDPUBLISH_MAX_TAGS"},
	{"publish.upload_images", "MDPUBLISH_UPLOAD_IMAGES"},
	{"publish.dump_dir", "MDPUBLISH_DUMP_DIR"},
	{"logging.provider", "MDPUBLISH_LOG_PROVIDER"},
	{"logging.level", "MDPUBLISH_LOG_LEVEL"},
	{"logging.format", "MDPUBLISH_LOG_FORMAT"},
	{"logging.add_source", "MDPUBLISH_LOG_ADD_SOURCE"},
}

// Option customises Load.
type Option func(*loader)

type loader struct {
	files []string
}

// WithFiles replaces DefaultFiles.
func WithFiles(files ...string) Option {
	return func(l *loader) {
		l.files = files
	}
}

// Load builds a Config from runtimeconfig.DefaultConfig, then the dotenv
// files, then the environment. Later layers win.
func Load(opts ...Option) (runtimeconfig.Config, error) {
	l := &loader{files: DefaultFiles}
	for _, opt := range opts {
		opt(l)
	}

	fileValues, err := readFiles(l.files)
	if err != nil {
		return runtimeconfig.Config{}, err
	}

	v := viper.New()
	setDefaults(v, runtimeconfig.DefaultConfig())
	for _, b := range bindings {
		if err := v.BindEnv(b.key, b.env); err != nil {
			return runtimeconfig.Config{}, fmt.Errorf("envconfig: bind %s: %w", b.env, err)
		}
		if value, ok := fileValues[b.env]; ok {
			v.SetDefault(b.key, value)
		}
	}

	var cfg runtimeconfig.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return runtimeconfig.Config{}, fmt.Errorf("envconfig: unmarshal: %w", err)
	}
	if err := ResolveAuthorBlock(&cfg); err != nil {
		return runtimeconfig.Config{}, err
	}
	return cfg, nil
}

// ResolveAuthorBlock reads Publish.AuthorBlockFile into Publish.AuthorBlock
// when no inline block is configured.
func ResolveAuthorBlock(cfg *runtimeconfig.Config) error {
	path := strings.TrimSpace(cfg.Publish.AuthorBlockFile)
	if path == "" || strings.TrimSpace(cfg.Publish.AuthorBlock) != "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("envconfig: read author block %s: %w", path, err)
	}
	cfg.Publish.AuthorBlock = strings.TrimRight(string(data), "\r\n")
	return nil
}

func readFiles(files []string) (map[string]string, error) {
	values := map[string]string{}
	for _, file := range files {
		if strings.TrimSpace(file) == "" {
			continue
		}
		if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		parsed, err := godotenv.Read(file)
		if err != nil {
			return nil, fmt.Errorf("envconfig: read %s: %w", file, err)
		}
		for key, value := range parsed {
			if _, seen := values[key]; !seen {
				values[key] = value
			}
		}
	}
	return values, nil
}

func setDefaults(v *viper.Viper, cfg runtimeconfig.Config) {
	v.SetDefault("publish.default_status", cfg.Publish.DefaultStatus)
	v.SetDefault("publish.append_author_block", cfg.Publish.AppendAuthorBlock)
	v.SetDefault("publish.author_block", cfg.Publish.AuthorBlock)
	v.SetDefault("publish.author_block_file", cfg.Publish.AuthorBlockFile)
	v.SetDefault("publish.max_tags", cfg.Publish.MaxTags)
	v.SetDefault("publish.upload_images", cfg.Publish.UploadImages)
	v.SetDefault("publish.dry_run", cfg.Publish.DryRun)
	v.SetDefault("publish.dump_dir", cfg.Publish.DumpDir)
	v.SetDefault("medium.api_url", cfg.Medium.BaseURL)
	v.SetDefault("medium.auth_token", cfg.Medium.Token)
	v.SetDefault("medium.timeout", cfg.Medium.Timeout)
	v.SetDefault("medium.user_agent", cfg.Medium.UserAgent)
	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
}
