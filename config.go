package mdpublish

import (
	"github.com/goliatone/go-mdpublish/internal/envconfig"
	"github.com/goliatone/go-mdpublish/internal/runtimeconfig"
)

var (
	ErrDefaultStatusInvalid    = runtimeconfig.ErrDefaultStatusInvalid
	ErrAuthorBlockRequired     = runtimeconfig.ErrAuthorBlockRequired
	ErrMaxTagsInvalid          = runtimeconfig.ErrMaxTagsInvalid
	ErrTokenRequired           = runtimeconfig.ErrTokenRequired
	ErrBaseURLInvalid          = runtimeconfig.ErrBaseURLInvalid
	ErrTimeoutInvalid          = runtimeconfig.ErrTimeoutInvalid
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config        = runtimeconfig.Config
	PublishConfig = runtimeconfig.PublishConfig
	MediumConfig  = runtimeconfig.MediumConfig
	LoggingConfig = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads dotenv files and the environment on top of
// DefaultConfig. With no files, config/token.config and .env are tried.
func LoadConfig(files ...string) (Config, error) {
	if len(files) == 0 {
		return envconfig.Load()
	}
	return envconfig.Load(envconfig.WithFiles(files...))
}
