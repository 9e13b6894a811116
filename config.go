package posts

import "github.com/goliatone/go-posts/internal/runtimeconfig"

var (
	ErrContentDirRequired      = runtimeconfig.ErrContentDirRequired
	ErrContentPatternInvalid   = runtimeconfig.ErrContentPatternInvalid
	ErrContentFormatUnknown    = runtimeconfig.ErrContentFormatUnknown
	ErrExcerptMaxCharsInvalid  = runtimeconfig.ErrExcerptMaxCharsInvalid
	ErrPermalinkPathInvalid    = runtimeconfig.ErrPermalinkPathInvalid
	ErrOutputFormatInvalid     = runtimeconfig.ErrOutputFormatInvalid
	ErrCommandTimeoutInvalid   = runtimeconfig.ErrCommandTimeoutInvalid
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config          = runtimeconfig.Config
	ContentConfig   = runtimeconfig.ContentConfig
	PermalinkConfig = runtimeconfig.PermalinkConfig
	OutputConfig    = runtimeconfig.OutputConfig
	CommandsConfig  = runtimeconfig.CommandsConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads posts.yaml (or path) and POSTS_* environment overrides.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
