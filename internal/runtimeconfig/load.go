package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix namespaces environment overrides, e.g. POSTS_CONTENT_DIR.
	EnvPrefix         = "POSTS"
	defaultConfigName = "posts"
)

// Load reads configuration from path (or ./posts.yaml when path is empty),
// applies POSTS_* environment overrides on top of DefaultConfig and validates
// the result. A missing default file is not an error; a missing explicit file is.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("posts config: read %s: %w", describe(path), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("posts config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("content.dir", cfg.Content.Dir)
	v.SetDefault("content.pattern", cfg.Content.Pattern)
	v.SetDefault("content.recursive", cfg.Content.Recursive)
	v.SetDefault("content.include_drafts", cfg.Content.IncludeDrafts)
	v.SetDefault("content.formats", cfg.Content.Formats)
	v.SetDefault("content.more_marker", cfg.Content.MoreMarker)
	v.SetDefault("content.excerpt_max_chars", cfg.Content.ExcerptMaxChars)
	v.SetDefault("content.schema_path", cfg.Content.SchemaPath)

	v.SetDefault("permalinks.base_url", cfg.Permalinks.BaseURL)
	v.SetDefault("permalinks.path", cfg.Permalinks.Path)

	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("output.path", cfg.Output.Path)

	v.SetDefault("commands.timeout", cfg.Commands.Timeout)

	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	v.SetDefault("logging.focus", cfg.Logging.Focus)
}

func describe(path string) string {
	if path == "" {
		return defaultConfigName + ".yaml"
	}
	return path
}
