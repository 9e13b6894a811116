package runtimeconfig

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

var ErrContentDirRequired = errors.New("posts config: content directory is required")
var ErrContentPatternInvalid = errors.New("posts config: content pattern is invalid")
var ErrContentFormatUnknown = errors.New("posts config: front matter format is invalid")
var ErrExcerptMaxCharsInvalid = errors.New("posts config: excerpt max chars must be zero or positive")
var ErrPermalinkPathInvalid = errors.New("posts config: permalink path must start with / and contain :slug")
var ErrOutputFormatInvalid = errors.New("posts config: output format is invalid")
var ErrCommandTimeoutInvalid = errors.New("posts config: command timeout must be zero or positive")
var ErrLoggingProviderRequired = errors.New("posts config: logging provider is required")
var ErrLoggingProviderUnknown = errors.New("posts config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("posts config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("posts config: logging format is invalid")

// Config aggregates everything a build needs. Field tags name the keys used in
// posts.yaml and, upper-cased with a POSTS_ prefix, in the environment.
type Config struct {
	Content    ContentConfig   `mapstructure:"content"`
	Permalinks PermalinkConfig `mapstructure:"permalinks"`
	Output     OutputConfig    `mapstructure:"output"`
	Commands   CommandsConfig  `mapstructure:"commands"`
	Logging    LoggingConfig   `mapstructure:"logging"`
}

// ContentConfig captures filesystem and parser behaviour for post ingestion.
type ContentConfig struct {
	Dir             string   `mapstructure:"dir"`
	Pattern         string   `mapstructure:"pattern"`
	Recursive       bool     `mapstructure:"recursive"`
	IncludeDrafts   bool     `mapstructure:"include_drafts"`
	Formats         []string `mapstructure:"formats"`
	MoreMarker      string   `mapstructure:"more_marker"`
	ExcerptMaxChars int      `mapstructure:"excerpt_max_chars"`
	SchemaPath      string   `mapstructure:"schema_path"`
}

// PermalinkConfig configures the route used to build post URLs.
type PermalinkConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Path    string `mapstructure:"path"`
}

// OutputConfig controls how the manifest is written.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	// Path of the manifest file; empty writes to stdout.
	Path string `mapstructure:"path"`
}

// CommandsConfig captures command-layer behaviour.
type CommandsConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// DefaultConfig returns the settings used when no file or environment overrides exist.
func DefaultConfig() Config {
	return Config{
		Content: ContentConfig{
			Dir:        "content/posts",
			Pattern:    "*.md",
			Recursive:  true,
			Formats:    []string{"toml"},
			MoreMarker: "<!--more-->",
		},
		Permalinks: PermalinkConfig{
			Path: "/posts/:slug",
		},
		Output: OutputConfig{
			Format: "json",
		},
		Commands: CommandsConfig{
			Timeout: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	if pattern := strings.TrimSpace(cfg.Content.Pattern); pattern != "" && !isValidPattern(pattern) {
		return fmt.Errorf("%w: %s", ErrContentPatternInvalid, pattern)
	}
	for _, format := range cfg.Content.Formats {
		if !isSupportedFrontMatterFormat(format) {
			return fmt.Errorf("%w: %s", ErrContentFormatUnknown, format)
		}
	}
	if cfg.Content.ExcerptMaxChars < 0 {
		return ErrExcerptMaxCharsInvalid
	}
	if path := strings.TrimSpace(cfg.Permalinks.Path); path != "" {
		if !strings.HasPrefix(path, "/") || !strings.Contains(path, ":slug") {
			return fmt.Errorf("%w: %s", ErrPermalinkPathInvalid, path)
		}
	}
	if format := strings.TrimSpace(cfg.Output.Format); format != "" && !isSupportedOutputFormat(format) {
		return fmt.Errorf("%w: %s", ErrOutputFormatInvalid, format)
	}
	if cfg.Commands.Timeout < 0 {
		return ErrCommandTimeoutInvalid
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

func isSupportedFrontMatterFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "toml", "yaml":
		return true
	default:
		return false
	}
}

func isSupportedOutputFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "yaml":
		return true
	default:
		return false
	}
}

func isValidPattern(pattern string) bool {
	_, err := path.Match(strings.ReplaceAll(pattern, "**/", ""), "")
	return err == nil
}
