package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-posts/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{
			name:   "content dir required",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Content.Dir = " " },
			want:   runtimeconfig.ErrContentDirRequired,
		},
		{
			name:   "bad pattern",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Content.Pattern = "[*.md" },
			want:   runtimeconfig.ErrContentPatternInvalid,
		},
		{
			name:   "unknown front matter format",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Content.Formats = []string{"toml", "json"} },
			want:   runtimeconfig.ErrContentFormatUnknown,
		},
		{
			name:   "negative excerpt budget",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Content.ExcerptMaxChars = -1 },
			want:   runtimeconfig.ErrExcerptMaxCharsInvalid,
		},
		{
			name:   "permalink without slug",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Permalinks.Path = "/posts/:id" },
			want:   runtimeconfig.ErrPermalinkPathInvalid,
		},
		{
			name:   "unknown output format",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Output.Format = "xml" },
			want:   runtimeconfig.ErrOutputFormatInvalid,
		},
		{
			name:   "negative timeout",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Commands.Timeout = -time.Second },
			want:   runtimeconfig.ErrCommandTimeoutInvalid,
		},
		{
			name:   "logging provider required",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Logging.Provider = "" },
			want:   runtimeconfig.ErrLoggingProviderRequired,
		},
		{
			name:   "unknown logging provider",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Logging.Provider = "syslog" },
			want:   runtimeconfig.ErrLoggingProviderUnknown,
		},
		{
			name:   "invalid logging level",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Logging.Level = "loud" },
			want:   runtimeconfig.ErrLoggingLevelInvalid,
		},
		{
			name: "invalid gologger format",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Logging.Provider = "gologger"
				cfg.Logging.Format = "xml"
			},
			want: runtimeconfig.ErrLoggingFormatInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadReadsFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "posts.yaml")
	content := []byte(`content:
  dir: site/posts
  include_drafts: true
  formats: [toml, yaml]
permalinks:
  base_url: https://blog.example.com
output:
  format: yaml
commands:
  timeout: 30s
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("POSTS_LOGGING_LEVEL", "debug")

	cfg, err := runtimeconfig.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Content.Dir != "site/posts" || !cfg.Content.IncludeDrafts {
		t.Fatalf("unexpected content config %+v", cfg.Content)
	}
	if len(cfg.Content.Formats) != 2 || cfg.Content.Formats[1] != "yaml" {
		t.Fatalf("unexpected formats %v", cfg.Content.Formats)
	}
	if cfg.Content.Pattern != "*.md" || !cfg.Content.Recursive {
		t.Fatalf("expected defaults to fill unset keys, got %+v", cfg.Content)
	}
	if cfg.Permalinks.BaseURL != "https://blog.example.com" || cfg.Permalinks.Path != "/posts/:slug" {
		t.Fatalf("unexpected permalinks %+v", cfg.Permalinks)
	}
	if cfg.Output.Format != "yaml" {
		t.Fatalf("expected yaml output, got %s", cfg.Output.Format)
	}
	if cfg.Commands.Timeout != 30*time.Second {
		t.Fatalf("expected 30s timeout, got %s", cfg.Commands.Timeout)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected env override, got %s", cfg.Logging.Level)
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	if _, err := runtimeconfig.Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.yaml")
	if err := os.WriteFile(path, []byte("output:\n  format: xml\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := runtimeconfig.Load(path); !errors.Is(err, runtimeconfig.ErrOutputFormatInvalid) {
		t.Fatalf("expected ErrOutputFormatInvalid, got %v", err)
	}
}
