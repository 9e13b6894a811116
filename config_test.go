package posts_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-posts"
)

func TestConfigValidateRequiresContentDir(t *testing.T) {
	cfg := posts.DefaultConfig()
	cfg.Content.Dir = ""
	if err := cfg.Validate(); !errors.Is(err, posts.ErrContentDirRequired) {
		t.Fatalf("expected ErrContentDirRequired, got %v", err)
	}
}

func TestConfigValidateRejectsUnknownOutputFormat(t *testing.T) {
	cfg := posts.DefaultConfig()
	cfg.Output.Format = "toml"
	if err := cfg.Validate(); !errors.Is(err, posts.ErrOutputFormatInvalid) {
		t.Fatalf("expected ErrOutputFormatInvalid, got %v", err)
	}
}
