package buildcmd

import "testing"

func TestBuildCommandValidateRequiresDirectory(t *testing.T) {
	cmd := BuildCommand{}
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected error when directory missing")
	}

	cmd.Directory = "   "
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected error when directory blank")
	}

	cmd.Directory = "content/posts"
	if err := cmd.Validate(); err != nil {
		t.Fatalf("unexpected error when directory provided: %v", err)
	}
}

func TestBuildCommandValidatePattern(t *testing.T) {
	cmd := BuildCommand{Directory: "content/posts", Pattern: "[*.md"}
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected error for malformed pattern")
	}

	cmd.Pattern = "**/*.md"
	if err := cmd.Validate(); err != nil {
		t.Fatalf("unexpected error for valid pattern: %v", err)
	}
}

func TestBuildCommandType(t *testing.T) {
	if got := (BuildCommand{}).Type(); got != "posts.build" {
		t.Fatalf("expected posts.build, got %s", got)
	}
}
