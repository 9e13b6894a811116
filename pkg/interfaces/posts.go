package interfaces

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PostLoader turns a directory of Markdown files into publishable post
// records. Implementations apply a partial-failure policy: files that cannot
// be turned into a Post are reported in LoadResult.Errors while the remaining
// files are still loaded.
type PostLoader interface {
	// LoadFile reads a single post relative to the loader's content root.
	// Draft filtering is not applied to single files.
	LoadFile(ctx context.Context, path string, opts LoadOptions) (*Post, error)
	// LoadDirectory loads every matching file under dir. The returned error is
	// reserved for failures that abort the whole run (unreadable directory,
	// cancelled context).
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) (*LoadResult, error)
}

// Post represents one Markdown file with parsed front matter. Posts are
// immutable once the loader hands them out.
type Post struct {
	ID            uuid.UUID
	Slug          string
	Title         string
	Date          time.Time
	Draft         bool
	FeaturedImage string
	// Body holds the raw Markdown found after the front matter block.
	Body string
	// Excerpt is the preview used by list views. It is the text before the
	// more marker, or the full body when no marker is present. When an
	// excerpt character budget is configured it is instead the plain text
	// of that part, shortened to the budget, and no longer a substring of Body.
	Excerpt   string
	Truncated bool
	Permalink string
	// SourcePath is slash separated and relative to the content root.
	SourcePath   string
	FrontMatter  FrontMatter
	Checksum     []byte
	LastModified time.Time
}

// FrontMatter models the metadata block at the top of a post. Known keys are
// surfaced as typed fields; every other key is kept in Params untouched.
type FrontMatter struct {
	Title         string         `toml:"title" yaml:"title" json:"title"`
	Date          time.Time      `toml:"date" yaml:"date" json:"date"`
	Draft         bool           `toml:"draft" yaml:"draft" json:"draft"`
	FeaturedImage string         `toml:"featured_image" yaml:"featured_image" json:"featured_image,omitempty"`
	Params        map[string]any `toml:"-" yaml:"-" json:"params,omitempty"`
	// Raw contains every key exactly as decoded, known keys included.
	Raw map[string]any `toml:"-" yaml:"-" json:"-"`
}

// LoadOptions fine-tunes how posts are discovered and filtered.
type LoadOptions struct {
	// IncludeDrafts keeps draft posts in the result (local preview).
	IncludeDrafts bool
	// Pattern overrides the configured glob for this call.
	Pattern string
	// Recursive overrides the configured directory traversal for this call.
	Recursive *bool
}

// LoadResult reports the outcome of a directory load.
type LoadResult struct {
	// Posts is ordered by Date descending, ties broken by Slug ascending.
	Posts []*Post
	// Errors lists every file that was excluded because it failed to load.
	Errors []*FileError
	// DraftsSkipped counts valid posts hidden because they are drafts.
	DraftsSkipped int
}

// HasErrors reports whether at least one file failed to load.
func (r *LoadResult) HasErrors() bool {
	return r != nil && len(r.Errors) > 0
}

// FileError describes why a single file was excluded from the result.
type FileError struct {
	Path   string
	Reason string
	Err    error
}

func (e *FileError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func (e *FileError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
