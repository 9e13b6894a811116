package posts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-posts/internal/excerpt"
	"github.com/goliatone/go-posts/internal/frontmatter"
	"github.com/goliatone/go-posts/internal/logging"
	"github.com/goliatone/go-posts/internal/permalink"
	"github.com/goliatone/go-posts/internal/validation"
	"github.com/goliatone/go-posts/pkg/interfaces"
)

const defaultPattern = "*.md"

// Config configures how posts are discovered and decoded.
type Config struct {
	// BasePath is the on-disk root backing the filesystem. It is only used to
	// relativise absolute paths handed to LoadFile/LoadDirectory.
	BasePath string
	// Pattern limits discovered files (defaults to "*.md").
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
	// Formats lists the accepted front matter flavours (defaults to TOML).
	Formats []frontmatter.Format
	// MoreMarker overrides excerpt.DefaultMarker.
	MoreMarker string
	// ExcerptMaxChars bounds the plain-text excerpt used when no marker exists.
	ExcerptMaxChars int
	// Validator optionally checks every front matter block against a schema.
	Validator *validation.FrontMatterValidator
	// Permalinks attaches a URL to each post when set.
	Permalinks *permalink.Resolver
	Logger     interfaces.Logger
}

// Loader turns a content directory into ordered post records.
type Loader struct {
	fs         fs.FS
	basePath   string
	pattern    string
	recursive  bool
	formats    []frontmatter.Format
	excerpts   *excerpt.Builder
	validator  *validation.FrontMatterValidator
	permalinks *permalink.Resolver
	logger     interfaces.Logger
}

var _ interfaces.PostLoader = (*Loader)(nil)

// NewLoader constructs a Loader reading from filesystem.
func NewLoader(filesystem fs.FS, cfg Config) *Loader {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = defaultPattern
	}
	basePath := ""
	if strings.TrimSpace(cfg.BasePath) != "" {
		basePath = filepath.Clean(cfg.BasePath)
	}

	return &Loader{
		fs:        filesystem,
		basePath:  basePath,
		pattern:   pattern,
		recursive: cfg.Recursive,
		formats:   append([]frontmatter.Format(nil), cfg.Formats...),
		excerpts: excerpt.New(excerpt.Options{
			Marker:   cfg.MoreMarker,
			MaxChars: cfg.ExcerptMaxChars,
		}),
		validator:  cfg.Validator,
		permalinks: cfg.Permalinks,
		logger:     logging.Ensure(cfg.Logger),
	}
}

// LoadFile reads and decodes a single post. Failures are returned as
// *interfaces.FileError so callers can report path and reason.
func (l *Loader) LoadFile(ctx context.Context, filePath string, _ interfaces.LoadOptions) (*interfaces.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel, err := l.makeRelative(filePath)
	if err != nil {
		return nil, err
	}
	return l.loadFile(rel, rel)
}

// LoadDirectory loads every matching file under dir. Files that fail are
// excluded and listed in the result; only an unreadable directory or a
// cancelled context aborts the run.
func (l *Loader) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) (*interfaces.LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := l.makeRelative(dir)
	if err != nil {
		return nil, err
	}

	info, err := fs.Stat(l.fs, root)
	if err != nil {
		return nil, fmt.Errorf("posts loader: read directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("posts loader: %s: %w", dir, ErrContentRootNotDir)
	}

	files, err := l.discover(ctx, root, opts)
	if err != nil {
		return nil, err
	}

	logger := l.logger.WithContext(ctx)
	result := &interfaces.LoadResult{}
	seen := make(map[string]string, len(files))

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		post, err := l.loadFile(file, contentRelative(root, file))
		if err != nil {
			result.Errors = append(result.Errors, asFileError(file, err))
			continue
		}

		if first, ok := seen[post.Slug]; ok {
			result.Errors = append(result.Errors, &interfaces.FileError{
				Path:   file,
				Reason: fmt.Sprintf("%s %q (already used by %s)", ErrDuplicateSlug, post.Slug, first),
				Err:    ErrDuplicateSlug,
			})
			continue
		}
		seen[post.Slug] = file

		if post.Draft && !opts.IncludeDrafts {
			result.DraftsSkipped++
			logging.WithPostContext(logger, file, post.Slug).Debug("posts.loader.draft_skipped")
			continue
		}

		logging.WithPostContext(logger, file, post.Slug).Debug("posts.loader.file_loaded")
		result.Posts = append(result.Posts, post)
	}

	SortPosts(result.Posts)

	logger.Debug("posts.loader.directory_loaded",
		"directory", dir,
		"posts", len(result.Posts),
		"errors", len(result.Errors),
		"drafts_skipped", result.DraftsSkipped,
	)

	return result, nil
}

// SortPosts orders posts by date descending, breaking ties by slug ascending.
// The calendar date, read in each post's own offset, decides first so a post
// written on the 14th in UTC+5 still lists above one from the 13th in UTC.
func SortPosts(posts []*interfaces.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if da, db := calendarDay(a.Date), calendarDay(b.Date); da != db {
			return da > db
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.Slug < b.Slug
	})
}

func calendarDay(t time.Time) int {
	return t.Year()*1000 + t.YearDay()
}

// loadFile reads path from the filesystem and builds a post whose slug is
// derived from slugPath.
func (l *Loader) loadFile(filePath, slugPath string) (*interfaces.Post, error) {
	data, err := fs.ReadFile(l.fs, filePath)
	if err != nil {
		return nil, &interfaces.FileError{Path: filePath, Reason: fmt.Sprintf("read file: %v", err), Err: err}
	}

	info, err := fs.Stat(l.fs, filePath)
	if err != nil {
		return nil, &interfaces.FileError{Path: filePath, Reason: fmt.Sprintf("stat file: %v", err), Err: err}
	}

	post, err := l.BuildPost(slugPath, data, info.ModTime())
	if err != nil {
		return nil, asFileError(filePath, err)
	}
	post.SourcePath = filePath

	if l.permalinks != nil {
		link, err := l.permalinks.Resolve(post.Slug)
		if err != nil {
			return nil, asFileError(filePath, err)
		}
		post.Permalink = link
	}

	return post, nil
}

func (l *Loader) discover(ctx context.Context, root string, opts interfaces.LoadOptions) ([]string, error) {
	var files []string

	walkErr := fs.WalkDir(l.fs, root, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("posts loader: read directory %s: %w", current, walkErr)
		}

		if d.IsDir() {
			if current == root {
				return nil
			}
			if isHidden(d.Name()) || !l.shouldRecurse(opts.Recursive) {
				return fs.SkipDir
			}
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if isHidden(d.Name()) || strings.HasPrefix(d.Name(), "_") {
			return nil
		}

		rel := filepath.ToSlash(current)
		if !l.matchesPattern(rel, opts.Pattern) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Strings(files)
	return files, nil
}

func (l *Loader) shouldRecurse(override *bool) bool {
	if override != nil {
		return *override
	}
	return l.recursive
}

func (l *Loader) matchesPattern(filePath string, override string) bool {
	pattern := override
	if strings.TrimSpace(pattern) == "" {
		pattern = l.pattern
	}
	pattern = filepath.ToSlash(pattern)
	if strings.Contains(pattern, "**") {
		pattern = strings.ReplaceAll(pattern, "**/", "")
	}
	target := path.Base(filePath)
	if strings.Contains(pattern, "/") {
		target = filePath
	}
	match, err := path.Match(pattern, target)
	if err != nil {
		return false
	}
	return match
}

func (l *Loader) makeRelative(target string) (string, error) {
	clean := filepath.Clean(target)
	if !filepath.IsAbs(clean) {
		return filepath.ToSlash(clean), nil
	}
	if l.basePath == "" {
		return "", fmt.Errorf("posts loader: %s: %w", target, ErrAbsolutePathNoBase)
	}
	rel, err := filepath.Rel(l.basePath, clean)
	if err != nil {
		return "", fmt.Errorf("posts loader: make relative %s: %w", target, err)
	}
	return filepath.ToSlash(rel), nil
}

func contentRelative(root, file string) string {
	if root == "." || root == "" {
		return file
	}
	return strings.TrimPrefix(strings.TrimPrefix(file, root), "/")
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func asFileError(filePath string, err error) *interfaces.FileError {
	var fileErr *interfaces.FileError
	if errors.As(err, &fileErr) {
		return fileErr
	}
	return &interfaces.FileError{Path: filePath, Reason: err.Error(), Err: err}
}
