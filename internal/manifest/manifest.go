// Package manifest encodes a load result into the document handed to the
// external renderer.
package manifest

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-posts/pkg/interfaces"
)

var ErrUnknownFormat = errors.New("manifest format unknown")

// Format selects the manifest encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

const dateLayout = "2006-01-02"

// Manifest is the ordered post listing for one build.
type Manifest struct {
	GeneratedAt   time.Time `json:"generated_at" yaml:"generated_at"`
	BuildID       string    `json:"build_id" yaml:"build_id"`
	IncludeDrafts bool      `json:"include_drafts" yaml:"include_drafts"`
	DraftsSkipped int       `json:"drafts_skipped" yaml:"drafts_skipped"`
	Posts         []Entry   `json:"posts" yaml:"posts"`
	Errors        []Failure `json:"errors" yaml:"errors"`
}

// Entry describes a single post.
type Entry struct {
	ID            string         `json:"id" yaml:"id"`
	Slug          string         `json:"slug" yaml:"slug"`
	Title         string         `json:"title" yaml:"title"`
	Date          string         `json:"date" yaml:"date"`
	Draft         bool           `json:"draft" yaml:"draft"`
	FeaturedImage string         `json:"featured_image,omitempty" yaml:"featured_image,omitempty"`
	Permalink     string         `json:"permalink,omitempty" yaml:"permalink,omitempty"`
	SourcePath    string         `json:"source_path" yaml:"source_path"`
	Excerpt       string         `json:"excerpt" yaml:"excerpt"`
	Truncated     bool           `json:"truncated" yaml:"truncated"`
	Body          string         `json:"body" yaml:"body"`
	Params        map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
	Checksum      string         `json:"checksum" yaml:"checksum"`
}

// Failure describes a file excluded from the build.
type Failure struct {
	Path   string `json:"path" yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
}

// Options customises manifest metadata. Zero values fall back to the current
// time and a random build identifier.
type Options struct {
	GeneratedAt   time.Time
	BuildID       uuid.UUID
	IncludeDrafts bool
}

// New converts result into a manifest, keeping the loader's post order.
func New(result *interfaces.LoadResult, opts Options) *Manifest {
	generatedAt := opts.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}
	buildID := opts.BuildID
	if buildID == uuid.Nil {
		buildID = uuid.New()
	}

	m := &Manifest{
		GeneratedAt:   generatedAt.UTC(),
		BuildID:       buildID.String(),
		IncludeDrafts: opts.IncludeDrafts,
		Posts:         []Entry{},
		Errors:        []Failure{},
	}
	if result == nil {
		return m
	}

	m.DraftsSkipped = result.DraftsSkipped
	for _, post := range result.Posts {
		if post == nil {
			continue
		}
		m.Posts = append(m.Posts, newEntry(post))
	}
	for _, fileErr := range result.Errors {
		if fileErr == nil {
			continue
		}
		m.Errors = append(m.Errors, Failure{Path: fileErr.Path, Reason: fileErr.Reason})
	}
	return m
}

// Write encodes m in the requested format. JSON is indented for readability.
func Write(w io.Writer, m *Manifest, format Format) error {
	switch normalizeFormat(format) {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		encoder.SetEscapeHTML(false)
		if err := encoder.Encode(m); err != nil {
			return fmt.Errorf("manifest: encode json: %w", err)
		}
		return nil
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(m); err != nil {
			return fmt.Errorf("manifest: encode yaml: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("manifest: encode yaml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// ParseFormat maps a configuration value onto a Format. Empty input yields JSON.
func ParseFormat(value string) (Format, error) {
	format := normalizeFormat(Format(value))
	if format == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, value)
	}
	return format, nil
}

func normalizeFormat(format Format) Format {
	switch strings.ToLower(strings.TrimSpace(string(format))) {
	case "", "json":
		return FormatJSON
	case "yaml", "yml":
		return FormatYAML
	default:
		return ""
	}
}

func newEntry(post *interfaces.Post) Entry {
	entry := Entry{
		ID:            post.ID.String(),
		Slug:          post.Slug,
		Title:         post.Title,
		Date:          formatDate(post.Date),
		Draft:         post.Draft,
		FeaturedImage: post.FeaturedImage,
		Permalink:     post.Permalink,
		SourcePath:    post.SourcePath,
		Excerpt:       post.Excerpt,
		Truncated:     post.Truncated,
		Body:          post.Body,
		Checksum:      hex.EncodeToString(post.Checksum),
	}
	if len(post.FrontMatter.Params) > 0 {
		entry.Params = post.FrontMatter.Params
	}
	return entry
}

// formatDate keeps calendar dates short and falls back to RFC3339 when a
// time of day was supplied.
func formatDate(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	if value.Hour() == 0 && value.Minute() == 0 && value.Second() == 0 && value.Nanosecond() == 0 {
		return value.Format(dateLayout)
	}
	return value.Format(time.RFC3339)
}
