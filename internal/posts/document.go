package posts

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-posts/internal/frontmatter"
	"github.com/goliatone/go-posts/internal/identity"
	"github.com/goliatone/go-posts/pkg/interfaces"
)

const (
	keyTitle         = "title"
	keyDate          = "date"
	keyDraft         = "draft"
	keyFeaturedImage = "featured_image"
)

// dateLayouts lists the string forms accepted for the date key, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// BuildPost assembles a Post from a file's path, raw content and modification
// time. Slug, identity and excerpt are derived here; permalinks are attached
// by the Loader.
func (l *Loader) BuildPost(rel string, source []byte, modified time.Time) (*interfaces.Post, error) {
	values, body, err := frontmatter.ParseWithFormats(source, l.formats...)
	if err != nil {
		return nil, err
	}

	if l.validator != nil {
		if err := l.validator.Validate(values); err != nil {
			return nil, err
		}
	}

	fm, err := decodeFrontMatter(values)
	if err != nil {
		return nil, err
	}

	postSlug, err := SlugFromPath(rel)
	if err != nil {
		return nil, err
	}

	excerpt := l.excerpts.Build(string(body))
	sum := sha256.Sum256(source)

	return &interfaces.Post{
		ID:            identity.PostUUID(postSlug),
		Slug:          postSlug,
		Title:         fm.Title,
		Date:          fm.Date,
		Draft:         fm.Draft,
		FeaturedImage: fm.FeaturedImage,
		Body:          string(body),
		Excerpt:       excerpt.Text,
		Truncated:     excerpt.Truncated,
		SourcePath:    rel,
		FrontMatter:   fm,
		Checksum:      sum[:],
		LastModified:  modified,
	}, nil
}

func decodeFrontMatter(values frontmatter.Values) (interfaces.FrontMatter, error) {
	fm := interfaces.FrontMatter{
		Params: map[string]any{},
		Raw:    values.Clone(),
	}

	title, err := parseTitle(values)
	if err != nil {
		return fm, err
	}
	fm.Title = title

	date, err := parseDate(values)
	if err != nil {
		return fm, err
	}
	fm.Date = date

	draft, err := parseDraft(values[keyDraft])
	if err != nil {
		return fm, err
	}
	fm.Draft = draft

	if raw, ok := values[keyFeaturedImage]; ok {
		image, ok := raw.(string)
		if !ok {
			return fm, fmt.Errorf("%w: expected string, got %T", ErrFeaturedImageInvalid, raw)
		}
		fm.FeaturedImage = strings.TrimSpace(image)
	}

	for key, value := range values {
		switch key {
		case keyTitle, keyDate, keyDraft, keyFeaturedImage:
			continue
		}
		fm.Params[key] = value
	}

	return fm, nil
}

func parseTitle(values frontmatter.Values) (string, error) {
	raw, ok := values[keyTitle]
	if !ok || raw == nil {
		return "", ErrTitleRequired
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected string, got %T", ErrTitleRequired, raw)
	}
	if strings.TrimSpace(value) == "" {
		return "", ErrTitleRequired
	}
	return value, nil
}

func parseDate(values frontmatter.Values) (time.Time, error) {
	raw, ok := values[keyDate]
	if !ok || raw == nil {
		return time.Time{}, ErrDateRequired
	}

	switch value := raw.(type) {
	case time.Time:
		return normalizeDate(value), nil
	case string:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return time.Time{}, ErrDateRequired
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				return normalizeDate(parsed), nil
			}
		}
		return time.Time{}, fmt.Errorf("%w %q", ErrDateInvalid, value)
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrDateInvalid, raw)
	}
}

// normalizeDate moves zero-offset values (TOML local dates among them) to UTC
// so equal calendar dates compare and encode identically.
func normalizeDate(value time.Time) time.Time {
	if _, offset := value.Zone(); offset == 0 {
		return value.UTC()
	}
	return value
}

func parseDraft(raw any) (bool, error) {
	switch value := raw.(type) {
	case nil:
		return false, nil
	case bool:
		return value, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return false, fmt.Errorf("%w %q", ErrDraftInvalid, value)
	default:
		return false, fmt.Errorf("%w: unsupported type %T", ErrDraftInvalid, raw)
	}
}
