package posts

import (
	"fmt"
	"path"
	"strings"

	"github.com/goliatone/go-slug"
)

const bundleIndex = "index"

// SlugFromPath derives the post slug from a slash separated path relative to
// the content root. Every directory segment contributes to the slug so posts
// in different folders never collide by accident; a bundle (dir/index.md)
// takes its directory name.
func SlugFromPath(rel string) (string, error) {
	clean := path.Clean(strings.TrimPrefix(rel, "./"))
	clean = strings.TrimSuffix(clean, path.Ext(clean))

	segments := strings.Split(clean, "/")
	if len(segments) > 1 && strings.EqualFold(segments[len(segments)-1], bundleIndex) {
		segments = segments[:len(segments)-1]
	}

	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		if strings.TrimSpace(segment) == "" || segment == "." {
			continue
		}
		normalized, err := slug.Normalize(segment)
		if err != nil {
			return "", fmt.Errorf("%w %q: %v", ErrSlugInvalid, rel, err)
		}
		if normalized != "" {
			parts = append(parts, normalized)
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("%w %q", ErrSlugInvalid, rel)
	}
	return strings.Join(parts, "-"), nil
}
