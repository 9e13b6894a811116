package buildcmd

import (
	"path"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-posts/pkg/interfaces"
)

const buildMessageType = "posts.build"

// ResultCallback receives the load result produced by a build. The callback is optional
// and is invoked synchronously from the handler, before the outcome is categorised.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of a build command.
type ResultEnvelope struct {
	Result   *interfaces.LoadResult
	Metadata map[string]any
}

// BuildCommand loads every post under Directory.
type BuildCommand struct {
	Directory      string         `json:"directory"`
	IncludeDrafts  bool           `json:"include_drafts,omitempty"`
	Pattern        string         `json:"pattern,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildCommand) Type() string { return buildMessageType }

// Validate ensures a directory is present and the pattern, when set, is a valid glob.
func (m BuildCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Directory, validation.Required,
			validation.By(func(value any) error {
				if strings.TrimSpace(value.(string)) == "" {
					return validation.NewError("posts.build.directory_required", "directory is required")
				}
				return nil
			}),
		),
		validation.Field(&m.Pattern,
			validation.By(func(value any) error {
				pattern := strings.TrimSpace(value.(string))
				if pattern == "" {
					return nil
				}
				if _, err := path.Match(strings.ReplaceAll(pattern, "**/", ""), ""); err != nil {
					return validation.NewError("posts.build.pattern_invalid", "pattern must be a valid glob")
				}
				return nil
			}),
		),
	)
}
