package buildcmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-posts/internal/commands"
	"github.com/goliatone/go-posts/internal/logging"
	"github.com/goliatone/go-posts/pkg/interfaces"
)

const incompleteBuildCode = "POSTS_BUILD_INCOMPLETE"

var (
	// ErrLoaderRequired indicates the handler was constructed without a loader.
	ErrLoaderRequired = errors.New("posts build: loader is required")
	// ErrIncompleteBuild reports that at least one file was excluded because it failed to load.
	ErrIncompleteBuild = errors.New("posts build: one or more files failed to load")
)

// BuildHandler loads posts through the shared command handler foundation.
type BuildHandler struct {
	inner *commands.Handler[BuildCommand]
}

// NewBuildHandler constructs a handler wired to loader.
func NewBuildHandler(loader interfaces.PostLoader, logger interfaces.Logger, opts ...commands.HandlerOption[BuildCommand]) *BuildHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg BuildCommand) error {
		if loader == nil {
			return ErrLoaderRequired
		}

		directory := strings.TrimSpace(msg.Directory)
		result, err := loader.LoadDirectory(ctx, directory, interfaces.LoadOptions{
			IncludeDrafts: msg.IncludeDrafts,
			Pattern:       strings.TrimSpace(msg.Pattern),
		})
		if err != nil {
			return err
		}

		// Callers report result.Errors themselves.
		entry := baseLogger.WithContext(ctx)
		for _, fileErr := range result.Errors {
			entry.Debug("posts.build.file_failed",
				"post_path", fileErr.Path,
				"reason", fileErr.Reason,
			)
		}

		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Result: result,
			Metadata: map[string]any{
				"operation":      "build",
				"directory":      directory,
				"posts":          len(result.Posts),
				"errors":         len(result.Errors),
				"drafts_skipped": result.DraftsSkipped,
			},
		})

		if result.HasErrors() {
			return goerrors.Wrap(ErrIncompleteBuild, goerrors.CategoryCommand,
				fmt.Sprintf("%d file(s) failed to load", len(result.Errors))).
				WithTextCode(incompleteBuildCode)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[BuildCommand]{
		commands.WithLogger[BuildCommand](baseLogger),
		commands.WithOperation[BuildCommand]("posts.build"),
		commands.WithMessageFields(func(msg BuildCommand) map[string]any {
			fields := map[string]any{
				"directory": strings.TrimSpace(msg.Directory),
			}
			if msg.IncludeDrafts {
				fields["include_drafts"] = true
			}
			if pattern := strings.TrimSpace(msg.Pattern); pattern != "" {
				fields["pattern"] = pattern
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[BuildCommand].
func (h *BuildHandler) Execute(ctx context.Context, msg BuildCommand) error {
	return h.inner.Execute(ctx, msg)
}

func invokeCallback(cb ResultCallback, envelope ResultEnvelope) {
	if cb == nil {
		return
	}
	cb(envelope)
}
