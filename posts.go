package posts

import (
	"context"
	"fmt"
	"io"
	"io/fs"

	buildcmd "github.com/goliatone/go-posts/internal/commands/build"
	"github.com/goliatone/go-posts/internal/di"
	"github.com/goliatone/go-posts/pkg/interfaces"
)

// Post exports the post record produced by the loader.
type Post = interfaces.Post

// FrontMatter exports the decoded metadata block of a post.
type FrontMatter = interfaces.FrontMatter

// LoadResult exports the ordered posts and per-file errors of a directory load.
type LoadResult = interfaces.LoadResult

// FileError exports the error describing an excluded file.
type FileError = interfaces.FileError

// ErrIncompleteBuild is returned by Build when at least one file failed to load.
var ErrIncompleteBuild = buildcmd.ErrIncompleteBuild

// Option customises module construction.
type Option = di.Option

// WithLoggerProvider overrides the provider selected by Logging.Provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return di.WithLoggerProvider(provider)
}

// WithLogWriter redirects the console logger, which writes to stderr by default.
func WithLogWriter(w io.Writer) Option {
	return di.WithLogWriter(w)
}

// WithFilesystem loads posts from filesystem instead of Content.Dir.
func WithFilesystem(filesystem fs.FS) Option {
	return di.WithFilesystem(filesystem)
}

// WithCommandRegistry registers the build command with a host dispatcher.
func WithCommandRegistry(reg buildcmd.CommandRegistry) Option {
	return di.WithCommandRegistry(reg)
}

// Module represents the top level runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Loader returns the configured post loader.
func (m *Module) Loader() interfaces.PostLoader {
	return m.container.Loader()
}

// LoggerProvider returns the provider used by every module logger.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	return m.container.LoggerProvider()
}

// BuildOptions narrow a single build.
type BuildOptions struct {
	IncludeDrafts bool
	Pattern       string
}

// Build loads every post under the configured content directory through the
// build command. On a partial failure both the result and an error wrapping
// ErrIncompleteBuild are returned; a fatal error returns no result.
func (m *Module) Build(ctx context.Context, opts BuildOptions) (*LoadResult, error) {
	var result *LoadResult
	err := m.container.BuildHandler().Execute(ctx, buildcmd.BuildCommand{
		Directory:     ".",
		IncludeDrafts: opts.IncludeDrafts,
		Pattern:       opts.Pattern,
		ResultCallback: func(env buildcmd.ResultEnvelope) {
			result = env.Result
		},
	})
	if err != nil && result == nil {
		if dir := m.container.ContentDir(); dir != "" {
			err = fmt.Errorf("content directory %s: %w", dir, err)
		}
	}
	return result, err
}
