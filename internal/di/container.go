package di

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-posts/internal/commands"
	buildcmd "github.com/goliatone/go-posts/internal/commands/build"
	"github.com/goliatone/go-posts/internal/frontmatter"
	"github.com/goliatone/go-posts/internal/logging"
	"github.com/goliatone/go-posts/internal/logging/console"
	"github.com/goliatone/go-posts/internal/logging/gologger"
	"github.com/goliatone/go-posts/internal/permalink"
	"github.com/goliatone/go-posts/internal/posts"
	"github.com/goliatone/go-posts/internal/runtimeconfig"
	"github.com/goliatone/go-posts/internal/validation"
	"github.com/goliatone/go-posts/pkg/interfaces"
)

// Container wires the loader, the build command and their collaborators from
// a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider  interfaces.LoggerProvider
	logWriter       io.Writer
	filesystem      fs.FS
	contentDir      string
	commandRegistry buildcmd.CommandRegistry

	validator    *validation.FrontMatterValidator
	permalinks   *permalink.Resolver
	loader       *posts.Loader
	buildHandler *buildcmd.BuildHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by Logging.Provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithLogWriter sends console provider output to w instead of stderr. It has
// no effect on the gologger provider or on a provider set with
// WithLoggerProvider.
func WithLogWriter(w io.Writer) Option {
	return func(c *Container) {
		c.logWriter = w
	}
}

// WithFilesystem replaces the on-disk content directory, mostly for tests and
// embedded content.
func WithFilesystem(filesystem fs.FS) Option {
	return func(c *Container) {
		c.filesystem = filesystem
	}
}

// WithCommandRegistry registers the build handler with reg, e.g. a go-command
// dispatcher owned by the host application.
func WithCommandRegistry(reg buildcmd.CommandRegistry) Option {
	return func(c *Container) {
		c.commandRegistry = reg
	}
}

// NewContainer validates cfg and builds every dependency eagerly so
// configuration mistakes surface before a build starts.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.loggerProvider == nil {
		provider, err := newLoggerProvider(cfg.Logging, c.logWriter)
		if err != nil {
			return nil, err
		}
		c.loggerProvider = provider
	}

	formats, err := frontmatter.ParseFormats(cfg.Content.Formats)
	if err != nil {
		return nil, err
	}

	validator, err := validation.LoadFrontMatterValidator(cfg.Content.SchemaPath)
	if err != nil {
		return nil, err
	}
	c.validator = validator

	c.permalinks = permalink.NewResolver(permalink.Config{
		BaseURL: cfg.Permalinks.BaseURL,
		Path:    cfg.Permalinks.Path,
	})

	if c.filesystem == nil {
		c.contentDir = cfg.Content.Dir
		c.filesystem = os.DirFS(cfg.Content.Dir)
	}

	c.loader = posts.NewLoader(c.filesystem, posts.Config{
		BasePath:        c.contentDir,
		Pattern:         cfg.Content.Pattern,
		Recursive:       cfg.Content.Recursive,
		Formats:         formats,
		MoreMarker:      cfg.Content.MoreMarker,
		ExcerptMaxChars: cfg.Content.ExcerptMaxChars,
		Validator:       validator,
		Permalinks:      c.permalinks,
		Logger:          logging.LoaderLogger(c.loggerProvider),
	})

	handler, err := buildcmd.RegisterBuildCommand(c.commandRegistry, c.loader, c.loggerProvider,
		commands.WithTimeout[buildcmd.BuildCommand](cfg.Commands.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("register build command: %w", err)
	}
	c.buildHandler = handler

	logging.ModuleLogger(c.loggerProvider, "").Debug("posts.container.configured",
		"content_dir", cfg.Content.Dir,
		"pattern", cfg.Content.Pattern,
		"recursive", cfg.Content.Recursive,
		"schema", validator != nil,
	)

	return c, nil
}

// ContentDir is the on-disk directory backing the loader, empty when the
// filesystem was supplied with WithFilesystem.
func (c *Container) ContentDir() string {
	return c.contentDir
}

// LoggerProvider returns the provider shared by every module logger.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Loader returns the configured post loader.
func (c *Container) Loader() *posts.Loader {
	return c.loader
}

// BuildHandler returns the build command handler bound to Loader.
func (c *Container) BuildHandler() *buildcmd.BuildHandler {
	return c.buildHandler
}

// Permalinks returns the resolver used to attach post URLs.
func (c *Container) Permalinks() *permalink.Resolver {
	return c.permalinks
}

func newLoggerProvider(cfg runtimeconfig.LoggingConfig, out io.Writer) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	case "", "console":
		level, err := console.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		return console.NewProvider(console.Options{Writer: out, MinLevel: &level}), nil
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrLoggingProviderUnknown, cfg.Provider)
	}
}
