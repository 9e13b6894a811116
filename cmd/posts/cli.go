package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-posts"
	"github.com/goliatone/go-posts/internal/logging"
	"github.com/goliatone/go-posts/internal/manifest"
)

var moduleBuilder = func(cfg posts.Config, logs io.Writer) (*posts.Module, error) {
	return posts.New(cfg, posts.WithLogWriter(logs))
}

type buildFlags struct {
	configPath    string
	includeDrafts bool
	outputPath    string
	format        string
	logLevel      string
	logFormat     string
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(stderr, "posts: %v\n", err)
		return 1
	}
	return 0
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "posts",
		Short: "Load markdown posts and emit a manifest for the site renderer",
		Long: `posts reads a directory of markdown files with +++ delimited front matter,
validates them and writes the published posts, newest first, as a manifest
that an external static site generator renders.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.AddCommand(newBuildCommand(stdout, stderr))
	return root
}

func newBuildCommand(stdout, stderr io.Writer) *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build [content-dir]",
		Short: "Load every post and write the manifest",
		Long: `Build loads every post under the content directory (argument, config
content.dir or POSTS_CONTENT_DIR). Files that fail to load are reported and
excluded; the manifest is still written and the command exits non-zero.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, flags, args)
			if err != nil {
				return err
			}
			return runBuild(cmd.Context(), cfg, stdout, stderr)
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "config file (default is ./posts.yaml)")
	cmd.Flags().BoolVar(&flags.includeDrafts, "include-drafts", false, "include draft posts (local preview)")
	cmd.Flags().StringVarP(&flags.outputPath, "output", "o", "", "write the manifest to a file instead of stdout")
	cmd.Flags().StringVar(&flags.format, "format", "", "manifest format: json or yaml")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	cmd.Flags().StringVar(&flags.logFormat, "log-format", "", "structured log format (json, console, pretty); switches to the go-logger provider")

	return cmd
}

func resolveConfig(cmd *cobra.Command, flags *buildFlags, args []string) (posts.Config, error) {
	cfg, err := posts.LoadConfig(flags.configPath)
	if err != nil {
		return posts.Config{}, err
	}

	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		cfg.Content.Dir = args[0]
	}
	if cmd.Flags().Changed("include-drafts") {
		cfg.Content.IncludeDrafts = flags.includeDrafts
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.Path = flags.outputPath
	}
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = flags.format
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = flags.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Logging.Provider = "gologger"
		cfg.Logging.Format = flags.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return posts.Config{}, err
	}
	return cfg, nil
}

func runBuild(ctx context.Context, cfg posts.Config, stdout, stderr io.Writer) error {
	format, err := manifest.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	module, err := moduleBuilder(cfg, stderr)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	buildID := uuid.New()
	ctx = logging.ContextWithFields(ctx, map[string]any{"build_id": buildID.String()})
	logger := logging.CLILogger(module.LoggerProvider()).WithContext(ctx)

	result, buildErr := module.Build(ctx, posts.BuildOptions{IncludeDrafts: cfg.Content.IncludeDrafts})
	if result == nil {
		if buildErr == nil {
			buildErr = errors.New("build produced no result")
		}
		return buildErr
	}

	for _, fileErr := range result.Errors {
		fmt.Fprintf(stderr, "error: %s: %s\n", filepath.Join(cfg.Content.Dir, filepath.FromSlash(fileErr.Path)), fileErr.Reason)
	}

	doc := manifest.New(result, manifest.Options{
		GeneratedAt:   time.Now(),
		BuildID:       buildID,
		IncludeDrafts: cfg.Content.IncludeDrafts,
	})
	if err := writeManifest(cfg.Output.Path, doc, format, stdout); err != nil {
		return err
	}

	logger.Info("posts.cli.build_finished",
		"posts", len(result.Posts),
		"errors", len(result.Errors),
		"drafts_skipped", result.DraftsSkipped,
		"output", outputName(cfg.Output.Path),
	)

	if buildErr != nil {
		if errors.Is(buildErr, posts.ErrIncompleteBuild) {
			return fmt.Errorf("%d of %d file(s) failed to load", len(result.Errors), len(result.Errors)+len(result.Posts)+result.DraftsSkipped)
		}
		return buildErr
	}
	return nil
}

func writeManifest(path string, doc *manifest.Manifest, format manifest.Format, stdout io.Writer) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return manifest.Write(stdout, doc, format)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest %s: %w", path, err)
	}
	if err := manifest.Write(file, doc, format); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func outputName(path string) string {
	if strings.TrimSpace(path) == "" {
		return "stdout"
	}
	return path
}
