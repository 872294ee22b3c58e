// Package cli implements the panelplan command-line interface.
//
// The CLI turns wall manifests into wainscoting panel schedules, manages
// stored walls with their edit history, places anchored fixtures, and hosts
// the HTTP layout service. Commands are built with cobra and log through
// the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute a panel schedule from a wall manifest
//   - split: Split one panel of a manifest wall into equal halves
//   - anchor: Place the manifest's objects against the computed schedule
//   - wall: Create, inspect, and edit stored walls
//   - tui: Edit a wall interactively with live recomputation
//   - serve: Host the HTTP layout API
//   - cache: Manage the layout result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/wrightline/panelplan/pkg/buildinfo"
	"github.com/wrightline/panelplan/pkg/cache"
	"github.com/wrightline/panelplan/pkg/errors"
	"github.com/wrightline/panelplan/pkg/pipeline"
	"github.com/wrightline/panelplan/pkg/wallstate"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "panelplan"

	// defaultServeAddr is the listen address for the serve command.
	defaultServeAddr = ":8080"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "panelplan",
		Short:        "Panelplan computes wainscoting panel schedules",
		Long:         `Panelplan is a CLI tool for turning wall dimensions into wainscoting panel schedules, with per-panel edits, anchored fixtures, and stored walls that survive recomputation.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.splitCommand())
	root.AddCommand(c.anchorCommand())
	root.AddCommand(c.wallCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Store Factory
// =============================================================================

// newStore opens the wall store named by spec: "file" (or empty) for the
// default file store under ~/.config/panelplan/walls, "memory" for a
// process-local store, or a redis:// / mongodb:// URL for a shared backend.
func newStore(ctx context.Context, spec string) (wallstate.Store, error) {
	logger := loggerFromContext(ctx)
	switch {
	case spec == "" || spec == "file":
		return wallstate.NewFileStore("")
	case spec == "memory":
		return wallstate.NewMemoryStore(), nil
	case strings.HasPrefix(spec, "redis://") || strings.HasPrefix(spec, "rediss://"):
		logger.Debug("Connecting wall store", "backend", "redis")
		return wallstate.NewRedisStore(ctx, spec, 0)
	case strings.HasPrefix(spec, "mongodb://") || strings.HasPrefix(spec, "mongodb+srv://"):
		logger.Debug("Connecting wall store", "backend", "mongodb")
		return wallstate.NewMongoStore(ctx, spec, appName)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput,
		"unknown store %q (want file, memory, or a redis:// or mongodb:// URL)", spec)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/panelplan/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
