// Package cli implements the snapgraph command-line interface.
//
// This package provides commands for saving document versions into a
// workspace, computing the history graph layout, rendering it as SVG, PNG,
// PDF, or DOT, and serving the graph over HTTP. The CLI is built using cobra
// and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - commit: Save the document as a new version
//   - log: List saved versions
//   - restore / activate / preview / fork: Move through history
//   - render: Generate SVG, PNG, PDF, DOT, or layout JSON
//   - browse: Interactive history browser (TUI)
//   - serve: Serve the graph over HTTP
//   - cache: Manage the pipeline result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Commands
// share the CLI's logger; the pipeline reports stage timings through it.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/lanewise/snapgraph/pkg/buildinfo"
	"github.com/lanewise/snapgraph/pkg/cache"
	"github.com/lanewise/snapgraph/pkg/history"
	"github.com/lanewise/snapgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "snapgraph"
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

	// workspace is the --workspace flag value; empty means the default
	// location under the user's config directory.
	workspace string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "snapgraph",
		Short:        "Snapgraph draws document version history as a lane graph",
		Long:         `Snapgraph keeps every saved version of a document in a workspace file and draws the history as a lane graph: one lane per timeline, forks branching off to the side, restores stacking on top.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.workspace, "workspace", "w", "", "workspace file (default: "+filepath.Join("~", ".config", appName, "workspace.json")+")")

	// Register all subcommands
	root.AddCommand(c.logCommand())
	root.AddCommand(c.commitCommand())
	root.AddCommand(c.restoreCommand())
	root.AddCommand(c.activateCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.forkCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
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
	cc, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
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
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/snapgraph/).
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

// workspacePath resolves the --workspace flag, falling back to the default
// workspace location.
func (c *CLI) workspacePath() (string, error) {
	if c.workspace != "" {
		return c.workspace, nil
	}
	return history.DefaultPath()
}

// openStore opens the workspace the CLI is pointed at, creating it on first
// use.
func (c *CLI) openStore() (*history.Store, error) {
	path, err := c.workspacePath()
	if err != nil {
		return nil, err
	}
	return history.Open(path)
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
