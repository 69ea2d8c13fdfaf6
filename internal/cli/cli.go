// Package cli implements the sliced command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sliced/pkg/buildinfo"
	"github.com/matzehuels/sliced/pkg/cache"
	"github.com/matzehuels/sliced/pkg/pipeline"
	"github.com/matzehuels/sliced/pkg/project"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "sliced"

	// envRedisURL selects Redis for the cache and the project store.
	envRedisURL = "SLICED_REDIS_URL"
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

	// storeDir overrides the project directory; empty means the default.
	storeDir string
	// cacheDir overrides the cache directory; empty means the default.
	cacheDir string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Sliced lays out sheet music snippets on printable pages",
		Long: `Sliced arranges a sequence of sheet music snippets (images of systems or
staves) onto pages so that each page is filled as evenly as possible, then
renders the result as PDF, SVG or a JSON layout description.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.projectCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner & Store Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cache, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if url := os.Getenv(envRedisURL); url != "" {
		c.Logger.Debug("using redis cache", "url", url)
		return cache.NewRedisCache(ctx, url)
	}
	dir, err := c.resolveCacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newStore opens the project store selected by the environment.
func (c *CLI) newStore(ctx context.Context) (project.Store, error) {
	if url := os.Getenv(envRedisURL); url != "" {
		c.Logger.Debug("using redis project store", "url", url)
		return project.NewRedisStore(ctx, url)
	}
	return project.NewFileStore(c.storeDir)
}

func (c *CLI) resolveCacheDir() (string, error) {
	if c.cacheDir != "" {
		return c.cacheDir, nil
	}
	return cache.DefaultDir()
}
