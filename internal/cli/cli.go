// Package cli implements the mosaic command-line interface.
//
// # Commands
//
// The main commands are:
//   - play: Solve a puzzle interactively in the terminal
//   - replay: Run a scripted gesture file headlessly and write a PNG snapshot
//   - inspect: Print the layer structure of an image's pyramid
//   - tree: Dump a block subtree as Graphviz DOT or SVG
//   - cache: Manage the sampled-image cache
//
// # Configuration
//
// Puzzle defaults come from a TOML file at $XDG_CONFIG_HOME/mosaic/config.toml
// (or --config). Command-line flags override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to reach helpers.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mosaic/pkg/buildinfo"
	"github.com/matzehuels/mosaic/pkg/cache"
	"github.com/matzehuels/mosaic/pkg/observability"
	"github.com/matzehuels/mosaic/pkg/sample"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "mosaic"

	// configFile is the config file name inside the config directory.
	configFile = "config.toml"

	// sampleScope versions cached sample keys.
	sampleScope = "v1:"
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

	configPath string
	noCache    bool
	config     Config
	hooks      *logHooks
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	l := newLogger(w, level)
	return &CLI{Logger: l, config: defaultConfig(), hooks: &logHooks{logger: l}}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Mosaic hides a picture under blocks you wipe away",
		Long:         `Mosaic covers an image with a pyramid of averaged color blocks. Sweeping the pointer across a block splits it into four finer ones until the picture underneath shows through.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.config = cfg
			observability.SetPuzzleHooks(c.hooks)
			observability.SetSampleHooks(c.hooks)
			observability.SetCacheHooks(c.hooks)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/mosaic/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "do not read or write the sample cache")

	root.AddCommand(c.playCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Sampler Factory
// =============================================================================

// newSampler creates an image sampler backed by the CLI cache.
func (c *CLI) newSampler() (*sample.Sampler, error) {
	store, err := newCache(c.noCache)
	if err != nil {
		return nil, err
	}
	s := sample.NewSampler(store, c.Logger)
	s.Keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), sampleScope)
	s.Filter = sample.Filter(c.config.Filter)
	s.TTL = c.config.CacheTTL
	return s, nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/mosaic/).
func cacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// configDir returns the config directory using XDG standard (~/.config/mosaic/).
func configDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}
