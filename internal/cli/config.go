package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/puzzle"
	"github.com/matzehuels/mosaic/pkg/sample"
)

// Config is the on-disk configuration.
//
//	filter = "bilinear"
//	sound = true
//	cache_ttl = "720h"
//
//	[puzzle]
//	max_size = 256
//	min_block_size = 16
//	top_size = 128
//	threshold = 95
type Config struct {
	Puzzle   puzzle.Options `toml:"puzzle"`
	Filter   string         `toml:"filter"`
	Sound    bool           `toml:"sound"`
	CacheTTL time.Duration  `toml:"cache_ttl"`
}

// Defaults for the play command's board when no config overrides them.
const (
	defaultTopSize = 128
)

func defaultConfig() Config {
	return Config{
		Puzzle: puzzle.Options{TopSize: defaultTopSize},
		Filter: string(sample.DefaultFilter),
	}
}

// loadConfig reads path, or the default config file when path is empty.
// A missing default file is not an error; a missing explicit file is.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, configFile)
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case os.IsNotExist(err) && !explicit:
		return defaultConfig(), nil
	case os.IsNotExist(err):
		return cfg, errors.New(errors.ErrCodeFileNotFound, "config file %s not found", path)
	case err != nil:
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// =============================================================================
// Puzzle Flags
// =============================================================================

// puzzleFlags are the geometry and tuning flags shared by commands that build
// a puzzle. Flags left unset keep the config value.
type puzzleFlags struct {
	maxSize   int
	minBlock  int
	reveal    int
	top       int
	threshold int
	step      float64
}

func (f *puzzleFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxSize, "max-size", puzzle.DefaultMaxSize, "puzzle edge in base units")
	cmd.Flags().IntVar(&f.minBlock, "min-block", puzzle.DefaultMinBlockSize, "edge of the finest cell")
	cmd.Flags().IntVar(&f.reveal, "reveal", 0, "edge at which blocks are removed (default: min block)")
	cmd.Flags().IntVar(&f.top, "top", defaultTopSize, "edge of the first rendered blocks")
	cmd.Flags().IntVar(&f.threshold, "threshold", 95, "coverage percentage that solves the puzzle")
	cmd.Flags().Float64Var(&f.step, "step", 4, "longest gesture sub-step in base units")
}

// options merges changed flags over the configured options.
func (f *puzzleFlags) options(cmd *cobra.Command, base puzzle.Options) puzzle.Options {
	o := base
	changed := cmd.Flags().Changed
	if changed("max-size") {
		o.MaxSize = f.maxSize
	}
	if changed("min-block") {
		o.MinBlockSize = f.minBlock
	}
	if changed("reveal") {
		o.RevealSize = f.reveal
	}
	if changed("top") {
		o.TopSize = f.top
	}
	if changed("threshold") {
		o.Threshold = f.threshold
	}
	if changed("step") {
		o.Step = f.step
	}
	if o.TopSize > 0 && o.MaxSize > 0 && o.TopSize > o.MaxSize {
		o.TopSize = o.MaxSize
	}
	o.SetDefaults()
	return o
}
