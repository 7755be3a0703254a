package puzzle

import (
	"time"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/progress"
	"github.com/matzehuels/mosaic/pkg/reveal"
)

// Default geometry.
const (
	DefaultMaxSize      = 256
	DefaultMinBlockSize = 16
)

// Options configures a [Puzzle]. The zero value is valid once
// [Options.SetDefaults] has run.
type Options struct {
	// MaxSize is the puzzle edge in base units.
	MaxSize int `toml:"max_size" json:"max_size"`
	// MinBlockSize is the edge of a finest cell; the color buffer holds one
	// sample per cell.
	MinBlockSize int `toml:"min_block_size" json:"min_block_size"`
	// RevealSize is the edge at which blocks are removed instead of split.
	// Defaults to MinBlockSize.
	RevealSize int `toml:"reveal_size" json:"reveal_size"`
	// TopSize is the edge of the first rendered blocks. Defaults to MaxSize.
	TopSize int `toml:"top_size" json:"top_size"`

	// Threshold is the coverage percentage that completes the puzzle.
	Threshold int `toml:"threshold" json:"threshold"`
	// Step is the longest gesture sub-step in base units.
	Step float64 `toml:"step" json:"step"`
	// RateInterval is the reveal-rate window.
	RateInterval time.Duration `toml:"rate_interval" json:"rate_interval"`
	// TrackedTargets are pointer-exit targets that keep the gesture alive.
	TrackedTargets []string `toml:"tracked_targets" json:"tracked_targets"`
}

// SetDefaults fills zero fields.
func (o *Options) SetDefaults() {
	if o.MaxSize == 0 {
		o.MaxSize = DefaultMaxSize
	}
	if o.MinBlockSize == 0 {
		o.MinBlockSize = DefaultMinBlockSize
	}
	if o.RevealSize == 0 {
		o.RevealSize = o.MinBlockSize
	}
	if o.TopSize == 0 {
		o.TopSize = o.MaxSize
	}
	if o.Threshold == 0 {
		o.Threshold = progress.DefaultThreshold
	}
	if o.Step == 0 {
		o.Step = reveal.DefaultStep
	}
	if o.RateInterval == 0 {
		o.RateInterval = progress.DefaultInterval
	}
	if o.TrackedTargets == nil {
		o.TrackedTargets = append([]string(nil), reveal.DefaultTrackedTargets...)
	}
}

// Validate checks the non-geometric options. Geometry is checked when the
// pyramid is built.
func (o Options) Validate() error {
	if o.MaxSize <= 0 || o.MinBlockSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max size and min block size must be positive (got %d, %d)", o.MaxSize, o.MinBlockSize)
	}
	if err := errors.ValidateThreshold(o.Threshold); err != nil {
		return err
	}
	if o.Step <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "step must be positive, got %v", o.Step)
	}
	if o.RateInterval <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "rate interval must be positive, got %s", o.RateInterval)
	}
	return nil
}

// Dim returns the number of samples per axis the color buffer must hold.
func (o Options) Dim() int {
	if o.MinBlockSize <= 0 {
		return 0
	}
	return o.MaxSize / o.MinBlockSize
}
