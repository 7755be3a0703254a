// Package progress tracks how much of a puzzle has been revealed.
//
// A [Tracker] counts revealed units, derives an integer coverage percentage
// and a per-interval reveal rate, and declares the puzzle complete once the
// coverage reaches a threshold. Completion is final: the percentage jumps to
// 100, the rate timer is stopped and later reveals are ignored.
package progress

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mosaic/pkg/errors"
)

// Defaults for [Options].
const (
	DefaultThreshold = 95
	DefaultInterval  = time.Second
)

// Options configures a [Tracker].
type Options struct {
	// Threshold is the coverage percentage, in [1, 100], that completes the
	// puzzle. Defaults to [DefaultThreshold].
	Threshold int
	// Interval is the rate window. Defaults to [DefaultInterval].
	Interval time.Duration
	// OnComplete runs once, when the threshold is reached.
	OnComplete func()
	Logger     *log.Logger
}

// Snapshot is a point-in-time copy of the tracker's metrics.
type Snapshot struct {
	Revealed int
	Total    int
	Percent  int
	Rate     float64
	Complete bool
}

// Tracker accumulates revealed units. It is not safe for concurrent use; the
// scheduler passed to [NewTracker] must call back on the same event loop.
type Tracker struct {
	total     int
	threshold int
	interval  time.Duration
	logger    *log.Logger

	revealed int
	window   int
	percent  int
	rate     float64
	complete bool

	timer      Timer
	onComplete func()
}

// NewTracker creates a tracker for total units and starts its rate timer on s.
func NewTracker(total int, s Scheduler, opts Options) (*Tracker, error) {
	if total <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "total units must be positive, got %d", total)
	}
	if opts.Threshold == 0 {
		opts.Threshold = DefaultThreshold
	}
	if err := errors.ValidateThreshold(opts.Threshold); err != nil {
		return nil, err
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	t := &Tracker{
		total:      total,
		threshold:  opts.Threshold,
		interval:   opts.Interval,
		logger:     opts.Logger,
		onComplete: opts.OnComplete,
	}
	t.timer = s.Every(opts.Interval, t.tick)
	return t, nil
}

// OnUnitRevealed adds count units. Once complete it does nothing.
func (t *Tracker) OnUnitRevealed(count int) {
	if t.complete || count <= 0 {
		return
	}
	t.revealed += count
	t.window += count
	t.percent = min(t.revealed*100/t.total, 100)
	if t.percent < t.threshold {
		return
	}

	t.complete = true
	t.percent = 100
	t.timer.Stop()
	t.timer = nil
	t.logger.Debug("puzzle complete", "revealed", t.revealed, "total", t.total, "threshold", t.threshold)
	if t.onComplete != nil {
		t.onComplete()
	}
}

func (t *Tracker) tick() {
	if t.complete {
		return
	}
	t.rate = float64(t.window) / t.interval.Seconds()
	t.window = 0
}

// CoveragePercent returns the revealed share, floored, in [0, 100].
func (t *Tracker) CoveragePercent() int { return t.percent }

// RevealRatePerSecond returns the units revealed during the last full interval,
// scaled to one second.
func (t *Tracker) RevealRatePerSecond() float64 { return t.rate }

// IsComplete reports whether the threshold has been reached.
func (t *Tracker) IsComplete() bool { return t.complete }

// Revealed returns the cumulative unit count.
func (t *Tracker) Revealed() int { return t.revealed }

// Total returns the number of revealable units.
func (t *Tracker) Total() int { return t.total }

// Threshold returns the completion threshold.
func (t *Tracker) Threshold() int { return t.threshold }

// Snapshot copies the current metrics.
func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		Revealed: t.revealed,
		Total:    t.total,
		Percent:  t.percent,
		Rate:     t.rate,
		Complete: t.complete,
	}
}
