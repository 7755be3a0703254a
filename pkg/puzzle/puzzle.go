// Package puzzle wires a pyramid, a reveal engine and a progress tracker into
// one playable puzzle.
//
// A [Puzzle] is driven from a single event loop: input handlers, the
// scheduler's timer callbacks and the read-only queries must never run
// concurrently.
//
//	s := memory.New()
//	sched := progress.NewManualScheduler()
//	pz, err := puzzle.New(ctx, buf, puzzle.Options{MaxSize: 256, MinBlockSize: 16}, s, sched)
//	if err != nil {
//	    return err
//	}
//	pz.HandlePointerMove(reveal.Point{X: 10, Y: 10})
//	pz.HandlePointerMove(reveal.Point{X: 90, Y: 40})
//	fmt.Println(pz.CoveragePercent())
package puzzle

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/observability"
	"github.com/matzehuels/mosaic/pkg/progress"
	"github.com/matzehuels/mosaic/pkg/pyramid"
	"github.com/matzehuels/mosaic/pkg/reveal"
)

// Puzzle is a playable progressive-reveal puzzle.
type Puzzle struct {
	ctx     context.Context
	id      string
	opts    Options
	logger  *log.Logger
	now     func() time.Time
	started time.Time

	pyramid *pyramid.Pyramid
	surface pyramid.Surface
	engine  *reveal.Engine
	tracker *progress.Tracker

	interacted bool
	splits     int
	reveals    int
	onEvent    []func(reveal.Event)
	onComplete []func(Stats)
}

// Option customizes a [Puzzle].
type Option func(*Puzzle)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(p *Puzzle) { p.logger = l }
}

// WithSessionID overrides the random session ID.
func WithSessionID(id string) Option {
	return func(p *Puzzle) { p.id = id }
}

// WithClock sets the wall clock used for elapsed-time reporting.
func WithClock(now func() time.Time) Option {
	return func(p *Puzzle) { p.now = now }
}

// OnEvent registers fn to run after every split or reveal.
func OnEvent(fn func(reveal.Event)) Option {
	return func(p *Puzzle) { p.onEvent = append(p.onEvent, fn) }
}

// OnComplete registers fn to run once, when the puzzle is solved.
func OnComplete(fn func(Stats)) Option {
	return func(p *Puzzle) { p.onComplete = append(p.onComplete, fn) }
}

// New builds the pyramid from buf, renders its coarsest layer on s and starts
// the rate timer on sched.
//
// Invalid options fail with INVALID_CONFIG and a buffer that does not match
// the geometry with INVALID_DIMENSION; nothing is rendered in either case.
// Nodes the surface fails to create are logged and left non-subdividable.
func New(ctx context.Context, buf []byte, opts Options, s pyramid.Surface, sched progress.Scheduler, options ...Option) (*Puzzle, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if s == nil || sched == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "surface and scheduler are required")
	}

	p := &Puzzle{ctx: ctx, opts: opts, surface: s, now: time.Now}
	for _, o := range options {
		o(p)
	}
	if p.id == "" {
		p.id = uuid.NewString()
	}
	if p.logger == nil {
		p.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	p.logger = p.logger.With("session", shortID(p.id))

	start := p.now()
	pyr, err := pyramid.Build(buf, opts.MaxSize, opts.MinBlockSize,
		pyramid.WithRevealSize(opts.RevealSize),
		pyramid.WithTopSize(opts.TopSize),
	)
	if err != nil {
		observability.Puzzle().OnBuild(ctx, p.id, 0, 0, p.now().Sub(start), err)
		return nil, err
	}
	p.pyramid = pyr
	observability.Puzzle().OnBuild(ctx, p.id, pyr.Layers(), pyr.Units(), p.now().Sub(start), nil)
	p.logger.Debug("built pyramid", "layers", pyr.Layers(), "units", pyr.Units(), "extent", pyr.Extent())

	if err := pyr.RenderInitial(s); err != nil {
		p.logger.Warn("initial layer incomplete", "code", errors.GetCode(err), "err", err)
	}

	p.tracker, err = progress.NewTracker(pyr.Units(), sched, progress.Options{
		Threshold:  opts.Threshold,
		Interval:   opts.RateInterval,
		OnComplete: p.complete,
		Logger:     p.logger,
	})
	if err != nil {
		return nil, err
	}

	p.engine = reveal.New(pyr, s, reveal.Options{
		Step:           opts.Step,
		TrackedTargets: opts.TrackedTargets,
		Logger:         p.logger,
	})
	p.engine.Subscribe(p)
	p.started = p.now()
	return p, nil
}

// OnSubdivide implements [reveal.Listener].
func (p *Puzzle) OnSubdivide(ev reveal.Event) {
	p.interacted = true
	switch ev.Kind {
	case pyramid.OutcomeSplit:
		p.splits++
		observability.Puzzle().OnSplit(p.ctx, p.id, ev.Size)
	case pyramid.OutcomeReveal:
		p.reveals++
	}
	for _, fn := range p.onEvent {
		fn(ev)
	}
	if ev.Units > 0 {
		p.tracker.OnUnitRevealed(ev.Units)
		observability.Puzzle().OnReveal(p.ctx, p.id, ev.Units, p.tracker.CoveragePercent())
	}
}

// complete runs once, from the tracker, when the threshold is reached.
func (p *Puzzle) complete() {
	hidden := p.pyramid.RevealAll()
	if err := p.surface.RemoveAllBlocks(); err != nil {
		p.logger.Warn("clear surface", "err", errors.Wrap(errors.ErrCodeMissingSurface, err, "remove all blocks"))
	}
	elapsed := p.now().Sub(p.started)
	p.logger.Info("puzzle complete", "revealed", p.tracker.Revealed(), "total", p.tracker.Total(), "cleared", hidden, "elapsed", elapsed.Round(time.Millisecond))
	observability.Puzzle().OnComplete(p.ctx, p.id, p.tracker.Revealed(), p.tracker.Total(), elapsed)

	stats := p.Stats()
	for _, fn := range p.onComplete {
		fn(stats)
	}
}

// HandlePointerMove feeds a pointer position in base coordinates. It returns
// the number of blocks subdivided and does nothing once the puzzle is solved.
func (p *Puzzle) HandlePointerMove(pt reveal.Point) int {
	if p.IsComplete() {
		return 0
	}
	return p.engine.HandlePointerMove(pt)
}

// HandleTouchMove feeds a touch position in base coordinates.
func (p *Puzzle) HandleTouchMove(pt reveal.Point) int {
	if p.IsComplete() {
		return 0
	}
	return p.engine.HandleTouchMove(pt)
}

// HandlePointerExit reports that the pointer left the puzzle for related.
func (p *Puzzle) HandlePointerExit(related string) {
	if p.IsComplete() {
		return
	}
	p.engine.HandlePointerExit(related)
}

// HandleTouchEnd reports that the touch was lifted.
func (p *Puzzle) HandleTouchEnd() {
	if p.IsComplete() {
		return
	}
	p.engine.HandleTouchEnd()
}

// CoveragePercent returns the revealed share in [0, 100].
func (p *Puzzle) CoveragePercent() int { return p.tracker.CoveragePercent() }

// RevealRatePerSecond returns the reveal rate of the last interval.
func (p *Puzzle) RevealRatePerSecond() float64 { return p.tracker.RevealRatePerSecond() }

// IsComplete reports whether the puzzle is solved.
func (p *Puzzle) IsComplete() bool { return p.tracker.IsComplete() }

// Interacted reports whether any gesture has split or revealed a block.
func (p *Puzzle) Interacted() bool { return p.interacted }

// ID returns the session ID.
func (p *Puzzle) ID() string { return p.id }

// Options returns the options after defaults were applied.
func (p *Puzzle) Options() Options { return p.opts }

// Pyramid returns the underlying pyramid. Callers must not mutate it.
func (p *Puzzle) Pyramid() *pyramid.Pyramid { return p.pyramid }

// Stats summarizes a puzzle.
type Stats struct {
	Session    string               `json:"session"`
	Progress   progress.Snapshot    `json:"progress"`
	Splits     int                  `json:"splits"`
	Reveals    int                  `json:"reveals"`
	Interacted bool                 `json:"interacted"`
	Layers     []pyramid.LayerStats `json:"layers"`
}

// Stats returns the current summary.
func (p *Puzzle) Stats() Stats {
	return Stats{
		Session:    p.id,
		Progress:   p.tracker.Snapshot(),
		Splits:     p.splits,
		Reveals:    p.reveals,
		Interacted: p.interacted,
		Layers:     p.pyramid.Stats(),
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
