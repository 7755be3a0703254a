package reveal

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/pyramid"
)

// DefaultStep is the longest sub-step, in base units, a path is cut into.
const DefaultStep = 4.0

// DefaultTrackedTargets are the exit targets that keep a gesture alive.
// Leaving the puzzle surface for one of its own blocks is not a real exit.
var DefaultTrackedTargets = []string{"surface", "block"}

// Point is a position in base coordinates.
type Point struct {
	X, Y float64
}

// Finite reports whether both coordinates are real numbers.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Input identifies the device a gesture came from.
type Input string

const (
	InputPointer Input = "pointer"
	InputTouch   Input = "touch"
)

// Event reports one subdivision triggered by a gesture.
type Event struct {
	Kind  pyramid.OutcomeKind
	Block pyramid.BlockID
	Size  int
	Units int
	Input Input
}

// Listener receives subdivision events.
type Listener interface {
	OnSubdivide(Event)
}

// ListenerFunc adapts a function to [Listener].
type ListenerFunc func(Event)

// OnSubdivide calls f(ev).
func (f ListenerFunc) OnSubdivide(ev Event) { f(ev) }

// Options configures an [Engine].
type Options struct {
	// Step is the longest sub-step length. Defaults to [DefaultStep].
	Step float64
	// TrackedTargets lists exit targets that do not end the pointer gesture.
	// Defaults to [DefaultTrackedTargets].
	TrackedTargets []string
	// Logger receives surface warnings. Defaults to a discarding logger.
	Logger *log.Logger
}

type gesture struct {
	prev     Point
	tracking bool
}

func (g *gesture) reset() { *g = gesture{} }

// Engine maps gestures onto a pyramid. It is not safe for concurrent use.
type Engine struct {
	p         *pyramid.Pyramid
	s         pyramid.Surface
	step      float64
	tracked   map[string]bool
	logger    *log.Logger
	listeners []Listener

	pointer gesture
	touch   gesture
}

// New creates an engine over p, drawing through s.
func New(p *pyramid.Pyramid, s pyramid.Surface, opts Options) *Engine {
	if opts.Step <= 0 {
		opts.Step = DefaultStep
	}
	if opts.TrackedTargets == nil {
		opts.TrackedTargets = DefaultTrackedTargets
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	tracked := make(map[string]bool, len(opts.TrackedTargets))
	for _, t := range opts.TrackedTargets {
		tracked[t] = true
	}
	return &Engine{p: p, s: s, step: opts.Step, tracked: tracked, logger: opts.Logger}
}

// Subscribe adds l to the listeners notified of every subdivision.
func (e *Engine) Subscribe(l Listener) {
	e.listeners = append(e.listeners, l)
}

// HandlePointerMove feeds a pointer position and returns how many blocks
// were subdivided.
func (e *Engine) HandlePointerMove(q Point) int {
	return e.move(&e.pointer, q, InputPointer)
}

// HandleTouchMove feeds a touch position. Touch keeps its own previous
// position, independent of the pointer.
func (e *Engine) HandleTouchMove(q Point) int {
	return e.move(&e.touch, q, InputTouch)
}

// HandlePointerExit ends the pointer gesture unless related, the target the
// pointer moved onto, is one of the tracked targets.
func (e *Engine) HandlePointerExit(related string) {
	if e.tracked[related] {
		return
	}
	e.pointer.reset()
}

// HandleTouchEnd ends the touch gesture.
func (e *Engine) HandleTouchEnd() {
	e.touch.reset()
}

// Tracking reports whether the pointer gesture has a previous position.
func (e *Engine) Tracking() bool { return e.pointer.tracking }

func (e *Engine) move(g *gesture, q Point, in Input) int {
	if !q.Finite() || !e.onGrid(q) {
		g.reset()
		return 0
	}
	n := 0
	if g.tracking {
		for _, pt := range Breaks(g.prev, q, e.step) {
			if e.hit(pt, in) {
				n++
			}
		}
	}
	g.prev, g.tracking = q, true
	return n
}

// onGrid reports whether q lies inside [0, Extent) on both axes.
func (e *Engine) onGrid(q Point) bool {
	ext := float64(e.p.Extent())
	return q.X >= 0 && q.Y >= 0 && q.X < ext && q.Y < ext
}

// hit subdivides the nearest eligible ancestor of the cell under pt.
func (e *Engine) hit(pt Point, in Input) bool {
	x, y := Normalize(pt.X), Normalize(pt.Y)
	id, ok := e.p.Locate(x, y)
	if !ok {
		return false
	}
	for id.Valid() && !e.p.Eligible(id) {
		id = e.p.Block(id).Parent
	}
	if !id.Valid() {
		return false
	}

	out, err := e.p.Subdivide(id, e.s)
	if err != nil {
		e.logger.Warn("surface out of sync", "block", id, "code", errors.GetCode(err), "err", err)
	}
	if out.Kind == pyramid.OutcomeNone {
		return false
	}
	ev := Event{Kind: out.Kind, Block: out.Block, Size: out.Size, Units: out.Units, Input: in}
	for _, l := range e.listeners {
		l.OnSubdivide(ev)
	}
	return true
}

// Normalize floors v and bumps odd results to the next even integer, so that
// neighbouring fractional positions share one key.
func Normalize(v float64) int {
	n := int(math.Floor(v))
	if n%2 != 0 {
		n++
	}
	return n
}

// MaxBreaks caps the number of sub-steps a single segment is cut into.
const MaxBreaks = 1 << 16

// Breaks cuts the segment from p to q into N = max(ceil(|q-p|/step), 1) equal
// sub-steps and returns the N endpoints after p. The last one is q. N never
// exceeds MaxBreaks.
func Breaks(p, q Point, step float64) []Point {
	dx, dy := q.X-p.X, q.Y-p.Y
	f := math.Ceil(math.Hypot(dx, dy) / step)
	n := MaxBreaks
	if f < MaxBreaks {
		n = int(f)
	}
	if n < 1 {
		n = 1
	}
	pts := make([]Point, n)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		pts[i-1] = Point{X: p.X + dx*t, Y: p.Y + dy*t}
	}
	pts[n-1] = q
	return pts
}
