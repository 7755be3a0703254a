// Package reveal turns pointer and touch paths into block subdivisions.
//
// An [Engine] keeps one gesture per input device. Each gesture is either idle
// (no previous position) or tracking. A move while idle only records the
// position; a move while tracking walks the segment from the previous
// position in sub-steps no longer than the step length, so a fast drag hits
// every cell a slow drag would.
//
// For every sub-step endpoint the engine:
//
//  1. normalizes the coordinate to an even integer (see [Normalize])
//  2. locates the finest-layer block under it
//  3. climbs the parent chain until it finds a subdivision-eligible block
//  4. subdivides that block and emits an [Event] to every [Listener]
//
// Misses are silent: points over already revealed areas are expected during
// normal play. A point outside the puzzle or a non-finite coordinate returns
// the gesture to idle without subdividing anything, and a single segment is
// never cut into more than [MaxBreaks] sub-steps.
//
// # Usage
//
//	e := reveal.New(p, surface, reveal.Options{Logger: logger})
//	e.Subscribe(reveal.ListenerFunc(func(ev reveal.Event) {
//	    tracker.OnUnitRevealed(ev.Units)
//	}))
//	e.HandlePointerMove(reveal.Point{X: 10, Y: 12})
//	e.HandlePointerMove(reveal.Point{X: 40, Y: 12})
package reveal
