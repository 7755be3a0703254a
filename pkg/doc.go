// Package pkg provides the libraries behind the mosaic puzzle.
//
// # Overview
//
// Mosaic hides a picture under a pyramid of color blocks. Each block shows
// the average color of the four blocks below it; sweeping the pointer over a
// block splits it into those four, and the finest blocks disappear to reveal
// the image. The pkg directory is organized as follows:
//
//  1. [pyramid] - Block pyramid construction and subdivision
//  2. [reveal] - Gesture-to-subdivision engine
//  3. [progress] - Coverage and reveal-rate tracking
//  4. [puzzle] - Facade wiring the three together
//  5. [surface] - Drawing targets for blocks
//
// # Architecture
//
// The typical data flow through mosaic:
//
//	Image file
//	     ↓
//	[sample] package (decode, crop, scale to D×D samples, cache)
//	     ↓
//	[pyramid] package (layer 0 from samples, averaged layers above)
//	     ↓
//	[puzzle] package (render coarsest layer, route gestures)
//	     ↓
//	[reveal] → [pyramid.Pyramid.Subdivide] → [surface] nodes
//	     ↓
//	[progress] (coverage %, rate, completion)
//
// # Quick Start
//
// Build a puzzle over an in-memory surface and sweep across it:
//
//	import (
//	    "github.com/matzehuels/mosaic/pkg/progress"
//	    "github.com/matzehuels/mosaic/pkg/puzzle"
//	    "github.com/matzehuels/mosaic/pkg/reveal"
//	    "github.com/matzehuels/mosaic/pkg/surface/memory"
//	)
//
//	buf, _ := sample.Buffer(img, 16, sample.DefaultFilter)
//	pz, _ := puzzle.New(ctx, buf, puzzle.Options{MaxSize: 256, MinBlockSize: 16},
//	    memory.New(), progress.NewManualScheduler())
//	pz.HandlePointerMove(reveal.Point{X: 4, Y: 8})
//	pz.HandlePointerMove(reveal.Point{X: 250, Y: 8})
//	fmt.Println(pz.CoveragePercent())
//
// # Main Packages
//
// ## Puzzle Core
//
// [pyramid] - Arena-indexed block layers, finest first. Builds from a RGBA
// buffer, decides eligibility and performs split/reveal against a Surface.
//
// [reveal] - Cuts pointer and touch paths into short steps and subdivides
// the nearest eligible block under each step.
//
// [progress] - Counts revealed units, computes the per-interval reveal rate
// on a pluggable Scheduler and fires completion once.
//
// [puzzle] - Builds everything from Options and exposes the input handlers.
//
// ## Surfaces
//
// [surface/memory] - Node bookkeeping with an operation log.
//
// [surface/raster] - Paints nodes over the picture with gg; PNG snapshots.
//
// ## Supporting Packages
//
// [sample] - Image decoding (PNG, JPEG, GIF, WebP, BMP) and downsampling.
//
// [cache] - File and null caches for sampled buffers.
//
// [observability] - Hooks for build, split, reveal, sampling and cache events.
//
// [render/treeviz] - Graphviz diagrams of block subtrees.
//
// [chime] - Synthesized sounds for reveals and completion.
//
// [errors] - Coded errors and validation helpers.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                # All tests
//	go test ./pkg/reveal/...         # Specific package
//	go test -run Example ./pkg/...   # Examples only
//
// [pyramid]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/pyramid
// [reveal]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/reveal
// [progress]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/progress
// [puzzle]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/puzzle
// [surface]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/surface
// [surface/memory]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/surface/memory
// [surface/raster]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/surface/raster
// [sample]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/sample
// [cache]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/observability
// [render/treeviz]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/render/treeviz
// [chime]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/chime
// [errors]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/errors
// [pyramid.Pyramid.Subdivide]: https://pkg.go.dev/github.com/matzehuels/mosaic/pkg/pyramid#Pyramid.Subdivide
package pkg
