// Package pyramid builds and mutates the multi-resolution color pyramid
// behind a progressive-reveal puzzle.
//
// # Overview
//
// A pyramid is a stack of layers over a square image of edge [Pyramid.Extent].
// Layer 0 is the finest: one [Block] per cell of the sampled color buffer.
// Every coarser layer doubles the block edge and halves the block count per
// axis, until blocks reach the configured top size. The coarsest layer is the
// one rendered first; interaction then walks back down toward the image.
//
//	layer 2   ┌───────────────┐          one block, size 4·cell
//	          │               │
//	layer 1   ├───────┬───────┤          four blocks, size 2·cell
//	          │       │       │
//	layer 0   ├───┬───┼───┬───┤          sixteen blocks, size cell
//	          └───┴───┴───┴───┘
//
// Each block above layer 0 owns exactly four children (its quadrants in the
// next finer layer) and its color is the per-channel mean of theirs. Blocks
// live in flat per-layer slices and reference each other by [BlockID], so
// parent links are plain indices rather than pointers.
//
// # Reveal geometry
//
// Three sizes drive the geometry:
//
//   - cell size: edge of a layer-0 block (the minBlockSize argument of [Build]);
//     even and at least 2, since hit-testing works on even keys
//   - reveal size: blocks of this size are removed outright instead of split
//     ([WithRevealSize], defaults to the cell size)
//   - top size: edge of the coarsest, first-rendered blocks ([WithTopSize],
//     defaults to the extent)
//
// Blocks finer than the reveal size exist only to feed color averages and are
// never shown.
//
// # Surfaces
//
// The package draws nothing itself. [Pyramid.RenderInitial] and
// [Pyramid.Subdivide] instruct a [Surface], which hands back a [Handle] for
// every visual node it creates. The handle is stored on the block and passed
// back on removal; it is never looked up again by geometry except as a
// fallback when a surface fails to return one.
//
// # Usage
//
//	p, err := pyramid.Build(pix, 256, 4, pyramid.WithRevealSize(16), pyramid.WithTopSize(64))
//	if err != nil {
//	    return err // INVALID_DIMENSION
//	}
//	if err := p.RenderInitial(surface); err != nil {
//	    return err
//	}
//	out, err := p.Subdivide(id, surface)
package pyramid
