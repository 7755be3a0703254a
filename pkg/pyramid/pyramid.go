package pyramid

import (
	"github.com/matzehuels/mosaic/pkg/errors"
)

// Pyramid holds every layer of blocks, finest first.
//
// A Pyramid is not safe for concurrent use. All mutation happens through
// [Pyramid.RenderInitial], [Pyramid.Subdivide] and [Pyramid.RevealAll], which
// are expected to run on a single event loop.
type Pyramid struct {
	layers      [][]Block
	extent      int
	cell        int
	reveal      int
	top         int
	revealLayer int
}

// Extent returns the edge of the puzzle in base coordinates.
func (p *Pyramid) Extent() int { return p.extent }

// CellSize returns the edge of a layer-0 block.
func (p *Pyramid) CellSize() int { return p.cell }

// RevealSize returns the edge at which blocks are removed outright.
func (p *Pyramid) RevealSize() int { return p.reveal }

// TopSize returns the edge of the coarsest blocks.
func (p *Pyramid) TopSize() int { return p.top }

// Layers returns the number of layers.
func (p *Pyramid) Layers() int { return len(p.layers) }

// Coarsest returns the index of the first-rendered layer.
func (p *Pyramid) Coarsest() int { return len(p.layers) - 1 }

// RevealLayer returns the index of the layer whose blocks are removed outright.
func (p *Pyramid) RevealLayer() int { return p.revealLayer }

// Layer returns the blocks of layer k in row-major order.
// The returned slice must not be modified.
func (p *Pyramid) Layer(k int) []Block { return p.layers[k] }

// Block returns a copy of the block with the given id.
// It panics if id is out of range.
func (p *Pyramid) Block(id BlockID) Block { return *p.at(id) }

func (p *Pyramid) at(id BlockID) *Block { return &p.layers[id.Layer][id.Index] }

// Units returns the number of revealable units: the block count of the
// reveal layer. It equals the layer-0 block count when the reveal size is
// the cell size.
func (p *Pyramid) Units() int { return len(p.layers[p.revealLayer]) }

// Locate returns the layer-0 block containing the point (x, y).
// Points outside [0, Extent) on either axis miss.
func (p *Pyramid) Locate(x, y int) (BlockID, bool) {
	if x < 0 || y < 0 || x >= p.extent || y >= p.extent {
		return NoBlock, false
	}
	dim := p.extent / p.cell
	return BlockID{Layer: 0, Index: (y/p.cell)*dim + x/p.cell}, true
}

// Eligible reports whether the block can be subdivided right now: it is
// visible, not yet revealed, at least the reveal size, and either has
// children or sits exactly at the reveal size.
func (p *Pyramid) Eligible(id BlockID) bool {
	if !id.Valid() {
		return false
	}
	b := p.at(id)
	if !b.Visible() || b.Size < p.reveal {
		return false
	}
	return b.HasChildren() || b.Size == p.reveal
}

// RenderInitial draws the coarsest layer on s and stores the returned handles.
// Blocks whose node could not be created are left without a handle and
// reported together as a MISSING_SURFACE error.
func (p *Pyramid) RenderInitial(s Surface) error {
	k := p.Coarsest()
	handles, err := s.RenderInitialLayer(p.layers[k])
	if err != nil {
		return errors.Wrap(errors.ErrCodeMissingSurface, err, "render initial layer")
	}
	ids := make([]BlockID, len(p.layers[k]))
	for i := range ids {
		ids[i] = BlockID{Layer: k, Index: i}
	}
	return p.attach(s, ids, handles)
}

// OutcomeKind describes what a call to [Pyramid.Subdivide] did.
type OutcomeKind int

const (
	// OutcomeNone means the block was not eligible and nothing changed.
	OutcomeNone OutcomeKind = iota
	// OutcomeSplit means the block was replaced by its four children.
	OutcomeSplit
	// OutcomeReveal means a reveal-size block was removed, exposing the image.
	OutcomeReveal
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSplit:
		return "split"
	case OutcomeReveal:
		return "reveal"
	default:
		return "none"
	}
}

// Outcome reports the effect of one [Pyramid.Subdivide] call.
type Outcome struct {
	Kind  OutcomeKind
	Block BlockID
	Size  int
	// Units is the number of reveal-size units exposed: 1 for OutcomeReveal,
	// 0 otherwise.
	Units int
}

// Subdivide splits or reveals the block id.
//
// Ineligible blocks are left alone and yield OutcomeNone, which makes repeated
// calls on the same block idempotent. Otherwise the block is marked revealed
// and its node removed from s. A block at the reveal size stops there and
// reports one unit; a larger block asks s to render its four children.
//
// Surface failures come back as MISSING_SURFACE errors alongside a valid
// Outcome: the state change has already happened and the caller may carry on.
func (p *Pyramid) Subdivide(id BlockID, s Surface) (Outcome, error) {
	if !p.Eligible(id) {
		return Outcome{Kind: OutcomeNone, Block: id}, nil
	}
	b := p.at(id)
	out := Outcome{Kind: OutcomeSplit, Block: id, Size: b.Size}

	h := b.Handle
	b.Revealed = true
	b.Handle = NoHandle
	var removeErr error
	if err := s.RemoveBlock(*b, h); err != nil {
		removeErr = errors.Wrap(errors.ErrCodeMissingSurface, err, "remove block %s", id)
	}

	if b.Size == p.reveal {
		out.Kind = OutcomeReveal
		out.Units = 1
		return out, removeErr
	}

	children := make([]Block, len(b.Children))
	for i, cid := range b.Children {
		children[i] = *p.at(cid)
	}
	handles, err := s.RenderChildren(*b, children)
	if err != nil {
		return out, errors.Join(removeErr, errors.Wrap(errors.ErrCodeMissingSurface, err, "render children of %s", id))
	}
	return out, errors.Join(removeErr, p.attach(s, b.Children[:], handles))
}

// attach stores handles on blocks, consulting FindVisualNodeFor for any the
// surface did not return.
func (p *Pyramid) attach(s Surface, ids []BlockID, handles []Handle) error {
	var missing []error
	for i, id := range ids {
		b := p.at(id)
		if i < len(handles) && handles[i] != NoHandle {
			b.Handle = handles[i]
			continue
		}
		if h, ok := s.FindVisualNodeFor(b.X, b.Y, b.Size); ok && h != NoHandle {
			b.Handle = h
			continue
		}
		missing = append(missing, errors.New(errors.ErrCodeMissingSurface, "no visual node for %s at (%d,%d) size %d", id, b.X, b.Y, b.Size))
	}
	return errors.Join(missing...)
}

// RevealAll marks every block revealed and drops its handle, as when the
// puzzle is declared complete. It returns how many blocks were visible.
// The caller is responsible for clearing the surface.
func (p *Pyramid) RevealAll() int {
	visible := 0
	for k := range p.layers {
		for i := range p.layers[k] {
			b := &p.layers[k][i]
			if b.Visible() {
				visible++
			}
			b.Revealed = true
			b.Handle = NoHandle
		}
	}
	return visible
}

// LayerStats summarizes one layer.
type LayerStats struct {
	Layer    int
	Size     int
	Blocks   int
	Visible  int
	Revealed int
}

// Stats returns per-layer counts, finest first.
func (p *Pyramid) Stats() []LayerStats {
	stats := make([]LayerStats, len(p.layers))
	for k, layer := range p.layers {
		s := LayerStats{Layer: k, Size: p.cell << k, Blocks: len(layer)}
		for _, b := range layer {
			if b.Visible() {
				s.Visible++
			}
			if b.Revealed {
				s.Revealed++
			}
		}
		stats[k] = s
	}
	return stats
}
