package pyramid

import (
	"math/bits"

	"github.com/matzehuels/mosaic/pkg/errors"
)

// ChannelsPerSample is the number of bytes per sample in a color buffer (RGBA).
const ChannelsPerSample = 4

// Option configures [Build].
type Option func(*geometry)

type geometry struct {
	extent int // maxSize
	cell   int // layer-0 block edge
	reveal int // blocks of this edge are removed, not split
	top    int // coarsest block edge
}

// WithRevealSize sets the block edge at which blocks are removed outright.
// It must be the cell size times a power of two. Defaults to the cell size.
func WithRevealSize(size int) Option {
	return func(g *geometry) { g.reveal = size }
}

// WithTopSize sets the block edge of the coarsest layer, the one rendered
// first. It must be the cell size times a power of two and divide the extent.
// Defaults to the extent (a single coarsest block).
func WithTopSize(size int) Option {
	return func(g *geometry) { g.top = size }
}

// Build constructs every layer of the pyramid from a row-major RGBA buffer of
// D×D samples, where D = maxSize / minBlockSize.
//
// Layer 0 takes its colors straight from the buffer (alpha is ignored). Each
// further layer doubles the block size and averages the four quadrant
// children of the previous layer, stopping once blocks reach the top size.
//
// Build fails with an INVALID_DIMENSION error when the buffer length does not
// match D×D×4 or when the sizes do not nest (see [WithRevealSize] and
// [WithTopSize]).
func Build(buf []byte, maxSize, minBlockSize int, opts ...Option) (*Pyramid, error) {
	g := geometry{extent: maxSize, cell: minBlockSize}
	for _, opt := range opts {
		opt(&g)
	}
	if g.reveal == 0 {
		g.reveal = g.cell
	}
	if g.top == 0 {
		g.top = g.extent
	}
	if err := g.validate(len(buf)); err != nil {
		return nil, err
	}

	layerCount := log2(g.top/g.cell) + 1
	p := &Pyramid{
		layers:      make([][]Block, layerCount),
		extent:      g.extent,
		cell:        g.cell,
		reveal:      g.reveal,
		top:         g.top,
		revealLayer: log2(g.reveal / g.cell),
	}

	p.layers[0] = baseLayer(buf, g.extent/g.cell, g.cell)
	for k := 1; k < layerCount; k++ {
		p.layers[k] = p.aggregate(k)
	}
	return p, nil
}

func (g geometry) validate(bufLen int) error {
	if g.extent <= 0 || g.cell <= 0 {
		return errors.New(errors.ErrCodeInvalidDimension, "sizes must be positive (max %d, min block %d)", g.extent, g.cell)
	}
	if g.cell < 2 || g.cell%2 != 0 {
		return errors.New(errors.ErrCodeInvalidDimension, "min block size %d must be even and at least 2", g.cell)
	}
	if g.extent%g.cell != 0 {
		return errors.New(errors.ErrCodeInvalidDimension, "min block size %d does not divide max size %d", g.cell, g.extent)
	}
	dim := g.extent / g.cell
	if want := dim * dim * ChannelsPerSample; bufLen != want {
		return errors.New(errors.ErrCodeInvalidDimension, "color buffer has %d bytes, want %d (%d×%d RGBA)", bufLen, want, dim, dim)
	}
	if g.reveal < g.cell || g.reveal%g.cell != 0 {
		return errors.New(errors.ErrCodeInvalidDimension, "reveal size %d is not a multiple of min block size %d", g.reveal, g.cell)
	}
	if err := errors.ValidatePowerOfTwo("reveal size / min block size", g.reveal/g.cell); err != nil {
		return err
	}
	if g.top < g.reveal || g.top%g.cell != 0 {
		return errors.New(errors.ErrCodeInvalidDimension, "top size %d must be a multiple of min block size %d and at least reveal size %d", g.top, g.cell, g.reveal)
	}
	if err := errors.ValidatePowerOfTwo("top size / min block size", g.top/g.cell); err != nil {
		return err
	}
	if g.extent%g.top != 0 {
		return errors.New(errors.ErrCodeInvalidDimension, "top size %d does not divide max size %d", g.top, g.extent)
	}
	return nil
}

func baseLayer(buf []byte, dim, cell int) []Block {
	layer := make([]Block, dim*dim)
	t := 0
	for yi := 0; yi < dim; yi++ {
		for xi := 0; xi < dim; xi++ {
			i := yi*dim + xi
			layer[i] = Block{
				ID:       BlockID{Layer: 0, Index: i},
				X:        xi * cell,
				Y:        yi * cell,
				Size:     cell,
				Color:    Color{R: float64(buf[t]), G: float64(buf[t+1]), B: float64(buf[t+2])},
				Parent:   NoBlock,
				Children: [4]BlockID{NoBlock, NoBlock, NoBlock, NoBlock},
			}
			t += ChannelsPerSample
		}
	}
	return layer
}

// quadrants are the child offsets, in units of the child size, relative to
// the parent's top-left corner.
var quadrants = [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

// aggregate builds layer k from layer k-1 and links parents into the children.
func (p *Pyramid) aggregate(k int) []Block {
	size := p.cell << k
	dim := p.extent / size
	prev := p.layers[k-1]
	prevDim := dim * 2

	layer := make([]Block, dim*dim)
	for yi := 0; yi < dim; yi++ {
		for xi := 0; xi < dim; xi++ {
			i := yi*dim + xi
			b := Block{
				ID:     BlockID{Layer: k, Index: i},
				X:      xi * size,
				Y:      yi * size,
				Size:   size,
				Parent: NoBlock,
			}
			var colors [4]Color
			for q, off := range quadrants {
				ci := (2*yi+off[1])*prevDim + 2*xi + off[0]
				b.Children[q] = prev[ci].ID
				colors[q] = prev[ci].Color
				prev[ci].Parent = b.ID
			}
			b.Color = Mean(colors[:]...)
			layer[i] = b
		}
	}
	return layer
}

func log2(n int) int {
	return bits.Len(uint(n)) - 1
}
