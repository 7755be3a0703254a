package pyramid

import "fmt"

// BlockID addresses a block by layer and index within that layer.
// Indices are row-major over the layer's grid.
type BlockID struct {
	Layer int
	Index int
}

// NoBlock marks an absent parent or child link.
var NoBlock = BlockID{Layer: -1, Index: -1}

// Valid reports whether id refers to a block.
func (id BlockID) Valid() bool { return id.Layer >= 0 && id.Index >= 0 }

func (id BlockID) String() string {
	if !id.Valid() {
		return "none"
	}
	return fmt.Sprintf("L%d#%d", id.Layer, id.Index)
}

// Handle is an opaque reference to a visual node owned by a [Surface].
// The zero value means the block has no visual representation.
type Handle uint64

// NoHandle is the zero Handle.
const NoHandle Handle = 0

// Block is one square region at one resolution level.
//
// X and Y are the top-left corner in base coordinates; Size is the edge.
// Children are ordered top-left, top-right, bottom-left, bottom-right and are
// all [NoBlock] on layer 0.
type Block struct {
	ID       BlockID
	X, Y     int
	Size     int
	Color    Color
	Parent   BlockID
	Children [4]BlockID
	Revealed bool
	Handle   Handle
}

// HasChildren reports whether the block aggregates a finer layer.
func (b Block) HasChildren() bool { return b.Children[0].Valid() }

// Visible reports whether the block currently has a visual node on a surface.
func (b Block) Visible() bool { return b.Handle != NoHandle && !b.Revealed }

// Contains reports whether the point (x, y) lies inside the block.
func (b Block) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.Size && y >= b.Y && y < b.Y+b.Size
}
