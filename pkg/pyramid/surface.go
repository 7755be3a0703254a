package pyramid

// Surface renders and removes the visual nodes for blocks.
//
// Implementations own every visual node they create. Handles are returned in
// the same order as the blocks passed in; a [NoHandle] entry (or a short
// slice) means the node could not be created and triggers a single
// FindVisualNodeFor lookup before the block is reported as missing.
type Surface interface {
	// RenderInitialLayer draws the coarsest layer.
	RenderInitialLayer(blocks []Block) ([]Handle, error)

	// RenderChildren replaces parent with its children. Children first appear
	// as ghosts at the parent's position and color, then settle into their
	// own geometry and color.
	RenderChildren(parent Block, children []Block) ([]Handle, error)

	// RemoveBlock removes the node h that was drawn for b.
	RemoveBlock(b Block, h Handle) error

	// RemoveAllBlocks clears every remaining node.
	RemoveAllBlocks() error

	// FindVisualNodeFor returns the node drawn at the given geometry, if any.
	FindVisualNodeFor(x, y, size int) (Handle, bool)
}
