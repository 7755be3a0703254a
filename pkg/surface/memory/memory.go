// Package memory provides an in-memory [pyramid.Surface].
//
// It keeps one node per visible block, keyed by handle, and an ordered log of
// every call. Puzzles driven without a screen (tests, scripted replays) use it
// for bookkeeping; other surfaces embed it to reuse the node table.
package memory

import (
	"fmt"
	"sort"

	"github.com/matzehuels/mosaic/pkg/pyramid"
)

// Op names a surface operation in the log.
type Op string

const (
	OpRenderInitial  Op = "render-initial"
	OpRenderChildren Op = "render-children"
	OpGhost          Op = "ghost"
	OpSettle         Op = "settle"
	OpRemove         Op = "remove"
	OpRemoveAll      Op = "remove-all"
)

// Entry is one logged operation.
type Entry struct {
	Op     Op
	Handle pyramid.Handle
	Block  pyramid.BlockID
}

// Node is a visual node: a colored square.
type Node struct {
	Handle pyramid.Handle
	Block  pyramid.BlockID
	X, Y   int
	Size   int
	Color  pyramid.Color
	// Ghost is true between the two phases of a children transition.
	Ghost bool
}

// Surface stores nodes in memory. The zero value is not usable; call [New].
type Surface struct {
	next  pyramid.Handle
	nodes map[pyramid.Handle]*Node
	log   []Entry

	// FailChildren, when set, makes RenderChildren return no handles and not
	// create nodes, simulating a surface that lost track of its nodes.
	FailChildren bool

	// Deferred leaves children as ghosts until SettlePending is called, so a
	// display can show the ghost frame before the settled one.
	Deferred bool
	pending  []pendingSettle
}

type pendingSettle struct {
	h pyramid.Handle
	b pyramid.Block
}

// New creates an empty surface.
func New() *Surface {
	return &Surface{nodes: make(map[pyramid.Handle]*Node)}
}

// RenderInitialLayer creates one settled node per block.
func (s *Surface) RenderInitialLayer(blocks []pyramid.Block) ([]pyramid.Handle, error) {
	hs := make([]pyramid.Handle, len(blocks))
	for i, b := range blocks {
		n := s.create(b)
		hs[i] = n.Handle
		s.record(OpRenderInitial, n)
	}
	return hs, nil
}

// RenderChildren creates the children as ghosts carrying the parent's geometry
// and color, then settles each one into its own.
func (s *Surface) RenderChildren(parent pyramid.Block, children []pyramid.Block) ([]pyramid.Handle, error) {
	s.log = append(s.log, Entry{Op: OpRenderChildren, Block: parent.ID})
	if s.FailChildren {
		return nil, nil
	}
	hs := make([]pyramid.Handle, len(children))
	ghosts := make([]*Node, len(children))
	for i, c := range children {
		n := s.create(c)
		n.X, n.Y, n.Size, n.Color = parent.X, parent.Y, parent.Size, parent.Color
		n.Ghost = true
		ghosts[i] = n
		hs[i] = n.Handle
		s.record(OpGhost, n)
	}
	for i, n := range ghosts {
		if s.Deferred {
			s.pending = append(s.pending, pendingSettle{h: n.Handle, b: children[i]})
			continue
		}
		s.Settle(n.Handle, children[i])
	}
	return hs, nil
}

// SettlePending settles every ghost left by a deferred RenderChildren and
// returns how many were still alive.
func (s *Surface) SettlePending() int {
	n := 0
	for _, p := range s.pending {
		if _, ok := s.nodes[p.h]; ok {
			s.Settle(p.h, p.b)
			n++
		}
	}
	s.pending = s.pending[:0]
	return n
}

// Pending returns the number of ghosts waiting to settle.
func (s *Surface) Pending() int { return len(s.pending) }

// Settle moves a ghost node to the block's own geometry and color.
func (s *Surface) Settle(h pyramid.Handle, b pyramid.Block) {
	n, ok := s.nodes[h]
	if !ok {
		return
	}
	n.X, n.Y, n.Size, n.Color = b.X, b.Y, b.Size, b.Color
	n.Ghost = false
	s.record(OpSettle, n)
}

// RemoveBlock deletes the node h. Removing an unknown handle is an error.
func (s *Surface) RemoveBlock(b pyramid.Block, h pyramid.Handle) error {
	n, ok := s.nodes[h]
	if !ok {
		return fmt.Errorf("no node %d for block %s", h, b.ID)
	}
	delete(s.nodes, h)
	s.record(OpRemove, n)
	return nil
}

// RemoveAllBlocks deletes every node.
func (s *Surface) RemoveAllBlocks() error {
	s.nodes = make(map[pyramid.Handle]*Node)
	s.pending = nil
	s.log = append(s.log, Entry{Op: OpRemoveAll})
	return nil
}

// FindVisualNodeFor returns the settled node at the given geometry.
func (s *Surface) FindVisualNodeFor(x, y, size int) (pyramid.Handle, bool) {
	for h, n := range s.nodes {
		if !n.Ghost && n.X == x && n.Y == y && n.Size == size {
			return h, true
		}
	}
	return pyramid.NoHandle, false
}

// Len returns the number of live nodes.
func (s *Surface) Len() int { return len(s.nodes) }

// Node returns a copy of the node h.
func (s *Surface) Node(h pyramid.Handle) (Node, bool) {
	n, ok := s.nodes[h]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Nodes returns copies of all live nodes, coarsest first, then by position.
// Painting them in this order draws finer nodes over coarser ones.
func (s *Surface) Nodes() []Node {
	out := make([]Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Size != out[j].Size {
			return out[i].Size > out[j].Size
		}
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Log returns the operations recorded so far.
func (s *Surface) Log() []Entry { return s.log }

// Count returns how many times op was logged.
func (s *Surface) Count(op Op) int {
	n := 0
	for _, e := range s.log {
		if e.Op == op {
			n++
		}
	}
	return n
}

func (s *Surface) create(b pyramid.Block) *Node {
	s.next++
	n := &Node{Handle: s.next, Block: b.ID, X: b.X, Y: b.Y, Size: b.Size, Color: b.Color}
	s.nodes[n.Handle] = n
	return n
}

func (s *Surface) record(op Op, n *Node) {
	s.log = append(s.log, Entry{Op: op, Handle: n.Handle, Block: n.Block})
}

var _ pyramid.Surface = (*Surface)(nil)
