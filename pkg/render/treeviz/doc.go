// Package treeviz renders a pyramid subtree as a Graphviz diagram.
//
// Each block becomes a box filled with its averaged color and labeled with
// its id and size; edges run from parents to their quadrant children. The
// diagram makes color averaging and reveal state easy to inspect:
//
//	dot := treeviz.ToDOT(p, root, treeviz.Options{Depth: 2})
//	svg, err := treeviz.RenderSVG(dot)
//
// Revealed blocks are drawn dashed. Use a small depth on large puzzles: each
// level quadruples the node count.
package treeviz
