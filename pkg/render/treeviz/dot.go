package treeviz

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mosaic/pkg/pyramid"
)

// Options configures diagram generation.
type Options struct {
	// Depth is how many layers below the root to include. Zero means the
	// root alone; a negative depth includes every layer.
	Depth int
	// Detailed adds the position and color to each label.
	Detailed bool
}

// ToDOT converts the subtree rooted at root to Graphviz DOT.
func ToDOT(p *pyramid.Pyramid, root pyramid.BlockID, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, fontname=\"monospace\", margin=\"0.15,0.08\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	var edges []string
	var walk func(id pyramid.BlockID, depth int)
	walk = func(id pyramid.BlockID, depth int) {
		b := p.Block(id)
		fmt.Fprintf(&buf, "  %q [%s];\n", id.String(), strings.Join(fmtAttrs(b, opts.Detailed), ", "))
		if !b.HasChildren() || depth == 0 {
			return
		}
		for _, c := range b.Children {
			edges = append(edges, fmt.Sprintf("  %q -> %q;\n", id.String(), c.String()))
			walk(c, depth-1)
		}
	}
	if root.Valid() {
		walk(root, opts.Depth)
	}

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(b pyramid.Block, detailed bool) string {
	label := fmt.Sprintf("%s\n%d", b.ID, b.Size)
	if !detailed {
		return label
	}
	return label + fmt.Sprintf("\n(%d,%d)\n%s", b.X, b.Y, b.Color.Hex())
}

func fmtAttrs(b pyramid.Block, detailed bool) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(b, detailed)),
		fmt.Sprintf("fillcolor=%q", b.Color.Hex()),
		fmt.Sprintf("fontcolor=%q", textColor(b.Color)),
	}
	if b.Revealed {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

// textColor picks black or white, whichever reads better on c.
func textColor(c pyramid.Color) string {
	luma := 0.299*c.R + 0.587*c.G + 0.114*c.B
	if luma > 140 {
		return "black"
	}
	return "white"
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag so the SVG scales from the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
