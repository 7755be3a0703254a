package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/puzzle"
	"github.com/matzehuels/mosaic/pkg/pyramid"
	"github.com/matzehuels/mosaic/pkg/render/treeviz"
)

// treeOpts holds flags for the tree command.
type treeOpts struct {
	block    string
	depth    int
	format   string
	output   string
	detailed bool
}

// treeCommand creates the tree command.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		flags puzzleFlags
		opts  treeOpts
	)

	cmd := &cobra.Command{
		Use:   "tree <image>",
		Short: "Draw a block subtree as a Graphviz diagram",
		Example: `  mosaic tree cat.png --depth 2 -f svg -o tree.svg
  mosaic tree cat.png --block L3#5 --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts := flags.options(cmd, c.config.Puzzle)
			return c.runTree(cmd.Context(), args[0], popts, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&opts.block, "block", "", "root block as L<layer>#<index> (default: first top block)")
	cmd.Flags().IntVar(&opts.depth, "depth", 2, "layers below the root to include (-1 for all)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "dot", "output format: dot or svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "add position and color to labels")

	return cmd
}

func (c *CLI) runTree(ctx context.Context, path string, popts puzzle.Options, opts treeOpts) error {
	if opts.format != "dot" && opts.format != "svg" {
		return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want dot or svg)", opts.format)
	}
	_, p, err := c.buildPyramid(ctx, path, popts)
	if err != nil {
		return err
	}

	root := pyramid.BlockID{Layer: p.Coarsest(), Index: 0}
	if opts.block != "" {
		root, err = parseBlockID(p, opts.block)
		if err != nil {
			return err
		}
	}

	data := []byte(treeviz.ToDOT(p, root, treeviz.Options{Depth: opts.depth, Detailed: opts.detailed}))
	if opts.format == "svg" {
		if data, err = treeviz.RenderSVG(string(data)); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "render svg")
		}
	}

	if opts.output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", opts.output)
	}
	printSuccess("Wrote %s tree from %s", opts.format, root)
	printFile(opts.output)
	return nil
}

// parseBlockID parses "L<layer>#<index>" and checks it against p.
func parseBlockID(p *pyramid.Pyramid, s string) (pyramid.BlockID, error) {
	var id pyramid.BlockID
	if n, err := fmt.Sscanf(s, "L%d#%d", &id.Layer, &id.Index); err != nil || n != 2 {
		return pyramid.NoBlock, errors.New(errors.ErrCodeInvalidInput, "block %q: want L<layer>#<index>", s)
	}
	if id.Layer < 0 || id.Layer >= p.Layers() || id.Index < 0 || id.Index >= len(p.Layer(id.Layer)) {
		return pyramid.NoBlock, errors.New(errors.ErrCodeInvalidInput, "block %s does not exist", id)
	}
	return id, nil
}
