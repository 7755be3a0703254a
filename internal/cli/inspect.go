package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mosaic/pkg/puzzle"
	"github.com/matzehuels/mosaic/pkg/pyramid"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags puzzleFlags

	cmd := &cobra.Command{
		Use:   "inspect <image>",
		Short: "Show the block pyramid an image produces",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.config.Puzzle)
			return c.runInspect(cmd.Context(), args[0], opts)
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) runInspect(ctx context.Context, path string, opts puzzle.Options) error {
	src, p, err := c.buildPyramid(ctx, path, opts)
	if err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render(src.name))
	printSampleStats(src.dim, p.Units(), src.cached)
	fmt.Println()
	fmt.Println(layerTable(p))
	return nil
}

// buildPyramid samples path and builds its pyramid without rendering it.
func (c *CLI) buildPyramid(ctx context.Context, path string, opts puzzle.Options) (*source, *pyramid.Pyramid, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	src, err := c.loadSource(ctx, path, opts)
	if err != nil {
		return nil, nil, err
	}
	p, err := pyramid.Build(src.buf, opts.MaxSize, opts.MinBlockSize,
		pyramid.WithRevealSize(opts.RevealSize),
		pyramid.WithTopSize(opts.TopSize),
	)
	if err != nil {
		return nil, nil, err
	}
	return src, p, nil
}

// layerTable renders one row per layer, coarsest first.
func layerTable(p *pyramid.Pyramid) string {
	stats := p.Stats()
	rows := make([][]string, 0, len(stats))
	for i := len(stats) - 1; i >= 0; i-- {
		s := stats[i]
		rows = append(rows, []string{
			strconv.Itoa(s.Layer),
			fmt.Sprintf("%d×%d", s.Size, s.Size),
			strconv.Itoa(s.Blocks),
			layerRole(p, s.Layer),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Layer", "Block", "Count", "Role").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == 3 && rows[row][3] != "" {
				return base.Foreground(colorCyan)
			}
			return base.Foreground(colorWhite)
		})
	return t.Render()
}

func layerRole(p *pyramid.Pyramid, k int) string {
	switch {
	case k == p.Coarsest() && k == p.RevealLayer():
		return "top, reveal"
	case k == p.Coarsest():
		return "top"
	case k == p.RevealLayer():
		return "reveal"
	case k < p.RevealLayer():
		return "unused"
	default:
		return ""
	}
}
