package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mosaic/pkg/progress"
	"github.com/matzehuels/mosaic/pkg/puzzle"
	"github.com/matzehuels/mosaic/pkg/reveal"
	"github.com/matzehuels/mosaic/pkg/sample"
	"github.com/matzehuels/mosaic/pkg/surface/raster"
)

// replayCommand creates the headless replay command.
func (c *CLI) replayCommand() *cobra.Command {
	var (
		flags     puzzleFlags
		output    string
		noCaption bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "replay <image> <script.toml>",
		Short: "Replay recorded gestures and snapshot the result",
		Long: `Replay feeds the strokes of a TOML gesture script to a puzzle without a
terminal and reports the resulting coverage. Time advances by each stroke's
interval per point, so reveal rates are reproducible.`,
		Example: `  mosaic replay cat.png sweep.toml -o cat-swept.png
  mosaic replay cat.png sweep.toml --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.config.Puzzle)
			return c.runReplay(cmd.Context(), args[0], args[1], opts, output, !noCaption, asJSON)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write a PNG snapshot to this path")
	cmd.Flags().BoolVar(&noCaption, "no-caption", false, "omit the caption band from the snapshot")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print stats as JSON")

	return cmd
}

func (c *CLI) runReplay(ctx context.Context, imagePath, scriptPath string, opts puzzle.Options, output string, caption, asJSON bool) error {
	script, err := loadScript(scriptPath)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	src, err := c.loadSource(ctx, imagePath, opts)
	if err != nil {
		return err
	}
	prog.done("Sampled "+src.name, "dim", src.dim, "cached", src.cached)

	pic, err := src.picture(opts.MaxSize, sample.Filter(c.config.Filter))
	if err != nil {
		return err
	}
	surf := raster.New(pic, opts.MaxSize)
	sched := progress.NewManualScheduler()
	pz, err := puzzle.New(ctx, src.buf, opts, surf, sched, puzzle.WithLogger(c.Logger))
	if err != nil {
		return err
	}

	spin := newSpinner(ctx, "Replaying "+scriptPath)
	spin.Start()
	err = replay(ctx, pz, sched, script, func(i int) {
		spin.SetMessage("stroke %d/%d · %d%%", i+1, len(script.Strokes), pz.CoveragePercent())
	})
	if err != nil {
		spin.StopWithError("Replay stopped: %s", scriptPath)
		return err
	}
	spin.Stop()

	stats := pz.Stats()
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	if stats.Progress.Complete {
		printSuccess("Solved %s after %d strokes", src.name, len(script.Strokes))
	} else {
		printInfo("Replayed %d strokes on %s", len(script.Strokes), src.name)
	}
	if !stats.Interacted {
		printWarning("No stroke touched an eligible block")
	}
	printSampleStats(src.dim, stats.Progress.Total, src.cached)
	printKeyValue("coverage", coverageBar(stats.Progress.Percent, barWidth))
	printKeyValue("revealed", fmt.Sprintf("%d / %d", stats.Progress.Revealed, stats.Progress.Total))
	printKeyValue("splits", fmt.Sprintf("%d", stats.Splits))
	printKeyValue("rate", fmt.Sprintf("%.1f/s", stats.Progress.Rate))
	printKeyValue("time", sched.Elapsed().String())

	if output != "" {
		text := ""
		if caption {
			text = fmt.Sprintf("%s  %d%%", src.name, stats.Progress.Percent)
		}
		if err := surf.SavePNG(output, text); err != nil {
			return err
		}
		printFile(output)
	}
	return nil
}

// replay feeds script to pz, advancing sched by the stroke interval after
// every point. onStroke runs after each stroke ends.
func replay(ctx context.Context, pz *puzzle.Puzzle, sched *progress.ManualScheduler, script *Script, onStroke func(int)) error {
	touch := script.Input == string(reveal.InputTouch)
	for i, st := range script.Strokes {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, pt := range st.points() {
			if touch {
				pz.HandleTouchMove(pt)
			} else {
				pz.HandlePointerMove(pt)
			}
			sched.Advance(st.interval())
		}
		if touch {
			pz.HandleTouchEnd()
		} else {
			pz.HandlePointerExit(st.ExitTo)
		}
		if onStroke != nil {
			onStroke(i)
		}
	}
	return nil
}
