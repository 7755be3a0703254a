// Command mosaic hides an image under a pyramid of color blocks that the
// pointer wipes away.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mosaic/internal/cli"
	mosaicerrors "github.com/matzehuels/mosaic/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, "error:", mosaicerrors.UserMessage(err))
		if code := mosaicerrors.GetCode(err); code != "" {
			os.Exit(exitCode(code))
		}
		os.Exit(1)
	}
}

// exitCode maps error codes to exit statuses: 2 for bad input, 1 otherwise.
func exitCode(code mosaicerrors.Code) int {
	switch code {
	case mosaicerrors.ErrCodeInvalidInput, mosaicerrors.ErrCodeInvalidConfig,
		mosaicerrors.ErrCodeInvalidDimension, mosaicerrors.ErrCodeInvalidPath,
		mosaicerrors.ErrCodeUnsupportedImage, mosaicerrors.ErrCodeFileNotFound:
		return 2
	default:
		return 1
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// The level must be set before the root pre-run loads config and logs.
	preRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return preRun(cmd, args)
	}

	return root.ExecuteContext(ctx)
}
