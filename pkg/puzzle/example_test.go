package puzzle_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/mosaic/pkg/progress"
	"github.com/matzehuels/mosaic/pkg/puzzle"
	"github.com/matzehuels/mosaic/pkg/reveal"
	"github.com/matzehuels/mosaic/pkg/surface/memory"
)

func Example() {
	// A 2×2 grid of 16-unit cells, all rendered from the start.
	buf := make([]byte, 2*2*4)
	opts := puzzle.Options{MaxSize: 32, MinBlockSize: 16, TopSize: 16, Threshold: 100}

	pz, err := puzzle.New(context.Background(), buf, opts, memory.New(), progress.NewManualScheduler())
	if err != nil {
		fmt.Println(err)
		return
	}

	// Drag along the top row.
	pz.HandlePointerMove(reveal.Point{X: 2, Y: 8})
	pz.HandlePointerMove(reveal.Point{X: 30, Y: 8})

	fmt.Printf("coverage: %d%%\n", pz.CoveragePercent())
	fmt.Printf("complete: %v\n", pz.IsComplete())
	// Output:
	// coverage: 50%
	// complete: false
}
