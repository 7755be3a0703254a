package cli

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xdraw "golang.org/x/image/draw"

	"github.com/matzehuels/mosaic/pkg/progress"
)

// =============================================================================
// Scheduler
// =============================================================================

// timerMsg fires one periodic callback registered on a teaScheduler.
type timerMsg struct{ id int }

// teaScheduler runs progress timers as bubbletea ticks, so callbacks execute
// inside Update like every other puzzle call.
type teaScheduler struct {
	seq    int
	timers map[int]*teaTimer
	queued []tea.Cmd
}

type teaTimer struct {
	id      int
	every   time.Duration
	fn      func()
	stopped bool
}

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{timers: make(map[int]*teaTimer)}
}

// Every registers fn. The first tick is queued until drain is called.
func (s *teaScheduler) Every(d time.Duration, fn func()) progress.Timer {
	s.seq++
	t := &teaTimer{id: s.seq, every: d, fn: fn}
	s.timers[t.id] = t
	s.queued = append(s.queued, t.arm())
	return t
}

func (t *teaTimer) arm() tea.Cmd {
	id := t.id
	return tea.Tick(t.every, func(time.Time) tea.Msg { return timerMsg{id: id} })
}

func (t *teaTimer) Stop() { t.stopped = true }

// drain returns the ticks queued since the last call.
func (s *teaScheduler) drain() tea.Cmd {
	cmds := s.queued
	s.queued = nil
	return tea.Batch(cmds...)
}

// fire runs timer id and re-arms it unless it was stopped.
func (s *teaScheduler) fire(id int) tea.Cmd {
	t, ok := s.timers[id]
	if !ok {
		return nil
	}
	if !t.stopped {
		t.fn()
	}
	if t.stopped {
		delete(s.timers, id)
		return nil
	}
	return t.arm()
}

// active returns the number of timers still running.
func (s *teaScheduler) active() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// =============================================================================
// Half-Block Canvas
// =============================================================================

// halfBlock paints two vertically stacked pixels in one terminal cell: the
// foreground is the upper pixel, the background the lower.
const halfBlock = "▀"

// scaleTo resamples img to a size×size RGBA image.
func scaleTo(img image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// halfBlocks renders img as rows of half-block cells, two pixel rows per line.
// An odd last row leaves the lower half in the terminal's background.
func halfBlocks(img *image.RGBA) string {
	b := img.Bounds()
	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			sb.WriteByte('\n')
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			st := lipgloss.NewStyle().Foreground(hexColor(img.RGBAAt(x, y)))
			if y+1 < b.Max.Y {
				st = st.Background(hexColor(img.RGBAAt(x, y+1)))
			}
			sb.WriteString(st.Render(halfBlock))
		}
	}
	return sb.String()
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
