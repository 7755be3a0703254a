package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mosaic/pkg/chime"
	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/puzzle"
	"github.com/matzehuels/mosaic/pkg/pyramid"
	"github.com/matzehuels/mosaic/pkg/reveal"
	"github.com/matzehuels/mosaic/pkg/sample"
	"github.com/matzehuels/mosaic/pkg/surface/raster"
)

const (
	// boardTop is the screen row of the first board line.
	boardTop = 1
	// chromeRows are the non-board lines: header and footer.
	chromeRows = 2
	// settleDelay is how long children stay ghosted before settling.
	settleDelay = 60 * time.Millisecond
	// exitOutside is the pointer-exit target for leaving the board.
	exitOutside = "outside"
)

// playCommand creates the interactive play command.
func (c *CLI) playCommand() *cobra.Command {
	var (
		flags   puzzleFlags
		sound   bool
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "play <image>",
		Short: "Solve a puzzle in the terminal",
		Long: `Cover an image with blocks and wipe them away with the mouse.

Moving the pointer across a block splits it into four; dragging with the
left button held scrubs as a separate touch gesture. The puzzle is solved
once the threshold share of the picture is uncovered.`,
		Example: `  mosaic play cat.png
  mosaic play cat.png --min-block 8 --top 64 --sound`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.config.Puzzle)
			if !cmd.Flags().Changed("sound") {
				sound = c.config.Sound
			}
			return c.runPlay(cmd.Context(), args[0], opts, sound, logFile)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&sound, "sound", false, "play a chime on reveals and completion")
	cmd.Flags().StringVar(&logFile, "log", "", "write logs to this file while playing")

	return cmd
}

func (c *CLI) runPlay(ctx context.Context, path string, opts puzzle.Options, sound bool, logFile string) error {
	src, err := c.loadSource(ctx, path, opts)
	if err != nil {
		return err
	}
	pic, err := src.picture(opts.MaxSize, sample.Filter(c.config.Filter))
	if err != nil {
		return err
	}

	var out io.Writer = io.Discard
	if logFile != "" {
		f, err := os.Create(logFile)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "open log %s", logFile)
		}
		defer f.Close()
		out = f
	}
	c.Logger.SetOutput(out)
	defer c.Logger.SetOutput(os.Stderr)

	surf := raster.New(pic, opts.MaxSize)
	surf.Deferred = true
	m := newPlayModel(src.name, surf, newTeaScheduler(), opts, c.Logger)
	if sound {
		m.player = chime.NewPlayer()
		defer m.player.Close()
	}

	m.puzzle, err = puzzle.New(ctx, src.buf, opts, surf, m.sched,
		puzzle.WithLogger(c.Logger),
		puzzle.OnEvent(m.onEvent),
		puzzle.OnComplete(m.onComplete),
	)
	if err != nil {
		return err
	}

	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil {
		return err
	}

	c.Logger.SetOutput(os.Stderr)
	printPlayResult(src.name, m)
	return nil
}

func printPlayResult(name string, m *playModel) {
	stats := m.puzzle.Stats()
	if m.solved != nil {
		printSuccess("Solved %s in %s", name, m.elapsed.Round(100*time.Millisecond))
	} else {
		printInfo("Left %s unsolved", name)
	}
	printKeyValue("coverage", coverageBar(stats.Progress.Percent, barWidth))
	printKeyValue("revealed", fmt.Sprintf("%d / %d", stats.Progress.Revealed, stats.Progress.Total))
	printKeyValue("splits", fmt.Sprintf("%d", stats.Splits))
}

// =============================================================================
// Model
// =============================================================================

// settleMsg settles the ghosted children rendered since the last settle.
type settleMsg struct{}

// playModel is the bubbletea model for an interactive puzzle.
type playModel struct {
	puzzle  *puzzle.Puzzle
	surface *raster.Surface
	sched   *teaScheduler
	player  *chime.Player
	logger  *log.Logger

	title  string
	extent int
	dim    int

	width    int
	height   int
	zoom     int
	dragging bool
	settling bool

	started time.Time
	elapsed time.Duration
	solved  *puzzle.Stats
}

func newPlayModel(title string, surf *raster.Surface, sched *teaScheduler, opts puzzle.Options, logger *log.Logger) *playModel {
	return &playModel{
		surface: surf,
		sched:   sched,
		logger:  logger,
		title:   title,
		extent:  opts.MaxSize,
		dim:     opts.Dim(),
		zoom:    1,
		started: time.Now(),
	}
}

func (m *playModel) Init() tea.Cmd {
	return m.sched.drain()
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
	case tea.MouseMsg:
		return m, m.mouse(msg)
	case timerMsg:
		return m, m.sched.fire(msg.id)
	case settleMsg:
		m.settling = false
		m.surface.SettlePending()
	}
	return m, nil
}

// layout picks the largest zoom at which every cell is a whole number of
// pixels and the board fits the window.
func (m *playModel) layout() {
	rows := m.height - chromeRows
	m.zoom = max(1, min(m.width/m.dim, rows*2/m.dim))
}

// boardSize returns the board edge in pixels.
func (m *playModel) boardSize() int { return m.dim * m.zoom }

// toBase maps a terminal cell to the puzzle point under its center.
func (m *playModel) toBase(col, row int) (reveal.Point, bool) {
	w := m.boardSize()
	r := row - boardTop
	if col < 0 || r < 0 || col >= w || r*2 >= w {
		return reveal.Point{}, false
	}
	scale := float64(m.extent) / float64(w)
	return reveal.Point{X: (float64(col) + 0.5) * scale, Y: float64(r*2+1) * scale}, true
}

func (m *playModel) mouse(msg tea.MouseMsg) tea.Cmd {
	if m.width == 0 {
		return nil
	}
	pt, onBoard := m.toBase(msg.X, msg.Y)
	switch {
	case msg.Action == tea.MouseActionRelease:
		m.endDrag()
		return nil
	case !onBoard:
		m.endDrag()
		m.puzzle.HandlePointerExit(exitOutside)
		return nil
	case msg.Button == tea.MouseButtonLeft:
		m.dragging = true
		m.puzzle.HandleTouchMove(pt)
	default:
		m.puzzle.HandlePointerMove(pt)
	}
	return m.settle()
}

func (m *playModel) endDrag() {
	if m.dragging {
		m.dragging = false
		m.puzzle.HandleTouchEnd()
	}
}

// settle schedules one settle tick while ghosts are waiting.
func (m *playModel) settle() tea.Cmd {
	if m.settling || m.surface.Pending() == 0 {
		return nil
	}
	m.settling = true
	return tea.Tick(settleDelay, func(time.Time) tea.Msg { return settleMsg{} })
}

func (m *playModel) onEvent(ev reveal.Event) {
	if ev.Kind != pyramid.OutcomeReveal || m.player == nil {
		return
	}
	if err := m.player.Play(chime.Reveal()); err != nil {
		m.logger.Warn("play reveal chime", "err", err)
	}
}

func (m *playModel) onComplete(stats puzzle.Stats) {
	m.solved = &stats
	m.elapsed = time.Since(m.started)
	if m.player == nil {
		return
	}
	if err := m.player.Play(chime.Completion()); err != nil {
		m.logger.Warn("play completion chime", "err", err)
	}
}

func (m *playModel) View() string {
	if m.width == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteByte('\n')

	img, err := m.surface.Render("")
	if err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + err.Error())
	} else {
		b.WriteString(halfBlocks(scaleTo(img, m.boardSize())))
	}

	b.WriteByte('\n')
	b.WriteString(m.footer())
	return b.String()
}

func (m *playModel) header() string {
	rate := fmt.Sprintf("  %.1f/s  %s", m.puzzle.RevealRatePerSecond(), shortSession(m.puzzle.ID()))
	return StyleTitle.Render(appName) + " " + StyleDim.Render(m.title) + "  " +
		coverageBar(m.puzzle.CoveragePercent(), barWidth) + StyleDim.Render(rate)
}

func shortSession(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (m *playModel) footer() string {
	if m.solved != nil {
		msg := fmt.Sprintf("%s solved in %s", iconSuccess, m.elapsed.Round(100*time.Millisecond))
		return StyleSuccess.Render(msg) + StyleDim.Render("  q quit")
	}
	return StyleDim.Render("move to wipe · drag to scrub · q quit")
}
