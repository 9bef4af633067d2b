package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"

	vnio "github.com/visualnotes/visualnotes/pkg/io"
	"github.com/visualnotes/visualnotes/pkg/whiteboard"
	"github.com/visualnotes/visualnotes/pkg/whiteboard/display"
	"github.com/visualnotes/visualnotes/pkg/whiteboard/sink"
)

// boardCommand creates the board command, a terminal whiteboard.
func (c *CLI) boardCommand() *cobra.Command {
	var theme string

	cmd := &cobra.Command{
		Use:   "board [scene.json]",
		Short: "Edit a board in the terminal",
		Long: `Open a board in a full-screen terminal editor.

Draw with the mouse, or move the cursor with the arrow keys and press space
to press and release the pointer. Tool keys: v select, p pen, t text,
r rectangle, o circle, a arrow, s sticky, c card. Other keys: + and - zoom,
0 reset view, u undo, U redo, ctrl+s save, ? help, q quit.

With a file argument the board is loaded from and saved to that file;
otherwise saves are simulated.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			if theme == "" {
				theme = c.Config.Render.Theme
			}
			t, err := display.ThemeByName(theme)
			if err != nil {
				return err
			}
			return c.runBoard(cmd.Context(), path, t)
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "palette: light, dark")
	return cmd
}

func (c *CLI) runBoard(ctx context.Context, path string, theme display.Theme) error {
	// The board stays quiet; log lines would tear the alternate screen.
	var opts []whiteboard.Option
	if path != "" {
		opts = append(opts, whiteboard.WithSaver(vnio.FileSaver{Path: path}))
		if _, err := os.Stat(path); err == nil {
			scene, err := vnio.ImportJSON(path)
			if err != nil {
				return err
			}
			opts = append(opts, whiteboard.WithScene(scene))
		}
	} else {
		opts = append(opts, whiteboard.WithSaver(whiteboard.SimulatedSaver{Delay: c.Config.Save.Delay}))
	}

	board := whiteboard.New(opts...)
	defer board.Close()

	m := newBoardModel(ctx, board, theme)
	final, err := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	).Run()
	if err != nil {
		return err
	}

	if bm, ok := final.(boardModel); ok && path != "" && bm.board.Status() == whiteboard.StatusUnsaved {
		c.printer().warning("%s has unsaved changes", path)
	}
	return nil
}

// =============================================================================
// Model
// =============================================================================

const (
	boardHeaderRows = 1
	boardFooterRows = 2
)

var (
	styleBoardHeader = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleBoardTool   = lipgloss.NewStyle().Foreground(colorWhite).Background(colorDim).Padding(0, 1)
	styleBoardCursor = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
)

// saveDoneMsg reports the end of a background save.
type saveDoneMsg struct{ err error }

// boardModel is the bubbletea model of the terminal whiteboard. The board is
// only touched from Update.
type boardModel struct {
	ctx   context.Context
	board *whiteboard.Board
	theme display.Theme

	cols, rows int   // terminal size
	cursor     [2]int // canvas cell
	pressed    bool   // keyboard pointer is down
	help       bool
	message    string
}

func newBoardModel(ctx context.Context, b *whiteboard.Board, theme display.Theme) boardModel {
	return boardModel{ctx: ctx, board: b, theme: theme, cols: 80, rows: 24}
}

func (m boardModel) Init() tea.Cmd { return nil }

// canvasRows is the number of terminal rows the canvas occupies.
func (m boardModel) canvasRows() int {
	return max(m.rows-boardHeaderRows-boardFooterRows, 1)
}

// cellPos returns the screen pixel at the centre of a canvas cell.
func cellPos(col, row int) r2.Vec {
	return r2.Vec{
		X: (float64(col) + 0.5) * sink.DefaultCellWidth,
		Y: (float64(row) + 0.5) * sink.DefaultCellHeight,
	}
}

func (m boardModel) cursorEvent() whiteboard.PointerEvent {
	return whiteboard.PointerEvent{Pos: cellPos(m.cursor[0], m.cursor[1])}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		m.cursor[0] = min(m.cursor[0], m.cols-1)
		m.cursor[1] = min(m.cursor[1], m.canvasRows()-1)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case saveDoneMsg:
		if msg.err != nil {
			m.message = "save failed: " + msg.err.Error()
		} else {
			m.message = ""
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *boardModel) handleMouse(msg tea.MouseMsg) {
	row := msg.Y - boardHeaderRows
	if row < 0 || row >= m.canvasRows() {
		if m.board.Phase() != whiteboard.PhaseIdle {
			m.board.PointerLeave()
		}
		return
	}
	m.cursor = [2]int{msg.X, row}
	ev := whiteboard.PointerEvent{Pos: cellPos(msg.X, row)}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.board.Wheel(-1)
		return
	case tea.MouseButtonWheelDown:
		m.board.Wheel(1)
		return
	case tea.MouseButtonRight:
		ev.Button = whiteboard.ButtonSecondary
	case tea.MouseButtonMiddle:
		ev.Button = whiteboard.ButtonMiddle
	}

	switch msg.Action {
	case tea.MouseActionPress:
		m.board.PointerDown(ev)
	case tea.MouseActionMotion:
		m.board.PointerMove(ev)
	case tea.MouseActionRelease:
		m.board.PointerUp(ev)
	}
}

func (m boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(0, -1)
	case "down", "j":
		m.moveCursor(0, 1)
	case "left", "h":
		m.moveCursor(-1, 0)
	case "right", "l":
		m.moveCursor(1, 0)
	case " ", "enter":
		if m.pressed {
			m.board.PointerUp(m.cursorEvent())
		} else {
			m.board.PointerDown(m.cursorEvent())
		}
		m.pressed = !m.pressed
	case "esc":
		m.board.PointerLeave()
		m.pressed = false
	case "+", "=":
		m.board.ZoomIn()
	case "-":
		m.board.ZoomOut()
	case "0":
		m.board.ResetView()
	case "u":
		if !m.board.Undo() {
			m.message = "nothing to undo"
		}
	case "U", "ctrl+r":
		if !m.board.Redo() {
			m.message = "nothing to redo"
		}
	case "?":
		m.help = !m.help
	case "ctrl+s":
		task := m.board.Save(m.ctx)
		return m, func() tea.Msg { return saveDoneMsg{err: task.Wait()} }
	default:
		if len(msg.Runes) == 1 {
			if t, ok := whiteboard.ToolForShortcut(msg.Runes[0]); ok {
				_ = m.board.SetTool(t)
			}
		}
	}
	return m, nil
}

// moveCursor moves the keyboard cursor, dragging the pointer when pressed.
func (m *boardModel) moveCursor(dx, dy int) {
	m.cursor[0] = min(max(m.cursor[0]+dx, 0), m.cols-1)
	m.cursor[1] = min(max(m.cursor[1]+dy, 0), m.canvasRows()-1)
	if m.pressed {
		m.board.PointerMove(m.cursorEvent())
	}
}

// =============================================================================
// View
// =============================================================================

// frame runs the display pass at the terminal's pixel size.
func (m boardModel) frame() display.Frame {
	return display.Build(m.board.Scene(),
		display.WithSize(float64(m.cols)*sink.DefaultCellWidth, float64(m.canvasRows())*sink.DefaultCellHeight),
		display.WithTheme(m.theme),
	)
}

func (m boardModel) View() string {
	var b strings.Builder

	b.WriteString(styleBoardHeader.Render(m.board.Title()))
	b.WriteString("  ")
	b.WriteString(styleBoardTool.Render(m.board.Tool().String()))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d%%", m.board.Viewport().Percent())))
	b.WriteString("  ")
	b.WriteString(statusLabel(m.board.Status()))
	b.WriteString("\n")

	lines := sink.TextLines(m.frame(), sink.WithCells(m.cols, m.canvasRows()))
	for row, line := range lines {
		if row == m.cursor[1] {
			line = overlayCursor(line, m.cursor[0])
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(m.footer())
	return b.String()
}

// overlayCursor draws the cursor marker at col.
func overlayCursor(line string, col int) string {
	runes := []rune(line)
	for len(runes) <= col {
		runes = append(runes, ' ')
	}
	return string(runes[:col]) + styleBoardCursor.Render("+") + string(runes[col+1:])
}

func (m boardModel) footer() string {
	var parts []string
	if e, ok := m.board.Selected(); ok {
		parts = append(parts, fmt.Sprintf("%s %s", e.Kind(), e.ID))
	}
	parts = append(parts, fmt.Sprintf("%d elements", m.board.Len()))
	if m.message != "" {
		parts = append(parts, StyleWarning.Render(m.message))
	}
	status := StyleDim.Render(strings.Join(parts, " · "))

	help := "? help  q quit"
	if m.help {
		help = "v select  p pen  t text  a arrow  s sticky  c card  space press  +/- zoom  0 reset  u/U undo/redo  ctrl+s save"
	}
	return status + "\n" + StyleDim.Render(help)
}
