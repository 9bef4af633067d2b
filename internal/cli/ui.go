package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/visualnotes/visualnotes/pkg/whiteboard"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey      = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// statusStyles colour the save indicator.
var statusStyles = map[whiteboard.SaveStatus]lipgloss.Style{
	whiteboard.StatusSaved:   lipgloss.NewStyle().Foreground(colorGreen),
	whiteboard.StatusSaving:  lipgloss.NewStyle().Foreground(colorCyan),
	whiteboard.StatusUnsaved: lipgloss.NewStyle().Foreground(colorYellow),
	whiteboard.StatusError:   lipgloss.NewStyle().Foreground(colorRed),
}

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Printer
// =============================================================================

// printer writes styled status lines.
type printer struct {
	w io.Writer
}

func (c *CLI) printer() printer { return printer{w: c.out} }

func (p printer) line(s string) { fmt.Fprintln(p.w, s) }

func (p printer) success(format string, args ...any) {
	p.line(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func (p printer) failure(format string, args ...any) {
	p.line(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func (p printer) warning(format string, args ...any) {
	p.line(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (p printer) info(format string, args ...any) {
	p.line(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

func (p printer) detail(format string, args ...any) {
	p.line("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func (p printer) file(path string) {
	p.line("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func (p printer) keyValue(key, value string) {
	p.line(styleKey.Render(key) + " " + StyleValue.Render(value))
}

func (p printer) nextStep(description, cmd string) {
	p.line(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// stats prints render statistics on a single line.
func (p printer) stats(elements, ops int, cached bool) {
	status, style := iconFresh, styleComputed
	if cached {
		status, style = iconCached, styleCached
	}
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d elements", elements)),
		StyleDim.Render(fmt.Sprintf("%d ops", ops)),
		style.Render(status),
	}
	p.line("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// board prints a scene summary: title, viewport and element counts by kind.
func (p printer) board(s whiteboard.Scene) {
	p.line(StyleTitle.Render(s.Title))
	zoom := s.Viewport.Zoom
	if zoom == 0 {
		zoom = 1
	}
	p.keyValue("zoom", fmt.Sprintf("%d%%", whiteboard.Viewport{Zoom: zoom}.Percent()))
	p.keyValue("pan", fmt.Sprintf("%g, %g", s.Viewport.Pan.X, s.Viewport.Pan.Y))

	counts := make(map[whiteboard.Kind]int)
	for _, e := range s.Elements {
		counts[e.Kind()]++
	}
	for _, k := range whiteboard.Kinds() {
		if n := counts[k]; n > 0 {
			p.keyValue(string(k), fmt.Sprint(n))
		}
	}
}

// statusLabel renders a save status in its colour.
func statusLabel(s whiteboard.SaveStatus) string {
	style, ok := statusStyles[s]
	if !ok {
		style = StyleDim
	}
	return style.Render(s.Label())
}
