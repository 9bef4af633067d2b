package sink

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/visualnotes/visualnotes/pkg/whiteboard/display"
)

// Default cell size in screen pixels for text rendering.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// TextOption configures text rendering.
type TextOption func(*textRenderer)

type textRenderer struct {
	cols, rows int
	grid       [][]rune
	cw, ch     float64
}

// WithCells fixes the size of the character grid. The frame is scaled to fit.
func WithCells(cols, rows int) TextOption {
	return func(r *textRenderer) { r.cols, r.rows = cols, rows }
}

// RenderText draws the frame on a character grid with box-drawing runes,
// one line per row. The grid layer and fill-only shapes outside the minimap
// are omitted.
func RenderText(f display.Frame, opts ...TextOption) []byte {
	return []byte(strings.Join(TextLines(f, opts...), "\n") + "\n")
}

// TextLines is RenderText without joining the rows.
func TextLines(f display.Frame, opts ...TextOption) []string {
	r := textRenderer{
		cols: int(math.Ceil(f.Width / DefaultCellWidth)),
		rows: int(math.Ceil(f.Height / DefaultCellHeight)),
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.cols <= 0 || r.rows <= 0 {
		return nil
	}
	r.cw, r.ch = f.Width/float64(r.cols), f.Height/float64(r.rows)
	r.grid = make([][]rune, r.rows)
	for i := range r.grid {
		r.grid[i] = []rune(strings.Repeat(" ", r.cols))
	}

	for _, op := range f.Ops {
		if display.LayerOf(op) == display.LayerGrid {
			continue
		}
		r.draw(op)
	}

	lines := make([]string, r.rows)
	for i, row := range r.grid {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	return lines
}

func (r *textRenderer) draw(op display.Op) {
	switch o := op.(type) {
	case *display.Rect:
		switch {
		case o.Stroke != "" && o.StrokeWidth > 0:
			r.box(o.Box, o.Dashed)
		case o.Fill != "" && display.LayerOf(o) == display.LayerMinimap:
			r.fill(o.Box, '░')
		}

	case *display.Line:
		r.line(o.From, o.To, 0)
		if o.Arrowhead {
			c, row := r.cell(o.To)
			r.set(c, row, arrowRune(r2.Sub(o.To, o.From)))
		}

	case *display.Polyline:
		if len(o.Points) == 1 {
			c, row := r.cell(o.Points[0])
			r.set(c, row, '•')
		}
		for i := 1; i < len(o.Points); i++ {
			r.line(o.Points[i-1], o.Points[i], '•')
		}

	case *display.Text:
		runes := []rune(o.Value)
		start := math.Floor(o.Pos.X / r.cw)
		if start >= float64(r.cols) || start+float64(len(runes)) <= 0 {
			return
		}
		_, row := r.cell(r2.Vec{X: o.Pos.X, Y: o.Pos.Y + o.Size/2})
		for i, ch := range runes {
			r.set(int(start)+i, row, ch)
		}
	}
}

// cell maps a screen point to a grid cell. Points off the grid land on the
// ring of cells just outside it, so callers never walk past the grid.
func (r *textRenderer) cell(p r2.Vec) (int, int) {
	c := math.Max(-1, math.Min(float64(r.cols), math.Floor(p.X/r.cw)))
	row := math.Max(-1, math.Min(float64(r.rows), math.Floor(p.Y/r.ch)))
	if math.IsNaN(c) || math.IsNaN(row) {
		return -1, -1
	}
	return int(c), int(row)
}

// clip trims the segment to the grid plus a half-cell margin
// (Liang-Barsky), so clipped ends still fall on the ring cells and keep
// their slope. ok is false when nothing of it is visible.
func (r *textRenderer) clip(from, to r2.Vec) (a, b r2.Vec, ok bool) {
	minX, minY := -r.cw/2, -r.ch/2
	maxX, maxY := (float64(r.cols)+0.5)*r.cw, (float64(r.rows)+0.5)*r.ch
	d := r2.Sub(to, from)
	t0, t1 := 0.0, 1.0
	for _, e := range [4][2]float64{
		{-d.X, from.X - minX},
		{d.X, maxX - from.X},
		{-d.Y, from.Y - minY},
		{d.Y, maxY - from.Y},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = math.Max(t0, t)
		} else {
			t1 = math.Min(t1, t)
		}
		if t0 > t1 {
			return a, b, false
		}
	}
	return r2.Add(from, r2.Scale(t0, d)), r2.Add(from, r2.Scale(t1, d)), true
}

func (r *textRenderer) set(c, row int, ch rune) {
	if row < 0 || row >= r.rows || c < 0 || c >= r.cols {
		return
	}
	r.grid[row][c] = ch
}

func (r *textRenderer) box(b r2.Box, dashed bool) {
	c0, r0 := r.cell(b.Min)
	c1, r1 := r.cell(b.Max)
	h, v := '─', '│'
	if dashed {
		h, v = '┄', '┆'
	}
	for c := c0 + 1; c < c1; c++ {
		r.set(c, r0, h)
		r.set(c, r1, h)
	}
	for row := r0 + 1; row < r1; row++ {
		r.set(c0, row, v)
		r.set(c1, row, v)
	}
	r.set(c0, r0, '┌')
	r.set(c1, r0, '┐')
	r.set(c0, r1, '└')
	r.set(c1, r1, '┘')
}

func (r *textRenderer) fill(b r2.Box, ch rune) {
	c0, r0 := r.cell(b.Min)
	c1, r1 := r.cell(b.Max)
	for row := r0; row <= r1; row++ {
		for c := c0; c <= c1; c++ {
			r.set(c, row, ch)
		}
	}
}

// line walks the cells between from and to (Bresenham). A zero rune picks
// a stroke rune from the line direction.
func (r *textRenderer) line(from, to r2.Vec, ch rune) {
	if ch == 0 {
		// Direction comes from the whole segment, before clipping.
		ch = lineRune(
			math.Floor(to.X/r.cw)-math.Floor(from.X/r.cw),
			math.Floor(to.Y/r.ch)-math.Floor(from.Y/r.ch),
		)
	}
	from, to, ok := r.clip(from, to)
	if !ok {
		return
	}
	c0, r0 := r.cell(from)
	c1, r1 := r.cell(to)
	dc, dr := abs(c1-c0), -abs(r1-r0)
	sc, sr := sign(c1-c0), sign(r1-r0)
	e := dc + dr
	for {
		r.set(c0, r0, ch)
		if c0 == c1 && r0 == r1 {
			return
		}
		e2 := 2 * e
		if e2 >= dr {
			e += dr
			c0 += sc
		}
		if e2 <= dc {
			e += dc
			r0 += sr
		}
	}
}

// lineRune picks a stroke rune from a cell delta.
func lineRune(dc, dr float64) rune {
	switch {
	case dr == 0:
		return '─'
	case dc == 0:
		return '│'
	case math.Abs(dc) > 2*math.Abs(dr):
		return '─'
	case math.Abs(dr) > 2*math.Abs(dc):
		return '│'
	case (dc > 0) == (dr > 0):
		return '╲'
	default:
		return '╱'
	}
}

func arrowRune(d r2.Vec) rune {
	if math.Abs(d.X) >= math.Abs(d.Y) {
		if d.X < 0 {
			return '◀'
		}
		return '▶'
	}
	if d.Y < 0 {
		return '▲'
	}
	return '▼'
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
