package display

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/visualnotes/visualnotes/pkg/whiteboard"
)

// Canvas and chrome dimensions, in screen pixels.
const (
	DefaultWidth  = 1280
	DefaultHeight = 800

	GridSpacing    = 20  // logical spacing between grid lines
	MinGridSpacing = 5   // screen spacing below which grid density halves
	MinimapWidth   = 192 // minimap panel size
	MinimapHeight  = 128
	MinimapScale   = 0.1 // minimap pixels per logical unit
	PanelMargin    = 16  // distance of minimap and indicator from the edges
	minimapMinSize = 20  // logical size used for zero-sized elements

	draftStrokeWidth = 2
	charWidth        = 0.55 // average glyph advance as a fraction of font size
	lineHeight       = 1.4
)

// Option configures a render pass.
type Option func(*builder)

type builder struct {
	width, height float64
	grid          bool
	minimap       bool
	indicator     bool
	theme         Theme
}

// WithSize sets the canvas size in screen pixels.
func WithSize(w, h float64) Option {
	return func(b *builder) { b.width, b.height = w, h }
}

// WithGrid toggles the grid background.
func WithGrid(on bool) Option { return func(b *builder) { b.grid = on } }

// WithMinimap toggles the minimap panel.
func WithMinimap(on bool) Option { return func(b *builder) { b.minimap = on } }

// WithZoomIndicator toggles the zoom percentage panel.
func WithZoomIndicator(on bool) Option { return func(b *builder) { b.indicator = on } }

// WithTheme sets the palette.
func WithTheme(t Theme) Option { return func(b *builder) { b.theme = t } }

// Build runs the render pass over a scene. It is a pure function: the
// scene is not modified and equal inputs produce equal frames.
//
// Operations are emitted in layer order: grid, elements (in z-order), the
// in-progress stroke, the minimap, and the zoom indicator.
func Build(scene whiteboard.Scene, opts ...Option) Frame {
	b := builder{
		width: DefaultWidth, height: DefaultHeight,
		grid: true, minimap: true, indicator: true,
		theme: Light,
	}
	for _, opt := range opts {
		opt(&b)
	}

	vp := scene.Viewport
	if vp.Zoom == 0 {
		vp = whiteboard.NewViewport()
	}

	f := Frame{
		Width:      b.width,
		Height:     b.height,
		Zoom:       vp.Zoom,
		ZoomLabel:  strconv.Itoa(vp.Percent()) + "%",
		Background: b.theme.Background,
	}
	if b.grid {
		f.Ops = append(f.Ops, b.gridOps(vp)...)
	}
	for _, e := range scene.Elements {
		f.Ops = append(f.Ops, b.elementOps(e, vp, e.ID == scene.Selected && e.ID != "")...)
	}
	if len(scene.Draft) > 1 {
		f.Ops = append(f.Ops, &Polyline{
			Meta:   Meta{Layer: LayerDraft},
			Points: toScreen(scene.Draft, vp),
			Style:  Style{Stroke: b.theme.Draft, StrokeWidth: draftStrokeWidth},
		})
	}
	if b.minimap {
		f.Ops = append(f.Ops, b.minimapOps(scene.Elements, vp)...)
	}
	if b.indicator {
		f.Ops = append(f.Ops, b.indicatorOps(f.ZoomLabel)...)
	}
	return f
}

// =============================================================================
// Grid
// =============================================================================

// GridStep returns the screen spacing of grid lines at the given zoom.
func GridStep(zoom float64) float64 {
	step := GridSpacing * zoom
	for step < MinGridSpacing {
		step *= 2
	}
	return step
}

func (b *builder) gridOps(vp whiteboard.Viewport) []Op {
	step := GridStep(vp.Zoom)
	style := Style{Stroke: b.theme.Grid, StrokeWidth: 1, Opacity: b.theme.GridOpacity}
	var ops []Op
	for x := phase(vp.Pan.X, step); x <= b.width; x += step {
		ops = append(ops, &Line{
			Meta: Meta{Layer: LayerGrid},
			From: r2.Vec{X: x}, To: r2.Vec{X: x, Y: b.height},
			Style: style,
		})
	}
	for y := phase(vp.Pan.Y, step); y <= b.height; y += step {
		ops = append(ops, &Line{
			Meta: Meta{Layer: LayerGrid},
			From: r2.Vec{Y: y}, To: r2.Vec{X: b.width, Y: y},
			Style: style,
		})
	}
	return ops
}

// phase returns offset modulo step in [0, step).
func phase(offset, step float64) float64 {
	p := math.Mod(offset, step)
	if p < 0 {
		p += step
	}
	return p
}

// =============================================================================
// Elements
// =============================================================================

func (b *builder) elementOps(e whiteboard.Element, vp whiteboard.Viewport, selected bool) []Op {
	z := vp.Zoom
	meta := Meta{Layer: LayerElements, ElementID: e.ID}
	box := screenBox(e.Bounds(), vp)
	t := b.theme

	var ops []Op
	switch c := e.Content.(type) {
	case *whiteboard.CardContent:
		ops = append(ops, &Rect{Meta: meta, Box: box, Radius: 8 * z,
			Style: Style{Fill: t.CardFill, Stroke: t.CardBorder, StrokeWidth: 1}})
		inner := inset(box, 16*z)
		ops = append(ops, &Rect{Meta: meta, Box: inner, Radius: 4 * z,
			Style: Style{Fill: t.CardInner}})
		content := inset(inner, 12*z)
		tb := textBlock{meta: meta, box: content}
		tb.add(c.Title, 16*z, true, t.CardTitle)
		tb.gap(8 * z)
		tb.add(c.Description, 14*z, false, t.CardText)
		tb.gap(8 * z)
		ops = append(ops, tb.ops...)
		ops = append(ops, tagOps(meta, c.Tags, r2.Vec{X: content.Min.X, Y: tb.y}, content, z, t)...)

	case *whiteboard.StickyContent:
		ops = append(ops, &Rect{Meta: meta, Box: box, Radius: 8 * z,
			Style: Style{Fill: c.Color, Stroke: t.StickyBorder, StrokeWidth: 1}})
		tb := textBlock{meta: meta, box: inset(box, 12*z)}
		tb.add(c.Text, 14*z, false, t.StickyText)
		ops = append(ops, tb.ops...)

	case *whiteboard.TextContent:
		tb := textBlock{meta: meta, box: box}
		tb.add(c.Text, c.FontSize*z, isBold(c.FontWeight), t.Text)
		ops = append(ops, tb.ops...)

	case *whiteboard.PathContent:
		ops = append(ops, &Polyline{Meta: meta, Points: toScreen(c.Points, vp),
			Style: Style{Stroke: c.Color, StrokeWidth: c.StrokeWidth * z}})

	case *whiteboard.ArrowContent:
		ops = append(ops, &Line{Meta: meta,
			From: vp.ToScreen(c.From()), To: vp.ToScreen(c.To()), Arrowhead: true,
			Style: Style{Stroke: c.Color, StrokeWidth: c.StrokeWidth * z}})
	}

	if selected {
		ops = append(ops, &Rect{Meta: meta, Box: inset(box, -4), Radius: 4,
			Style: Style{Stroke: t.Selection, StrokeWidth: 2, Dashed: true}})
	}
	return ops
}

func tagOps(meta Meta, tags []string, at r2.Vec, bounds r2.Box, z float64, t Theme) []Op {
	var ops []Op
	size := 12 * z
	pad := r2.Vec{X: 8 * z, Y: 4 * z}
	x, y := at.X, at.Y
	for _, tag := range tags {
		w := textWidth(tag, size) + 2*pad.X
		h := size + 2*pad.Y
		if x+w > bounds.Max.X && x > bounds.Min.X {
			x = bounds.Min.X
			y += h + 4*z
		}
		if y+h > bounds.Max.Y {
			break
		}
		ops = append(ops,
			&Rect{Meta: meta, Box: r2.Box{Min: r2.Vec{X: x, Y: y}, Max: r2.Vec{X: x + w, Y: y + h}},
				Radius: 4 * z, Style: Style{Fill: t.TagFill}},
			&Text{Meta: meta, Pos: r2.Vec{X: x + pad.X, Y: y + pad.Y}, Value: tag, Size: size, Color: t.TagText},
		)
		x += w + 4*z
	}
	return ops
}

// textBlock lays out wrapped text top to bottom inside box, dropping lines
// that overflow it.
type textBlock struct {
	meta Meta
	box  r2.Box
	y    float64
	ops  []Op
	init bool
}

func (tb *textBlock) add(s string, size float64, bold bool, color string) {
	if !tb.init {
		tb.y = tb.box.Min.Y
		tb.init = true
	}
	if s == "" || size <= 0 {
		return
	}
	width := tb.box.Max.X - tb.box.Min.X
	for _, line := range Wrap(s, width, size) {
		if tb.y+size > tb.box.Max.Y && len(tb.ops) > 0 {
			return
		}
		tb.ops = append(tb.ops, &Text{Meta: tb.meta, Pos: r2.Vec{X: tb.box.Min.X, Y: tb.y},
			Value: line, Size: size, Bold: bold, Color: color})
		tb.y += size * lineHeight
	}
}

func (tb *textBlock) gap(h float64) {
	if tb.init {
		tb.y += h
	}
}

// Wrap splits s into lines that fit width at the given font size. Existing
// newlines are kept; words longer than a line are not broken.
func Wrap(s string, width, size float64) []string {
	maxChars := int(width / (size * charWidth))
	if maxChars < 1 {
		maxChars = 1
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len([]rune(line))+1+len([]rune(w)) > maxChars {
				lines = append(lines, line)
				line = w
				continue
			}
			line += " " + w
		}
		lines = append(lines, line)
	}
	return lines
}

func textWidth(s string, size float64) float64 {
	return float64(len([]rune(s))) * size * charWidth
}

func isBold(weight string) bool {
	switch weight {
	case "bold", "bolder", "600", "700", "800", "900":
		return true
	}
	return false
}

// =============================================================================
// Minimap and indicator
// =============================================================================

// MinimapBox returns the screen rectangle of the minimap panel.
func MinimapBox(width, height float64) r2.Box {
	hi := r2.Vec{X: width - PanelMargin, Y: height - PanelMargin}
	return r2.Box{Min: r2.Vec{X: hi.X - MinimapWidth, Y: hi.Y - MinimapHeight}, Max: hi}
}

func (b *builder) minimapOps(elems []whiteboard.Element, vp whiteboard.Viewport) []Op {
	t := b.theme
	panel := MinimapBox(b.width, b.height)
	meta := Meta{Layer: LayerMinimap}
	ops := []Op{&Rect{Meta: meta, Box: panel, Radius: 8,
		Style: Style{Fill: t.MinimapFill, Stroke: t.PanelBorder, StrokeWidth: 1}}}

	for _, e := range elems {
		lb := e.Bounds()
		size := lb.Size()
		lb.Max.X = lb.Min.X + math.Max(size.X, minimapMinSize)
		lb.Max.Y = lb.Min.Y + math.Max(size.Y, minimapMinSize)
		if box, ok := clip(minimapBox(lb, panel), panel); ok {
			ops = append(ops, &Rect{Meta: Meta{Layer: LayerMinimap, ElementID: e.ID}, Box: box, Radius: 1,
				Style: Style{Fill: t.MinimapMarker, Opacity: 0.6}})
		}
	}

	visible := vp.VisibleArea(r2.Vec{X: b.width, Y: b.height})
	if box, ok := clip(minimapBox(visible, panel), panel); ok {
		ops = append(ops, &Rect{Meta: meta, Box: box, Radius: 2,
			Style: Style{Fill: t.MinimapMarker, Stroke: t.MinimapMarker, StrokeWidth: 2, Opacity: 0.2}})
	}
	return ops
}

func minimapBox(logical r2.Box, panel r2.Box) r2.Box {
	return r2.Box{
		Min: r2.Add(panel.Min, r2.Scale(MinimapScale, logical.Min)),
		Max: r2.Add(panel.Min, r2.Scale(MinimapScale, logical.Max)),
	}
}

func (b *builder) indicatorOps(label string) []Op {
	t := b.theme
	meta := Meta{Layer: LayerOverlay}
	const size = 14
	w := textWidth(label, size) + 24
	h := size + 16.0
	box := r2.Box{
		Min: r2.Vec{X: PanelMargin, Y: b.height - PanelMargin - h},
		Max: r2.Vec{X: PanelMargin + w, Y: b.height - PanelMargin},
	}
	return []Op{
		&Rect{Meta: meta, Box: box, Radius: 8,
			Style: Style{Fill: t.PanelFill, Stroke: t.PanelBorder, StrokeWidth: 1}},
		&Text{Meta: meta, Pos: r2.Vec{X: box.Min.X + 12, Y: box.Min.Y + 8},
			Value: label, Size: size, Mono: true, Color: t.PanelText},
	}
}

// =============================================================================
// Geometry helpers
// =============================================================================

func screenBox(b r2.Box, vp whiteboard.Viewport) r2.Box {
	return r2.Box{Min: vp.ToScreen(b.Min), Max: vp.ToScreen(b.Max)}
}

func toScreen(pts []r2.Vec, vp whiteboard.Viewport) []r2.Vec {
	out := make([]r2.Vec, len(pts))
	for i, p := range pts {
		out[i] = vp.ToScreen(p)
	}
	return out
}

// inset shrinks b by d on every side; negative d grows it.
func inset(b r2.Box, d float64) r2.Box {
	out := r2.Box{
		Min: r2.Vec{X: b.Min.X + d, Y: b.Min.Y + d},
		Max: r2.Vec{X: b.Max.X - d, Y: b.Max.Y - d},
	}
	if out.Max.X < out.Min.X {
		out.Max.X = out.Min.X
	}
	if out.Max.Y < out.Min.Y {
		out.Max.Y = out.Min.Y
	}
	return out
}

// clip intersects b with bounds. It reports false when nothing is left.
func clip(b, bounds r2.Box) (r2.Box, bool) {
	out := r2.Box{
		Min: r2.Vec{X: math.Max(b.Min.X, bounds.Min.X), Y: math.Max(b.Min.Y, bounds.Min.Y)},
		Max: r2.Vec{X: math.Min(b.Max.X, bounds.Max.X), Y: math.Min(b.Max.Y, bounds.Max.Y)},
	}
	if out.Min.X >= out.Max.X || out.Min.Y >= out.Max.Y {
		return r2.Box{}, false
	}
	return out, true
}

// String summarises a frame for debug logs.
func (f Frame) String() string {
	counts := make([]int, len(layerNames))
	for _, op := range f.Ops {
		if l := LayerOf(op); int(l) < len(counts) {
			counts[l]++
		}
	}
	parts := make([]string, len(counts))
	for i, n := range counts {
		parts[i] = fmt.Sprintf("%s=%d", Layer(i), n)
	}
	return fmt.Sprintf("frame %gx%g zoom=%s [%s]", f.Width, f.Height, f.ZoomLabel, strings.Join(parts, " "))
}
