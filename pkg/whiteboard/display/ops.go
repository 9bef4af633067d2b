package display

import "gonum.org/v1/gonum/spatial/r2"

// Layer groups display operations. Frames list operations layer by layer
// in the order below.
type Layer int

const (
	LayerGrid Layer = iota
	LayerElements
	LayerDraft
	LayerMinimap
	LayerOverlay
)

var layerNames = [...]string{"grid", "elements", "draft", "minimap", "overlay"}

func (l Layer) String() string {
	if l < 0 || int(l) >= len(layerNames) {
		return "unknown"
	}
	return layerNames[l]
}

// Style is the paint of a shape. Empty colours are not painted.
type Style struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
	Opacity     float64 // 0 means opaque
	Dashed      bool
}

// Alpha returns the effective opacity in [0, 1].
func (s Style) Alpha() float64 {
	if s.Opacity <= 0 || s.Opacity > 1 {
		return 1
	}
	return s.Opacity
}

// Meta is shared by every operation.
type Meta struct {
	Layer     Layer
	ElementID string // element the operation belongs to, if any
}

// Op is one drawing operation in screen coordinates. The set is closed:
// *Rect, *Line, *Polyline and *Text.
type Op interface {
	meta() Meta
}

// Rect is an axis-aligned, optionally rounded rectangle.
type Rect struct {
	Meta
	Box    r2.Box
	Radius float64
	Style
}

// Line is a straight segment, optionally ending in an arrowhead at To.
type Line struct {
	Meta
	From, To  r2.Vec
	Arrowhead bool
	Style
}

// Polyline is an open stroke through Points.
type Polyline struct {
	Meta
	Points []r2.Vec
	Style
}

// Text is a single line of text. Pos is the top-left corner of the line
// box; the baseline sits at Pos.Y + Size.
type Text struct {
	Meta
	Pos   r2.Vec
	Value string
	Size  float64
	Bold  bool
	Mono  bool
	Color string
}

func (o *Rect) meta() Meta     { return o.Meta }
func (o *Line) meta() Meta     { return o.Meta }
func (o *Polyline) meta() Meta { return o.Meta }
func (o *Text) meta() Meta     { return o.Meta }

// LayerOf returns the layer of op.
func LayerOf(op Op) Layer { return op.meta().Layer }

// ElementOf returns the element id op belongs to, if any.
func ElementOf(op Op) string { return op.meta().ElementID }

// Frame is the display list of one render pass.
type Frame struct {
	Width, Height float64
	Zoom          float64
	ZoomLabel     string
	Background    string
	Ops           []Op
}

// Layer returns the operations of one layer, in order.
func (f Frame) Layer(l Layer) []Op {
	var out []Op
	for _, op := range f.Ops {
		if LayerOf(op) == l {
			out = append(out, op)
		}
	}
	return out
}
