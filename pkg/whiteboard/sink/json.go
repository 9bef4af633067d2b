package sink

import (
	"encoding/json"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/visualnotes/visualnotes/pkg/whiteboard/display"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	compact bool
	title   string
}

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

// WithJSONTitle records the board title in the output.
func WithJSONTitle(t string) JSONOption { return func(r *jsonRenderer) { r.title = t } }

type jsonFrame struct {
	Title      string   `json:"title,omitempty"`
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
	Zoom       float64  `json:"zoom"`
	ZoomLabel  string   `json:"zoom_label"`
	Background string   `json:"background,omitempty"`
	Ops        []jsonOp `json:"ops"`
}

// jsonOp is the union of all operation fields, discriminated by Op.
type jsonOp struct {
	Op      string `json:"op"` // "rect", "line", "polyline" or "text"
	Layer   string `json:"layer"`
	Element string `json:"element,omitempty"`

	Box       *jsonBox    `json:"box,omitempty"`
	Radius    float64     `json:"radius,omitempty"`
	From      *jsonPoint  `json:"from,omitempty"`
	To        *jsonPoint  `json:"to,omitempty"`
	Arrowhead bool        `json:"arrowhead,omitempty"`
	Points    []jsonPoint `json:"points,omitempty"`

	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`
	Dashed      bool    `json:"dashed,omitempty"`

	Pos   *jsonPoint `json:"pos,omitempty"`
	Text  string     `json:"text,omitempty"`
	Size  float64    `json:"size,omitempty"`
	Bold  bool       `json:"bold,omitempty"`
	Mono  bool       `json:"mono,omitempty"`
	Color string     `json:"color,omitempty"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type jsonBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RenderJSON exports the display list. External tools can replay the
// operations without linking this module.
func RenderJSON(f display.Frame, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonFrame{
		Title:      r.title,
		Width:      f.Width,
		Height:     f.Height,
		Zoom:       f.Zoom,
		ZoomLabel:  f.ZoomLabel,
		Background: f.Background,
		Ops:        make([]jsonOp, 0, len(f.Ops)),
	}
	for _, op := range f.Ops {
		out.Ops = append(out.Ops, toJSONOp(op))
	}

	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}

func toJSONOp(op display.Op) jsonOp {
	jo := jsonOp{Layer: display.LayerOf(op).String(), Element: display.ElementOf(op)}
	setStyle := func(s display.Style) {
		jo.Fill, jo.Stroke, jo.StrokeWidth, jo.Dashed = s.Fill, s.Stroke, s.StrokeWidth, s.Dashed
		if s.Alpha() < 1 {
			jo.Opacity = s.Alpha()
		}
	}

	switch o := op.(type) {
	case *display.Rect:
		jo.Op = "rect"
		size := o.Box.Size()
		jo.Box = &jsonBox{X: o.Box.Min.X, Y: o.Box.Min.Y, Width: size.X, Height: size.Y}
		jo.Radius = o.Radius
		setStyle(o.Style)
	case *display.Line:
		jo.Op = "line"
		jo.From, jo.To = point(o.From), point(o.To)
		jo.Arrowhead = o.Arrowhead
		setStyle(o.Style)
	case *display.Polyline:
		jo.Op = "polyline"
		jo.Points = make([]jsonPoint, len(o.Points))
		for i, p := range o.Points {
			jo.Points[i] = *point(p)
		}
		setStyle(o.Style)
	case *display.Text:
		jo.Op = "text"
		jo.Pos = point(o.Pos)
		jo.Text, jo.Size, jo.Bold, jo.Mono, jo.Color = o.Value, o.Size, o.Bold, o.Mono, o.Color
	}
	return jo
}

func point(v r2.Vec) *jsonPoint { return &jsonPoint{X: v.X, Y: v.Y} }
