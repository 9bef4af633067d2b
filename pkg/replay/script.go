// Package replay drives a whiteboard from a YAML script of input events.
//
// Scripts make boards reproducible: the CLI renders them, the HTTP server
// accepts them, and tests use them as fixtures. A script is a title, an
// optional canvas size, and an ordered list of steps. Each step carries
// exactly one action:
//
//	title: Sprint planning
//	canvas: {width: 1280, height: 720}
//	steps:
//	  - tool: pen
//	  - drag: [[200, 200], [220, 210], [240, 205]]
//	  - tool: sticky
//	  - down: [400, 120]
//	  - up: [400, 120]
//	  - edit: {element: 1, text: "Ship it", color: "#FFD6A5"}
//	  - wheel: -100
//	  - undo: true
//
// Points are written as [x, y] or {x: .., y: ..} in screen pixels. Edit and
// select address elements by id (a quoted string) or by store index (an
// integer, negative counts from the end).
package replay

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/visualnotes/visualnotes/pkg/errors"
	"github.com/visualnotes/visualnotes/pkg/whiteboard"
)

// Script is a parsed replay script.
type Script struct {
	Title  string `yaml:"title,omitempty"`
	Canvas Canvas `yaml:"canvas,omitempty"`
	Steps  []Step `yaml:"steps"`
}

// Canvas is the screen size the script was recorded against. Zero values
// mean the renderer's defaults.
type Canvas struct {
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`
}

// Step is one scripted action. Exactly one field is set.
type Step struct {
	Tool   string   `yaml:"tool,omitempty"`
	Down   *Point   `yaml:"down,omitempty"`
	Move   []Point  `yaml:"move,omitempty"`
	Up     *Point   `yaml:"up,omitempty"`
	Drag   []Point  `yaml:"drag,omitempty"`
	Leave  bool     `yaml:"leave,omitempty"`
	Wheel  *float64 `yaml:"wheel,omitempty"`
	Zoom   *float64 `yaml:"zoom,omitempty"`
	Pan    *Point   `yaml:"pan,omitempty"`
	Edit   *Edit    `yaml:"edit,omitempty"`
	Select *Ref     `yaml:"select,omitempty"`
	Undo   bool     `yaml:"undo,omitempty"`
	Redo   bool     `yaml:"redo,omitempty"`
	SetTo  *string  `yaml:"title,omitempty"`
}

// Action returns the name of the action the step carries, or "" when it
// carries none.
func (s Step) Action() string {
	names := s.actions()
	if len(names) != 1 {
		return ""
	}
	return names[0]
}

func (s Step) actions() []string {
	var names []string
	add := func(set bool, name string) {
		if set {
			names = append(names, name)
		}
	}
	add(s.Tool != "", "tool")
	add(s.Down != nil, "down")
	add(len(s.Move) > 0, "move")
	add(s.Up != nil, "up")
	add(len(s.Drag) > 0, "drag")
	add(s.Leave, "leave")
	add(s.Wheel != nil, "wheel")
	add(s.Zoom != nil, "zoom")
	add(s.Pan != nil, "pan")
	add(s.Edit != nil, "edit")
	add(s.Select != nil, "select")
	add(s.Undo, "undo")
	add(s.Redo, "redo")
	add(s.SetTo != nil, "title")
	return names
}

// Point is a screen position. In YAML it is [x, y] or {x: .., y: ..}; an
// optional third element or a button key selects the pointer button.
type Point struct {
	X, Y   float64
	Button whiteboard.Button
}

// Vec returns p as a vector.
func (p Point) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// Event returns the pointer event at p.
func (p Point) Event() whiteboard.PointerEvent {
	return whiteboard.PointerEvent{Pos: p.Vec(), Button: p.Button}
}

var buttons = map[string]whiteboard.Button{
	"primary":   whiteboard.ButtonPrimary,
	"secondary": whiteboard.ButtonSecondary,
	"middle":    whiteboard.ButtonMiddle,
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Point) UnmarshalYAML(n *yaml.Node) error {
	var button string
	switch n.Kind {
	case yaml.SequenceNode:
		vals := n.Content
		if len(vals) < 2 || len(vals) > 3 {
			return fmt.Errorf("line %d: point needs [x, y] or [x, y, button]", n.Line)
		}
		if err := vals[0].Decode(&p.X); err != nil {
			return err
		}
		if err := vals[1].Decode(&p.Y); err != nil {
			return err
		}
		if len(vals) == 3 {
			button = vals[2].Value
		}
	case yaml.MappingNode:
		var raw struct {
			X      float64 `yaml:"x"`
			Y      float64 `yaml:"y"`
			Button string  `yaml:"button"`
		}
		if err := n.Decode(&raw); err != nil {
			return err
		}
		p.X, p.Y, button = raw.X, raw.Y, raw.Button
	default:
		return fmt.Errorf("line %d: point must be a sequence or a mapping", n.Line)
	}
	if button != "" {
		b, ok := buttons[button]
		if !ok {
			return fmt.Errorf("line %d: unknown button %q", n.Line, button)
		}
		p.Button = b
	}
	return nil
}

// Ref addresses an element by id or by store index.
type Ref struct {
	ID    string
	Index int
	ByID  bool
}

// UnmarshalYAML implements yaml.Unmarshaler. Integers are indexes, every
// other scalar is an id.
func (r *Ref) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: element reference must be an id or an index", n.Line)
	}
	if n.Tag == "!!int" {
		i, err := strconv.Atoi(n.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		*r = Ref{Index: i}
		return nil
	}
	*r = Ref{ID: n.Value, ByID: true}
	return nil
}

func (r Ref) String() string {
	if r.ByID {
		return strconv.Quote(r.ID)
	}
	return "#" + strconv.Itoa(r.Index)
}

// Edit is a property edit on one element.
type Edit struct {
	Element Ref `yaml:"element"`

	X      *float64 `yaml:"x,omitempty"`
	Y      *float64 `yaml:"y,omitempty"`
	Width  *float64 `yaml:"width,omitempty"`
	Height *float64 `yaml:"height,omitempty"`

	Title       *string   `yaml:"title,omitempty"`
	Description *string   `yaml:"description,omitempty"`
	Tags        *[]string `yaml:"tags,omitempty"`
	Text        *string   `yaml:"text,omitempty"`
	Color       *string   `yaml:"color,omitempty"`
	FontSize    *float64  `yaml:"fontSize,omitempty"`
	FontWeight  *string   `yaml:"fontWeight,omitempty"`
	StrokeWidth *float64  `yaml:"strokeWidth,omitempty"`

	X1 *float64 `yaml:"x1,omitempty"`
	Y1 *float64 `yaml:"y1,omitempty"`
	X2 *float64 `yaml:"x2,omitempty"`
	Y2 *float64 `yaml:"y2,omitempty"`
}

// Patch returns the edit as a board patch.
func (e Edit) Patch() whiteboard.Patch {
	return whiteboard.Patch{
		X: e.X, Y: e.Y, Width: e.Width, Height: e.Height,
		Title: e.Title, Description: e.Description, Tags: e.Tags,
		Text: e.Text, Color: e.Color,
		FontSize: e.FontSize, FontWeight: e.FontWeight, StrokeWidth: e.StrokeWidth,
		X1: e.X1, Y1: e.Y1, X2: e.X2, Y2: e.Y2,
	}
}

// =============================================================================
// Parsing
// =============================================================================

// Parse decodes and validates a script. Unknown keys are rejected.
func Parse(data []byte) (*Script, error) {
	return Read(bytes.NewReader(data))
}

// Read decodes and validates a script from r.
func Read(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeInvalidScript, "empty script")
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidScript, err, "decode script")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads a script file.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "script %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Validate checks the script without running it.
func (s *Script) Validate() error {
	if s.Title != "" {
		if err := errors.ValidateTitle(s.Title); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScript, err, "title")
		}
	}
	if s.Canvas.Width < 0 || s.Canvas.Height < 0 {
		return errors.New(errors.ErrCodeInvalidScript, "canvas size must not be negative")
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScript, err, "step %d", i+1)
		}
	}
	return nil
}

func (s Step) validate() error {
	names := s.actions()
	switch len(names) {
	case 0:
		return fmt.Errorf("no action")
	case 1:
	default:
		return fmt.Errorf("several actions %v", names)
	}
	if s.Tool != "" {
		if _, err := whiteboard.ParseTool(s.Tool); err != nil {
			return err
		}
	}
	if s.Zoom != nil && *s.Zoom <= 0 {
		return fmt.Errorf("zoom must be positive, got %g", *s.Zoom)
	}
	if s.Edit != nil {
		if err := s.Edit.Patch().Validate(); err != nil {
			return err
		}
	}
	return nil
}
