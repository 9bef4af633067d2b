package io

import (
	"encoding/json"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/visualnotes/visualnotes/pkg/errors"
	"github.com/visualnotes/visualnotes/pkg/whiteboard"
)

type document struct {
	Title    string    `json:"title"`
	Viewport viewport  `json:"viewport"`
	Elements []element `json:"elements"`
}

type viewport struct {
	Zoom float64 `json:"zoom"`
	Pan  point   `json:"pan"`
}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type element struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	X       float64         `json:"x"`
	Y       float64         `json:"y"`
	Width   float64         `json:"width"`
	Height  float64         `json:"height"`
	Content json.RawMessage `json:"content"`
}

type cardContent struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type stickyContent struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

type textContent struct {
	Text       string  `json:"text"`
	FontSize   float64 `json:"fontSize"`
	FontWeight string  `json:"fontWeight,omitempty"`
}

type pathContent struct {
	Points      []point `json:"points"`
	StrokeWidth float64 `json:"strokeWidth"`
	Color       string  `json:"color"`
}

type arrowContent struct {
	X1          float64 `json:"x1"`
	Y1          float64 `json:"y1"`
	X2          float64 `json:"x2"`
	Y2          float64 `json:"y2"`
	StrokeWidth float64 `json:"strokeWidth"`
	Color       string  `json:"color"`
}

func fromScene(s whiteboard.Scene) (document, error) {
	doc := document{
		Title:    s.Title,
		Viewport: viewport{Zoom: s.Viewport.Zoom, Pan: point{X: s.Viewport.Pan.X, Y: s.Viewport.Pan.Y}},
		Elements: make([]element, 0, len(s.Elements)),
	}
	for _, e := range s.Elements {
		var content any
		switch c := e.Content.(type) {
		case *whiteboard.CardContent:
			tags := c.Tags
			if tags == nil {
				tags = []string{}
			}
			content = cardContent{Title: c.Title, Description: c.Description, Tags: tags}
		case *whiteboard.StickyContent:
			content = stickyContent{Text: c.Text, Color: c.Color}
		case *whiteboard.TextContent:
			content = textContent{Text: c.Text, FontSize: c.FontSize, FontWeight: c.FontWeight}
		case *whiteboard.PathContent:
			pts := make([]point, len(c.Points))
			for i, p := range c.Points {
				pts[i] = point{X: p.X, Y: p.Y}
			}
			content = pathContent{Points: pts, StrokeWidth: c.StrokeWidth, Color: c.Color}
		case *whiteboard.ArrowContent:
			content = arrowContent{X1: c.X1, Y1: c.Y1, X2: c.X2, Y2: c.Y2, StrokeWidth: c.StrokeWidth, Color: c.Color}
		default:
			return document{}, errors.New(errors.ErrCodeInvalidElement, "element %q has no content", e.ID)
		}
		raw, err := json.Marshal(content)
		if err != nil {
			return document{}, errors.Wrap(errors.ErrCodeInternal, err, "element %q", e.ID)
		}
		doc.Elements = append(doc.Elements, element{
			ID: e.ID, Type: string(e.Kind()),
			X: e.X, Y: e.Y, Width: e.Width, Height: e.Height,
			Content: raw,
		})
	}
	return doc, nil
}

func (d document) toScene() (whiteboard.Scene, error) {
	s := whiteboard.Scene{
		Title:    d.Title,
		Viewport: whiteboard.Viewport{Zoom: d.Viewport.Zoom, Pan: r2.Vec{X: d.Viewport.Pan.X, Y: d.Viewport.Pan.Y}},
		Elements: make([]whiteboard.Element, 0, len(d.Elements)),
	}
	if s.Viewport.Zoom == 0 {
		s.Viewport = whiteboard.NewViewport()
	}
	s.Viewport.Zoom = whiteboard.ClampZoom(s.Viewport.Zoom)
	if s.Title == "" {
		s.Title = whiteboard.DefaultTitle
	}
	if err := errors.ValidateTitle(s.Title); err != nil {
		return whiteboard.Scene{}, err
	}

	seen := make(map[string]bool, len(d.Elements))
	for i, de := range d.Elements {
		if de.ID == "" {
			return whiteboard.Scene{}, errors.New(errors.ErrCodeInvalidElement, "element %d: missing id", i)
		}
		if seen[de.ID] {
			return whiteboard.Scene{}, errors.New(errors.ErrCodeInvalidElement, "element %d: duplicate id %q", i, de.ID)
		}
		seen[de.ID] = true

		e, err := de.toElement()
		if err != nil {
			return whiteboard.Scene{}, errors.Wrap(errors.GetCode(err), err, "element %q", de.ID)
		}
		s.Elements = append(s.Elements, e)
	}
	return s, nil
}

func (de element) toElement() (whiteboard.Element, error) {
	e := whiteboard.Element{ID: de.ID, X: de.X, Y: de.Y, Width: de.Width, Height: de.Height}
	for _, v := range []struct {
		name string
		val  float64
	}{{"width", de.Width}, {"height", de.Height}} {
		if err := errors.ValidateDimension(v.name, v.val); err != nil {
			return e, err
		}
	}
	if err := errors.ValidateCoordinate("x", de.X); err != nil {
		return e, err
	}
	if err := errors.ValidateCoordinate("y", de.Y); err != nil {
		return e, err
	}

	var color string
	switch whiteboard.Kind(de.Type) {
	case whiteboard.KindCard:
		var c cardContent
		if err := decodeContent(de.Content, &c); err != nil {
			return e, err
		}
		if c.Tags == nil {
			c.Tags = []string{}
		}
		e.Content = &whiteboard.CardContent{Title: c.Title, Description: c.Description, Tags: c.Tags}
	case whiteboard.KindSticky:
		var c stickyContent
		if err := decodeContent(de.Content, &c); err != nil {
			return e, err
		}
		if c.Color == "" {
			c.Color = whiteboard.DefaultStickyColor
		}
		color = c.Color
		e.Content = &whiteboard.StickyContent{Text: c.Text, Color: c.Color}
	case whiteboard.KindText:
		var c textContent
		if err := decodeContent(de.Content, &c); err != nil {
			return e, err
		}
		if c.FontSize <= 0 {
			c.FontSize = whiteboard.DefaultFontSize
		}
		if c.FontWeight == "" {
			c.FontWeight = whiteboard.DefaultFontWeight
		}
		e.Content = &whiteboard.TextContent{Text: c.Text, FontSize: c.FontSize, FontWeight: c.FontWeight}
	case whiteboard.KindPath:
		var c pathContent
		if err := decodeContent(de.Content, &c); err != nil {
			return e, err
		}
		if len(c.Points) < 2 {
			return e, errors.New(errors.ErrCodeInvalidElement, "path needs at least 2 points, got %d", len(c.Points))
		}
		pts := make([]r2.Vec, len(c.Points))
		for i, p := range c.Points {
			pts[i] = r2.Vec{X: p.X, Y: p.Y}
		}
		if c.Color == "" {
			c.Color = whiteboard.DefaultPathColor
		}
		color = c.Color
		e.Content = &whiteboard.PathContent{Points: pts, StrokeWidth: orDefault(c.StrokeWidth, whiteboard.DefaultStrokeWidth), Color: c.Color}
	case whiteboard.KindArrow:
		var c arrowContent
		if err := decodeContent(de.Content, &c); err != nil {
			return e, err
		}
		if c.Color == "" {
			c.Color = whiteboard.DefaultArrowColor
		}
		color = c.Color
		e.Content = &whiteboard.ArrowContent{X1: c.X1, Y1: c.Y1, X2: c.X2, Y2: c.Y2,
			StrokeWidth: orDefault(c.StrokeWidth, whiteboard.DefaultStrokeWidth), Color: c.Color}
	default:
		return e, errors.New(errors.ErrCodeInvalidElement, "unknown element type %q", de.Type)
	}
	if color != "" {
		if err := errors.ValidateColor(color); err != nil {
			return e, err
		}
	}
	if k := e.Kind(); k == whiteboard.KindPath || k == whiteboard.KindArrow {
		b := e.Bounds()
		size := b.Size()
		e.X, e.Y, e.Width, e.Height = b.Min.X, b.Min.Y, size.X, size.Y
	}
	return e, nil
}

func decodeContent(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return errors.New(errors.ErrCodeInvalidElement, "missing content")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidElement, err, "decode content")
	}
	return nil
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}
