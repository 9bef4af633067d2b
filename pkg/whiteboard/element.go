package whiteboard

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// Kind identifies the variant of an element.
type Kind string

// Element kinds.
const (
	KindCard   Kind = "card"
	KindSticky Kind = "sticky"
	KindText   Kind = "text"
	KindPath   Kind = "path"
	KindArrow  Kind = "arrow"
)

// Kinds returns every element kind.
func Kinds() []Kind {
	return []Kind{KindCard, KindSticky, KindText, KindPath, KindArrow}
}

// Defaults for elements created by pointer gestures.
const (
	DefaultTextWidth    = 200
	DefaultTextHeight   = 40
	DefaultText         = "New text"
	DefaultFontSize     = 16
	DefaultFontWeight   = "normal"
	DefaultStickyWidth  = 200
	DefaultStickyHeight = 120
	DefaultStickyText   = "New note"
	DefaultStickyColor  = "#FEF3C7"
	DefaultCardWidth    = 280
	DefaultCardHeight   = 160
	DefaultCardTitle    = "New card"
	DefaultStrokeWidth  = 2
	DefaultPathColor    = "#000000"
	DefaultArrowColor   = "#4A9B8E"
)

// Content is the kind-specific payload of an element. It is a closed set:
// only the types in this package implement it, and every switch over it
// handles all five.
type Content interface {
	Kind() Kind
	clone() Content
}

// CardContent is a titled card with a description and tags.
type CardContent struct {
	Title       string
	Description string
	Tags        []string
}

// StickyContent is a coloured sticky note.
type StickyContent struct {
	Text  string
	Color string
}

// TextContent is a free-standing text run.
type TextContent struct {
	Text       string
	FontSize   float64
	FontWeight string
}

// PathContent is a freehand stroke in logical coordinates.
type PathContent struct {
	Points      []r2.Vec
	StrokeWidth float64
	Color       string
}

// ArrowContent is a straight arrow from (X1,Y1) to (X2,Y2).
type ArrowContent struct {
	X1, Y1, X2, Y2 float64
	StrokeWidth    float64
	Color          string
}

func (*CardContent) Kind() Kind   { return KindCard }
func (*StickyContent) Kind() Kind { return KindSticky }
func (*TextContent) Kind() Kind   { return KindText }
func (*PathContent) Kind() Kind   { return KindPath }
func (*ArrowContent) Kind() Kind  { return KindArrow }

func (c *CardContent) clone() Content {
	cp := *c
	cp.Tags = slices.Clone(c.Tags)
	return &cp
}

func (c *StickyContent) clone() Content {
	cp := *c
	return &cp
}

func (c *TextContent) clone() Content {
	cp := *c
	return &cp
}

func (c *PathContent) clone() Content {
	cp := *c
	cp.Points = slices.Clone(c.Points)
	return &cp
}

func (c *ArrowContent) clone() Content {
	cp := *c
	return &cp
}

// From returns the arrow tail.
func (c *ArrowContent) From() r2.Vec { return r2.Vec{X: c.X1, Y: c.Y1} }

// To returns the arrow head.
func (c *ArrowContent) To() r2.Vec { return r2.Vec{X: c.X2, Y: c.Y2} }

// Element is a placed object on the canvas.
//
// X, Y, Width and Height describe the logical box of card, sticky and text
// elements. For paths and arrows they mirror the bounds of the geometry.
type Element struct {
	ID      string
	X, Y    float64
	Width   float64
	Height  float64
	Content Content
}

// Kind returns the variant of e's content.
func (e Element) Kind() Kind {
	if e.Content == nil {
		return ""
	}
	return e.Content.Kind()
}

// Clone returns a deep copy of e.
func (e Element) Clone() Element {
	if e.Content != nil {
		e.Content = e.Content.clone()
	}
	return e
}

// Bounds returns the logical bounding box of e.
func (e Element) Bounds() r2.Box {
	switch c := e.Content.(type) {
	case *PathContent:
		return pointsBounds(c.Points)
	case *ArrowContent:
		return r2.NewBox(c.X1, c.Y1, c.X2, c.Y2)
	default:
		return r2.Box{
			Min: r2.Vec{X: e.X, Y: e.Y},
			Max: r2.Vec{X: e.X + e.Width, Y: e.Y + e.Height},
		}
	}
}

// syncBounds copies the geometry bounds of paths and arrows into the box
// fields.
func (e *Element) syncBounds() {
	switch e.Content.(type) {
	case *PathContent, *ArrowContent:
		b := e.Bounds()
		e.X, e.Y = b.Min.X, b.Min.Y
		size := b.Size()
		e.Width, e.Height = size.X, size.Y
	}
}

// translate moves e by delta, geometry included.
func (e *Element) translate(delta r2.Vec) {
	e.X += delta.X
	e.Y += delta.Y
	switch c := e.Content.(type) {
	case *PathContent:
		for i := range c.Points {
			c.Points[i] = r2.Add(c.Points[i], delta)
		}
	case *ArrowContent:
		c.X1 += delta.X
		c.Y1 += delta.Y
		c.X2 += delta.X
		c.Y2 += delta.Y
	}
}

func pointsBounds(pts []r2.Vec) r2.Box {
	if len(pts) == 0 {
		return r2.Box{}
	}
	lo := pts[0]
	hi := pts[0]
	for _, p := range pts[1:] {
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y)
		hi.X = math.Max(hi.X, p.X)
		hi.Y = math.Max(hi.Y, p.Y)
	}
	return r2.Box{Min: lo, Max: hi}
}

// Draft is an element that has not been stored yet.
type Draft struct {
	X, Y    float64
	Width   float64
	Height  float64
	Content Content
}

// TextDraft returns the default text element placed at p.
func TextDraft(p r2.Vec) Draft {
	return Draft{
		X: p.X, Y: p.Y,
		Width: DefaultTextWidth, Height: DefaultTextHeight,
		Content: &TextContent{Text: DefaultText, FontSize: DefaultFontSize, FontWeight: DefaultFontWeight},
	}
}

// StickyDraft returns the default sticky note placed at p.
func StickyDraft(p r2.Vec) Draft {
	return Draft{
		X: p.X, Y: p.Y,
		Width: DefaultStickyWidth, Height: DefaultStickyHeight,
		Content: &StickyContent{Text: DefaultStickyText, Color: DefaultStickyColor},
	}
}

// CardDraft returns the default card placed at p.
func CardDraft(p r2.Vec) Draft {
	return Draft{
		X: p.X, Y: p.Y,
		Width: DefaultCardWidth, Height: DefaultCardHeight,
		Content: &CardContent{Title: DefaultCardTitle, Tags: []string{}},
	}
}

// PathDraft returns a freehand stroke through pts. The points are copied.
func PathDraft(pts []r2.Vec) Draft {
	return Draft{Content: &PathContent{
		Points:      append([]r2.Vec(nil), pts...),
		StrokeWidth: DefaultStrokeWidth,
		Color:       DefaultPathColor,
	}}
}

// ArrowDraft returns an arrow from one logical point to another.
func ArrowDraft(from, to r2.Vec) Draft {
	return Draft{Content: &ArrowContent{
		X1: from.X, Y1: from.Y, X2: to.X, Y2: to.Y,
		StrokeWidth: DefaultStrokeWidth,
		Color:       DefaultArrowColor,
	}}
}
