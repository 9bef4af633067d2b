// Package whiteboard implements the interaction model of a freeform
// whiteboard canvas, independent of any UI toolkit.
//
// # Overview
//
// A [Board] owns one whiteboard session. UI front ends (the terminal board,
// the desktop window, replay scripts, the HTTP API) feed it raw input and
// read back a [Scene] to draw:
//
//	b := whiteboard.New(whiteboard.WithLogger(logger))
//	b.SetTool(whiteboard.ToolPen)
//	b.PointerDown(whiteboard.At(200, 200))
//	b.PointerMove(whiteboard.At(220, 210))
//	b.PointerUp(whiteboard.At(220, 210))
//	scene := b.Scene() // one path element
//
// # Coordinates
//
// Elements live in logical coordinates. The [Viewport] maps them to screen
// pixels with screen = pan + logical*zoom. Zoom is clamped to
// [MinZoom, MaxZoom]; requests outside the range are clamped, never
// rejected. Wheel zoom is anchored at the canvas origin.
//
// # Elements
//
// An [Element] carries a [Content] variant: [CardContent], [StickyContent],
// [TextContent], [PathContent] or [ArrowContent]. The [Store] keeps them in
// z-order and never deletes them. Edits arrive as a [Patch] and fail with
// errors.ErrCodeElementNotFound for unknown ids.
//
// # Gestures
//
// The active [Tool] decides what a pointer gesture does:
//
//   - select: drag pans the canvas, a click selects the element under it
//   - pen: drag records a freehand stroke, committed on release when it
//     has at least two points
//   - text, sticky, card: pointer-down places an element with defaults
//   - arrow: drag draws an arrow
//   - rectangle, circle: no pointer behaviour yet
//
// Switching tools mid-gesture drops an unfinished stroke.
//
// # History and saving
//
// Every create and update pushes a snapshot to a linear [History], so
// [Board.Undo] and [Board.Redo] work. [Board.Save] runs a [Saver] on a
// background goroutine and reports through [SaveStatus]; [Board.Close]
// cancels saves still in flight.
package whiteboard
