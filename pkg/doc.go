// Package pkg provides the core libraries for VisualNotes whiteboards.
//
// # Overview
//
// VisualNotes boards are zoomable canvases of cards, sticky notes, text,
// freehand paths and arrows. The pkg directory is organized into:
//
//  1. [whiteboard] - Domain logic (elements, tools, gestures, viewport, undo, saving)
//  2. [whiteboard/display] - The render pass: scene to display list
//  3. [whiteboard/sink] - Display list to SVG, PNG, PDF, JSON and text
//  4. [pipeline] - Orchestration (scene → frame → artifacts, with caching)
//  5. [io], [replay], [config], [cache], [server] - Files, scripts, settings,
//     artifact storage and the HTTP API
//
// # Architecture
//
// The typical data flow:
//
//	pointer / wheel / edit input  (desktop, terminal, replay script)
//	         ↓
//	    [whiteboard] Board (gesture state machine + element store)
//	         ↓
//	    Board.Scene() snapshot
//	         ↓
//	    [whiteboard/display] Build (grid, elements, draft, minimap, zoom label)
//	         ↓
//	    [whiteboard/sink] SVG/PNG/PDF/JSON/text
//
// # Quick Start
//
// Draw a stroke and render it:
//
//	import (
//	    "github.com/visualnotes/visualnotes/pkg/whiteboard"
//	    "github.com/visualnotes/visualnotes/pkg/whiteboard/display"
//	    "github.com/visualnotes/visualnotes/pkg/whiteboard/sink"
//	)
//
//	b := whiteboard.New()
//	defer b.Close()
//	_ = b.SetTool(whiteboard.ToolPen)
//	b.PointerDown(whiteboard.At(200, 200))
//	b.PointerMove(whiteboard.At(220, 210))
//	b.PointerUp(whiteboard.At(240, 205))
//
//	frame := display.Build(b.Scene(), display.WithSize(1280, 720))
//	svg := sink.RenderSVG(frame)
//
// For repeated renders with caching, use [pipeline.Runner]:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, b.Scene(), pipeline.Options{Formats: []string{"svg", "png"}})
//
// # Error Handling
//
// Every package returns [errors.Error] values with machine-readable codes:
//
//	if errors.Is(err, errors.ErrCodeElementNotFound) { ... }
//
// # Concurrency
//
// A [whiteboard.Board] belongs to one goroutine. Saves run in the
// background and report through the status listener. [pipeline.Runner]
// and the caches are safe for concurrent use.
package pkg
