package desktop

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"

	"github.com/visualnotes/visualnotes/pkg/errors"
	"github.com/visualnotes/visualnotes/pkg/whiteboard"
	"github.com/visualnotes/visualnotes/pkg/whiteboard/display"
)

// Options configures an editor window.
type Options struct {
	Scene  *whiteboard.Scene // initial board; nil starts empty
	Saver  whiteboard.Saver  // nil simulates saves
	Theme  display.Theme
	Logger *log.Logger
}

// Editor is a whiteboard window: toolbar, canvas, title entry, save button
// and status line.
type Editor struct {
	Window fyne.Window
	Canvas *BoardWidget

	ctx    context.Context
	cancel context.CancelFunc
	board  *whiteboard.Board
	logger *log.Logger

	title    *widget.Entry
	tools    *widget.RadioGroup
	zoom     *widget.Label
	status   *widget.Label
	selected *widget.Label
}

// NewEditor creates the editor window on app. Close the editor (or the
// window) to cancel pending saves.
func NewEditor(app fyne.App, opts Options) *Editor {
	if opts.Theme.Name == "" {
		opts.Theme = display.Light
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	e := &Editor{
		logger:   opts.Logger,
		status:   widget.NewLabel(whiteboard.StatusSaved.Label()),
		zoom:     widget.NewLabel("100%"),
		selected: widget.NewLabel(""),
	}
	e.ctx, e.cancel = context.WithCancel(context.Background())

	bopts := []whiteboard.Option{
		whiteboard.WithLogger(opts.Logger),
		whiteboard.WithStatusListener(e.statusChanged),
	}
	if opts.Saver != nil {
		bopts = append(bopts, whiteboard.WithSaver(opts.Saver))
	}
	if opts.Scene != nil {
		bopts = append(bopts, whiteboard.WithScene(*opts.Scene))
	}
	e.board = whiteboard.New(bopts...)

	e.Canvas = NewBoardWidget(e.board, opts.Theme, opts.Logger)
	e.Canvas.OnChanged = e.refresh

	e.Window = app.NewWindow("VisualNotes")
	e.Window.Resize(fyne.NewSize(1280, 800))
	e.Window.SetContent(container.NewBorder(e.toolbar(), e.statusBar(), nil, nil, e.Canvas))
	e.bindKeys()
	e.Window.SetOnClosed(e.Close)
	e.refresh()
	return e
}

// Close cancels in-flight saves and waits for them.
func (e *Editor) Close() {
	e.cancel()
	e.board.Close()
}

// Save starts a background save. The status line follows it.
func (e *Editor) Save() *whiteboard.SaveTask {
	var task *whiteboard.SaveTask
	e.Canvas.Do(func(b *whiteboard.Board) { task = b.Save(e.ctx) })
	return task
}

// statusChanged runs on the saving goroutine.
func (e *Editor) statusChanged(s whiteboard.SaveStatus) {
	fyne.Do(func() {
		text := s.Label()
		if s == whiteboard.StatusError {
			if err := e.board.LastSaveError(); err != nil {
				text = fmt.Sprintf("%s: %s", text, errors.UserMessage(err))
			}
		}
		e.status.SetText(text)
	})
}

// refresh syncs the chrome with the board.
func (e *Editor) refresh() {
	scene := e.Canvas.Scene()
	if e.title != nil && e.title.Text != scene.Title {
		e.title.SetText(scene.Title)
	}
	if e.tools != nil && e.tools.Selected != string(scene.Tool) {
		e.tools.SetSelected(string(scene.Tool))
	}
	e.zoom.SetText(fmt.Sprintf("%d%%", scene.Viewport.Percent()))
	e.selected.SetText(describeSelection(scene))
}

func describeSelection(s whiteboard.Scene) string {
	for _, el := range s.Elements {
		if el.ID != s.Selected {
			continue
		}
		b := el.Bounds()
		return fmt.Sprintf("%s %s at %.0f, %.0f (%.0f×%.0f)", el.Kind(), el.ID, b.Min.X, b.Min.Y, b.Max.X-b.Min.X, b.Max.Y-b.Min.Y)
	}
	return fmt.Sprintf("%d elements", len(s.Elements))
}

// =============================================================================
// Chrome
// =============================================================================

func (e *Editor) toolbar() fyne.CanvasObject {
	names := make([]string, 0, len(whiteboard.Tools()))
	for _, t := range whiteboard.Tools() {
		names = append(names, string(t))
	}
	e.tools = widget.NewRadioGroup(names, func(name string) {
		if name == "" {
			return
		}
		e.Canvas.Do(func(b *whiteboard.Board) {
			if err := b.SetTool(whiteboard.Tool(name)); err != nil {
				e.logger.Warn("set tool", "err", err)
			}
		})
	})
	e.tools.Horizontal = true
	e.tools.Required = true

	e.title = widget.NewEntry()
	e.title.SetPlaceHolder(whiteboard.DefaultTitle)
	e.title.OnSubmitted = e.setTitle

	actions := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentUndoIcon(), func() { e.Canvas.Do(func(b *whiteboard.Board) { b.Undo() }) }),
		widget.NewToolbarAction(theme.ContentRedoIcon(), func() { e.Canvas.Do(func(b *whiteboard.Board) { b.Redo() }) }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomOutIcon(), func() { e.Canvas.Do(func(b *whiteboard.Board) { b.ZoomOut() }) }),
		widget.NewToolbarAction(theme.ZoomInIcon(), func() { e.Canvas.Do(func(b *whiteboard.Board) { b.ZoomIn() }) }),
		widget.NewToolbarAction(theme.ZoomFitIcon(), func() { e.Canvas.Do(func(b *whiteboard.Board) { b.ResetView() }) }),
	)
	save := widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), func() { e.Save() })

	titleBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(260, e.title.MinSize().Height)), e.title)
	return container.NewHBox(titleBox, widget.NewSeparator(), e.tools, widget.NewSeparator(), actions, e.zoom, layout.NewSpacer(), save)
}

func (e *Editor) statusBar() fyne.CanvasObject {
	return container.NewHBox(e.selected, layout.NewSpacer(), e.status)
}

// setTitle applies the entry text, restoring the old title when it is
// rejected.
func (e *Editor) setTitle(text string) {
	var err error
	e.Canvas.Do(func(b *whiteboard.Board) { err = b.SetTitle(text) })
	if err != nil {
		e.status.SetText(errors.UserMessage(err))
	}
}

// bindKeys maps tool shortcuts and the usual editor chords.
func (e *Editor) bindKeys() {
	c := e.Window.Canvas()
	c.SetOnTypedRune(func(r rune) {
		if t, ok := whiteboard.ToolForShortcut(r); ok {
			e.Canvas.Do(func(b *whiteboard.Board) { _ = b.SetTool(t) })
		}
	})

	mod := fyne.KeyModifierShortcutDefault
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: mod}, func(fyne.Shortcut) { e.Save() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: mod}, func(fyne.Shortcut) {
		e.Canvas.Do(func(b *whiteboard.Board) { b.Undo() })
	})
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: mod | fyne.KeyModifierShift}, func(fyne.Shortcut) {
		e.Canvas.Do(func(b *whiteboard.Board) { b.Redo() })
	})
}
