package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/visualnotes/visualnotes/pkg/errors"
	"github.com/visualnotes/visualnotes/pkg/whiteboard"
)

// ReadJSON decodes a scene document from r.
//
// Missing optional fields take the board defaults: title "Untitled
// Whiteboard", zoom 1, sticky colour #FEF3C7, font size 16, stroke width 2.
// Zoom is clamped to [0.1, 3].
//
// ReadJSON returns an INVALID_ELEMENT error for unknown element types,
// duplicate or empty ids, negative sizes, malformed colours and paths with
// fewer than two points. ReadJSON does not close r.
func ReadJSON(r io.Reader) (whiteboard.Scene, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return whiteboard.Scene{}, fmt.Errorf("decode: %w", err)
	}
	return doc.toScene()
}

// ImportJSON reads the scene document at path.
func ImportJSON(path string) (whiteboard.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return whiteboard.Scene{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return whiteboard.Scene{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
