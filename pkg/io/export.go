package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/visualnotes/visualnotes/pkg/whiteboard"
)

// WriteJSON encodes the persistent part of a scene (title, viewport and
// elements) as indented JSON. The active tool, selection and in-progress
// stroke are not written. The output can be re-read with [ReadJSON].
func WriteJSON(w io.Writer, s whiteboard.Scene) error {
	doc, err := fromScene(s)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a scene to path. The file is written to a temporary
// sibling and renamed, so readers never observe a partial document.
func ExportJSON(path string, s whiteboard.Scene) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteJSON(tmp, s); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
