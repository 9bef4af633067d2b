package io

import (
	"context"

	"github.com/visualnotes/visualnotes/pkg/errors"
	"github.com/visualnotes/visualnotes/pkg/whiteboard"
)

// FileSaver persists scenes to a JSON file. It implements [whiteboard.Saver].
type FileSaver struct {
	Path string
}

// Save writes the scene with [ExportJSON]. A cancelled context aborts the
// save before anything is written.
func (s FileSaver) Save(ctx context.Context, scene whiteboard.Scene) error {
	if s.Path == "" {
		return errors.New(errors.ErrCodeInvalidPath, "save path is empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return ExportJSON(s.Path, scene)
}

var _ whiteboard.Saver = FileSaver{}
