// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// workspace owns the temporary artifacts of one run: the page image
// directory and any intermediate PDF. Run defers release right after
// creating it, so every exit path deletes them.
type workspace struct {
	dirs   []string
	files  []string
	out    io.Writer
	logger *zap.Logger
}

func newWorkspace(out io.Writer, logger *zap.Logger) *workspace {
	return &workspace{out: out, logger: logger}
}

// trackDir registers a directory for recursive removal.
func (w *workspace) trackDir(path string) {
	w.dirs = append(w.dirs, path)
}

// trackFile registers a file for removal.
func (w *workspace) trackFile(path string) {
	w.files = append(w.files, path)
}

// release removes tracked files, then tracked directories. Paths that do not
// exist are skipped. All removal errors are returned joined.
func (w *workspace) release() error {
	var errs []error
	for _, f := range w.files {
		if err := os.Remove(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("removing %s: %w", f, err))
			continue
		}
		w.logger.Debug("removed intermediate file", zap.String("path", f))
	}
	for _, d := range w.dirs {
		info, err := os.Lstat(d)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			w.logger.Warn("not removing tracked path, it is not a directory", zap.String("path", d))
			continue
		}
		fmt.Fprintln(w.out, "Deleting temporary folder for images...")
		if err := os.RemoveAll(d); err != nil {
			errs = append(errs, fmt.Errorf("removing %s: %w", d, err))
			continue
		}
		w.logger.Debug("removed temporary directory", zap.String("path", d))
	}
	w.files, w.dirs = nil, nil
	return errors.Join(errs...)
}
