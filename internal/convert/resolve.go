// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Kind classifies an input file.
type Kind int

const (
	// KindPDF is rasterized directly.
	KindPDF Kind = iota
	// KindPresentation (.ppt, .pptx) must be flattened to PDF first.
	KindPresentation
)

func (k Kind) String() string {
	if k == KindPresentation {
		return "presentation"
	}
	return "pdf"
}

// Input is a resolved input file. It does not change during a run.
type Input struct {
	Path string
	Dir  string
	// Base is the file name without extension, NFC-normalized.
	Base string
	Kind Kind
}

// Resolve checks that path exists and classifies it by extension.
func Resolve(path string) (Input, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Input{}, fmt.Errorf("%w: '%s' does not exist", ErrFileNotFound, path)
		}
		return Input{}, fmt.Errorf("checking %s: %w", path, err)
	}
	if info.IsDir() {
		return Input{}, fmt.Errorf("%w: '%s' is a directory", ErrUnsupportedFormat, path)
	}

	ext := filepath.Ext(path)
	in := Input{
		Path: path,
		Dir:  filepath.Dir(path),
		Base: norm.NFC.String(strings.TrimSuffix(filepath.Base(path), ext)),
	}

	switch strings.ToLower(ext) {
	case ".pdf":
		in.Kind = KindPDF
	case ".ppt", ".pptx":
		in.Kind = KindPresentation
	default:
		return Input{}, fmt.Errorf("%w: '%s' (expected .pdf, .ppt or .pptx)", ErrUnsupportedFormat, filepath.Base(path))
	}
	return in, nil
}
