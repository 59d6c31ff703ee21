// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package imagefile writes rendered PDF pages to numbered image files.
package imagefile

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/pdf2pptx/internal/raster"
	"github.com/pdiddy/pdf2pptx/pkg/types"
)

const defaultDirMode = 0o755

// ParseFormat validates a user-supplied image format.
func ParseFormat(s string) (types.ImageFormat, error) {
	switch types.ImageFormat(strings.ToLower(strings.TrimSpace(s))) {
	case types.FormatJPG:
		return types.FormatJPG, nil
	case types.FormatPNG:
		return types.FormatPNG, nil
	default:
		return "", fmt.Errorf("unsupported image format %q (choose png or jpg)", s)
	}
}

// PageFileName returns page_<index>.<ext>, with index zero-padded to the
// number of digits in total so lexical order equals page order.
func PageFileName(index, total int, format types.ImageFormat) string {
	width := len(strconv.Itoa(total))
	return fmt.Sprintf("page_%0*d.%s", width, index, format)
}

// Progress is notified after each page is written.
type Progress interface {
	Step(done, total int)
}

// Writer encodes pages into Dir.
type Writer struct {
	Dir         string
	Format      types.ImageFormat
	JPEGQuality int
	Logger      *zap.Logger
}

// WritePages renders every page of doc at dpi and writes it to Dir, creating
// Dir if needed. It returns the written paths in page order. progress may be
// nil.
func (w *Writer) WritePages(ctx context.Context, doc raster.Document, dpi float64, progress Progress) ([]string, error) {
	format, err := ParseFormat(string(w.Format))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(w.Dir, defaultDirMode); err != nil {
		return nil, fmt.Errorf("creating image directory %s: %w", w.Dir, err)
	}
	logger := w.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	total := doc.PageCount()
	paths := make([]string, 0, total)
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		img, err := doc.Render(i, dpi)
		if err != nil {
			return paths, err
		}

		path := filepath.Join(w.Dir, PageFileName(i+1, total, format))
		if err := w.writeImage(path, format, img); err != nil {
			return paths, err
		}
		paths = append(paths, path)

		b := img.Bounds()
		logger.Debug("page written",
			zap.Int("page", i+1),
			zap.Int("width", b.Dx()),
			zap.Int("height", b.Dy()),
			zap.String("path", path))
		if progress != nil {
			progress.Step(i+1, total)
		}
	}
	return paths, nil
}

func (w *Writer) writeImage(path string, format types.ImageFormat, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	var encErr error
	switch format {
	case types.FormatJPG:
		quality := w.JPEGQuality
		if quality <= 0 || quality > 100 {
			quality = types.DefaultJPEGQuality
		}
		encErr = jpeg.Encode(f, img, &jpeg.Options{Quality: quality})
	case types.FormatPNG:
		encErr = png.Encode(f, img)
	}
	closeErr := f.Close()

	if encErr != nil {
		return fmt.Errorf("encoding %s: %w", path, encErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing %s: %w", path, closeErr)
	}
	return nil
}
