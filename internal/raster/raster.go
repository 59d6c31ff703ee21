// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package raster renders PDF pages to images.
package raster

import (
	"errors"
	"fmt"
	"image"
)

// ErrRasterization marks failures to open or render a PDF.
var ErrRasterization = errors.New("rasterization failed")

// RasterizationError reports which document (and page, when known) could not
// be rendered.
type RasterizationError struct {
	Path string
	Page int // 1-based; 0 when the document itself could not be opened
	Err  error
}

func (e *RasterizationError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("rendering page %d of %s: %v", e.Page, e.Path, e.Err)
	}
	return fmt.Sprintf("opening %s: %v", e.Path, e.Err)
}

func (e *RasterizationError) Unwrap() []error {
	return []error{ErrRasterization, e.Err}
}

// Rasterizer opens PDF documents for rendering.
type Rasterizer interface {
	Open(pdfPath string) (Document, error)
}

// Document is an opened PDF. Pages are rendered one at a time so a long
// document never has to be held in memory as images.
type Document interface {
	// PageCount returns the number of pages.
	PageCount() int

	// Render rasterizes the page at the 0-based index at the given DPI.
	Render(index int, dpi float64) (image.Image, error)

	// Close releases the document.
	Close() error
}
