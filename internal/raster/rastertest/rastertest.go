// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rastertest provides an in-memory raster.Rasterizer for tests of
// code that consumes rendered pages.
package rastertest

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/pdiddy/pdf2pptx/internal/raster"
)

// Rasterizer hands out synthetic documents. Each page is a solid image
// whose color encodes the page index, so tests can check page order
// after an encode/decode round trip.
type Rasterizer struct {
	// Pages is the page count of every opened document.
	Pages int

	// Width and Height are the rendered pixel size at 72 DPI (default 16x9).
	Width, Height int

	// OpenErr, when set, is returned from Open.
	OpenErr error

	// FailPage makes Render fail for this 1-based page.
	FailPage int

	// Opened records the paths passed to Open.
	Opened []string

	// Closed counts Close calls.
	Closed int
}

// Open returns a synthetic document or the configured error.
func (r *Rasterizer) Open(pdfPath string) (raster.Document, error) {
	r.Opened = append(r.Opened, pdfPath)
	if r.OpenErr != nil {
		return nil, &raster.RasterizationError{Path: pdfPath, Err: r.OpenErr}
	}
	if r.Pages < 1 {
		return nil, &raster.RasterizationError{Path: pdfPath, Err: errors.New("document has no pages")}
	}
	return &document{r: r, path: pdfPath}, nil
}

type document struct {
	r    *Rasterizer
	path string
}

func (d *document) PageCount() int { return d.r.Pages }

func (d *document) Render(index int, dpi float64) (image.Image, error) {
	if index < 0 || index >= d.r.Pages {
		return nil, &raster.RasterizationError{Path: d.path, Page: index + 1, Err: fmt.Errorf("page %d out of range", index+1)}
	}
	if d.r.FailPage == index+1 {
		return nil, &raster.RasterizationError{Path: d.path, Page: index + 1, Err: errors.New("synthetic render failure")}
	}

	w, h := d.r.Width, d.r.Height
	if w == 0 || h == 0 {
		w, h = 16, 9
	}
	scale := dpi / 72
	if scale <= 0 {
		scale = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	c := PageColor(index + 1)
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img, nil
}

func (d *document) Close() error {
	d.r.Closed++
	return nil
}

// PageColor is the fill color of the given 1-based page.
func PageColor(page int) color.RGBA {
	return color.RGBA{R: uint8(page * 40 % 256), G: uint8(page * 10 % 256), B: 200, A: 255}
}
