// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package raster

import (
	"errors"
	"image"

	"github.com/gen2brain/go-fitz"
)

// FitzRasterizer renders PDFs with MuPDF through go-fitz (requires cgo).
type FitzRasterizer struct{}

// NewFitzRasterizer creates a MuPDF-backed rasterizer.
func NewFitzRasterizer() *FitzRasterizer {
	return &FitzRasterizer{}
}

// Open loads the PDF. Unreadable or corrupt files and documents without
// pages are reported as *RasterizationError.
func (r *FitzRasterizer) Open(pdfPath string) (Document, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, &RasterizationError{Path: pdfPath, Err: err}
	}
	if doc.NumPage() < 1 {
		doc.Close()
		return nil, &RasterizationError{Path: pdfPath, Err: errors.New("document has no pages")}
	}
	return &fitzDocument{path: pdfPath, doc: doc}, nil
}

type fitzDocument struct {
	path string
	doc  *fitz.Document
}

func (d *fitzDocument) PageCount() int {
	return d.doc.NumPage()
}

func (d *fitzDocument) Render(index int, dpi float64) (image.Image, error) {
	img, err := d.doc.ImageDPI(index, dpi)
	if err != nil {
		return nil, &RasterizationError{Path: d.path, Page: index + 1, Err: err}
	}
	return img, nil
}

func (d *fitzDocument) Close() error {
	return d.doc.Close()
}
