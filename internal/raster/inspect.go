// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package raster

import (
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Info is the document information read from a PDF without rendering it.
type Info struct {
	PageCount int    `yaml:"pages"`
	Title     string `yaml:"title,omitempty"`
	Author    string `yaml:"author,omitempty"`
	Subject   string `yaml:"subject,omitempty"`
}

// Inspect reads page count and the document information dictionary with
// pdfcpu. pdfcpu is stricter than MuPDF, so callers treat a failure here as
// missing metadata rather than an unreadable document.
func Inspect(pdfPath string) (Info, error) {
	ctx, err := api.ReadContextFile(pdfPath)
	if err != nil {
		return Info{}, fmt.Errorf("reading %s: %w", pdfPath, err)
	}
	return Info{
		PageCount: ctx.PageCount,
		Title:     strings.TrimSpace(ctx.Title),
		Author:    strings.TrimSpace(ctx.Author),
		Subject:   strings.TrimSpace(ctx.Subject),
	}, nil
}
