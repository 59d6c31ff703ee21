// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pptx builds PowerPoint (.pptx) files made of full-slide pictures
// and reads them back for verification. Only the parts of Office Open XML
// needed for picture decks are written: one slide master, one blank layout,
// one theme, and one picture per slide.
package pptx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Properties holds the core document properties.
type Properties struct {
	Title       string
	Subject     string
	Creator     string
	Description string
	Created     time.Time
	Modified    time.Time
}

// Picture is an image placed on a slide. Offsets and sizes are in EMU.
type Picture struct {
	Path    string
	OffsetX int64
	OffsetY int64
	Width   int64
	Height  int64
	ext     string
}

// Slide is a blank-layout slide holding a single picture.
type Slide struct {
	picture *Picture
}

// Presentation is an in-memory picture deck.
type Presentation struct {
	Properties  Properties
	slideWidth  int64
	slideHeight int64
	slides      []*Slide
}

// New creates an empty presentation on the 13.33 x 7.5 inch canvas.
func New() *Presentation {
	now := time.Now()
	return &Presentation{
		Properties: Properties{
			Creator:  "pdf2pptx",
			Created:  now,
			Modified: now,
		},
		slideWidth:  DefaultSlideWidth,
		slideHeight: DefaultSlideHeight,
	}
}

// SlideSize returns the canvas size in EMU.
func (p *Presentation) SlideSize() (width, height int64) {
	return p.slideWidth, p.slideHeight
}

// SlideCount returns the number of slides.
func (p *Presentation) SlideCount() int {
	return len(p.slides)
}

// AddPictureSlide appends a slide whose only content is the image at path,
// placed at the origin and stretched to the full canvas. The file is read
// when the presentation is saved.
func (p *Presentation) AddPictureSlide(path string) (*Slide, error) {
	ext, err := mediaExtension(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("adding picture: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("adding picture: %s is a directory", path)
	}

	slide := &Slide{
		picture: &Picture{
			Path:   path,
			Width:  p.slideWidth,
			Height: p.slideHeight,
			ext:    ext,
		},
	}
	p.slides = append(p.slides, slide)
	return slide, nil
}

// mediaExtension maps an image file name to its media part extension.
func mediaExtension(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png", nil
	case ".jpg", ".jpeg":
		return "jpeg", nil
	default:
		return "", fmt.Errorf("unsupported picture type %q", filepath.Ext(path))
	}
}

func contentTypeFor(ext string) string {
	switch ext {
	case "png":
		return "image/png"
	default:
		return "image/jpeg"
	}
}
