// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package raster

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRasterizationError(t *testing.T) {
	cause := errors.New("format error: cannot recognize version marker")

	tests := []struct {
		name string
		err  *RasterizationError
		want string
	}{
		{
			name: "open failure",
			err:  &RasterizationError{Path: "deck.pdf", Err: cause},
			want: "opening deck.pdf: format error: cannot recognize version marker",
		},
		{
			name: "page failure",
			err:  &RasterizationError{Path: "deck.pdf", Page: 3, Err: cause},
			want: "rendering page 3 of deck.pdf: format error: cannot recognize version marker",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrRasterization)
			assert.ErrorIs(t, tt.err, cause)
		})
	}
}

func TestFitzOpenCorruptFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.pdf", "this is not a pdf at all")

	doc, err := NewFitzRasterizer().Open(path)
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, ErrRasterization)

	var rerr *RasterizationError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, path, rerr.Path)
	assert.Zero(t, rerr.Page)
}

func TestFitzOpenMissingFile(t *testing.T) {
	_, err := NewFitzRasterizer().Open(filepath.Join(t.TempDir(), "nope.pdf"))
	assert.ErrorIs(t, err, ErrRasterization)
}

func TestInspectCorruptFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.pdf", "%PDF-1.7\ngarbage")

	_, err := Inspect(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.pdf")
}
