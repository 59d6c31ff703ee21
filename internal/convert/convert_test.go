// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf2pptx/internal/flatten"
	"github.com/pdiddy/pdf2pptx/internal/pptx"
	"github.com/pdiddy/pdf2pptx/internal/raster"
	"github.com/pdiddy/pdf2pptx/internal/raster/rastertest"
	"github.com/pdiddy/pdf2pptx/pkg/types"
)

type fakeFlattener struct {
	err   error
	calls [][2]string
}

func (f *fakeFlattener) Name() string { return "fake" }

func (f *fakeFlattener) Available(ctx context.Context) bool { return true }

func (f *fakeFlattener) Flatten(ctx context.Context, src, dst string) error {
	f.calls = append(f.calls, [2]string{src, dst})
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(dst, []byte("%PDF-1.7\n"), 0o644)
}

type fakeDetector struct {
	flattener flatten.Flattener
	err       error
	backends  []types.FlattenBackend
}

func (d *fakeDetector) Detect(ctx context.Context, backend types.FlattenBackend) (flatten.Flattener, error) {
	d.backends = append(d.backends, backend)
	if d.err != nil {
		return nil, d.err
	}
	return d.flattener, nil
}

func writeInput(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.7\nsynthetic"), 0o644))
	return path
}

func newConverter(t *testing.T, outDir string, r raster.Rasterizer, format types.ImageFormat) (*Converter, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &Converter{
		Config: types.ConversionConfig{
			Format:    format,
			DPI:       72,
			OutputDir: outDir,
			WorkDir:   t.TempDir(),
		},
		Rasterizer: r,
		Out:        &out,
	}, &out
}

func TestRunPDFToPPTX(t *testing.T) {
	for _, format := range []types.ImageFormat{types.FormatPNG, types.FormatJPG} {
		t.Run(string(format), func(t *testing.T) {
			dir := t.TempDir()
			input := writeInput(t, dir, "deck.pdf")
			r := &rastertest.Rasterizer{Pages: 3}
			c, out := newConverter(t, dir, r, format)

			res, err := c.Run(context.Background(), input)
			require.NoError(t, err)

			assert.Equal(t, filepath.Join(dir, "deck.pptx"), res.Output)
			assert.Equal(t, 3, res.Pages)
			assert.Equal(t, StageEnd, res.Stage)
			assert.False(t, res.Flattened)
			assert.Equal(t, []string{input}, r.Opened)
			assert.Equal(t, 1, r.Closed)

			summary, err := pptx.Inspect(res.Output)
			require.NoError(t, err)
			assert.Equal(t, 3, summary.SlideCount())
			assert.True(t, summary.FullBleed())
			assert.Equal(t, pptx.DefaultSlideWidth, summary.SlideWidth)
			assert.Equal(t, "deck", summary.Title)

			_, statErr := os.Stat(filepath.Join(c.Config.WorkDir, "output_images_deck"))
			assert.True(t, os.IsNotExist(statErr), "temporary image folder must be removed")

			text := out.String()
			assert.Contains(t, text, "Creating temporary folder for images...")
			assert.Contains(t, text, "Converting PDF pages to "+string(format)+" images...")
			assert.Contains(t, text, "Adding images to the PowerPoint presentation...")
			assert.Contains(t, text, "Deleting temporary folder for images...")
		})
	}
}

// slideColors decodes the picture of every slide in deck order and returns
// the color of its top-left pixel.
func slideColors(t *testing.T, deck string) []color.RGBA {
	t.Helper()
	summary, err := pptx.Inspect(deck)
	require.NoError(t, err)

	zr, err := zip.OpenReader(deck)
	require.NoError(t, err)
	defer zr.Close()
	parts := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		parts[f.Name] = f
	}

	colors := make([]color.RGBA, 0, summary.SlideCount())
	for _, slide := range summary.Slides {
		require.Len(t, slide.Pictures, 1)
		part, ok := parts[slide.Pictures[0].Media]
		require.True(t, ok, "media %s missing", slide.Pictures[0].Media)
		rc, err := part.Open()
		require.NoError(t, err)
		img, err := png.Decode(rc)
		rc.Close()
		require.NoError(t, err)
		colors = append(colors, color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA))
	}
	return colors
}

func TestRunKeepsPageOrder(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "deck.pdf")
	const pages = 12
	c, _ := newConverter(t, dir, &rastertest.Rasterizer{Pages: pages}, types.FormatPNG)

	res, err := c.Run(context.Background(), input)
	require.NoError(t, err)

	got := slideColors(t, res.Output)
	require.Len(t, got, pages)
	for i := range got {
		assert.Equal(t, rastertest.PageColor(i+1), got[i], "slide %d", i+1)
	}
}

func TestRunLeavesForeignFileAtImageDir(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "deck.pdf")
	r := &rastertest.Rasterizer{Pages: 2}
	c, _ := newConverter(t, dir, r, types.FormatPNG)
	blocker := filepath.Join(c.Config.WorkDir, "output_images_deck")
	require.NoError(t, os.WriteFile(blocker, []byte("user data"), 0o644))

	_, err := c.Run(context.Background(), input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")

	data, readErr := os.ReadFile(blocker)
	require.NoError(t, readErr, "file at the image directory path must survive")
	assert.Equal(t, "user data", string(data))
	_, statErr := os.Stat(filepath.Join(dir, "deck.pptx"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunReusesExistingImageDir(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "deck.pdf")
	c, out := newConverter(t, dir, &rastertest.Rasterizer{Pages: 2}, types.FormatPNG)
	imgDir := filepath.Join(c.Config.WorkDir, "output_images_deck")
	require.NoError(t, os.Mkdir(imgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(imgDir, "stray.png"), []byte("x"), 0o644))

	res, err := c.Run(context.Background(), input)
	require.NoError(t, err)

	summary, err := pptx.Inspect(res.Output)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.SlideCount(), "stray files are not added as slides")
	assert.NotContains(t, out.String(), "Creating temporary folder for images...")
	_, statErr := os.Stat(imgDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunDefaultsToCurrentDirectory(t *testing.T) {
	inputDir := t.TempDir()
	input := writeInput(t, inputDir, "deck.pdf")
	cwd := t.TempDir()
	t.Chdir(cwd)

	c := &Converter{Rasterizer: &rastertest.Rasterizer{Pages: 1}}
	res, err := c.Run(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "deck.pptx", res.Output)
	assert.FileExists(t, filepath.Join(cwd, "deck.pptx"))
	assert.NoFileExists(t, filepath.Join(inputDir, "deck.pptx"))
	_, statErr := os.Stat(filepath.Join(cwd, "output_images_deck"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "deck.pdf")
	c, _ := newConverter(t, dir, &rastertest.Rasterizer{Pages: 2}, types.FormatPNG)

	first, err := c.Run(context.Background(), input)
	require.NoError(t, err)
	before, err := os.ReadFile(first.Output)
	require.NoError(t, err)

	second, err := c.Run(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "deck.pptx"), first.Output)
	assert.Equal(t, filepath.Join(dir, "deck_1.pptx"), second.Output)
	after, err := os.ReadFile(first.Output)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRunOutputDir(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "deck.pdf")
	c, _ := newConverter(t, dir, &rastertest.Rasterizer{Pages: 1}, types.FormatPNG)
	c.Config.OutputDir = filepath.Join(t.TempDir(), "nested", "out")

	res, err := c.Run(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(c.Config.OutputDir, "deck.pptx"), res.Output)
}

func TestRunMissingFile(t *testing.T) {
	dir := t.TempDir()
	r := &rastertest.Rasterizer{Pages: 1}
	c, _ := newConverter(t, dir, r, types.FormatPNG)

	res, err := c.Run(context.Background(), filepath.Join(dir, "missing.pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileNotFound)

	var serr *StageError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, StageStart, serr.Stage)
	assert.Equal(t, StageFailed, res.Stage)
	assert.Empty(t, r.Opened)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "notes.txt")
	r := &rastertest.Rasterizer{Pages: 1}
	c, _ := newConverter(t, dir, r, types.FormatPNG)

	_, err := c.Run(context.Background(), input)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Empty(t, r.Opened)
}

func TestRunInvalidImageFormat(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "deck.pdf")
	r := &rastertest.Rasterizer{Pages: 1}
	c, _ := newConverter(t, dir, r, types.ImageFormat("gif"))

	_, err := c.Run(context.Background(), input)
	require.Error(t, err)
	assert.Empty(t, r.Opened)
}

func TestRunRenderFailureCleansUp(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "deck.pdf")
	r := &rastertest.Rasterizer{Pages: 4, FailPage: 3}
	c, _ := newConverter(t, dir, r, types.FormatJPG)

	res, err := c.Run(context.Background(), input)
	require.Error(t, err)
	assert.ErrorIs(t, err, raster.ErrRasterization)

	var serr *StageError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, StageRasterized, serr.Stage)
	assert.Empty(t, res.Output)
	assert.Equal(t, 1, r.Closed)

	_, statErr := os.Stat(filepath.Join(c.Config.WorkDir, "output_images_deck"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(dir, "deck.pptx"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunOpenFailure(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "deck.pdf")
	r := &rastertest.Rasterizer{Pages: 1, OpenErr: errors.New("not a pdf")}
	c, _ := newConverter(t, dir, r, types.FormatPNG)

	_, err := c.Run(context.Background(), input)
	require.Error(t, err)
	assert.ErrorIs(t, err, raster.ErrRasterization)
	assert.Contains(t, err.Error(), "not a pdf")
}

func TestRunCanceled(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "deck.pdf")
	c, _ := newConverter(t, dir, &rastertest.Rasterizer{Pages: 2}, types.FormatPNG)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Run(ctx, input)
	assert.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(filepath.Join(dir, "deck.pptx"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunFlattensPresentation(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "talk.pptx")
	require.NoError(t, os.WriteFile(input, []byte("PK"), 0o644))

	f := &fakeFlattener{}
	d := &fakeDetector{flattener: f}
	r := &rastertest.Rasterizer{Pages: 2}
	c, out := newConverter(t, dir, r, types.FormatPNG)
	c.Flatteners = d
	c.Backend = types.FlattenLibreOffice

	res, err := c.Run(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, []types.FlattenBackend{types.FlattenLibreOffice}, d.backends)
	require.Len(t, f.calls, 1)
	assert.True(t, filepath.IsAbs(f.calls[0][0]))
	assert.Equal(t, "talk.pdf", filepath.Base(f.calls[0][1]))

	assert.True(t, res.Flattened)
	assert.Equal(t, filepath.Join(dir, "talk (flatten).pptx"), res.Output)
	assert.Equal(t, []string{f.calls[0][1]}, r.Opened)
	assert.Contains(t, out.String(), "Exporting talk.pptx to PDF with fake...")

	_, statErr := os.Stat(res.Intermediate)
	assert.True(t, os.IsNotExist(statErr), "intermediate PDF must be removed")
}

func TestRunFlattenKeepsExistingPDF(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "talk.ppt")
	require.NoError(t, os.WriteFile(input, []byte("legacy"), 0o644))
	existing := writeInput(t, dir, "talk.pdf")

	f := &fakeFlattener{}
	c, _ := newConverter(t, dir, &rastertest.Rasterizer{Pages: 1}, types.FormatPNG)
	c.Flatteners = &fakeDetector{flattener: f}

	res, err := c.Run(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, f.calls, 1)
	assert.Equal(t, "talk_1.pdf", filepath.Base(f.calls[0][1]))
	_, statErr := os.Stat(existing)
	assert.NoError(t, statErr, "user's PDF must survive")
	assert.Equal(t, filepath.Join(dir, "talk (flatten).pptx"), res.Output)
}

func TestRunFlattenFailure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "talk.pptx")
	require.NoError(t, os.WriteFile(input, []byte("PK"), 0o644))

	f := &fakeFlattener{err: &flatten.ExternalToolError{Tool: "soffice", Err: errors.New("exit status 1")}}
	r := &rastertest.Rasterizer{Pages: 1}
	c, _ := newConverter(t, dir, r, types.FormatPNG)
	c.Flatteners = &fakeDetector{flattener: f}

	_, err := c.Run(context.Background(), input)
	require.Error(t, err)
	assert.ErrorIs(t, err, flatten.ErrExternalTool)
	assert.Empty(t, r.Opened)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "talk.pptx", entries[0].Name())
}

func TestRunNoFlattener(t *testing.T) {
	tests := []struct {
		name     string
		detector FlattenerDetector
	}{
		{name: "nil detector"},
		{name: "nothing installed", detector: &fakeDetector{err: flatten.ErrApplicationNotAvailable}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			input := filepath.Join(dir, "talk.pptx")
			require.NoError(t, os.WriteFile(input, []byte("PK"), 0o644))

			c, _ := newConverter(t, dir, &rastertest.Rasterizer{Pages: 1}, types.FormatPNG)
			c.Flatteners = tc.detector

			_, err := c.Run(context.Background(), input)
			assert.ErrorIs(t, err, flatten.ErrApplicationNotAvailable)

			var serr *StageError
			require.True(t, errors.As(err, &serr))
			assert.Equal(t, StageResolved, serr.Stage)
		})
	}
}

func TestRunQuietWithoutOut(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "deck.pdf")
	c := &Converter{
		Config:     types.ConversionConfig{Format: types.FormatPNG, DPI: 72, OutputDir: dir, WorkDir: t.TempDir()},
		Rasterizer: &rastertest.Rasterizer{Pages: 1},
	}

	res, err := c.Run(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(res.Output, "deck.pptx"))
}
