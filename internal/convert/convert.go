// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs the PDF (or presentation) to PPTX pipeline. It resolves
// the input, flattens presentations to PDF, rasterizes every page into a
// temporary image directory, assembles one full-slide picture per page, saves
// the deck under a free name, and always removes its temporary artifacts.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/pdf2pptx/internal/flatten"
	"github.com/pdiddy/pdf2pptx/internal/imagefile"
	"github.com/pdiddy/pdf2pptx/internal/pptx"
	"github.com/pdiddy/pdf2pptx/internal/progress"
	"github.com/pdiddy/pdf2pptx/internal/raster"
	"github.com/pdiddy/pdf2pptx/pkg/types"
)

// FlattenerDetector picks a flattening backend. *flatten.Detector
// implements it.
type FlattenerDetector interface {
	Detect(ctx context.Context, backend types.FlattenBackend) (flatten.Flattener, error)
}

// Converter holds the collaborators of a run. Rasterizer is required; the
// other fields have usable zero values. Empty Config fields fall back to
// types.DefaultConfig: jpg at 300 DPI, quality 95, and "." for both the
// output and the work directory.
type Converter struct {
	Config     types.ConversionConfig
	Backend    types.FlattenBackend
	Rasterizer raster.Rasterizer
	// Flatteners may be nil, in which case presentation inputs fail with
	// flatten.ErrApplicationNotAvailable.
	Flatteners FlattenerDetector
	Progress   progress.Reporter
	// Out receives the user-facing status lines.
	Out    io.Writer
	Logger *zap.Logger
}

// Result describes a finished run. On failure the fields reached so far are
// filled in.
type Result struct {
	Input string
	// Intermediate is the flattened PDF, removed before Run returns.
	Intermediate string
	Output       string
	Pages        int
	Format       types.ImageFormat
	Flattened    bool
	Stage        Stage
	Duration     time.Duration
}

// run carries the state of one Run call.
type run struct {
	*Converter
	res Result
	ws  *workspace
}

// Run converts the file at inputPath and returns where the deck was saved.
// Errors are wrapped in a *StageError.
func (c *Converter) Run(ctx context.Context, inputPath string) (res Result, err error) {
	r := &run{Converter: c.withDefaults()}
	r.res = Result{Input: inputPath, Format: r.Config.Format, Stage: StageStart}
	start := time.Now()

	r.ws = newWorkspace(r.Out, r.Logger)
	defer func() {
		if relErr := r.ws.release(); relErr != nil {
			r.Logger.Warn("cleanup incomplete", zap.Error(relErr))
			fmt.Fprintf(r.Out, "Warning: could not remove temporary files: %v\n", relErr)
		}
		if err != nil {
			r.Logger.Debug("run failed", zap.Stringer("last", r.res.Stage), zap.Error(err))
			err = &StageError{Stage: r.res.Stage, Err: err}
			r.res.Stage = StageFailed
		} else {
			r.advance(StageCleanedUp)
			r.advance(StageEnd)
		}
		r.res.Duration = time.Since(start)
		res = r.res
	}()

	err = r.execute(ctx, inputPath)
	return r.res, err
}

func (c *Converter) withDefaults() *Converter {
	cc := *c
	if cc.Config.Format == "" {
		cc.Config.Format = types.FormatJPG
	}
	if cc.Config.DPI <= 0 {
		cc.Config.DPI = types.DefaultDPI
	}
	if cc.Config.JPEGQuality <= 0 {
		cc.Config.JPEGQuality = types.DefaultJPEGQuality
	}
	if cc.Config.OutputDir == "" {
		cc.Config.OutputDir = "."
	}
	if cc.Config.WorkDir == "" {
		cc.Config.WorkDir = "."
	}
	if cc.Backend == "" {
		cc.Backend = types.FlattenAuto
	}
	if cc.Progress == nil {
		cc.Progress = progress.Silent{}
	}
	if cc.Out == nil {
		cc.Out = io.Discard
	}
	if cc.Logger == nil {
		cc.Logger = zap.NewNop()
	}
	return &cc
}

func (r *run) advance(s Stage) {
	r.res.Stage = s
	r.Logger.Debug("stage reached", zap.Stringer("stage", s), zap.String("input", r.res.Input))
}

func (r *run) execute(ctx context.Context, inputPath string) error {
	if r.Rasterizer == nil {
		return fmt.Errorf("no rasterizer configured")
	}
	if _, err := imagefile.ParseFormat(string(r.Config.Format)); err != nil {
		return err
	}

	in, err := Resolve(inputPath)
	if err != nil {
		return err
	}
	r.advance(StageResolved)

	pdfPath := in.Path
	suffix := ""
	if in.Kind == KindPresentation {
		if pdfPath, err = r.flatten(ctx, in); err != nil {
			return err
		}
		suffix = FlattenSuffix
		r.advance(StageFlattened)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := r.Rasterizer.Open(pdfPath)
	if err != nil {
		return err
	}
	defer doc.Close()
	r.res.Pages = doc.PageCount()
	r.advance(StageRasterized)

	paths, err := r.writeImages(ctx, in, doc)
	if err != nil {
		return err
	}
	r.advance(StageImagesWritten)

	pres, err := r.assemble(in, pdfPath, paths)
	if err != nil {
		return err
	}
	r.advance(StageAssembled)

	outDir := r.Config.OutputDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	out, err := OutputPath(outDir, in.Base, suffix)
	if err != nil {
		return err
	}
	if err := pres.Save(out); err != nil {
		return fmt.Errorf("saving presentation: %w", err)
	}
	r.res.Output = out
	r.advance(StageSaved)
	r.Logger.Info("presentation saved",
		zap.String("output", out),
		zap.Int("slides", pres.SlideCount()),
	)
	return nil
}

// flatten exports a presentation to a free <base>.pdf next to it and
// registers that file for removal.
func (r *run) flatten(ctx context.Context, in Input) (string, error) {
	if r.Flatteners == nil {
		return "", fmt.Errorf("%w: no flattening backend configured", flatten.ErrApplicationNotAvailable)
	}
	f, err := r.Flatteners.Detect(ctx, r.Backend)
	if err != nil {
		return "", err
	}

	pdfPath, err := freePath(in.Dir, in.Base, ".pdf")
	if err != nil {
		return "", err
	}
	if abs, err := filepath.Abs(pdfPath); err == nil {
		pdfPath = abs
	}
	src := in.Path
	if abs, err := filepath.Abs(src); err == nil {
		src = abs
	}

	r.ws.trackFile(pdfPath)
	r.res.Intermediate = pdfPath
	r.res.Flattened = true

	fmt.Fprintf(r.Out, "Exporting %s to PDF with %s...\n", filepath.Base(in.Path), f.Name())
	r.Logger.Info("flattening presentation",
		zap.String("backend", f.Name()),
		zap.String("src", src),
		zap.String("dst", pdfPath),
	)
	if err := f.Flatten(ctx, src, pdfPath); err != nil {
		return "", fmt.Errorf("flattening %s: %w", filepath.Base(in.Path), err)
	}
	return pdfPath, nil
}

// writeImages renders every page into <workdir>/output_images_<base>. An
// existing directory of that name is reused; any other file there is left
// alone and fails the run.
func (r *run) writeImages(ctx context.Context, in Input, doc raster.Document) ([]string, error) {
	imgDir := filepath.Join(r.Config.WorkDir, "output_images_"+in.Base)
	info, err := os.Lstat(imgDir)
	switch {
	case err == nil && !info.IsDir():
		return nil, fmt.Errorf("%s already exists and is not a directory; move it or choose another work directory", imgDir)
	case err == nil:
		r.Logger.Debug("reusing image directory", zap.String("path", imgDir))
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintln(r.Out, "Creating temporary folder for images...")
		if err := os.MkdirAll(imgDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating image directory %s: %w", imgDir, err)
		}
	default:
		return nil, fmt.Errorf("checking %s: %w", imgDir, err)
	}
	r.ws.trackDir(imgDir)

	fmt.Fprintf(r.Out, "Converting PDF pages to %s images...\n", r.Config.Format)
	w := &imagefile.Writer{
		Dir:         imgDir,
		Format:      r.Config.Format,
		JPEGQuality: r.Config.JPEGQuality,
		Logger:      r.Logger,
	}
	paths, err := w.WritePages(ctx, doc, r.Config.DPI, r.Progress.Bar("Pages", "pages"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// assemble builds the deck in ascending page order, one picture per slide.
func (r *run) assemble(in Input, pdfPath string, paths []string) (*pptx.Presentation, error) {
	fmt.Fprintln(r.Out, "Adding images to the PowerPoint presentation...")

	pres := pptx.New()
	pres.Properties.Title = in.Base
	pres.Properties.Description = "Converted from " + filepath.Base(in.Path)
	if info, err := raster.Inspect(pdfPath); err != nil {
		r.Logger.Debug("reading document info", zap.String("path", pdfPath), zap.Error(err))
	} else {
		if info.Title != "" {
			pres.Properties.Title = info.Title
		}
		if info.Author != "" {
			pres.Properties.Creator = info.Author
		}
		pres.Properties.Subject = info.Subject
	}

	bar := r.Progress.Bar("Slides", "slides")
	for i, p := range paths {
		if _, err := pres.AddPictureSlide(p); err != nil {
			return nil, fmt.Errorf("adding slide %d: %w", i+1, err)
		}
		bar.Step(i+1, len(paths))
	}
	return pres, nil
}
