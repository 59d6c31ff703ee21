// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package flatten exports editable presentation files (.ppt, .pptx) to PDF
// by driving an installed desktop application. The capability is optional:
// Detect reports ErrApplicationNotAvailable when no supported application
// can be found, and callers treat that as a normal, typed failure.
package flatten

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/pdf2pptx/pkg/types"
)

var (
	// ErrApplicationNotAvailable is returned when no presentation application
	// usable for flattening is installed.
	ErrApplicationNotAvailable = errors.New("presentation application not available")

	// ErrExternalTool marks failures reported by the automation process.
	ErrExternalTool = errors.New("external tool failed")
)

// ExternalToolError carries the diagnostic output of a failed automation call.
type ExternalToolError struct {
	Tool   string
	Output string
	Err    error
}

func (e *ExternalToolError) Error() string {
	msg := fmt.Sprintf("%s failed", e.Tool)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

// Unwrap exposes both the ErrExternalTool marker and the underlying cause.
func (e *ExternalToolError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrExternalTool}
	}
	return []error{ErrExternalTool, e.Err}
}

// Flattener exports a presentation file to PDF.
type Flattener interface {
	// Name returns the backend name ("powerpoint", "keynote", "libreoffice").
	Name() string

	// Available reports whether the application is installed.
	Available(ctx context.Context) bool

	// Flatten opens src, exports it as a PDF at dst, and closes it without
	// saving changes. src and dst should be absolute paths.
	Flatten(ctx context.Context, src, dst string) error
}

// Detector finds an installed flattening backend.
type Detector struct {
	goos        string
	exec        executor
	sofficePath string
	logger      *zap.Logger
}

// NewDetector creates a Detector for the current platform.
func NewDetector(cfg types.FlattenConfig, logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{
		goos:        runtime.GOOS,
		exec:        defaultExec,
		sofficePath: cfg.SofficePath,
		logger:      logger,
	}
}

// candidates returns the backends to probe for the requested selection, in
// preference order.
func (d *Detector) candidates(backend types.FlattenBackend) ([]Flattener, error) {
	powerpoint := newPowerPoint(d.goos, d.exec)
	keynote := newKeynote(d.goos, d.exec)
	libreoffice := newLibreOffice(d.exec, d.sofficePath)

	switch backend {
	case "", types.FlattenAuto:
		return []Flattener{powerpoint, keynote, libreoffice}, nil
	case types.FlattenPowerPoint:
		return []Flattener{powerpoint}, nil
	case types.FlattenKeynote:
		return []Flattener{keynote}, nil
	case types.FlattenLibreOffice:
		return []Flattener{libreoffice}, nil
	default:
		return nil, fmt.Errorf("unknown flatten backend %q", backend)
	}
}

// Detect returns the first available backend for the selection, or an error
// wrapping ErrApplicationNotAvailable.
func (d *Detector) Detect(ctx context.Context, backend types.FlattenBackend) (Flattener, error) {
	cands, err := d.candidates(backend)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(cands))
	for _, f := range cands {
		names = append(names, f.Name())
		if f.Available(ctx) {
			d.logger.Debug("flatten backend detected", zap.String("backend", f.Name()))
			return f, nil
		}
		d.logger.Debug("flatten backend not available", zap.String("backend", f.Name()))
	}
	return nil, fmt.Errorf("%w: tried %s on %s", ErrApplicationNotAvailable, strings.Join(names, ", "), d.goos)
}
