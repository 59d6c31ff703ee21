// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package flatten

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const macSofficePath = "/Applications/LibreOffice.app/Contents/MacOS/soffice"

// libreOffice exports through a headless soffice process. soffice names
// its output after the source file, so the export goes to a scratch
// directory next to dst and is renamed into place.
type libreOffice struct {
	configured string
	exec       executor
}

func newLibreOffice(exec executor, configured string) *libreOffice {
	return &libreOffice{configured: configured, exec: exec}
}

func (l *libreOffice) Name() string { return "libreoffice" }

// binary resolves the soffice executable: configured path, then PATH, then
// the macOS application bundle.
func (l *libreOffice) binary() (string, bool) {
	if l.configured != "" {
		return l.configured, l.exec.Exists(l.configured)
	}
	for _, name := range []string{"soffice", "libreoffice"} {
		if p, err := l.exec.LookPath(name); err == nil {
			return p, true
		}
	}
	if l.exec.Exists(macSofficePath) {
		return macSofficePath, true
	}
	return "", false
}

func (l *libreOffice) Available(ctx context.Context) bool {
	_, ok := l.binary()
	return ok
}

func (l *libreOffice) Flatten(ctx context.Context, src, dst string) error {
	bin, ok := l.binary()
	if !ok {
		return ErrApplicationNotAvailable
	}

	scratch, err := os.MkdirTemp(filepath.Dir(dst), ".flatten-")
	if err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	args := []string{"--headless", "--norestore", "--convert-to", "pdf", "--outdir", scratch, src}
	out, err := l.exec.CombinedOutput(ctx, bin, args...)
	if err != nil {
		return &ExternalToolError{Tool: l.Name(), Output: string(out), Err: err}
	}

	produced := filepath.Join(scratch, strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))+".pdf")
	if !l.exec.Exists(produced) {
		return &ExternalToolError{Tool: l.Name(), Output: string(out), Err: fmt.Errorf("expected %s was not produced", filepath.Base(produced))}
	}
	if err := os.Rename(produced, dst); err != nil {
		return fmt.Errorf("moving exported PDF into place: %w", err)
	}
	return nil
}
