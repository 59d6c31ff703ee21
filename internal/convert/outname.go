// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	pptxExt = ".pptx"

	// FlattenSuffix marks decks produced from a flattened presentation.
	FlattenSuffix = " (flatten)"
)

// OutputPath returns the first of <base><suffix>.pptx, <base><suffix>_1.pptx,
// <base><suffix>_2.pptx, ... in dir that does not exist yet. It only reflects
// the filesystem at call time; there is no locking against other writers.
func OutputPath(dir, base, suffix string) (string, error) {
	return freePath(dir, base+suffix, pptxExt)
}

func freePath(dir, stem, ext string) (string, error) {
	candidate := filepath.Join(dir, stem+ext)
	for i := 1; ; i++ {
		_, err := os.Lstat(candidate)
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("checking %s: %w", candidate, err)
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
	}
}
