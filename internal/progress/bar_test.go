// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package progress

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBarStep(t *testing.T) {
	var buf bytes.Buffer
	bar := New(&buf, "Pages", "page")

	bar.Step(1, 3)
	assert.Contains(t, buf.String(), "1/3 page")
	assert.False(t, strings.HasSuffix(buf.String(), "\n"))

	bar.Step(3, 3)
	assert.Contains(t, buf.String(), "3/3 page")
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))

	n := buf.Len()
	bar.Step(3, 3)
	assert.Equal(t, n, buf.Len(), "finished bar does not redraw")
}

func TestBarIgnoresEmptyTotal(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "Slides", "slide").Step(0, 0)
	assert.Zero(t, buf.Len())
}

func TestReporters(t *testing.T) {
	var buf bytes.Buffer
	Terminal{W: &buf}.Bar("Slides", "slide").Step(2, 2)
	assert.Contains(t, buf.String(), "2/2 slide")

	assert.NotPanics(t, func() { Silent{}.Bar("Pages", "page").Step(1, 1) })
	assert.IsType(t, Silent{}, ForStdout(true))
}
