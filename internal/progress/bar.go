// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package progress draws single-line progress bars for the conversion
// stages when stdout is a terminal.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const barWidth = 40

var labelStyle = lipgloss.NewStyle().Bold(true).Width(8)

// Bar renders "<label> <bar> n/total <unit>" in place using carriage returns.
type Bar struct {
	w     io.Writer
	label string
	unit  string
	model progress.Model
	done  bool
}

// New creates a bar writing to w.
func New(w io.Writer, label, unit string) *Bar {
	return &Bar{
		w:     w,
		label: label,
		unit:  unit,
		model: progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth)),
	}
}

// Step redraws the bar for done of total units and ends the line once
// done reaches total.
func (b *Bar) Step(done, total int) {
	if b.done || total <= 0 {
		return
	}
	pct := float64(done) / float64(total)
	fmt.Fprintf(b.w, "\r%s %s %d/%d %s", labelStyle.Render(b.label), b.model.ViewAs(pct), done, total, b.unit)
	if done >= total {
		fmt.Fprintln(b.w)
		b.done = true
	}
}

// Reporter hands out bars for named stages.
type Reporter interface {
	Bar(label, unit string) Stepper
}

// Stepper is the minimal interface the pipeline reports against.
type Stepper interface {
	Step(done, total int)
}

// Terminal returns bars drawn to w.
type Terminal struct {
	W io.Writer
}

func (t Terminal) Bar(label, unit string) Stepper {
	return New(t.W, label, unit)
}

// Silent discards progress.
type Silent struct{}

func (Silent) Bar(label, unit string) Stepper { return silentStepper{} }

type silentStepper struct{}

func (silentStepper) Step(done, total int) {}

// ForStdout returns a Terminal reporter when stdout is an interactive
// terminal and quiet is false, and Silent otherwise.
func ForStdout(quiet bool) Reporter {
	if quiet || !term.IsTerminal(int(os.Stdout.Fd())) {
		return Silent{}
	}
	return Terminal{W: os.Stdout}
}
