// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunStatus indicates how a conversion run ended.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// RunRecord describes one invocation of the converter. It is only
// persisted when the run history is enabled.
type RunRecord struct {
	// ID is a random identifier assigned at the start of the run.
	ID string `json:"id" yaml:"id"`

	// Input is the path given on the command line.
	Input string `json:"input" yaml:"input"`

	// Output is the written .pptx path; empty when the run failed.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// Pages is the number of slides produced.
	Pages int `json:"pages" yaml:"pages"`

	// Format is the intermediate image encoding.
	Format ImageFormat `json:"format" yaml:"format"`

	// Flattened reports whether the input went through the flattening bridge.
	Flattened bool `json:"flattened" yaml:"flattened"`

	// Status is succeeded or failed.
	Status RunStatus `json:"status" yaml:"status"`

	// Error holds the failure message for failed runs.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// Duration is the wall-clock time of the run.
	Duration time.Duration `json:"duration" yaml:"duration"`
}
