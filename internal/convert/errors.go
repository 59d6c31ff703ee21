// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import "errors"

var (
	// ErrFileNotFound is returned when the input path does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrUnsupportedFormat is returned for inputs that are neither PDF nor
	// PowerPoint files.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Stage is a state of a conversion run:
//
//	Start -> Resolved -> [Flattened] -> Rasterized -> ImagesWritten ->
//	Assembled -> Saved -> CleanedUp -> End
//
// Failed is reachable from any state; cleanup still runs afterwards.
type Stage int

const (
	StageStart Stage = iota
	StageResolved
	StageFlattened
	StageRasterized
	StageImagesWritten
	StageAssembled
	StageSaved
	StageCleanedUp
	StageEnd
	StageFailed
)

var stageNames = [...]string{
	StageStart:         "Start",
	StageResolved:      "Resolved",
	StageFlattened:     "Flattened",
	StageRasterized:    "Rasterized",
	StageImagesWritten: "ImagesWritten",
	StageAssembled:     "Assembled",
	StageSaved:         "Saved",
	StageCleanedUp:     "CleanedUp",
	StageEnd:           "End",
	StageFailed:        "Failed",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "Unknown"
	}
	return stageNames[s]
}

// StageError wraps any failure of a run with the last state the run
// reached before failing (Stage). Its message is the underlying error's message.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }
