// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package flatten

import (
	"context"
	"os"
	"os/exec"
)

// executor abstracts command execution and file probing for testing.
type executor interface {
	LookPath(file string) (string, error)
	Exists(path string) bool
	// Output runs the command and returns its stdout.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	// CombinedOutput runs the command and returns stdout and stderr together,
	// which is what ends up in an ExternalToolError.
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (o *osExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

func (o *osExecutor) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

var defaultExec = &osExecutor{}
