// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package flatten

import (
	"bytes"
	"context"
	"fmt"
)

const (
	binOsascript = "osascript"
	binMdfind    = "mdfind"

	bundlePowerPoint = "com.microsoft.Powerpoint"
	bundleKeynote    = "com.apple.iWork.Keynote"
)

// Both scripts take the source and destination POSIX paths as arguments so
// no path ever needs AppleScript string escaping.
const scriptPowerPoint = `on run argv
	set srcFile to POSIX file (item 1 of argv)
	set dstFile to POSIX file (item 2 of argv)
	tell application "Microsoft PowerPoint"
		open srcFile
		set thePres to active presentation
		save thePres in dstFile as save as PDF
		close thePres saving no
	end tell
end run`

const scriptKeynote = `on run argv
	set srcFile to POSIX file (item 1 of argv)
	set dstFile to POSIX file (item 2 of argv)
	tell application "Keynote"
		set theDoc to open srcFile
		export theDoc to dstFile as PDF
		close theDoc saving no
	end tell
end run`

// appleScriptApp drives a macOS application through osascript. It is only
// available on darwin when the application bundle is registered with
// LaunchServices.
type appleScriptApp struct {
	name     string
	bundleID string
	script   string
	goos     string
	exec     executor
}

func newPowerPoint(goos string, exec executor) *appleScriptApp {
	return &appleScriptApp{
		name:     "powerpoint",
		bundleID: bundlePowerPoint,
		script:   scriptPowerPoint,
		goos:     goos,
		exec:     exec,
	}
}

func newKeynote(goos string, exec executor) *appleScriptApp {
	return &appleScriptApp{
		name:     "keynote",
		bundleID: bundleKeynote,
		script:   scriptKeynote,
		goos:     goos,
		exec:     exec,
	}
}

func (a *appleScriptApp) Name() string { return a.name }

// Available queries the Spotlight application registry for the bundle id.
func (a *appleScriptApp) Available(ctx context.Context) bool {
	if a.goos != "darwin" {
		return false
	}
	if _, err := a.exec.LookPath(binOsascript); err != nil {
		return false
	}
	query := fmt.Sprintf("kMDItemCFBundleIdentifier == '%s'", a.bundleID)
	out, err := a.exec.Output(ctx, binMdfind, query)
	if err != nil {
		return false
	}
	return len(bytes.TrimSpace(out)) > 0
}

func (a *appleScriptApp) Flatten(ctx context.Context, src, dst string) error {
	out, err := a.exec.CombinedOutput(ctx, binOsascript, "-e", a.script, src, dst)
	if err != nil {
		return &ExternalToolError{Tool: a.name, Output: string(out), Err: err}
	}
	if !a.exec.Exists(dst) {
		return &ExternalToolError{Tool: a.name, Output: string(out), Err: fmt.Errorf("no PDF written to %s", dst)}
	}
	return nil
}
