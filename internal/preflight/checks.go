package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"photoscript/internal/config"
	"photoscript/internal/deps"
	"photoscript/internal/macos"
)

// Oldest release the handler library targets (Photos 5).
const (
	minMacOSMajor = 10
	minMacOSMinor = 15
)

func currentVersion() (macos.Version, error) { return macos.Current() }

// CheckMacOS verifies the system is a supported macOS release.
func CheckMacOS(version func() (macos.Version, error)) Result {
	const name = "macOS"
	v, err := version()
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if !v.AtLeast(minMacOSMajor, minMacOSMinor) {
		return Result{Name: name, Detail: fmt.Sprintf("%s (requires %d.%d or newer)", v, minMacOSMajor, minMacOSMinor)}
	}
	return Result{Name: name, Passed: true, Detail: v.String()}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the binaries needed to drive Photos.
func CheckSystemDeps(_ context.Context, cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(deps.PhotosRequirements(cfg.Photos.OsascriptBinary))
}

// DependencyResult converts a dependency status into a check result. Missing
// optional binaries pass with a note.
func DependencyResult(status deps.Status) Result {
	switch {
	case status.Available:
		return Result{Name: status.Name, Passed: true, Detail: status.Command}
	case status.Optional:
		return Result{Name: status.Name, Passed: true, Detail: status.Detail + " (optional)"}
	default:
		return Result{Name: status.Name, Detail: status.Detail}
	}
}
