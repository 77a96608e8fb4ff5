package applescript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Killer resets a hung application so a timed out call can be retried.
type Killer interface {
	Kill(ctx context.Context, app string) (bool, error)
}

type killallKiller struct {
	binary string
}

// Kill runs `killall <app>`. It reports false when no process matched.
func (k killallKiller) Kill(ctx context.Context, app string) (bool, error) {
	binary := k.binary
	if binary == "" {
		binary = "killall"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return false, nil
	}
	cmd := exec.CommandContext(ctx, path, app) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && strings.Contains(stderr.String(), "No matching processes") {
			return false, nil
		}
		return false, fmt.Errorf("killall %s: %w", app, err)
	}
	return true, nil
}
