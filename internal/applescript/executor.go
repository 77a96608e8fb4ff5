package applescript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// Error numbers reported by the scripting host.
const (
	CodeTimedOut      = -1712
	CodeCantGet       = -1728
	CodeUserCanceled  = -128
	CodeAppNotRunning = -600
)

// ScriptError is a failure reported by osascript.
type ScriptError struct {
	Handler string
	Message string
	Code    int
}

func (e *ScriptError) Error() string {
	var b strings.Builder
	b.WriteString("applescript")
	if e.Handler != "" {
		b.WriteString(" ")
		b.WriteString(e.Handler)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Code != 0 {
		b.WriteString(" (")
		b.WriteString(strconv.Itoa(e.Code))
		b.WriteString(")")
	}
	return b.String()
}

// TimedOut reports whether the scripting host gave up waiting for the target application.
func (e *ScriptError) TimedOut() bool {
	return e.Code == CodeTimedOut || strings.Contains(strings.ToLower(e.Message), "timed out")
}

// Executor abstracts command execution for testability. script is fed to
// the binary on stdin.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, script string) ([]byte, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, script string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Stdin = strings.NewReader(script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, parseScriptError(stderr.String())
		}
		return nil, fmt.Errorf("run %s: %w", binary, err)
	}
	return stdout.Bytes(), nil
}

// 0:45: execution error: Photos got an error: AppleEvent timed out. (-1712)
var scriptErrorPattern = regexp.MustCompile(`(?s)^(?:\d+:\d+:\s*)?(?:execution|syntax|script) error:\s*(.*?)\s*\((-?\d+)\)\s*$`)

func parseScriptError(stderr string) *ScriptError {
	text := strings.TrimSpace(stderr)
	if m := scriptErrorPattern.FindStringSubmatch(text); m != nil {
		code, _ := strconv.Atoi(m[2])
		return &ScriptError{Message: m[1], Code: code}
	}
	if text == "" {
		text = "osascript exited with an error"
	}
	return &ScriptError{Message: text}
}
