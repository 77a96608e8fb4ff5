package applescript

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"photoscript/internal/logging"
)

const lockRetryDelay = 100 * time.Millisecond

// Option configures the runner.
type Option func(*Runner)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(r *Runner) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithKiller injects the application reset used before a retry.
func WithKiller(k Killer) Option {
	return func(r *Runner) {
		if k != nil {
			r.killer = k
		}
	}
}

// WithTimeout bounds each call. Zero leaves calls unbounded.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d >= 0 {
			r.timeout = d
		}
	}
}

// WithRetryOnTimeout toggles the reset-and-retry behaviour for timed out calls.
func WithRetryOnTimeout(retry bool) Option {
	return func(r *Runner) { r.retry = retry }
}

// WithLockPath serialises calls across processes through a flock on path.
func WithLockPath(path string) Option {
	return func(r *Runner) { r.lockPath = strings.TrimSpace(path) }
}

// WithLogger sets the runner logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithAppName sets the application that is reset after a timeout.
func WithAppName(name string) Option {
	return func(r *Runner) {
		if name = strings.TrimSpace(name); name != "" {
			r.appName = name
		}
	}
}

// Runner calls handlers of an AppleScript library through osascript.
type Runner struct {
	binary   string
	library  string
	appName  string
	timeout  time.Duration
	retry    bool
	lockPath string
	exec     Executor
	killer   Killer
	logger   *slog.Logger
}

// New constructs a runner for the given osascript binary and handler library source.
func New(binary, library string, opts ...Option) (*Runner, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("osascript binary required")
	}
	r := &Runner{
		binary:  binary,
		library: library,
		appName: "Photos",
		retry:   true,
		exec:    commandExecutor{},
		killer:  killallKiller{},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "applescript")
	return r, nil
}

// Call runs `return handler(args...)` against the handler library and
// parses the reply.
func (r *Runner) Call(ctx context.Context, handler string, args ...any) (any, error) {
	handler = strings.TrimSpace(handler)
	if handler == "" {
		return nil, errors.New("handler name required")
	}
	argList, err := EncodeArgs(args)
	if err != nil {
		return nil, fmt.Errorf("encode %s arguments: %w", handler, err)
	}
	script := r.library + "\nreturn " + handler + "(" + argList + ")\n"
	return r.execute(ctx, handler, script)
}

// Run executes a standalone script and parses its reply.
func (r *Runner) Run(ctx context.Context, source string) (any, error) {
	return r.execute(ctx, "", source)
}

func (r *Runner) execute(ctx context.Context, handler, script string) (any, error) {
	unlock, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	callOpts := callOptionsFrom(ctx)
	timeout := r.timeout
	if callOpts.timeout > 0 {
		timeout = callOpts.timeout
	}

	out, err := r.attempt(ctx, handler, script, timeout)
	if err == nil || !r.retry || callOpts.noReset || !r.timedOut(ctx, err) {
		return out, err
	}

	r.logger.Warn("applescript call timed out; resetting application",
		logging.String(logging.FieldHandler, handler),
		logging.String("app", r.appName),
		logging.Error(err),
		logging.Alert("timeout"),
	)
	if killed, killErr := r.killer.Kill(ctx, r.appName); killErr != nil {
		r.logger.Warn("application reset failed",
			logging.String("app", r.appName),
			logging.Error(killErr),
		)
	} else if !killed {
		r.logger.Debug("application was not running", logging.String("app", r.appName))
	}
	return r.attempt(ctx, handler, script, timeout)
}

func (r *Runner) attempt(ctx context.Context, handler, script string, timeout time.Duration) (any, error) {
	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := r.exec.Run(callCtx, r.binary, []string{"-s", "s"}, script)
	elapsed := time.Since(start)
	if err != nil {
		var scriptErr *ScriptError
		if errors.As(err, &scriptErr) && scriptErr.Handler == "" {
			scriptErr.Handler = handler
		}
		if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = &ScriptError{Handler: handler, Message: fmt.Sprintf("call timed out after %s", timeout), Code: CodeTimedOut}
		}
		r.logger.Debug("applescript call failed",
			logging.String(logging.FieldHandler, handler),
			logging.Duration("elapsed", elapsed),
			logging.Error(err),
		)
		return nil, err
	}
	r.logger.Debug("applescript call",
		logging.String(logging.FieldHandler, handler),
		logging.Duration("elapsed", elapsed),
	)

	value, err := Parse(string(out))
	if err != nil {
		return nil, fmt.Errorf("%s reply: %w", nameOr(handler, "script"), err)
	}
	return value, nil
}

func (r *Runner) timedOut(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var scriptErr *ScriptError
	return errors.As(err, &scriptErr) && scriptErr.TimedOut()
}

func (r *Runner) acquire(ctx context.Context) (func(), error) {
	if r.lockPath == "" {
		return func() {}, nil
	}
	lock := flock.New(r.lockPath)
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("acquire lock %s: not acquired", r.lockPath)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release lock", logging.String("lock", r.lockPath), logging.Error(err))
		}
	}, nil
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
