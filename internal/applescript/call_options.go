package applescript

import (
	"context"
	"time"
)

type callOptionsKey struct{}

type callOptions struct {
	timeout time.Duration
	noReset bool
}

func callOptionsFrom(ctx context.Context) callOptions {
	opts, _ := ctx.Value(callOptionsKey{}).(callOptions)
	return opts
}

// WithCallTimeout replaces the runner timeout for calls made with ctx.
// Handlers that bound their own work (waiting for launch, exporting) use it
// so the runner deadline does not fire before the handler answers.
func WithCallTimeout(ctx context.Context, d time.Duration) context.Context {
	opts := callOptionsFrom(ctx)
	opts.timeout = d
	return context.WithValue(ctx, callOptionsKey{}, opts)
}

// WithoutReset disables the kill-and-retry for timed out calls made with ctx.
func WithoutReset(ctx context.Context) context.Context {
	opts := callOptionsFrom(ctx)
	opts.noReset = true
	return context.WithValue(ctx, callOptionsKey{}, opts)
}
