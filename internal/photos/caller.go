package photos

import (
	"context"
	_ "embed"
	"fmt"

	"photoscript/internal/applescript"
)

// Script is the AppleScript handler library every Caller is loaded with.
//
//go:embed scripts/photos.applescript
var Script string

// Caller issues scripting calls against Photos. *applescript.Runner
// satisfies it.
type Caller interface {
	// Call invokes a handler from Script with the given arguments.
	Call(ctx context.Context, handler string, args ...any) (any, error)
	// Run executes a standalone script.
	Run(ctx context.Context, source string) (any, error)
}

type entry struct {
	ID   string
	Name string
}

func (l *Library) callString(ctx context.Context, handler string, args ...any) (string, error) {
	v, err := l.caller.Call(ctx, handler, args...)
	if err != nil {
		return "", err
	}
	return applescript.AsString(v)
}

func (l *Library) callBool(ctx context.Context, handler string, args ...any) (bool, error) {
	v, err := l.caller.Call(ctx, handler, args...)
	if err != nil {
		return false, err
	}
	return applescript.AsBool(v)
}

func (l *Library) callInt(ctx context.Context, handler string, args ...any) (int, error) {
	v, err := l.caller.Call(ctx, handler, args...)
	if err != nil {
		return 0, err
	}
	return applescript.AsInt(v)
}

func (l *Library) callStrings(ctx context.Context, handler string, args ...any) ([]string, error) {
	v, err := l.caller.Call(ctx, handler, args...)
	if err != nil {
		return nil, err
	}
	return applescript.AsStrings(v)
}

// callID decodes handlers that answer an object id or 0.
func (l *Library) callID(ctx context.Context, handler string, args ...any) (string, bool, error) {
	v, err := l.caller.Call(ctx, handler, args...)
	if err != nil {
		return "", false, err
	}
	return applescript.AsID(v)
}

// callEntries decodes handlers that answer a list of {id, name} pairs.
func (l *Library) callEntries(ctx context.Context, handler string, args ...any) ([]entry, error) {
	v, err := l.caller.Call(ctx, handler, args...)
	if err != nil {
		return nil, err
	}
	items, err := applescript.AsList(v)
	if err != nil {
		return nil, err
	}
	out := make([]entry, 0, len(items))
	for i, item := range items {
		pair, ok := item.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("%s: entry %d is not an {id, name} pair", handler, i+1)
		}
		id, err := applescript.AsString(pair[0])
		if err != nil {
			return nil, fmt.Errorf("%s: entry %d id: %w", handler, i+1, err)
		}
		name, err := applescript.AsString(pair[1])
		if err != nil {
			return nil, fmt.Errorf("%s: entry %d name: %w", handler, i+1, err)
		}
		out = append(out, entry{ID: id, Name: name})
	}
	return out, nil
}
