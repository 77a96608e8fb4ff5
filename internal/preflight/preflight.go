package preflight

import (
	"context"

	"photoscript/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the environment checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckMacOS(currentVersion))
	for _, status := range CheckSystemDeps(ctx, cfg) {
		results = append(results, DependencyResult(status))
	}

	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))

	// Export directory (when configured)
	if cfg.Export.Dir != "" {
		results = append(results, CheckDirectoryAccess("Export directory", cfg.Export.Dir))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
