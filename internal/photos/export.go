package photos

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"photoscript/internal/applescript"
	"photoscript/internal/fileutil"
	"photoscript/internal/logging"
)

const defaultExportTimeout = 120 * time.Second

// ExportOptions controls ExportPhoto.
type ExportOptions struct {
	// Original exports the unedited original, including burst frames and the
	// movie half of live photos. Otherwise Photos renders a JPEG.
	Original bool
	// Overwrite replaces files of the same name in the destination instead
	// of picking a " (n)" suffix.
	Overwrite bool
	// Timeout bounds the export inside Photos. Zero means two minutes.
	Timeout        time.Duration
	RevealInFinder bool
}

// ExportPhoto exports photo to the directory dest and returns the paths
// written. A single photo can produce several files (live photos, bursts).
func (l *Library) ExportPhoto(ctx context.Context, photo *Photo, dest string, opts ExportOptions) ([]string, error) {
	info, err := os.Stat(dest)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("export destination %s: %w", dest, ErrNotDirectory)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultExportTimeout
	}

	staging, err := os.MkdirTemp(l.tempDir, "photoscript_")
	if err != nil {
		return nil, fmt.Errorf("create export staging dir: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(staging)
	}()

	exportCtx := applescript.WithCallTimeout(ctx, opts.Timeout+handlerSlack)
	if _, err := l.caller.Call(exportCtx, "photoExport", photo.id, staging, opts.Original, max(int(opts.Timeout/time.Second), 1)); err != nil {
		return nil, fmt.Errorf("export photo %s: %w", photo.UUID(), err)
	}

	entries, err := os.ReadDir(staging)
	if err != nil {
		return nil, fmt.Errorf("read export staging dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	// Files from one export that share a stem (IMG_1.jpeg, IMG_1.mov) keep
	// sharing it after renaming.
	stems := map[string]string{}
	exported := make([]string, 0, len(names))
	for _, name := range names {
		target := filepath.Join(dest, name)
		if !opts.Overwrite {
			stem := fileutil.Stem(name)
			chosen, ok := stems[stem]
			if !ok {
				chosen, err = uniqueStem(dest, stem)
				if err != nil {
					return exported, err
				}
				stems[stem] = chosen
			}
			target = filepath.Join(dest, chosen+filepath.Ext(name))
		}
		size, err := fileutil.CopyFileVerified(filepath.Join(staging, name), target)
		if err != nil {
			return exported, fmt.Errorf("copy %s: %w", name, err)
		}
		l.logger.Debug("exported file",
			logging.String(logging.FieldUUID, photo.UUID()),
			logging.String("path", target),
			logging.Int64("bytes", size),
		)
		exported = append(exported, target)
	}

	if opts.RevealInFinder && len(exported) > 0 {
		if err := l.RevealInFinder(ctx, exported); err != nil {
			return exported, err
		}
	}
	return exported, nil
}

// uniqueStem returns stem, or "stem (n)" for the smallest n whose stem is
// not already used in dir. Comparison ignores case.
func uniqueStem(dir, stem string) (string, error) {
	matches, err := fileutil.FindFiles(dir, globEscape(stem)+"*")
	if err != nil {
		return "", fmt.Errorf("scan %s: %w", dir, err)
	}
	taken := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		taken[strings.ToLower(fileutil.Stem(m))] = struct{}{}
	}
	candidate := stem
	for n := 1; ; n++ {
		if _, ok := taken[strings.ToLower(candidate)]; !ok {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s (%d)", stem, n)
	}
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`)

func globEscape(s string) string { return globEscaper.Replace(s) }

// RevealInFinder selects paths in a Finder window.
func (l *Library) RevealInFinder(ctx context.Context, paths []string) error {
	if _, err := l.caller.Call(ctx, "revealInFinder", paths); err != nil {
		return fmt.Errorf("reveal in finder: %w", err)
	}
	return nil
}
