package fileutil

import (
	"os"
	"path/filepath"
	"strings"
)

// FindFiles returns the names in dir matching a shell glob pattern without
// regard to case. A missing directory yields no matches.
func FindFiles(dir, pattern string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	lowered := strings.ToLower(pattern)
	if _, err := filepath.Match(lowered, ""); err != nil {
		return nil, err
	}
	var matches []string
	for _, entry := range entries {
		if ok, _ := filepath.Match(lowered, strings.ToLower(entry.Name())); ok {
			matches = append(matches, entry.Name())
		}
	}
	return matches, nil
}

// Stem returns the file name without its directory and final extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
