package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName returns name in Unicode NFC. Photos stores album and folder
// names in whatever form they were typed or imported with, so names are
// normalized before comparison.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// SameName reports whether two album or folder names are equal after NFC
// normalization.
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}

// SplitPath splits a delimited library path ("Folder/Sub/Album") into its
// elements. Empty elements are dropped.
func SplitPath(path, delim string) []string {
	if delim == "" {
		delim = "/"
	}
	parts := strings.Split(path, delim)
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
