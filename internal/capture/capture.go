package capture

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// Source names where a capture date came from.
type Source string

const (
	SourceEXIF     Source = "exif"
	SourceFilename Source = "filename"
	SourceModTime  Source = "mtime"
	SourceNow      Source = "now"
)

var exifExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".heic": true, ".heif": true,
	".tif": true, ".tiff": true, ".dng": true,
}

// Patterns are tried in order; the first that parses wins.
var filenamePatterns = []struct {
	regex  *regexp.Regexp
	layout string
}{
	{regexp.MustCompile(`DJI_(\d{8})`), "20060102"},
	{regexp.MustCompile(`^(\d{8})_C\d+`), "20060102"},
	{regexp.MustCompile(`(\d{8}_\d{6})`), "20060102_150405"},
	{regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`), "2006-01-02"},
	{regexp.MustCompile(`(\d{8})`), "20060102"},
}

// Date returns the best capture date for path and where it came from.
func Date(path string) (time.Time, Source) {
	if exifExts[strings.ToLower(filepath.Ext(path))] {
		if t, err := exifDate(path); err == nil {
			return t, SourceEXIF
		}
	}
	if t, ok := FromFilename(filepath.Base(path)); ok {
		return t, SourceFilename
	}
	if info, err := os.Stat(path); err == nil {
		return info.ModTime(), SourceModTime
	}
	return time.Now(), SourceNow
}

// FromFilename parses a date embedded in name, in local time.
func FromFilename(name string) (time.Time, bool) {
	for _, p := range filenamePatterns {
		m := p.regex.FindStringSubmatch(name)
		if len(m) < 2 {
			continue
		}
		t, err := time.ParseInLocation(p.layout, m[1], time.Local)
		if err != nil || t.Year() < 1900 {
			continue
		}
		return t, true
	}
	return time.Time{}, false
}

func exifDate(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, err
	}
	return x.DateTime()
}

// Group is a set of files captured in the same period.
type Group struct {
	Key   string
	Paths []string
}

// GroupBy buckets paths by their capture date formatted with layout, for
// example "2006-01" for months. Groups are sorted by key and paths keep
// their input order.
func GroupBy(paths []string, layout string) []Group {
	if layout == "" {
		layout = "2006-01"
	}
	index := map[string]int{}
	var groups []Group
	for _, p := range paths {
		t, _ := Date(p)
		key := t.Format(layout)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Paths = append(groups[i].Paths, p)
	}
	sort.SliceStable(groups, func(a, b int) bool { return groups[a].Key < groups[b].Key })
	return groups
}
