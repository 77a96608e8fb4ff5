package macos

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnsupported is returned by ProductVersion on platforms other than macOS.
var ErrUnsupported = errors.New("not running on macOS")

// Version is a parsed macOS product version such as 14.5.
type Version struct {
	Major int
	Minor int
	Patch int
}

func (v Version) String() string {
	if v.Patch != 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast reports whether v is major.minor or newer.
func (v Version) AtLeast(major, minor int) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

// ParseVersion parses "14", "14.5", or "10.15.7".
func ParseVersion(s string) (Version, error) {
	fields := strings.Split(strings.TrimSpace(s), ".")
	if len(fields) == 0 || len(fields) > 3 || fields[0] == "" {
		return Version{}, fmt.Errorf("parse macOS version %q", s)
	}
	var parts [3]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("parse macOS version %q", s)
		}
		parts[i] = n
	}
	return Version{Major: parts[0], Minor: parts[1], Patch: parts[2]}, nil
}

// Current returns the parsed version of the running system.
func Current() (Version, error) {
	raw, err := ProductVersion()
	if err != nil {
		return Version{}, err
	}
	return ParseVersion(raw)
}
