//go:build darwin

package macos

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// ProductVersion returns the raw product version, e.g. "14.5".
func ProductVersion() (string, error) {
	v, err := unix.Sysctl("kern.osproductversion")
	if err != nil {
		return "", fmt.Errorf("sysctl kern.osproductversion: %w", err)
	}
	return v, nil
}
