//go:build !darwin

package macos

// ProductVersion returns ErrUnsupported off macOS.
func ProductVersion() (string, error) {
	return "", ErrUnsupported
}
