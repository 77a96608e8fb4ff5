// Package macos reports the running macOS version.
package macos
