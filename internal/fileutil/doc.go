// Package fileutil holds the small file helpers export relies on: verified
// copies that keep the source timestamps and case-insensitive globbing used
// to avoid name collisions in the destination directory.
package fileutil
