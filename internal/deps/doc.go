// Package deps checks that the external binaries photoscript shells out to
// are installed.
package deps
