// Package preflight provides readiness checks for the environment photoscript
// runs in: the macOS release, the osascript and killall binaries, and the
// directories it writes to.
//
// The CLI "photoscript doctor" command runs RunAll and prints every result;
// commands that talk to Photos only fail fast on missing required binaries.
package preflight
