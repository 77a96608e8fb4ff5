// Package main hosts the photoscript CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into calls on the photos
// package: listing and editing albums and folders, querying photos, importing
// files (optionally grouped into dated albums) and exporting with an optional
// ledger that remembers what already reached a destination. Configuration
// loading, logger construction and the Photos connection live in the shared
// command context so subcommands stay declarative.
package main
