// Package testsupport holds shared helpers for tests: temp-dir configs, a
// ledger opener, sized file fixtures and FakePhotos, an in-memory stand-in for
// the Photos scripting interface.
package testsupport
