// Package textutil provides the name handling shared by the Photos façade
// and the CLI: NFC normalization for album and folder comparisons, splitting
// delimited library paths, and filename sanitization.
package textutil
