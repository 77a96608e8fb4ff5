// Package ledger records which photos have been exported where, so repeat
// exports of an album or selection can skip photos that already reached a
// destination directory.
//
// The ledger is a SQLite database (modernc.org/sqlite, no cgo) with embedded
// migrations applied on Open. Writes retry briefly on SQLITE_BUSY since
// several CLI invocations can share one ledger.
package ledger
