package photos

import "errors"

var (
	// ErrNotFound is returned when a named album or folder does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidID is returned when a UUID does not name an existing object.
	ErrInvalidID = errors.New("invalid id")
	// ErrConflictingQuery is returned when a PhotoQuery sets more than one selector.
	ErrConflictingQuery = errors.New("only one of search, uuids, range may be set")
	// ErrInvalidRange is returned for malformed or out of bounds ranges.
	ErrInvalidRange = errors.New("invalid range")
	ErrEmptyPath    = errors.New("folder path is empty")
	ErrEmptyName    = errors.New("album name is empty")
	// ErrInvalidDelimiter is returned when a path delimiter is not exactly one character.
	ErrInvalidDelimiter = errors.New("delimiter must be a single character")
	ErrNotDirectory     = errors.New("not a directory")
	ErrInvalidLocation  = errors.New("invalid location")
	// ErrCreateFailed is returned when Photos refuses to create an album or folder.
	ErrCreateFailed = errors.New("photos did not create the object")
)
