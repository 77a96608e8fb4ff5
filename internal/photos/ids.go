package photos

import "strings"

// Photos 5 and later report object ids with a type suffix that the library
// database itself does not store.
const (
	SuffixPhoto  = "/L0/001"
	SuffixAlbum  = "/L0/040"
	SuffixFolder = "/L0/020"
)

// BareUUID strips the scripting suffix from id.
func BareUUID(id string) string {
	before, _, _ := strings.Cut(id, "/")
	return before
}

// scriptID returns the identifier Photos expects for uuid, appending suffix
// when uuid is bare and Photos is version 5 or later.
func (l *Library) scriptID(uuid, suffix string) string {
	uuid = strings.TrimSpace(uuid)
	if strings.Contains(uuid, "/") || l.major < 5 {
		return uuid
	}
	return uuid + suffix
}
