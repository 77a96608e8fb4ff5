// Package capture works out when a media file was captured so imports can be
// grouped into date-named albums. Sources are tried in order: EXIF
// DateTimeOriginal for still images, a date embedded in the filename, then
// the file modification time.
package capture
