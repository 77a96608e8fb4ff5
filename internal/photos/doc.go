// Package photos exposes the Photos library as handles: Library, Album,
// Folder, and Photo. Every method issues one or a few scripting calls
// through a Caller (normally an *applescript.Runner loaded with the embedded
// handler library); nothing is cached, so each getter reflects the live
// state of Photos.
//
// Path helpers walk folders one level at a time ("Travel/2024/Rome"), and
// Library.Photos fetches identifiers in chunks so a walk over a large
// library starts yielding immediately.
package photos
