// Package applescript is the scripting bridge between photoscript and macOS
// applications driven through osascript.
//
// A Runner holds a library of AppleScript handlers and calls one handler per
// request: arguments are encoded as AppleScript source literals, the reply is
// printed by osascript in source form (-s s) and parsed back into Go values
// (strings, int64, float64, bool, []any, map[string]any, Missing). Calls that
// time out reset the target application and are retried once.
//
// Command execution sits behind the Executor interface so tests can stub
// osascript entirely; the Killer interface does the same for the reset path.
package applescript
