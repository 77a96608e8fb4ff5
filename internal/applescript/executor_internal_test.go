package applescript

import "testing"

func TestParseScriptError(t *testing.T) {
	cases := []struct {
		stderr  string
		message string
		code    int
		timeout bool
	}{
		{"0:45: execution error: Photos got an error: AppleEvent timed out. (-1712)\n", "Photos got an error: AppleEvent timed out.", -1712, true},
		{"123:130: execution error: Photos got an error: Can’t get album id \"x\". (-1728)", "Photos got an error: Can’t get album id \"x\".", -1728, false},
		{"12:14: syntax error: Expected end of line but found identifier. (-2741)", "Expected end of line but found identifier.", -2741, false},
		{"execution error: boom (1)", "boom", 1, false},
		{"something odd happened", "something odd happened", 0, false},
		{"", "osascript exited with an error", 0, false},
	}
	for _, tc := range cases {
		err := parseScriptError(tc.stderr)
		if err.Message != tc.message || err.Code != tc.code {
			t.Errorf("parseScriptError(%q) = %q (%d), want %q (%d)", tc.stderr, err.Message, err.Code, tc.message, tc.code)
		}
		if err.TimedOut() != tc.timeout {
			t.Errorf("parseScriptError(%q).TimedOut() = %v", tc.stderr, err.TimedOut())
		}
	}
}

func TestScriptErrorString(t *testing.T) {
	err := &ScriptError{Handler: "albumName", Message: "Can't get album.", Code: CodeCantGet}
	if got := err.Error(); got != "applescript albumName: Can't get album. (-1728)" {
		t.Fatalf("unexpected error text %q", got)
	}
}
