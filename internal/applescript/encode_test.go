package applescript_test

import (
	"math"
	"testing"

	"photoscript/internal/applescript"
)

func TestEncode(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "missing value"},
		{"missing", applescript.Missing{}, "missing value"},
		{"string", "Summer", `"Summer"`},
		{"quotes", `say "hi"`, `"say \"hi\""`},
		{"backslash", `C:\dir`, `"C:\\dir"`},
		{"newline", "a\nb", `"a\nb"`},
		{"unicode", "Café", `"Café"`},
		{"true", true, "true"},
		{"false", false, "false"},
		{"int", 42, "42"},
		{"negative int64", int64(-7), "-7"},
		{"whole float", 3.0, "3.0"},
		{"float", -122.25, "-122.25"},
		{"strings", []string{"a", "b"}, `{"a", "b"}`},
		{"empty strings", []string{}, "{}"},
		{"ints", []int{1, 2}, "{1, 2}"},
		{"floats", []float64{1.5, 2}, "{1.5, 2.0}"},
		{"mixed", []any{"x", 1, nil}, `{"x", 1, missing value}`},
		{"nested", []any{[]string{"a"}, []any{}}, `{{"a"}, {}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := applescript.Encode(tc.in)
			if err != nil {
				t.Fatalf("Encode returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Encode(%#v) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestEncodeNilFloatPointer(t *testing.T) {
	var f *float64
	got, err := applescript.Encode(f)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if got != "missing value" {
		t.Fatalf("got %s, want missing value", got)
	}
}

func TestEncodeRejectsUnsupported(t *testing.T) {
	for _, v := range []any{math.NaN(), math.Inf(1), struct{}{}, map[string]string{}} {
		if _, err := applescript.Encode(v); err == nil {
			t.Fatalf("expected error encoding %#v", v)
		}
	}
}

func TestEncodeArgs(t *testing.T) {
	got, err := applescript.EncodeArgs([]any{"id/L0/001", 10, true})
	if err != nil {
		t.Fatalf("EncodeArgs returned error: %v", err)
	}
	if got != `"id/L0/001", 10, true` {
		t.Fatalf("unexpected args %s", got)
	}
	if got, _ := applescript.EncodeArgs(nil); got != "" {
		t.Fatalf("expected empty arg list, got %q", got)
	}
	if _, err := applescript.EncodeArgs([]any{1, struct{}{}}); err == nil {
		t.Fatal("expected error for unsupported argument")
	}
}
