package applescript

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Missing is AppleScript's `missing value`.
type Missing struct{}

func (Missing) String() string { return "missing value" }

// Encode renders v as an AppleScript source literal.
func Encode(v any) (string, error) {
	var b strings.Builder
	if err := encodeValue(&b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

// EncodeArgs renders a comma separated argument list.
func EncodeArgs(args []any) (string, error) {
	parts := make([]string, 0, len(args))
	for i, arg := range args {
		lit, err := Encode(arg)
		if err != nil {
			return "", fmt.Errorf("argument %d: %w", i+1, err)
		}
		parts = append(parts, lit)
	}
	return strings.Join(parts, ", "), nil
}

func encodeValue(b *strings.Builder, v any) error {
	switch value := v.(type) {
	case nil, Missing, *Missing:
		b.WriteString("missing value")
	case string:
		writeString(b, value)
	case bool:
		if value {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case int:
		b.WriteString(strconv.Itoa(value))
	case int32:
		b.WriteString(strconv.FormatInt(int64(value), 10))
	case int64:
		b.WriteString(strconv.FormatInt(value, 10))
	case float64:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("encode %v: not representable", value)
		}
		s := strconv.FormatFloat(value, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			// keep reals as reals so Photos sees a real, not an integer
			s += ".0"
		}
		b.WriteString(s)
	case *float64:
		if value == nil {
			b.WriteString("missing value")
			return nil
		}
		return encodeValue(b, *value)
	case []string:
		items := make([]any, len(value))
		for i, s := range value {
			items[i] = s
		}
		return encodeList(b, items)
	case []int:
		items := make([]any, len(value))
		for i, n := range value {
			items[i] = n
		}
		return encodeList(b, items)
	case []float64:
		items := make([]any, len(value))
		for i, f := range value {
			items[i] = f
		}
		return encodeList(b, items)
	case []any:
		return encodeList(b, value)
	default:
		return fmt.Errorf("encode %T: unsupported type", v)
	}
	return nil
}

func encodeList(b *strings.Builder, items []any) error {
	b.WriteByte('{')
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		if err := encodeValue(b, item); err != nil {
			return err
		}
	}
	b.WriteByte('}')
	return nil
}

func writeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}
