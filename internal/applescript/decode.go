package applescript

import (
	"fmt"
	"strconv"
)

// IsMissing reports whether v is `missing value` (or an empty reply).
func IsMissing(v any) bool {
	switch v.(type) {
	case nil, Missing:
		return true
	}
	return false
}

// AsString decodes a text reply. `missing value` decodes to "".
func AsString(v any) (string, error) {
	switch value := v.(type) {
	case nil, Missing:
		return "", nil
	case string:
		return value, nil
	case int64:
		return strconv.FormatInt(value, 10), nil
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), nil
	case Tagged:
		return value.Text, nil
	default:
		return "", fmt.Errorf("decode string: unexpected %T", v)
	}
}

// AsBool decodes a boolean reply.
func AsBool(v any) (bool, error) {
	switch value := v.(type) {
	case bool:
		return value, nil
	case nil, Missing:
		return false, nil
	default:
		return false, fmt.Errorf("decode bool: unexpected %T", v)
	}
}

// AsInt decodes an integer reply. Reals with no fractional part are accepted.
func AsInt(v any) (int, error) {
	switch value := v.(type) {
	case int64:
		return int(value), nil
	case float64:
		if value != float64(int64(value)) {
			return 0, fmt.Errorf("decode int: %v has a fractional part", value)
		}
		return int(value), nil
	case nil, Missing:
		return 0, nil
	default:
		return 0, fmt.Errorf("decode int: unexpected %T", v)
	}
}

// AsFloat decodes a numeric reply. ok is false for `missing value`.
func AsFloat(v any) (f float64, ok bool, err error) {
	switch value := v.(type) {
	case float64:
		return value, true, nil
	case int64:
		return float64(value), true, nil
	case nil, Missing:
		return 0, false, nil
	default:
		return 0, false, fmt.Errorf("decode number: unexpected %T", v)
	}
}

// AsList decodes a list reply. A scalar is treated as a one element list
// and `missing value` as an empty list, matching how Photos collapses
// single item lists in some replies.
func AsList(v any) ([]any, error) {
	switch value := v.(type) {
	case []any:
		return value, nil
	case nil, Missing:
		return nil, nil
	case map[string]any:
		return nil, fmt.Errorf("decode list: unexpected record")
	default:
		return []any{value}, nil
	}
}

// AsStrings decodes a list of text values.
func AsStrings(v any) ([]string, error) {
	items, err := AsList(v)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		if IsMissing(item) {
			continue
		}
		s, err := AsString(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// AsID decodes the identifier replies used by the Photos handlers, where
// the integer 0 means "not found".
func AsID(v any) (string, bool, error) {
	switch value := v.(type) {
	case int64:
		if value == 0 {
			return "", false, nil
		}
		return "", false, fmt.Errorf("decode id: unexpected integer %d", value)
	case nil, Missing:
		return "", false, nil
	case string:
		if value == "" {
			return "", false, nil
		}
		return value, true, nil
	default:
		return "", false, fmt.Errorf("decode id: unexpected %T", v)
	}
}
