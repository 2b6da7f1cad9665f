package keyset

import (
	"fmt"
	"strconv"
	"time"
)

// ValueKind declares the semantic type of an ordering column. Position
// values travel through the cursor token as strings; the kind defines a
// lossless string round-trip and the typed value handed to the store for
// comparison. Columns without a declared kind default to KindText.
type ValueKind int

const (
	// KindText compares as text. Encoded as-is.
	KindText ValueKind = iota
	// KindInt compares as a signed 64-bit integer. Encoded in base 10.
	KindInt
	// KindTime compares as a timestamp. Encoded as RFC 3339 with
	// nanosecond precision, the time.Time text marshalling format.
	KindTime
)

// ColumnKinds maps ordering columns to their declared value kinds.
type ColumnKinds map[string]ValueKind

func (k ColumnKinds) kindOf(column string) ValueKind {
	return k[column]
}

// parse converts an encoded position value back into the typed value used
// in boundary comparisons.
func (k ValueKind) parse(s string) (any, error) {
	switch k {
	case KindText:
		return s, nil
	case KindInt:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("position value '%s' is not an integer", s)
		}

		return n, nil
	case KindTime:
		var t time.Time
		err := t.UnmarshalText([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("position value '%s' is not a timestamp", s)
		}

		return t, nil
	default:
		return nil, fmt.Errorf("unsupported value kind %d", k)
	}
}

// format converts a row field value into its encoded position string.
// The value must match the declared kind; mismatches fail eagerly instead
// of producing a silently wrong comparison on the next page.
func (k ValueKind) format(v any) (string, error) {
	switch k {
	case KindText:
		switch vt := v.(type) {
		case string:
			return vt, nil
		case []byte:
			return string(vt), nil
		case fmt.Stringer:
			return vt.String(), nil
		default:
			return "", fmt.Errorf("value %v (%T) is not text", v, v)
		}
	case KindInt:
		switch vt := v.(type) {
		case int:
			return strconv.FormatInt(int64(vt), 10), nil
		case int8:
			return strconv.FormatInt(int64(vt), 10), nil
		case int16:
			return strconv.FormatInt(int64(vt), 10), nil
		case int32:
			return strconv.FormatInt(int64(vt), 10), nil
		case int64:
			return strconv.FormatInt(vt, 10), nil
		case uint:
			return strconv.FormatUint(uint64(vt), 10), nil
		case uint8:
			return strconv.FormatUint(uint64(vt), 10), nil
		case uint16:
			return strconv.FormatUint(uint64(vt), 10), nil
		case uint32:
			return strconv.FormatUint(uint64(vt), 10), nil
		case uint64:
			return strconv.FormatUint(vt, 10), nil
		default:
			return "", fmt.Errorf("value %v (%T) is not an integer", v, v)
		}
	case KindTime:
		t, ok := v.(time.Time)
		if !ok {
			return "", fmt.Errorf("value %v (%T) is not a timestamp", v, v)
		}

		text, err := t.MarshalText()
		if err != nil {
			return "", fmt.Errorf("cannot encode timestamp: %w", err)
		}

		return string(text), nil
	default:
		return "", fmt.Errorf("unsupported value kind %d", k)
	}
}
