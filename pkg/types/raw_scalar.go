package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RawScalar keeps a JSON scalar as text so callers can apply their own coercion
// rules. Present reports whether the key appeared in the payload at all; null and
// empty strings leave Value empty.
type RawScalar struct {
	Present bool
	Value   string
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RawScalar) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	r.Present = true
	r.Value = ""
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		r.Value = s
	case '{', '[':
		return fmt.Errorf("expected a scalar value")
	default:
		r.Value = string(trimmed)
	}
	return nil
}

// Empty reports whether the field was absent, null, or an empty string.
func (r RawScalar) Empty() bool {
	return !r.Present || r.Value == ""
}
