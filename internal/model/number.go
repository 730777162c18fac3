package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Number is a numeric attribute that the API may send as a JSON number,
// a numeric string (database decimals) or null.
type Number struct {
	Value float64
	Valid bool
}

// NewNumber returns a valid Number.
func NewNumber(v float64) Number {
	return Number{Value: v, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*n = Number{}
			return nil
		}
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", string(data), err)
	}
	*n = Number{Value: v, Valid: true}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Float returns the value, or zero when absent.
func (n Number) Float() float64 {
	if !n.Valid {
		return 0
	}
	return n.Value
}

// Int returns the value truncated to an integer, or zero when absent.
func (n Number) Int() int64 {
	return int64(n.Float())
}

// IntPtr returns the truncated integer value, or nil when absent.
func (n Number) IntPtr() *int64 {
	if !n.Valid {
		return nil
	}
	v := int64(n.Value)
	return &v
}

// FloatPtr returns the value, or nil when absent.
func (n Number) FloatPtr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// NumberFromInt returns an absent Number for nil.
func NumberFromInt(v *int64) Number {
	if v == nil {
		return Number{}
	}
	return NewNumber(float64(*v))
}

// NumberFromFloat returns an absent Number for nil.
func NumberFromFloat(v *float64) Number {
	if v == nil {
		return Number{}
	}
	return NewNumber(*v)
}

// ID is an identifier in the form the API sent it: a JSON number token
// such as 42, or a JSON string kept quoted such as "007". Unquoted text
// that is not a number token is treated as a string.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*id = ""
			return nil
		}
		quoted, err := json.Marshal(s)
		if err != nil {
			return err
		}
		*id = ID(quoted)
		return nil
	}
	if !isNumberToken(data) {
		return fmt.Errorf("invalid identifier %s", string(data))
	}
	*id = ID(data)
	return nil
}

// String returns the identifier text without JSON quoting.
func (id ID) String() string {
	if !id.quoted() {
		return string(id)
	}
	var s string
	if err := json.Unmarshal([]byte(id), &s); err != nil {
		return string(id)
	}
	return s
}

// IsZero reports whether the identifier is empty.
func (id ID) IsZero() bool {
	return id.String() == ""
}

// MarshalJSON writes the identifier back in the form it arrived in.
func (id ID) MarshalJSON() ([]byte, error) {
	switch {
	case id.quoted():
		return []byte(id), nil
	case isNumberToken([]byte(id)):
		return []byte(id), nil
	default:
		return json.Marshal(string(id))
	}
}

func (id ID) quoted() bool {
	return len(id) >= 2 && id[0] == '"' && id[len(id)-1] == '"' && json.Valid([]byte(id))
}

func isNumberToken(b []byte) bool {
	if len(b) == 0 || (b[0] != '-' && (b[0] < '0' || b[0] > '9')) {
		return false
	}
	return json.Valid(b)
}
