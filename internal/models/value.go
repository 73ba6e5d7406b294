package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Value is a form field kept exactly as the storefront sent it.
// The zero Value means the field was absent.
type Value []byte

// StringValue returns s encoded as a JSON string
func StringValue(s string) Value {
	data, _ := json.Marshal(s)
	return Value(data)
}

// UnmarshalJSON keeps a copy of the raw JSON, null included
func (v *Value) UnmarshalJSON(data []byte) error {
	*v = append((*v)[:0], data...)
	return nil
}

// MarshalJSON writes the raw JSON back, or null when absent
func (v Value) MarshalJSON() ([]byte, error) {
	if len(v) == 0 {
		return []byte("null"), nil
	}
	return v, nil
}

// Raw returns the value for forwarding; nil when absent
func (v Value) Raw() json.RawMessage {
	if len(v) == 0 {
		return nil
	}
	return json.RawMessage(v)
}

// Truthy reports whether the storefront actually filled the field:
// absent, null, false, "" and 0 are all empty.
func (v Value) Truthy() bool {
	raw := bytes.TrimSpace(v)
	if len(raw) == 0 {
		return false
	}
	switch string(raw) {
	case "null", "false", `""`:
		return false
	}
	if c := raw[0]; c == '-' || (c >= '0' && c <= '9') {
		f, err := strconv.ParseFloat(string(raw), 64)
		return err != nil || f != 0
	}
	return true
}
