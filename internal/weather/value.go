package weather

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// Value is a nullable scalar reading. It keeps the literal JSON form the
// provider sent, so 10 and 10.0 stay distinguishable. The zero value is null.
type Value struct {
	raw string
}

// Null is the missing value.
var Null = Value{}

// Number builds a numeric value from its literal form, e.g. "28.4".
func Number(literal string) Value {
	return Value{raw: literal}
}

// Text builds a string value.
func Text(s string) Value {
	b, _ := json.Marshal(s)
	return Value{raw: string(b)}
}

// IsNull reports whether the value is missing.
func (v Value) IsNull() bool {
	return v.raw == ""
}

// String renders the value for fingerprints and prompts: "null" when missing,
// strings unquoted, numbers as sent.
func (v Value) String() string {
	if v.IsNull() {
		return "null"
	}
	if v.raw[0] == '"' {
		var s string
		if err := json.Unmarshal([]byte(v.raw), &s); err == nil {
			return s
		}
	}
	return v.raw
}

// Float64 returns the numeric value, ok is false for null or non-numbers.
func (v Value) Float64() (float64, bool) {
	if v.IsNull() {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*v = Null
		return nil
	}
	switch data[0] {
	case '{', '[':
		return fmt.Errorf("weather value must be a scalar, got %s", data)
	}
	v.raw = string(data)
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsNull() {
		return []byte("null"), nil
	}
	return []byte(v.raw), nil
}
