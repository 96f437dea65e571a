package resolver

import (
	"encoding/json"
	"strconv"
)

// Value is a resolved configuration value: a string for string and enum
// entries (and for optional entries that resolved to empty), an integer for
// int entries.
type Value struct {
	str   string
	num   int64
	isInt bool
}

func stringValue(s string) Value { return Value{str: s} }
func intValue(n int64) Value     { return Value{num: n, isInt: true} }

// IsInt reports whether the value was coerced to an integer.
func (v Value) IsInt() bool { return v.isInt }

// Int returns the integer form; it is zero for string values.
func (v Value) Int() int64 { return v.num }

// String returns the string form; integers are formatted base-10.
func (v Value) String() string {
	if v.isInt {
		return strconv.FormatInt(v.num, 10)
	}
	return v.str
}

// MarshalJSON encodes integers as JSON numbers and everything else as JSON
// strings, so resolved configurations round-trip through the API with their
// coerced types intact.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isInt {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.str)
}

// Resolved maps normalized variable names to their resolved values. A fresh
// map is allocated on every Load call and is owned by the caller.
type Resolved map[string]Value
