package dataset

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind enumerates the scalar types a cell may hold.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindBool
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindString:
		return "string"
	default:
		return "null"
	}
}

// Value is a single cell: null, number, boolean or string.
// The zero Value is null.
type Value struct {
	kind Kind
	num  float64
	b    bool
	s    string
}

// Null returns the null value.
func Null() Value { return Value{} }

// Number wraps a float. NaN narrows to null.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: KindNumber, num: f}
}

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsString() bool { return v.kind == KindString }

// IsMissing reports whether the cell counts as absent: null, or a string
// that is empty after trimming whitespace.
func (v Value) IsMissing() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return strings.TrimSpace(v.s) == ""
	}
	return false
}

// Num returns the number payload (0 unless KindNumber).
func (v Value) Num() float64 { return v.num }

// BoolVal returns the boolean payload (false unless KindBool).
func (v Value) BoolVal() bool { return v.b }

// Str returns the string payload ("" unless KindString).
func (v Value) Str() string { return v.s }

// AsFloat returns the numeric reading of the value: native numbers, and
// strings that fully parse as a float.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		return ParseNumber(v.s)
	}
	return 0, false
}

// Equal compares kind and payload; "1" and 1 are different values.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	}
	return true
}

// Key is a kind-tagged encoding usable as a map key.
func (v Value) Key() string {
	switch v.kind {
	case KindNumber:
		return "n:" + strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return "b:" + strconv.FormatBool(v.b)
	case KindString:
		return "s:" + v.s
	}
	return "null"
}

// String renders the value for display. Null renders as "".
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString:
		return v.s
	}
	return ""
}

// Interface returns the Go value behind the cell (nil for null).
func (v Value) Interface() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindString:
		return v.s
	}
	return nil
}

// MarshalJSON encodes the cell as its JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindNumber && math.IsInf(v.num, 0) {
		return json.Marshal(v.String())
	}
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes a JSON scalar into a cell.
func (v *Value) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*v = FromAny(raw)
	return nil
}

// MarshalYAML encodes the cell as its YAML scalar.
func (v Value) MarshalYAML() (any, error) { return v.Interface(), nil }

// ParseNumber parses a string that fully represents a finite number.
func ParseNumber(s string) (float64, bool) {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseBool recognizes true/false, 1/0 and yes/no, case-insensitively.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	}
	return false, false
}
