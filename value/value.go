// Package value implements the typed cell values stored in ivory columns.
//
// Columns are dynamically typed: every cell carries its own Kind, so a single
// attribute may mix integers, text and nulls. The representation avoids
// reflection and interface boxing so comparison and encoding stay cheap.
package value

import (
	"bytes"
	"encoding/hex"
	"strconv"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindNull represents a null cell.
	KindNull
	// KindBool represents a boolean cell.
	KindBool
	// KindInt represents an integer cell.
	KindInt
	// KindFloat represents a floating point cell.
	KindFloat
	// KindString represents a text cell.
	KindString
	// KindBytes represents a raw byte cell.
	KindBytes
)

// Value is a small tagged union holding one cell of a column.
//
// NOTE: This is also used for persistence; keep the field layout and the
// struct tags stable.
type Value struct {
	Kind Kind    `json:"k" msgpack:"k"`
	B    bool    `json:"b,omitempty" msgpack:"b,omitempty"`
	I64  int64   `json:"i,omitempty" msgpack:"i,omitempty"`
	F64  float64 `json:"f,omitempty" msgpack:"f,omitempty"`
	S    string  `json:"s,omitempty" msgpack:"s,omitempty"`
	Raw  []byte  `json:"r,omitempty" msgpack:"r,omitempty"`
}

// Null returns a null Value.
func Null() Value { return Value{Kind: KindNull} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Int returns an int64 Value.
func Int(v int64) Value { return Value{Kind: KindInt, I64: v} }

// Float returns a float64 Value.
func Float(v float64) Value { return Value{Kind: KindFloat, F64: v} }

// String returns a text Value.
func String(v string) Value { return Value{Kind: KindString, S: v} }

// Bytes returns a raw byte Value. The slice is not copied.
func Bytes(v []byte) Value { return Value{Kind: KindBytes, Raw: v} }

// IsNull reports whether the Value is null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// AsBool returns the boolean value if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.B, true
}

// AsInt64 returns the int64 value if Kind is KindInt.
func (v Value) AsInt64() (int64, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	return v.I64, true
}

// AsFloat64 returns the float64 value if Kind is KindFloat.
func (v Value) AsFloat64() (float64, bool) {
	if v.Kind != KindFloat {
		return 0, false
	}
	return v.F64, true
}

// AsString returns the string value if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.S, true
}

// AsBytes returns the raw bytes if Kind is KindBytes.
func (v Value) AsBytes() ([]byte, bool) {
	if v.Kind != KindBytes {
		return nil, false
	}
	return v.Raw, true
}

// Equal reports whether two values have the same kind and payload.
//
// NaN floats never compare equal, matching Go's float semantics.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.B == o.B
	case KindInt:
		return v.I64 == o.I64
	case KindFloat:
		return v.F64 == o.F64
	case KindString:
		return v.S == o.S
	case KindBytes:
		return bytes.Equal(v.Raw, o.Raw)
	default:
		return false
	}
}

// GoString returns a printable representation for debugging and logs.
func (v Value) GoString() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.B)
	case KindInt:
		return strconv.FormatInt(v.I64, 10)
	case KindFloat:
		return strconv.FormatFloat(v.F64, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.S)
	case KindBytes:
		return "0x" + hex.EncodeToString(v.Raw)
	default:
		return "invalid"
	}
}
