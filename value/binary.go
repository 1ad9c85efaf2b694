package value

import (
	"encoding/binary"
	"errors"
	"math"
)

// Compact binary encoding for cell values.
//
// Format per value: [Kind byte][payload]. Integers are zigzag varints,
// floats are fixed 8-byte little-endian bits, strings and bytes are
// uvarint-length-prefixed. The encoding is used inside snapshot payloads;
// keep it stable.

var (
	// ErrShortBuffer is returned when the input ends mid-value.
	ErrShortBuffer = errors.New("value: short buffer")
	// ErrUnknownKind is returned for a kind byte this version does not know.
	ErrUnknownKind = errors.New("value: unknown kind")
)

// Append encodes v and appends it to buf.
func Append(buf []byte, v Value) ([]byte, error) {
	buf = append(buf, byte(v.Kind))

	switch v.Kind {
	case KindNull:
		// No payload
	case KindBool:
		if v.B {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	case KindInt:
		buf = binary.AppendVarint(buf, v.I64)
	case KindFloat:
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v.F64))
	case KindString:
		buf = binary.AppendUvarint(buf, uint64(len(v.S)))
		buf = append(buf, v.S...)
	case KindBytes:
		buf = binary.AppendUvarint(buf, uint64(len(v.Raw)))
		buf = append(buf, v.Raw...)
	default:
		return nil, ErrUnknownKind
	}
	return buf, nil
}

// Parse decodes one value from data and returns the remaining bytes.
func Parse(data []byte) (Value, []byte, error) {
	if len(data) == 0 {
		return Value{}, nil, ErrShortBuffer
	}
	kind := Kind(data[0])
	data = data[1:]

	var v Value
	v.Kind = kind

	switch kind {
	case KindNull:
		// No payload
	case KindBool:
		if len(data) < 1 {
			return v, nil, ErrShortBuffer
		}
		v.B = data[0] != 0
		data = data[1:]
	case KindInt:
		i, n := binary.Varint(data)
		if n <= 0 {
			return v, nil, ErrShortBuffer
		}
		v.I64 = i
		data = data[n:]
	case KindFloat:
		if len(data) < 8 {
			return v, nil, ErrShortBuffer
		}
		v.F64 = math.Float64frombits(binary.LittleEndian.Uint64(data))
		data = data[8:]
	case KindString:
		sLen, n := binary.Uvarint(data)
		if n <= 0 {
			return v, nil, ErrShortBuffer
		}
		data = data[n:]
		if uint64(len(data)) < sLen {
			return v, nil, ErrShortBuffer
		}
		v.S = string(data[:sLen])
		data = data[sLen:]
	case KindBytes:
		bLen, n := binary.Uvarint(data)
		if n <= 0 {
			return v, nil, ErrShortBuffer
		}
		data = data[n:]
		if uint64(len(data)) < bLen {
			return v, nil, ErrShortBuffer
		}
		v.Raw = append([]byte(nil), data[:bLen]...)
		data = data[bLen:]
	default:
		return v, nil, ErrUnknownKind
	}
	return v, data, nil
}

// AppendSlice encodes a value sequence with a uvarint count prefix.
func AppendSlice(buf []byte, vals []Value) ([]byte, error) {
	buf = binary.AppendUvarint(buf, uint64(len(vals)))
	for _, v := range vals {
		var err error
		buf, err = Append(buf, v)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// ParseSlice decodes a value sequence and returns the remaining bytes.
func ParseSlice(data []byte) ([]Value, []byte, error) {
	count, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, nil, ErrShortBuffer
	}
	data = data[n:]

	// Every value takes at least its kind byte, so a count beyond the
	// remaining input is corrupt. Checking before the allocation keeps a
	// crafted count from sizing the slice off untrusted input.
	if count > uint64(len(data)) {
		return nil, nil, ErrShortBuffer
	}

	vals := make([]Value, 0, count)
	for i := uint64(0); i < count; i++ {
		v, rest, err := Parse(data)
		if err != nil {
			return nil, nil, err
		}
		vals = append(vals, v)
		data = rest
	}
	return vals, data, nil
}
