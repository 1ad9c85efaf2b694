package value

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueAccessors(t *testing.T) {
	i, ok := Int(42).AsInt64()
	require.True(t, ok)
	assert.Equal(t, int64(42), i)

	_, ok = Int(42).AsString()
	assert.False(t, ok)

	s, ok := String("hello").AsString()
	require.True(t, ok)
	assert.Equal(t, "hello", s)

	f, ok := Float(3.5).AsFloat64()
	require.True(t, ok)
	assert.Equal(t, 3.5, f)

	b, ok := Bool(true).AsBool()
	require.True(t, ok)
	assert.True(t, b)

	raw, ok := Bytes([]byte{1, 2, 3}).AsBytes()
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, raw)

	assert.True(t, Null().IsNull())
	assert.False(t, Int(0).IsNull())
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{name: "null equals null", a: Null(), b: Null(), want: true},
		{name: "int equals int", a: Int(7), b: Int(7), want: true},
		{name: "int differs", a: Int(7), b: Int(8), want: false},
		{name: "kind differs", a: Int(7), b: Float(7), want: false},
		{name: "string equals", a: String("x"), b: String("x"), want: true},
		{name: "string differs", a: String("x"), b: String("y"), want: false},
		{name: "bool equals", a: Bool(true), b: Bool(true), want: true},
		{name: "bytes equal", a: Bytes([]byte{1}), b: Bytes([]byte{1}), want: true},
		{name: "bytes differ", a: Bytes([]byte{1}), b: Bytes([]byte{2}), want: false},
		{name: "null vs int", a: Null(), b: Int(0), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
		})
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	vals := []Value{
		Null(),
		Bool(true),
		Bool(false),
		Int(0),
		Int(-1),
		Int(1 << 40),
		Float(3.14159),
		Float(-0.5),
		String(""),
		String("hello world"),
		Bytes(nil),
		Bytes([]byte{0xde, 0xad, 0xbe, 0xef}),
	}

	var buf []byte
	var err error
	for _, v := range vals {
		buf, err = Append(buf, v)
		require.NoError(t, err)
	}

	data := buf
	for _, want := range vals {
		var got Value
		got, data, err = Parse(data)
		require.NoError(t, err)
		assert.True(t, want.Equal(got), "want %s, got %s", want.GoString(), got.GoString())
	}
	assert.Empty(t, data)
}

func TestBinarySliceRoundTrip(t *testing.T) {
	vals := []Value{Int(1), String("two"), Float(3.0), Null()}

	buf, err := AppendSlice(nil, vals)
	require.NoError(t, err)

	got, rest, err := ParseSlice(buf)
	require.NoError(t, err)
	assert.Empty(t, rest)
	require.Len(t, got, len(vals))
	for i := range vals {
		assert.True(t, vals[i].Equal(got[i]))
	}
}

func TestParseShortBuffer(t *testing.T) {
	full, err := Append(nil, String("truncate me"))
	require.NoError(t, err)

	for i := 1; i < len(full); i++ {
		_, _, err := Parse(full[:i])
		assert.Error(t, err, "prefix of length %d should not parse", i)
	}
}

func TestParseSliceCountBeyondInput(t *testing.T) {
	// A count prefix claiming far more values than the buffer can hold must
	// fail before any allocation sized from it.
	buf := binary.AppendUvarint(nil, 1<<40)
	buf = append(buf, byte(KindNull))

	_, _, err := ParseSlice(buf)
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestParseUnknownKind(t *testing.T) {
	_, _, err := Parse([]byte{0xff})
	assert.ErrorIs(t, err, ErrUnknownKind)
}
