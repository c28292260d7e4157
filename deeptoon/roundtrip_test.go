package deeptoon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTripCases covers every value shape the format can carry.
var roundTripCases = []struct {
	name string
	v    *Value
}{
	{"null", Null()},
	{"bool", Bool(true)},
	{"int", Int(-42)},
	{"float", Float(3.14159)},
	{"integral float", Float(10)},
	{"big float", Float(1e21)},
	{"tiny float", Float(5e-12)},
	{"bare string", Str("hello world")},
	{"tricky string", Str("a: b, \"c\"\nd")},
	{"dashy string", Str("- not a marker")},
	{"empty string", Str("")},
	{"empty object", Object()},
	{"empty array", Array()},
	{"flat object", Object(F("a", Int(1)), F("b", Str("two")), F("c", Null()))},
	{"uniform table", usersValue()},
	{"mixed primitives", Array(Int(1), Str("text"), Bool(true), Null(), Float(3.14))},
	{"heterogeneous objects", Array(
		Object(F("a", Int(1))),
		Object(F("a", Int(1)), F("b", Int(2))),
	)},
	{"null vs nested address", Array(
		Object(F("name", Str("x")), F("address", Null())),
		Object(F("name", Str("y")), F("address", Object(F("street", Null()), F("city", Str("LA"))))),
	)},
	{"deep nesting", Object(
		F("location", Object(
			F("coordinates", Object(
				F("precision", Object(
					F("meters", Float(0.5)),
				)),
				F("lat", Float(34.05)),
			)),
		)),
	)},
	{"array of arrays", Array(Array(Int(1)), Array(), Array(Str("x"), Null()))},
	{"objects inside list inside table-blocked array", Object(
		F("rows", Array(
			Object(F("id", Int(1)), F("tags", Array(Str("a")))),
			Object(F("id", Int(2)), F("tags", Array())),
		)),
	)},
	{"quoted keys", Object(F("a,b", Int(1)), F("x: y", Int(2)), F("", Int(3)))},
	{"brace keys in table", Object(
		F("rows", Array(
			Object(F("a}b", Int(1)), F("{x", Str("y"))),
			Object(F("a}b", Int(2)), F("{x", Str("z"))),
		)),
	)},
	{"brace strings", Object(F("cfg", Str("{a: 1}")), F("end", Str("}")))},
}

func TestRoundTrip_Values(t *testing.T) {
	for _, tt := range roundTripCases {
		t.Run(tt.name, func(t *testing.T) {
			text, err := Encode(tt.v)
			require.NoError(t, err)

			back, err := Decode(text)
			require.NoError(t, err, "decode failed for:\n%s", text)
			assert.True(t, Equal(tt.v, back), "round trip mismatch for:\n%s", text)
		})
	}
}

// Encoder output is a fixed point: re-encoding a decoded document must
// reproduce the text byte for byte.
func TestRoundTrip_TextFixedPoint(t *testing.T) {
	for _, tt := range roundTripCases {
		t.Run(tt.name, func(t *testing.T) {
			text, err := Encode(tt.v)
			require.NoError(t, err)

			back, err := Decode(text)
			require.NoError(t, err)

			again, err := Encode(back)
			require.NoError(t, err)
			assert.Equal(t, text, again)
		})
	}
}

func TestRoundTrip_CustomDelimiter(t *testing.T) {
	opts := EncodeOptions{Delimiter: '|'}
	for _, tt := range roundTripCases {
		t.Run(tt.name, func(t *testing.T) {
			text, err := EncodeWithOptions(tt.v, opts)
			require.NoError(t, err)

			back, err := DecodeWithOptions(text, DecodeOptions{Delimiter: '|'})
			require.NoError(t, err)
			assert.True(t, Equal(tt.v, back))
		})
	}
}

func TestRoundTrip_TypePreservation(t *testing.T) {
	v := Array(Int(1), Float(1), Str("1"), Str("1.0"))
	text, err := Encode(v)
	require.NoError(t, err)

	back, err := Decode(text)
	require.NoError(t, err)

	elems, err := back.AsArray()
	require.NoError(t, err)
	require.Len(t, elems, 4)
	assert.Equal(t, KindInt, elems[0].Kind())
	assert.Equal(t, KindFloat, elems[1].Kind())
	assert.Equal(t, KindStr, elems[2].Kind())
	assert.Equal(t, KindStr, elems[3].Kind())
}
