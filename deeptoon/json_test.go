package deeptoon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSON_PreservesKeyOrder(t *testing.T) {
	data := []byte(`{"zebra":1,"apple":2,"mango":3}`)
	v, err := FromJSON(data)
	require.NoError(t, err)

	fields, err := v.AsObject()
	require.NoError(t, err)
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
	}
	assert.Equal(t, []string{"zebra", "apple", "mango"}, keys)

	out, err := ToJSON(v)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(out))
}

func TestFromJSON_NumberForms(t *testing.T) {
	v, err := FromJSON([]byte(`[5, 5.0, 1e3, -0.25]`))
	require.NoError(t, err)

	elems, err := v.AsArray()
	require.NoError(t, err)
	require.Len(t, elems, 4)
	assert.Equal(t, KindInt, elems[0].Kind())
	assert.Equal(t, KindFloat, elems[1].Kind())
	assert.Equal(t, KindFloat, elems[2].Kind())
	assert.Equal(t, KindFloat, elems[3].Kind())
}

func TestFromJSON_RejectsDuplicateKeys(t *testing.T) {
	_, err := FromJSON([]byte(`{"a":1,"a":2}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestFromJSON_RejectsMalformed(t *testing.T) {
	for _, data := range []string{``, `{`, `{"a":}`, `[1,]`, `1 2`} {
		_, err := FromJSON([]byte(data))
		require.Error(t, err, "input %q", data)
	}
}

func TestToJSON_Minimal(t *testing.T) {
	v := Object(
		F("s", Str(`say "hi"`)),
		F("n", Int(3)),
		F("f", Float(2.5)),
		F("b", Bool(false)),
		F("z", Null()),
		F("xs", Array(Int(1), Int(2))),
		F("o", Object()),
	)
	out, err := ToJSON(v)
	require.NoError(t, err)
	assert.Equal(t, `{"s":"say \"hi\"","n":3,"f":2.5,"b":false,"z":null,"xs":[1,2],"o":{}}`, string(out))
}

func TestEncodeJSON(t *testing.T) {
	data := []byte(`{"items":[{"id":1,"name":"Alice","age":25,"active":true},` +
		`{"id":2,"name":"Bob","age":30,"active":false},` +
		`{"id":3,"name":"Charlie","age":35,"active":true}]}`)

	text, err := EncodeJSON(data)
	require.NoError(t, err)
	assert.Contains(t, text, "items[3]{id,name,age,active}:")

	back, err := DecodeJSON(text)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(back))
}

func TestJSONRoundTrip_ThroughValueTree(t *testing.T) {
	inputs := []string{
		`null`,
		`true`,
		`"text"`,
		`[]`,
		`{}`,
		`{"deep":{"nested":{"list":[{"a":1},{"b":[1,2,3]}]}}}`,
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			v, err := FromJSON([]byte(in))
			require.NoError(t, err)
			out, err := ToJSON(v)
			require.NoError(t, err)
			assert.Equal(t, in, string(out))
		})
	}
}
