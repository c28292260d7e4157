package deeptoon

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usersValue() *Value {
	return Object(
		F("items", Array(
			Object(F("id", Int(1)), F("name", Str("Alice")), F("age", Int(25)), F("active", Bool(true))),
			Object(F("id", Int(2)), F("name", Str("Bob")), F("age", Int(30)), F("active", Bool(false))),
			Object(F("id", Int(3)), F("name", Str("Charlie")), F("age", Int(35)), F("active", Bool(true))),
		)),
	)
}

func TestEncode_TabularFolding(t *testing.T) {
	got, err := Encode(usersValue())
	require.NoError(t, err)

	want := strings.Join([]string{
		"items[3]{id,name,age,active}:",
		"  1,Alice,25,true",
		"  2,Bob,30,false",
		"  3,Charlie,35,true",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestEncode_Scalars(t *testing.T) {
	tests := []struct {
		name string
		v    *Value
		want string
	}{
		{"null", Null(), "null"},
		{"true", Bool(true), "true"},
		{"false", Bool(false), "false"},
		{"int", Int(42), "42"},
		{"negative int", Int(-7), "-7"},
		{"float", Float(3.14), "3.14"},
		{"integral float keeps fraction", Float(5), "5.0"},
		{"bare string", Str("hello"), "hello"},
		{"numeric-looking string quoted", Str("42"), `"42"`},
		{"keyword-looking string quoted", Str("null"), `"null"`},
		{"empty string quoted", Str(""), `""`},
		{"delimiter forces quotes", Str("a,b"), `"a,b"`},
		{"newline escaped", Str("a\nb"), `"a\nb"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode_Object(t *testing.T) {
	v := Object(
		F("name", Str("test")),
		F("meta", Object(F("version", Int(2)), F("tags", Array(Str("a"), Str("b"))))),
		F("empty", Object()),
	)
	got, err := Encode(v)
	require.NoError(t, err)

	want := strings.Join([]string{
		"name: test",
		"meta:",
		"  version: 2",
		"  tags[2]:",
		"    - a",
		"    - b",
		"empty:",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestEncode_ListFallback(t *testing.T) {
	t.Run("mixed primitives", func(t *testing.T) {
		v := Array(Int(1), Str("text"), Bool(true), Null(), Float(3.14))
		got, err := Encode(v)
		require.NoError(t, err)
		want := strings.Join([]string{
			"[5]:",
			"  - 1",
			"  - text",
			"  - true",
			"  - null",
			"  - 3.14",
		}, "\n")
		assert.Equal(t, want, got)
	})

	t.Run("heterogeneous objects are not folded", func(t *testing.T) {
		v := Array(
			Object(F("a", Int(1))),
			Object(F("a", Int(1)), F("b", Int(2))),
		)
		got, err := Encode(v)
		require.NoError(t, err)
		want := strings.Join([]string{
			"[2]:",
			"  -",
			"    a: 1",
			"  -",
			"    a: 1",
			"    b: 2",
		}, "\n")
		assert.Equal(t, want, got)
	})

	t.Run("nested container values block folding", func(t *testing.T) {
		v := Array(
			Object(F("address", Null())),
			Object(F("address", Object(F("street", Null()), F("city", Str("LA"))))),
		)
		got, err := Encode(v)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, "[2]:"), "expected list fallback, got:\n%s", got)
	})

	t.Run("nested arrays", func(t *testing.T) {
		v := Array(Array(Int(1), Int(2)), Array())
		got, err := Encode(v)
		require.NoError(t, err)
		want := strings.Join([]string{
			"[2]:",
			"  - [2]:",
			"    - 1",
			"    - 2",
			"  - [0]:",
		}, "\n")
		assert.Equal(t, want, got)
	})
}

func TestEncode_EmptyContainers(t *testing.T) {
	got, err := Encode(Object())
	require.NoError(t, err)
	assert.Equal(t, "", got)

	got, err = Encode(Array())
	require.NoError(t, err)
	assert.Equal(t, "[0]:", got)

	got, err = Encode(Object(F("xs", Array())))
	require.NoError(t, err)
	assert.Equal(t, "xs[0]:", got)
}

func TestEncode_KeyQuoting(t *testing.T) {
	v := Object(
		F("plain", Int(1)),
		F("needs quoting:", Int(2)),
		F("123", Int(3)),
	)
	got, err := Encode(v)
	require.NoError(t, err)
	want := strings.Join([]string{
		"plain: 1",
		`"needs quoting:": 2`,
		`"123": 3`,
	}, "\n")
	assert.Equal(t, want, got)
}

func TestEncode_BraceKeysQuotedInTabularHeader(t *testing.T) {
	v := Object(
		F("items", Array(
			Object(F("a}b", Int(1))),
			Object(F("a}b", Int(2))),
		)),
	)
	got, err := Encode(v)
	require.NoError(t, err)

	want := strings.Join([]string{
		`items[2]{"a}b"}:`,
		"  1",
		"  2",
	}, "\n")
	assert.Equal(t, want, got)

	back, err := Decode(got)
	require.NoError(t, err)
	assert.True(t, Equal(v, back))
}

func TestEncode_CustomDelimiter(t *testing.T) {
	got, err := EncodeWithOptions(usersValue(), EncodeOptions{Delimiter: '|'})
	require.NoError(t, err)
	assert.Contains(t, got, "items[3]{id|name|age|active}:")
	assert.Contains(t, got, "  1|Alice|25|true")

	// A comma no longer forces quoting, a pipe now does.
	got, err = EncodeWithOptions(Str("a,b"), EncodeOptions{Delimiter: '|'})
	require.NoError(t, err)
	assert.Equal(t, "a,b", got)

	got, err = EncodeWithOptions(Str("a|b"), EncodeOptions{Delimiter: '|'})
	require.NoError(t, err)
	assert.Equal(t, `"a|b"`, got)
}

func TestEncode_InvalidDelimiter(t *testing.T) {
	for _, d := range []byte{'\n', '"', ':', 'x', '7', '-', '.'} {
		_, err := EncodeWithOptions(Int(1), EncodeOptions{Delimiter: d})
		require.Error(t, err, "delimiter %q", string(d))
	}
}

func TestEncode_NonFiniteRejected(t *testing.T) {
	v := Object(
		F("items", Array(
			Object(F("score", Float(math.NaN()))),
		)),
	)
	_, err := Encode(v)
	require.Error(t, err)

	var encErr *EncodeError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, "items[0].score", encErr.Path)

	_, err = Encode(Float(math.Inf(1)))
	require.Error(t, err)
}

func TestEncode_DuplicateKeysRejected(t *testing.T) {
	_, err := Encode(Object(F("a", Int(1)), F("a", Int(2))))
	require.Error(t, err)

	var encErr *EncodeError
	require.ErrorAs(t, err, &encErr)
	assert.Contains(t, encErr.Message, "duplicate")
}

func TestIsTabular(t *testing.T) {
	tests := []struct {
		name  string
		elems []*Value
		want  bool
	}{
		{"empty", nil, false},
		{"uniform scalars", usersValue().Get("items").arrVal, true},
		{"non-object element", []*Value{Object(F("a", Int(1))), Int(2)}, false},
		{"extra key", []*Value{Object(F("a", Int(1))), Object(F("a", Int(1)), F("b", Int(2)))}, false},
		{"reordered keys", []*Value{
			Object(F("a", Int(1)), F("b", Int(2))),
			Object(F("b", Int(2)), F("a", Int(1))),
		}, false},
		{"nested container value", []*Value{Object(F("a", Object()))}, false},
		{"null values allowed", []*Value{Object(F("a", Null())), Object(F("a", Int(1)))}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTabular(tt.elems))
		})
	}
}
