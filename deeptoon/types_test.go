package deeptoon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_Accessors(t *testing.T) {
	b, err := Bool(true).AsBool()
	require.NoError(t, err)
	assert.True(t, b)

	i, err := Int(-9).AsInt()
	require.NoError(t, err)
	assert.Equal(t, int64(-9), i)

	f, err := Float(2.5).AsFloat()
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	s, err := Str("x").AsStr()
	require.NoError(t, err)
	assert.Equal(t, "x", s)

	_, err = Int(1).AsStr()
	require.Error(t, err)
	_, err = Str("x").AsInt()
	require.Error(t, err)
}

func TestValue_NilSafety(t *testing.T) {
	var v *Value
	assert.Equal(t, KindNull, v.Kind())
	assert.True(t, v.IsNull())
	assert.Equal(t, 0, v.Len())
	assert.Nil(t, v.Get("k"))

	_, err := v.AsBool()
	require.Error(t, err)
}

func TestValue_GetAndIndex(t *testing.T) {
	obj := Object(F("a", Int(1)), F("b", Int(2)))
	require.NotNil(t, obj.Get("b"))
	assert.Nil(t, obj.Get("missing"))

	arr := Array(Str("x"), Str("y"))
	el, err := arr.Index(1)
	require.NoError(t, err)
	s, _ := el.AsStr()
	assert.Equal(t, "y", s)

	_, err = arr.Index(2)
	require.Error(t, err)
	_, err = arr.Index(-1)
	require.Error(t, err)
}

func TestValue_Number(t *testing.T) {
	f, ok := Int(4).Number()
	assert.True(t, ok)
	assert.Equal(t, 4.0, f)

	f, ok = Float(0.5).Number()
	assert.True(t, ok)
	assert.Equal(t, 0.5, f)

	_, ok = Str("4").Number()
	assert.False(t, ok)
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b *Value
		want bool
	}{
		{"nulls", Null(), Null(), true},
		{"nil vs null", nil, Null(), true},
		{"bools", Bool(true), Bool(true), true},
		{"bool mismatch", Bool(true), Bool(false), false},
		{"int vs float never equal", Int(5), Float(5), false},
		{"strings", Str("a"), Str("a"), true},
		{"number-looking string", Str("5"), Int(5), false},
		{"arrays", Array(Int(1), Int(2)), Array(Int(1), Int(2)), true},
		{"array length mismatch", Array(Int(1)), Array(Int(1), Int(2)), false},
		{"objects", Object(F("a", Int(1))), Object(F("a", Int(1))), true},
		{"object key order matters", Object(F("a", Int(1)), F("b", Int(2))), Object(F("b", Int(2)), F("a", Int(1))), false},
		{"object value mismatch", Object(F("a", Int(1))), Object(F("a", Int(2))), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}
