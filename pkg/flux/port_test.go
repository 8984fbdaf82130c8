package flux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCanConnect_TypeMatrix tests value type compatibility for data wires.
func TestCanConnect_TypeMatrix(t *testing.T) {
	tests := []struct {
		src, dst ValueType
		want     bool
	}{
		// Exact matches always connect.
		{TypeBool, TypeBool, true},
		{TypeObject, TypeObject, true},
		{TypeCollection, TypeCollection, true},

		// "any" connects to everything, both ways.
		{TypeAny, TypeObject, true},
		{TypeCollection, TypeAny, true},

		// Numeric group is freely interchangeable.
		{TypeInt, TypeFloat, true},
		{TypeFloat, TypeDouble, true},
		{TypeDouble, TypeInt, true},

		// Bool converts against numerics, both ways.
		{TypeBool, TypeInt, true},
		{TypeDouble, TypeBool, true},

		// Strings render anything.
		{TypeString, TypeInt, true},
		{TypeObject, TypeString, true},
		{TypeCollection, TypeString, true},

		// No other cross-type wires.
		{TypeObject, TypeCollection, false},
		{TypeCollection, TypeInt, false},
		{TypeBool, TypeObject, false},
		{TypeObject, TypeDouble, false},
		{TypeCollection, TypeBool, false},
	}

	for _, tt := range tests {
		t.Run(tt.src.String()+"_to_"+tt.dst.String(), func(t *testing.T) {
			got := CanConnect(DataOut("src", tt.src), DataIn("dst", tt.dst))
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestCanConnect_Direction tests that only output-to-input wires are legal.
func TestCanConnect_Direction(t *testing.T) {
	out := DataOut("a", TypeInt)
	in := DataIn("b", TypeInt)

	assert.True(t, CanConnect(out, in))
	assert.False(t, CanConnect(in, out), "input to output")
	assert.False(t, CanConnect(out, out), "output to output")
	assert.False(t, CanConnect(in, in), "input to input")
}

// TestCanConnect_KindMismatch tests that data never wires to execution.
func TestCanConnect_KindMismatch(t *testing.T) {
	assert.False(t, CanConnect(DataOut("v", TypeAny), ExecIn("in")))
	assert.False(t, CanConnect(ExecOut("out"), DataIn("v", TypeAny)))
	assert.True(t, CanConnect(ExecOut("out"), ExecIn("in")))
}

// TestParseType tests round-tripping type names used in graph documents.
func TestParseType(t *testing.T) {
	for _, typ := range []ValueType{
		TypeAny, TypeBool, TypeInt, TypeFloat,
		TypeDouble, TypeString, TypeObject, TypeCollection,
	} {
		got, err := ParseType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}

	// Empty means "any" for documents that omit the field.
	got, err := ParseType("")
	require.NoError(t, err)
	assert.Equal(t, TypeAny, got)

	_, err = ParseType("quaternion")
	assert.Error(t, err)
}

// TestPortBuilders tests the port constructor helpers.
func TestPortBuilders(t *testing.T) {
	p := DataIn("count", TypeInt).WithRequired().WithDefault(3)
	assert.Equal(t, Input, p.Direction)
	assert.Equal(t, KindData, p.Kind)
	assert.True(t, p.Required)
	assert.Equal(t, 3, p.Default)
	assert.Equal(t, Single, p.Capacity)

	w := ExecOut("win").WithWeight(0.7)
	assert.Equal(t, KindExecution, w.Kind)
	assert.Equal(t, 0.7, w.Weight)
	assert.Equal(t, Multi, w.Capacity)
}
