package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruthy(t *testing.T) {
	require.False(t, Truthy(Nil))
	require.False(t, Truthy(False))
	require.True(t, Truthy(True))
	require.True(t, Truthy(Float(0)))
	require.True(t, Truthy(&String{S: ""}))
}

func TestEqual(t *testing.T) {
	require.True(t, Equal(Nil, Nil))
	require.False(t, Equal(Nil, False))
	require.True(t, Equal(Float(1), Float(1)))
	require.False(t, Equal(Float(1), Float(2)))
	require.False(t, Equal(Float(math.NaN()), Float(math.NaN())))

	a := &String{S: "hi"}
	b := &String{S: "hi"}
	require.True(t, Equal(a, a), "same pointer")
	require.False(t, Equal(a, b), "different objects, even with equal bytes, are not == without interning")
}

func TestFloatStringSpecialValues(t *testing.T) {
	require.Equal(t, "1.5", Float(1.5).String())
	require.Equal(t, "inf", Float(math.Inf(1)).String())
	require.Equal(t, "-inf", Float(math.Inf(-1)).String())
	require.Equal(t, "NaN", Float(math.NaN()).String())
}

func TestDebugRendersVariantPayload(t *testing.T) {
	require.Equal(t, "Nil", Debug(Nil))
	require.Equal(t, "Bool(true)", Debug(True))
	require.Equal(t, "Float(1.5)", Debug(Float(1.5)))
	require.Equal(t, `String("hi")`, Debug(&String{S: "hi"}))
}
