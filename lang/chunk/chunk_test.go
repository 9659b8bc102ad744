package chunk

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteAndLineForOffset(t *testing.T) {
	c := New()
	c.WriteOp(Nil, 1)
	c.WriteOp(True, 1)
	c.WriteOp(Pop, 2)

	require.Equal(t, 1, c.LineForOffset(0))
	require.Equal(t, 1, c.LineForOffset(1))
	require.Equal(t, 2, c.LineForOffset(2))
}

func TestAddConstantRespectsMax(t *testing.T) {
	c := New()
	for i := 0; i < MaxConstants; i++ {
		idx, ok := c.AddConstant(i)
		require.True(t, ok)
		require.Equal(t, uint8(i), idx)
	}
	_, ok := c.AddConstant("one too many")
	require.False(t, ok)
}

func TestPatchJumpLittleEndian(t *testing.T) {
	c := New()
	c.WriteOp(JumpFalsey, 1)
	operandOffset := c.WriteUint16Placeholder(1)
	c.WriteOp(Pop, 1)

	target := len(c.Code)
	c.PatchJump(operandOffset, uint16(target-(operandOffset+2)))

	require.Equal(t, byte(target-(operandOffset+2)), c.Code[operandOffset])
	require.Equal(t, byte(0), c.Code[operandOffset+1])
}

func TestDisassembleDoesNotPanic(t *testing.T) {
	c := New()
	idx, _ := c.AddConstant(42)
	c.WriteOp(Constant, 1)
	c.Write(idx, 1)
	c.WriteOp(Print, 1)
	c.WriteOp(Return, 1)

	var buf bytes.Buffer
	c.Disassemble(&buf, "test")
	require.Contains(t, buf.String(), "OP_CONSTANT")
	require.Contains(t, buf.String(), "OP_RETURN")
}
