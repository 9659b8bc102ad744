package chunk

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Disassemble writes a human-readable listing of every instruction in c to
// w, prefixed by name. It is for debugging and tests only (spec.md §4.1);
// nothing in the VM depends on its exact textual form.
func (c *Chunk) Disassemble(w io.Writer, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(c.Code); {
		offset = c.DisassembleInstruction(w, offset)
	}
}

// DisassembleInstruction writes the instruction at offset and returns the
// offset of the next instruction, correctly skipping variable-width Closure
// payloads.
func (c *Chunk) DisassembleInstruction(w io.Writer, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)
	line := c.LineForOffset(offset)
	if offset > 0 && line == c.LineForOffset(offset-1) {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", line)
	}

	op := OpCode(c.Code[offset])
	switch op {
	case Nil, True, False, Negate, Not, Add, Subtract, Multiply, Divide,
		Eq, Neq, Gt, GtEq, Lt, LtEq, Pop, CloseUpVal, Inherit, Print, Return:
		return c.simpleInstruction(w, op, offset)

	case Constant, DefGlobal, ReadGlobal, WriteGlobal, Class, ReadProperty,
		WriteProperty, Method, Super:
		return c.constantInstruction(w, op, offset)

	case StackSub, ReadLocal, WriteLocal, ReadUpval, WriteUpval, Call:
		return c.byteInstruction(w, op, offset)

	case Invoke, SuperInvoke:
		return c.invokeInstruction(w, op, offset)

	case Jump, JumpFalsey, JumpTruthy:
		return c.jumpInstruction(w, op, offset, 1)
	case JumpBack:
		return c.jumpInstruction(w, op, offset, -1)

	case Closure:
		return c.closureInstruction(w, offset)

	default:
		fmt.Fprintf(w, "unknown opcode %d\n", op)
		return offset + 1
	}
}

func (c *Chunk) simpleInstruction(w io.Writer, op OpCode, offset int) int {
	fmt.Fprintf(w, "%s\n", op)
	return offset + 1
}

func (c *Chunk) byteInstruction(w io.Writer, op OpCode, offset int) int {
	slot := c.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d\n", op, slot)
	return offset + 2
}

func (c *Chunk) constantInstruction(w io.Writer, op OpCode, offset int) int {
	idx := c.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d '%v'\n", op, idx, c.Constants[idx])
	return offset + 2
}

func (c *Chunk) invokeInstruction(w io.Writer, op OpCode, offset int) int {
	idx := c.Code[offset+1]
	argc := c.Code[offset+2]
	fmt.Fprintf(w, "%-16s (%d args) %4d '%v'\n", op, argc, idx, c.Constants[idx])
	return offset + 3
}

func (c *Chunk) jumpInstruction(w io.Writer, op OpCode, offset, sign int) int {
	delta := int(binary.LittleEndian.Uint16(c.Code[offset+1 : offset+3]))
	target := offset + 3 + sign*delta
	fmt.Fprintf(w, "%-16s %4d -> %d\n", op, offset, target)
	return offset + 3
}

func (c *Chunk) closureInstruction(w io.Writer, offset int) int {
	offset++
	idx := c.Code[offset]
	offset++
	fmt.Fprintf(w, "%-16s %4d '%v'\n", Closure, idx, c.Constants[idx])

	fn, _ := c.Constants[idx].(interface{ UpvalCount() int })
	n := 0
	if fn != nil {
		n = fn.UpvalCount()
	}
	for i := 0; i < n; i++ {
		isLocal := c.Code[offset]
		offset++
		index := c.Code[offset]
		offset++
		kind := "upvalue"
		if isLocal != 0 {
			kind = "local"
		}
		fmt.Fprintf(w, "%04d      |                     %s %d\n", offset-2, kind, index)
	}
	return offset
}
