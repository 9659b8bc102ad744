package vm

import "github.com/mna/craftlox/lang/value"

// callFrame is one call's window onto the VM's shared value stack (spec.md
// §4.5): closure is the running callable, ip is a byte offset into its
// chunk, sp is the absolute stack index of the window's slot 0 (the
// callable itself, or the receiver for a method — spec.md §3.3 invariant
// 7).
type callFrame struct {
	closure *value.Closure
	ip      int
	sp      int
}

// line resolves the frame's current instruction to a source line, for
// stack traces (spec.md §7). ip points past the opcode byte (and any
// operand bytes already read) of the instruction that's executing or that
// raised the error, so the line table is queried one byte back, which still
// lies within that instruction.
func (fr *callFrame) line() int {
	offset := fr.ip - 1
	if offset < 0 {
		offset = 0
	}
	return fr.closure.Function.Chunk.LineForOffset(offset)
}
