package vm

import (
	"github.com/mna/craftlox/lang/chunk"
	"github.com/mna/craftlox/lang/value"
)

// Step executes exactly one instruction and reports whether the outermost
// frame returned as a result (spec.md §6's step operation). It is meant for
// test harnesses and other embedders that want to observe the machine
// between instructions rather than run it to completion; call Load first to
// install the root frame without running it.
func (vm *VM) Step() (halted bool, err error) {
	return vm.step()
}

// StepN calls Step up to n times, stopping early on halt or error.
func (vm *VM) StepN(n int) (halted bool, err error) {
	for i := 0; i < n; i++ {
		halted, err = vm.step()
		if err != nil || halted {
			return halted, err
		}
	}
	return halted, nil
}

// StackTop returns the value on top of the stack, or value.Nil if the stack
// is empty. It is the value a Print of the next instruction would consume,
// and the value callers typically want to inspect between Step calls.
func (vm *VM) StackTop() value.Value {
	if vm.stackTop == 0 {
		return value.Nil
	}
	return vm.peek(0)
}

// Chunk returns the bytecode chunk currently executing, or nil if the VM is
// not running.
func (vm *VM) Chunk() *chunk.Chunk {
	if vm.frameCount == 0 {
		return nil
	}
	return vm.currentFrame().closure.Function.Chunk
}

// IP returns the offset of the next instruction to execute in Chunk, or -1
// if the VM is not running.
func (vm *VM) IP() int {
	if vm.frameCount == 0 {
		return -1
	}
	return vm.currentFrame().ip
}
