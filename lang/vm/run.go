package vm

import (
	"encoding/binary"
	"fmt"

	"github.com/mna/craftlox/lang/chunk"
	"github.com/mna/craftlox/lang/value"
)

// run loops step until the outermost frame returns or an instruction
// raises a RuntimeError (spec.md §4.5's dispatch loop).
func (vm *VM) run() error {
	for {
		halted, err := vm.step()
		if err != nil || halted {
			return err
		}
	}
}

// step executes exactly one instruction, per spec.md §6's step() operation
// (used directly by callers that single-step for testing/observation).
// halted reports whether the outermost frame just returned.
func (vm *VM) step() (halted bool, err error) {
	if err := vm.execute(); err != nil {
		return false, err
	}
	return vm.frameCount == 0, nil
}

// execute decodes and runs the instruction at the current frame's ip.
func (vm *VM) execute() error {
	{
		fr := vm.currentFrame()
		code := fr.closure.Function.Chunk.Code
		op := chunk.OpCode(code[fr.ip])

		if vm.Trace != nil {
			vm.Trace(TraceEvent{Frame: vm.frameCount - 1, IP: fr.ip, Op: op})
		}
		fr.ip++

		switch op {
		case chunk.Nil:
			vm.push(value.Nil)
		case chunk.True:
			vm.push(value.True)
		case chunk.False:
			vm.push(value.False)

		case chunk.Constant:
			idx := vm.readByte(fr)
			vm.push(fr.closure.Function.Chunk.Constants[idx].(value.Value))

		case chunk.Pop:
			vm.pop()
		case chunk.StackSub:
			n := int(vm.readByte(fr))
			vm.stackTop -= n

		case chunk.Negate:
			a, ok := vm.peek(0).(value.Float)
			if !ok {
				return vm.runtimeError("Negate called with non-number operand: %s", value.Debug(vm.peek(0)))
			}
			vm.stack[vm.stackTop-1] = -a
		case chunk.Not:
			vm.stack[vm.stackTop-1] = value.Bool(!value.Truthy(vm.peek(0)))

		case chunk.Add:
			if err := vm.add(); err != nil {
				return err
			}
		case chunk.Subtract:
			if err := vm.numericBinary("Sub", func(a, b float64) float64 { return a - b }); err != nil {
				return err
			}
		case chunk.Multiply:
			if err := vm.numericBinary("Mul", func(a, b float64) float64 { return a * b }); err != nil {
				return err
			}
		case chunk.Divide:
			if err := vm.numericBinary("Div", func(a, b float64) float64 { return a / b }); err != nil {
				return err
			}

		case chunk.Eq:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Bool(value.Equal(a, b)))
		case chunk.Neq:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Bool(!value.Equal(a, b)))
		case chunk.Gt:
			if err := vm.comparisonBinary("Greater-than", func(a, b float64) bool { return a > b }); err != nil {
				return err
			}
		case chunk.GtEq:
			if err := vm.comparisonBinary("Greater-than-or-equal", func(a, b float64) bool { return a >= b }); err != nil {
				return err
			}
		case chunk.Lt:
			if err := vm.comparisonBinary("Less-than", func(a, b float64) bool { return a < b }); err != nil {
				return err
			}
		case chunk.LtEq:
			if err := vm.comparisonBinary("Less-than-or-equal", func(a, b float64) bool { return a <= b }); err != nil {
				return err
			}

		case chunk.DefGlobal:
			name := vm.readString(fr)
			vm.globals.Set(name, vm.peek(0))
			vm.pop()
		case chunk.ReadGlobal:
			name := vm.readString(fr)
			v, ok := vm.globals.Get(name)
			if !ok {
				return vm.runtimeError("Undefined variable '%s'.", name)
			}
			vm.push(v)
		case chunk.WriteGlobal:
			name := vm.readString(fr)
			if !vm.globals.Has(name) {
				return vm.runtimeError("Undefined variable '%s'.", name)
			}
			vm.globals.Set(name, vm.peek(0))

		case chunk.ReadLocal:
			slot := int(vm.readByte(fr))
			vm.push(vm.stack[fr.sp+slot])
		case chunk.WriteLocal:
			slot := int(vm.readByte(fr))
			vm.stack[fr.sp+slot] = vm.peek(0)

		case chunk.ReadUpval:
			slot := vm.readByte(fr)
			vm.push(fr.closure.Upvalues[slot].Get())
		case chunk.WriteUpval:
			slot := vm.readByte(fr)
			fr.closure.Upvalues[slot].Set(vm.peek(0))
		case chunk.CloseUpVal:
			vm.closeUpvalues(vm.stackTop - 1)
			vm.pop()

		case chunk.Jump:
			fr.ip += int(vm.readUint16(fr))
		case chunk.JumpBack:
			fr.ip -= int(vm.readUint16(fr))
		case chunk.JumpFalsey:
			offset := vm.readUint16(fr)
			if !value.Truthy(vm.peek(0)) {
				fr.ip += int(offset)
			}
		case chunk.JumpTruthy:
			offset := vm.readUint16(fr)
			if value.Truthy(vm.peek(0)) {
				fr.ip += int(offset)
			}

		case chunk.Call:
			argCount := int(vm.readByte(fr))
			if err := vm.callValue(vm.peek(argCount), argCount); err != nil {
				return err
			}

		case chunk.Closure:
			idx := vm.readByte(fr)
			fn := fr.closure.Function.Chunk.Constants[idx].(*value.Function)
			closure := &value.Closure{Function: fn, Upvalues: make([]*value.Upvalue, fn.UpvalueCount)}
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := vm.readByte(fr)
				index := vm.readByte(fr)
				if isLocal != 0 {
					closure.Upvalues[i] = vm.captureUpvalue(fr.sp + int(index))
				} else {
					closure.Upvalues[i] = fr.closure.Upvalues[index]
				}
			}
			vm.track(closure)
			vm.push(closure)

		case chunk.Class:
			name := vm.readString(fr)
			class := value.NewClass(name)
			vm.track(class)
			vm.push(class)

		case chunk.ReadProperty:
			if err := vm.readProperty(fr); err != nil {
				return err
			}
		case chunk.WriteProperty:
			if err := vm.writeProperty(fr); err != nil {
				return err
			}
		case chunk.Method:
			name := vm.readString(fr)
			method := vm.pop().(*value.Closure) // ok to panic otherwise, compiler error
			class := vm.peek(0).(*value.Class)  // ok to panic otherwise, compiler error
			class.Methods.Set(name, method)
		case chunk.Inherit:
			child := vm.pop().(*value.Class) // ok to panic otherwise, compiler error
			superVal := vm.peek(0)
			super, ok := superVal.(*value.Class)
			if !ok {
				return vm.runtimeError("Superclass must be a class. Got %s", value.Debug(superVal))
			}
			super.Methods.Each(func(name string, m value.Value) { child.Methods.Set(name, m) })

		case chunk.Invoke:
			name := vm.readString(fr)
			argCount := int(vm.readByte(fr))
			if err := vm.invoke(name, argCount); err != nil {
				return err
			}
		case chunk.Super:
			name := vm.readString(fr)
			class := vm.pop().(*value.Class) // ok to panic otherwise, compiler error
			method, ok := class.Methods.Get(name)
			if !ok {
				return vm.runtimeError("Undefined method %s for class %s", name, class.Name)
			}
			receiver := vm.peek(0).(*value.Instance) // ok to panic otherwise, compiler error
			bound := &value.BoundMethod{Receiver: receiver, Method: method.(*value.Closure)}
			vm.track(bound)
			vm.stack[vm.stackTop-1] = bound
		case chunk.SuperInvoke:
			name := vm.readString(fr)
			argCount := int(vm.readByte(fr))
			class := vm.pop().(*value.Class) // ok to panic otherwise, compiler error
			if err := vm.invokeFromClass(class, name, argCount); err != nil {
				return err
			}

		case chunk.Print:
			vm.printLine(vm.pop())

		case chunk.Return:
			result := vm.pop()
			vm.closeUpvalues(fr.sp)
			vm.frameCount--
			if vm.frameCount == 0 {
				vm.pop() // the root closure pushed by Run
				return nil
			}
			vm.stackTop = fr.sp
			vm.push(result)
		}
	}
	return nil
}

func (vm *VM) readByte(fr *callFrame) byte {
	b := fr.closure.Function.Chunk.Code[fr.ip]
	fr.ip++
	return b
}

func (vm *VM) readUint16(fr *callFrame) uint16 {
	code := fr.closure.Function.Chunk.Code
	v := binary.LittleEndian.Uint16(code[fr.ip : fr.ip+2])
	fr.ip += 2
	return v
}

func (vm *VM) readString(fr *callFrame) string {
	idx := vm.readByte(fr)
	return fr.closure.Function.Chunk.Constants[idx].(*value.String).S
}

func (vm *VM) printLine(v value.Value) {
	fmt.Fprintln(vm.Stdout, v.String())
}
