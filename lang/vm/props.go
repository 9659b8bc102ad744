package vm

import "github.com/mna/craftlox/lang/value"

func (vm *VM) readProperty(fr *callFrame) error {
	name := vm.readString(fr)
	inst, ok := vm.peek(0).(*value.Instance)
	if !ok {
		return vm.runtimeError("Cannot read/write property of non-instance: %s", value.Debug(vm.peek(0)))
	}

	if field, ok := inst.Fields.Get(name); ok {
		vm.stack[vm.stackTop-1] = field
		return nil
	}
	method, ok := inst.Class.Methods.Get(name)
	if !ok {
		return vm.runtimeError("Undefined property %s for class %s", name, inst.Class.Name)
	}
	bound := &value.BoundMethod{Receiver: inst, Method: method.(*value.Closure)}
	vm.track(bound)
	vm.stack[vm.stackTop-1] = bound
	return nil
}

func (vm *VM) writeProperty(fr *callFrame) error {
	name := vm.readString(fr)
	inst, ok := vm.peek(1).(*value.Instance)
	if !ok {
		return vm.runtimeError("Cannot read/write property of non-instance: %s", value.Debug(vm.peek(1)))
	}
	v := vm.peek(0)
	inst.Fields.Set(name, v)

	vm.stackTop -= 2
	vm.push(v)
	return nil
}

// invoke is the fast path for `recv.method(args)`: a plain field lookup
// falls back to an ordinary call (a callable stored in a field shadows a
// same-named method), otherwise the method table is consulted directly
// without materializing a BoundMethod (spec.md §4.5).
func (vm *VM) invoke(name string, argCount int) error {
	inst, ok := vm.peek(argCount).(*value.Instance)
	if !ok {
		return vm.runtimeError("Cannot read/write property of non-instance: %s", value.Debug(vm.peek(argCount)))
	}

	if field, ok := inst.Fields.Get(name); ok {
		vm.stack[vm.stackTop-argCount-1] = field
		return vm.callValue(field, argCount)
	}
	return vm.invokeFromClass(inst.Class, name, argCount)
}

func (vm *VM) add() error {
	b, a := vm.peek(0), vm.peek(1)

	if af, ok := a.(value.Float); ok {
		if bf, ok := b.(value.Float); ok {
			vm.stackTop--
			vm.stack[vm.stackTop-1] = af + bf
			return nil
		}
	}
	if as, ok := a.(*value.String); ok {
		if bs, ok := b.(*value.String); ok {
			result := vm.InternString(as.S + bs.S)
			vm.stackTop--
			vm.stack[vm.stackTop-1] = result
			return nil
		}
	}
	return vm.runtimeError("Add called with non-number/non-string operands: (%s, %s)", value.Debug(a), value.Debug(b))
}

func (vm *VM) numericBinary(name string, fn func(a, b float64) float64) error {
	b, bok := vm.peek(0).(value.Float)
	a, aok := vm.peek(1).(value.Float)
	if !aok || !bok {
		return vm.runtimeError("%s called on non-number operand(s): (%s, %s)", name, value.Debug(vm.peek(1)), value.Debug(vm.peek(0)))
	}
	vm.stackTop--
	vm.stack[vm.stackTop-1] = value.Float(fn(float64(a), float64(b)))
	return nil
}

func (vm *VM) comparisonBinary(name string, fn func(a, b float64) bool) error {
	b, bok := vm.peek(0).(value.Float)
	a, aok := vm.peek(1).(value.Float)
	if !aok || !bok {
		return vm.runtimeError("%s called on non-number operand: (%s, %s)", name, value.Debug(vm.peek(1)), value.Debug(vm.peek(0)))
	}
	vm.stackTop--
	vm.stack[vm.stackTop-1] = value.Bool(fn(float64(a), float64(b)))
	return nil
}
