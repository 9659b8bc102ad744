package vm

import "github.com/mna/craftlox/lang/value"

// callValue dispatches `Call`/`Invoke`'s "what is being called" step
// (spec.md §4.5): callee sits argCount slots below the stack top, with the
// arguments above it.
func (vm *VM) callValue(callee value.Value, argCount int) error {
	switch c := callee.(type) {
	case *value.Closure:
		return vm.call(c, argCount)

	case *value.NativeFn:
		args := vm.stack[vm.stackTop-argCount : vm.stackTop]
		result, err := c.Fn(args)
		if err != nil {
			return vm.runtimeError("%s", err.Error())
		}
		vm.stackTop -= argCount + 1
		vm.push(result)
		return nil

	case *value.Class:
		inst := value.NewInstance(c)
		vm.track(inst)
		vm.stack[vm.stackTop-argCount-1] = inst
		if init, ok := c.Methods.Get("init"); ok {
			return vm.call(init.(*value.Closure), argCount)
		}
		if argCount != 0 {
			return vm.runtimeError("Function(%s) expects 0 args, got %d.", c.Name, argCount)
		}
		return nil

	case *value.BoundMethod:
		vm.stack[vm.stackTop-argCount-1] = c.Receiver
		return vm.call(c.Method, argCount)

	default:
		return vm.runtimeError("Object '%s' is not callable", value.Debug(callee))
	}
}

// call pushes a new call frame for closure over the argCount arguments
// already sitting on the stack (spec.md §4.5).
func (vm *VM) call(closure *value.Closure, argCount int) error {
	if argCount != closure.Function.Arity {
		return vm.runtimeError("Function(%s) expects %d args, got %d.", closure.Function.Name, closure.Function.Arity, argCount)
	}
	if vm.frameCount == maxFrames {
		return vm.runtimeError("Stack overflow")
	}

	fr := &vm.frames[vm.frameCount]
	vm.frameCount++
	fr.closure = closure
	fr.ip = 0
	fr.sp = vm.stackTop - argCount - 1
	return nil
}

// invokeFromClass resolves name as a method on class and calls it over the
// argCount arguments already on the stack (the fused ReadProperty+Call
// shape that backs Invoke, SuperInvoke and the plain-method fallback of
// Invoke when no same-named field shadows it — spec.md §4.5).
func (vm *VM) invokeFromClass(class *value.Class, name string, argCount int) error {
	method, ok := class.Methods.Get(name)
	if !ok {
		return vm.runtimeError("Undefined method %s for class %s", name, class.Name)
	}
	return vm.call(method.(*value.Closure), argCount)
}
