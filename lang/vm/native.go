package vm

import (
	"time"

	"github.com/mna/craftlox/lang/value"
)

// defineNatives installs the builtins the spec requires before any program
// runs (spec.md §6): clock() is the only mandated one, returning seconds
// since the Unix epoch as a Float.
func (vm *VM) defineNatives() {
	vm.defineNative("clock", func(args []value.Value) (value.Value, error) {
		return value.Float(float64(time.Now().UnixNano()) / 1e9), nil
	})
}

func (vm *VM) defineNative(name string, fn func(args []value.Value) (value.Value, error)) {
	native := &value.NativeFn{Name: name, Fn: fn}
	vm.track(native)
	vm.globals.Set(name, native)
}
