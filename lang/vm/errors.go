package vm

import (
	"fmt"
	"strings"
)

// RuntimeError is any dynamic failure raised while running bytecode
// (spec.md §7). Message follows one of the fixed templates tests match
// against; Trace holds one "[line L] in name" entry per live call frame,
// innermost first.
type RuntimeError struct {
	Message string
	Trace   []string
}

func (e *RuntimeError) Error() string {
	if len(e.Trace) == 0 {
		return e.Message
	}
	return e.Message + "\n" + strings.Join(e.Trace, "\n")
}

func (vm *VM) runtimeError(format string, args ...any) *RuntimeError {
	return &RuntimeError{
		Message: fmt.Sprintf(format, args...),
		Trace:   vm.stackTrace(),
	}
}

// stackTrace walks the live call frames innermost to outermost, resolving
// each one's current instruction back to a source line (spec.md §7).
func (vm *VM) stackTrace() []string {
	trace := make([]string, 0, vm.frameCount)
	for i := vm.frameCount - 1; i >= 0; i-- {
		fr := &vm.frames[i]
		name := fr.closure.Function.Name
		if name == "" {
			name = "script"
		}
		trace = append(trace, fmt.Sprintf("[line %d] in %s", fr.line(), name))
	}
	return trace
}
