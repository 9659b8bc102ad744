package vm

import (
	"fmt"

	"github.com/mna/craftlox/lang/value"
)

// collectGarbage runs one full mark-sweep cycle (spec.md §4.6): mark every
// root, trace from them to a fixed point, make the string intern set weak
// against what survived, then sweep the heap list.
func (vm *VM) collectGarbage() {
	before := vm.bytesAllocated
	if vm.GCLogMode {
		fmt.Fprintf(vm.Stderr, "-- gc begin, %d bytes allocated\n", before)
	}

	vm.gray = vm.gray[:0]
	vm.markRoots()
	vm.traceReferences()
	vm.sweepStrings()
	vm.sweep()

	vm.nextGC = vm.bytesAllocated * gcGrowFactor

	if vm.GCLogMode {
		fmt.Fprintf(vm.Stderr, "-- gc end, %d bytes allocated (collected %d), next at %d\n",
			vm.bytesAllocated, before-vm.bytesAllocated, vm.nextGC)
	}
}

// markRoots marks every object directly reachable from outside the heap
// (spec.md §4.6 roots 1-4; root 5, the in-progress compiler chain, is
// handled by never collecting while vm.compiling is set — see vm.go).
func (vm *VM) markRoots() {
	for i := 0; i < vm.stackTop; i++ {
		vm.markValue(vm.stack[i])
	}
	for i := 0; i < vm.frameCount; i++ {
		vm.markObject(vm.frames[i].closure)
	}
	for u := vm.openUpvalues; u != nil; u = u.Next {
		vm.markObject(u)
	}
	vm.globals.Each(func(key string, v value.Value) {
		vm.markInternedKey(key)
		vm.markValue(v)
	})
}

func (vm *VM) markValue(v value.Value) {
	if hv, ok := v.(value.HeapValue); ok {
		vm.markObject(hv)
	}
}

// markInternedKey marks the canonical String backing a table key, since
// table.Table stores keys as plain Go strings rather than *value.String
// (spec.md §4.6 root 4's "both key String and value").
func (vm *VM) markInternedKey(key string) {
	if s, ok := vm.strings.Get(key); ok {
		vm.markObject(s)
	}
}

func (vm *VM) markObject(obj value.HeapValue) {
	if obj == nil || obj.Marked() {
		return
	}
	obj.Mark()
	vm.gray = append(vm.gray, obj)
}

// traceReferences drains the gray work-list, blackening each object by
// marking everything it references (spec.md §4.6 "Tracing").
func (vm *VM) traceReferences() {
	for len(vm.gray) > 0 {
		obj := vm.gray[len(vm.gray)-1]
		vm.gray = vm.gray[:len(vm.gray)-1]
		vm.blacken(obj)
	}
}

func (vm *VM) blacken(obj value.HeapValue) {
	switch o := obj.(type) {
	case *value.Function:
		for _, c := range o.Chunk.Constants {
			vm.markValue(c.(value.Value))
		}
	case *value.Closure:
		vm.markObject(o.Function)
		for _, u := range o.Upvalues {
			vm.markObject(u)
		}
	case *value.Upvalue:
		if !o.IsOpen() {
			vm.markValue(o.Closed)
		}
	case *value.Class:
		vm.markInternedKey(o.Name)
		o.Methods.Each(func(name string, m value.Value) {
			vm.markInternedKey(name)
			vm.markValue(m)
		})
	case *value.Instance:
		vm.markObject(o.Class)
		o.Fields.Each(func(name string, v value.Value) {
			vm.markInternedKey(name)
			vm.markValue(v)
		})
	case *value.BoundMethod:
		vm.markObject(o.Receiver)
		vm.markObject(o.Method)
	case *value.String, *value.NativeFn:
		// no outgoing references
	}
}

// sweepStrings makes the intern set weak (spec.md §4.2, §4.6): it must not
// itself keep a string alive, so anything left unmarked after tracing is
// evicted here, before the general sweep frees it.
func (vm *VM) sweepStrings() {
	vm.strings.DeleteIf(func(s *value.String) bool { return !s.Marked() })
}

// sweep walks the heap object list, unmarking survivors and swap-removing
// the rest (spec.md §4.6: "use a swap-remove strategy to avoid shifting").
func (vm *VM) sweep() {
	i := 0
	for i < len(vm.heapObjects) {
		obj := vm.heapObjects[i]
		if obj.Marked() {
			obj.Unmark()
			i++
			continue
		}
		vm.bytesAllocated -= obj.Size()
		last := len(vm.heapObjects) - 1
		vm.heapObjects[i] = vm.heapObjects[last]
		vm.heapObjects = vm.heapObjects[:last]
	}
}
