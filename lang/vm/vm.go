// Package vm implements the call-frame bytecode interpreter: dispatch loop,
// upvalue capture/close, method/class dispatch, native functions, and the
// mark-sweep garbage collector that owns the heap those allocate into
// (spec.md §4.5, §4.6).
package vm

import (
	"io"
	"os"
	"unsafe"

	"github.com/mna/craftlox/lang/chunk"
	"github.com/mna/craftlox/lang/compiler"
	"github.com/mna/craftlox/lang/table"
	"github.com/mna/craftlox/lang/value"
)

const (
	maxFrames = 64
	stackMax  = maxFrames * 256

	initialNextGC = 1 << 20
	gcGrowFactor  = 2
)

// TraceEvent is emitted to Trace before each instruction executes, the
// out-of-process observation hook spec.md §1 leaves external (the CLI
// wires it to a line-oriented writer behind a flag).
type TraceEvent struct {
	Frame int
	IP    int
	Op    chunk.OpCode
}

var _ compiler.Heap = (*VM)(nil)

// VM is one self-contained interpreter: its own stack, heap, globals and
// intern table. Multiple VMs may coexist in a process; nothing is shared
// between them (spec.md §5).
type VM struct {
	stack    [stackMax]value.Value
	stackTop int

	frames     [maxFrames]callFrame
	frameCount int

	globals *table.Table[value.Value]
	strings *table.Table[*value.String]

	openUpvalues *value.Upvalue

	heapObjects    []value.HeapValue
	bytesAllocated int
	nextGC         int
	gray           []value.HeapValue

	// compiling suppresses collection while the compiler is allocating
	// Strings/Functions into this VM's heap: the compiler's in-progress
	// funcCompiler chain is not visible to markRoots, so the only sound
	// option short of exposing that chain is to never collect mid-compile
	// (spec.md §4.6 root 5).
	compiling bool

	// GCStressMode forces a collection on every allocation (spec.md §4.6);
	// GCLogMode writes a line to Stderr around each collection. Both are
	// plain fields set by the embedder (the CLI flags; tests set
	// GCStressMode).
	GCStressMode bool
	GCLogMode    bool

	// Trace, if non-nil, is invoked before every instruction.
	Trace func(TraceEvent)

	// Stdout is where Print writes; Stderr is where GCLogMode writes.
	// Defaulted to os.Stdout/os.Stderr by New, overridable by embedders
	// (mirrors the teacher's injectable Thread.Stdout/Stderr).
	Stdout io.Writer
	Stderr io.Writer
}

// New returns a ready-to-run VM with native functions installed.
func New() *VM {
	vm := &VM{
		globals: table.New[value.Value](),
		strings: table.New[*value.String](),
		nextGC:  initialNextGC,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
	vm.defineNatives()
	return vm
}

// Reset drops every heap object, clears all tables, and zeroes the stack
// (spec.md §6's reset operation), returning the VM to its initial state.
func (vm *VM) Reset() {
	vm.stackTop = 0
	vm.frameCount = 0
	vm.openUpvalues = nil
	vm.globals = table.New[value.Value]()
	vm.strings = table.New[*value.String]()
	vm.heapObjects = nil
	vm.bytesAllocated = 0
	vm.nextGC = initialNextGC
	vm.gray = nil
	vm.defineNatives()
}

// Interpret compiles and runs source (spec.md §6's interpret operation).
func (vm *VM) Interpret(source string) error {
	fn, err := vm.Compile(source)
	if err != nil {
		return err
	}
	return vm.Run(fn)
}

// Compile parses source into a top-level Function using this VM as the
// allocation target, pausing collection for the duration (see the
// compiling field).
func (vm *VM) Compile(source string) (*value.Function, error) {
	vm.compiling = true
	defer func() { vm.compiling = false }()
	return compiler.Compile(source, vm)
}

// Load installs fn as the root call frame without executing anything, so a
// caller can drive it one instruction at a time with Step/StepN instead of
// running it to completion (spec.md §6).
func (vm *VM) Load(fn *value.Function) error {
	vm.push(fn) // keep fn reachable while the closure is allocated
	closure := &value.Closure{Function: fn, Upvalues: nil}
	vm.track(closure)
	vm.pop()
	vm.push(closure)
	return vm.call(closure, 0)
}

// Run installs fn as the root frame and executes until halt or error
// (spec.md §6's run operation).
func (vm *VM) Run(fn *value.Function) error {
	if err := vm.Load(fn); err != nil {
		return err
	}
	return vm.run()
}

// --- compiler.Heap -------------------------------------------------------

// InternString returns the canonical *value.String for s, allocating and
// registering one if this is the first occurrence (spec.md §3.3 invariant
// 2, §4.2).
func (vm *VM) InternString(s string) *value.String {
	if existing, ok := vm.strings.Get(s); ok {
		return existing
	}
	str := &value.String{S: s}
	vm.track(str)
	vm.strings.Set(s, str)
	return str
}

// TrackFunction registers a freshly compiled Function on the heap list
// (spec.md §3.4); it becomes reachable once installed in an enclosing
// chunk's constant pool, or — for the top-level script — once Run wraps it
// in a Closure.
func (vm *VM) TrackFunction(f *value.Function) { vm.track(f) }

// --- stack -----------------------------------------------------------------

func (vm *VM) push(v value.Value) {
	vm.stack[vm.stackTop] = v
	vm.stackTop++
}

func (vm *VM) pop() value.Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.stackTop-1-distance]
}

func (vm *VM) currentFrame() *callFrame { return &vm.frames[vm.frameCount-1] }

// slotIndex recovers the index into vm.stack that an open upvalue's Slot
// pointer refers to. Safe only because vm.stack is a fixed-size array field
// (never reallocated), so every such pointer remains valid for the VM's
// lifetime; this is the one place that relies on that layout.
func (vm *VM) slotIndex(slot *value.Value) int {
	base := unsafe.Pointer(&vm.stack[0])
	return int((uintptr(unsafe.Pointer(slot)) - uintptr(base)) / unsafe.Sizeof(vm.stack[0]))
}

// --- upvalues --------------------------------------------------------------

// captureUpvalue returns the open upvalue for stack slot, reusing one
// already open at that slot or inserting a new one into the
// descending-by-slot list (spec.md §3.3 invariant 4, §4.5).
func (vm *VM) captureUpvalue(slot int) *value.Upvalue {
	var prev *value.Upvalue
	cur := vm.openUpvalues
	for cur != nil && vm.slotIndex(cur.Slot) > slot {
		prev = cur
		cur = cur.Next
	}
	if cur != nil && vm.slotIndex(cur.Slot) == slot {
		return cur
	}

	created := &value.Upvalue{Slot: &vm.stack[slot], Next: cur}
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.Next = created
	}
	vm.track(created)
	return created
}

// closeUpvalues closes every open upvalue at or above lastSlot, copying the
// stack value in and detaching it from the open list (spec.md §4.5).
func (vm *VM) closeUpvalues(lastSlot int) {
	for vm.openUpvalues != nil {
		u := vm.openUpvalues
		if vm.slotIndex(u.Slot) < lastSlot {
			break
		}
		u.Close()
		vm.openUpvalues = u.Next
		u.Next = nil
	}
}

// --- allocation / GC hookup -------------------------------------------------

// track registers obj on the heap list, accounting its size and, unless a
// compile is in progress, checking whether a collection is due.
func (vm *VM) track(obj value.HeapValue) {
	if !vm.compiling {
		vm.maybeCollect()
	}
	vm.heapObjects = append(vm.heapObjects, obj)
	vm.bytesAllocated += obj.Size()
}

func (vm *VM) maybeCollect() {
	if vm.GCStressMode || vm.bytesAllocated > vm.nextGC {
		vm.collectGarbage()
	}
}
