// Package value implements the Value sum type (spec.md §3.1) and the heap
// objects it can reference (spec.md §3.2): strings, functions, closures,
// upvalues, classes, instances and bound methods.
//
// Value is a small Go interface, exactly as the teacher's machine.Value is:
// an interface value is two machine words (type pointer + data pointer),
// which satisfies spec.md's "values are small (≤16 bytes) and trivially
// copyable" requirement without any unsafe tricks. Heap-backed variants are
// pointers, so Go's native pointer comparison gives reference equality for
// free (spec.md §3.1's equality column).
package value

import (
	"fmt"
	"math"
	"strconv"
)

// Value is the interface implemented by every value the virtual machine can
// hold on its stack, in a local, in a global, or in a field.
type Value interface {
	// String returns the value's canonical printed form, used by the `print`
	// statement and by error messages.
	String() string
	// Type returns a short, human-readable type name, used in error messages.
	Type() string
}

// Obj is the header embedded in every heap-allocated Value. It carries the
// mark bit the garbage collector flips during tracing (spec.md §3.2, §4.6).
type Obj struct {
	marked bool
}

// Marked reports whether the collector has visited this object during the
// current (or most recent) mark phase.
func (o *Obj) Marked() bool { return o.marked }

// Mark flags the object as reachable.
func (o *Obj) Mark() { o.marked = true }

// Unmark clears the reachable flag; called by sweep once an object survives
// a collection cycle.
func (o *Obj) Unmark() { o.marked = false }

// HeapValue is implemented by every heap-allocated Value variant. The
// garbage collector's heap object list (spec.md §3.3 invariant 1) is a
// []HeapValue; Size reports the bytes to account for in bytes_allocated
// (spec.md §3.3 invariant 6).
type HeapValue interface {
	Value
	Marked() bool
	Mark()
	Unmark()
	Size() int
}

// NilType is the type of the singleton Nil value.
type NilType struct{}

// Nil is the Value representing the absence of a value.
var Nil Value = NilType{}

func (NilType) String() string { return "nil" }
func (NilType) Type() string   { return "nil" }

// Bool is a boolean Value.
type Bool bool

// True and False are convenience Values; Bool is also directly constructible.
var (
	True  Value = Bool(true)
	False Value = Bool(false)
)

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (Bool) Type() string { return "bool" }

// Float is the sole numeric Value, a 64-bit IEEE-754 float (spec.md §3.1,
// Non-goals: no other numeric types).
type Float float64

func (f Float) String() string {
	ff := float64(f)
	switch {
	case math.IsNaN(ff):
		return "NaN"
	case math.IsInf(ff, 1):
		return "inf"
	case math.IsInf(ff, -1):
		return "-inf"
	}
	return strconv.FormatFloat(ff, 'g', -1, 64)
}
func (Float) Type() string { return "number" }

// NativeFn is a host function exposed to Lox code, such as the builtin
// clock(). It is heap-allocated (and thus GC-tracked) purely for uniformity
// with other Callables, even though natives never become unreachable before
// the VM that registered them does.
type NativeFn struct {
	Obj
	Name string
	Fn   func(args []Value) (Value, error)
}

func (n *NativeFn) String() string { return fmt.Sprintf("<native fn %s>", n.Name) }
func (n *NativeFn) Type() string   { return "native function" }
func (n *NativeFn) Size() int      { return 32 }

var _ HeapValue = (*NativeFn)(nil)
