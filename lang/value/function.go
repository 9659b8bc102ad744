package value

import (
	"fmt"

	"github.com/mna/craftlox/lang/chunk"
)

// Function is a compile-time artifact: a chunk of bytecode plus the
// metadata the VM needs to call it (spec.md §3.2). It is immutable after
// compilation; closures bind it to a set of captured upvalues at runtime.
type Function struct {
	Obj
	Name         string // empty for the implicit top-level script function
	Arity        int
	UpvalueCount int
	Chunk        *chunk.Chunk
}

func (f *Function) String() string {
	if f.Name == "" {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name)
}
func (*Function) Type() string  { return "function" }
func (f *Function) Size() int   { return 48 + len(f.Chunk.Code) }
func (f *Function) UpvalCount() int { return f.UpvalueCount }

var _ HeapValue = (*Function)(nil)

// Closure is the runtime binding of a Function to the upvalue cells its
// nested functions capture (spec.md §3.2).
type Closure struct {
	Obj
	Function *Function
	Upvalues []*Upvalue
}

func (c *Closure) String() string { return c.Function.String() }
func (*Closure) Type() string     { return "function" }
func (c *Closure) Size() int      { return 24 + 8*len(c.Upvalues) }

var _ HeapValue = (*Closure)(nil)
