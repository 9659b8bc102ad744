package value

import (
	"fmt"

	"github.com/mna/craftlox/lang/table"
)

// Class is a runtime class object: a name and a method table mapping method
// names to Closures (spec.md §3.2).
type Class struct {
	Obj
	Name    string
	Methods *table.Table[Value]
}

// NewClass returns an empty class named name.
func NewClass(name string) *Class {
	return &Class{Name: name, Methods: table.New[Value]()}
}

func (c *Class) String() string { return c.Name }
func (*Class) Type() string     { return "class" }
func (c *Class) Size() int      { return 32 + 48*c.Methods.Len() }

var _ HeapValue = (*Class)(nil)

// Instance is an instance of a Class, with its own field table (spec.md
// §3.2).
type Instance struct {
	Obj
	Class  *Class
	Fields *table.Table[Value]
}

// NewInstance returns an instance of class.
func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: table.New[Value]()}
}

func (i *Instance) String() string { return fmt.Sprintf("%s instance", i.Class.Name) }
func (*Instance) Type() string     { return "instance" }
func (i *Instance) Size() int      { return 24 + 48*i.Fields.Len() }

var _ HeapValue = (*Instance)(nil)

// BoundMethod pairs a receiver Instance with one of its class's Closures, so
// that `obj.method` can be passed around independently of `obj` (spec.md
// §3.2).
type BoundMethod struct {
	Obj
	Receiver *Instance
	Method   *Closure
}

func (b *BoundMethod) String() string { return b.Method.String() }
func (*BoundMethod) Type() string     { return "bound method" }
func (*BoundMethod) Size() int        { return 24 }

var _ HeapValue = (*BoundMethod)(nil)
