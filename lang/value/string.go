package value

// String is an interned, immutable byte sequence (spec.md §3.2). Equality
// between two Strings is pointer equality: the intern table (lang/table,
// driven by vm.VM.InternString) guarantees at most one live *String exists
// for any given byte sequence (spec.md §3.3 invariant 2).
type String struct {
	Obj
	S string
}

func (s *String) String() string { return s.S }
func (*String) Type() string     { return "string" }
func (s *String) Size() int      { return 24 + len(s.S) }

var _ HeapValue = (*String)(nil)
