package value

// Truthy implements Lox's falsey rule (spec.md §4.5): Nil and Bool(false)
// are falsey, everything else — including 0 and "" — is truthy.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case NilType:
		return false
	case Bool:
		return bool(v)
	default:
		return true
	}
}

// Equal implements the Equality column of spec.md §3.1. It never errors:
// differently-typed values are simply unequal, and NaN is never equal to
// itself, matching IEEE-754 float semantics.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case NilType:
		_, ok := b.(NilType)
		return ok
	case Bool:
		bb, ok := b.(Bool)
		return ok && a == bb
	case Float:
		bf, ok := b.(Float)
		return ok && float64(a) == float64(bf)
	case *String:
		bs, ok := b.(*String)
		return ok && a == bs // pointer equality: interning guarantees soundness
	default:
		return a == b // reference equality for every other heap variant
	}
}
