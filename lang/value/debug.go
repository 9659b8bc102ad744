package value

import "fmt"

// Debug renders v the way runtime error messages quote operands (spec.md
// §7, e.g. "Add called with non-number/non-string operands: (Bool(true),
// Nil)"): the Go-ish "Variant(payload)" form, distinct from String's
// user-facing Lox rendering.
func Debug(v Value) string {
	switch v := v.(type) {
	case NilType:
		return "Nil"
	case Bool:
		return fmt.Sprintf("Bool(%t)", bool(v))
	case Float:
		return fmt.Sprintf("Float(%s)", v.String())
	case *String:
		return fmt.Sprintf("String(%q)", v.S)
	default:
		return fmt.Sprintf("%c%s(%s)", v.Type()[0]-('a'-'A'), v.Type()[1:], v.String())
	}
}
