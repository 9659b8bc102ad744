package chunk

// OpCode identifies a bytecode instruction. Each opcode is a single byte;
// operand layout (if any) is fixed per opcode, per spec.md §4.1.
type OpCode byte

//nolint:revive
const (
	Nil OpCode = iota
	True
	False

	Constant // 1-byte constant index

	Negate
	Not
	Add
	Subtract
	Multiply
	Divide

	Eq
	Neq
	Gt
	GtEq
	Lt
	LtEq

	Pop
	StackSub // 1-byte N

	DefGlobal   // 1-byte name-constant index
	ReadGlobal  // 1-byte name-constant index
	WriteGlobal // 1-byte name-constant index

	ReadLocal  // 1-byte slot
	WriteLocal // 1-byte slot

	ReadUpval  // 1-byte slot
	WriteUpval // 1-byte slot
	CloseUpVal

	Jump        // 2-byte offset
	JumpFalsey  // 2-byte offset
	JumpTruthy  // 2-byte offset
	JumpBack    // 2-byte offset

	Call // 1-byte arg count

	Closure // 1-byte func-constant index, then 2*upvalCount bytes of (is_local, index) pairs

	Class         // 1-byte name-constant index
	ReadProperty  // 1-byte name-constant index
	WriteProperty // 1-byte name-constant index
	Method        // 1-byte name-constant index
	Inherit
	Invoke      // 1-byte name-constant index, 1-byte arg count
	Super       // 1-byte name-constant index
	SuperInvoke // 1-byte name-constant index, 1-byte arg count

	Print
	Return
)

var names = [...]string{
	Nil:           "OP_NIL",
	True:          "OP_TRUE",
	False:         "OP_FALSE",
	Constant:      "OP_CONSTANT",
	Negate:        "OP_NEGATE",
	Not:           "OP_NOT",
	Add:           "OP_ADD",
	Subtract:      "OP_SUBTRACT",
	Multiply:      "OP_MULTIPLY",
	Divide:        "OP_DIVIDE",
	Eq:            "OP_EQ",
	Neq:           "OP_NEQ",
	Gt:            "OP_GT",
	GtEq:          "OP_GT_EQ",
	Lt:            "OP_LT",
	LtEq:          "OP_LT_EQ",
	Pop:           "OP_POP",
	StackSub:      "OP_STACK_SUB",
	DefGlobal:     "OP_DEF_GLOBAL",
	ReadGlobal:    "OP_READ_GLOBAL",
	WriteGlobal:   "OP_WRITE_GLOBAL",
	ReadLocal:     "OP_READ_LOCAL",
	WriteLocal:    "OP_WRITE_LOCAL",
	ReadUpval:     "OP_READ_UPVAL",
	WriteUpval:    "OP_WRITE_UPVAL",
	CloseUpVal:    "OP_CLOSE_UPVAL",
	Jump:          "OP_JUMP",
	JumpFalsey:    "OP_JUMP_FALSEY",
	JumpTruthy:    "OP_JUMP_TRUTHY",
	JumpBack:      "OP_JUMP_BACK",
	Call:          "OP_CALL",
	Closure:       "OP_CLOSURE",
	Class:         "OP_CLASS",
	ReadProperty:  "OP_READ_PROPERTY",
	WriteProperty: "OP_WRITE_PROPERTY",
	Method:        "OP_METHOD",
	Inherit:       "OP_INHERIT",
	Invoke:        "OP_INVOKE",
	Super:         "OP_SUPER",
	SuperInvoke:   "OP_SUPER_INVOKE",
	Print:         "OP_PRINT",
	Return:        "OP_RETURN",
}

func (op OpCode) String() string {
	if int(op) >= len(names) || names[op] == "" {
		return "OP_UNKNOWN"
	}
	return names[op]
}
