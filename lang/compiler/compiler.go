// Package compiler implements the single-pass Lox compiler: a Pratt
// expression parser, a recursive-descent statement parser, a scope and
// upvalue resolver, and a bytecode emitter, all fused into one forward
// traversal of the token stream with no intermediate AST (spec.md §4.4).
package compiler

import (
	"fmt"

	"github.com/dolthub/swiss"
	"github.com/mna/craftlox/lang/chunk"
	"github.com/mna/craftlox/lang/scanner"
	"github.com/mna/craftlox/lang/token"
	"github.com/mna/craftlox/lang/value"
)

// maxLocals and maxUpvalues bound a single function's locals/upvalues
// arrays, matching the single-byte slot operand (spec.md §4.4).
const (
	maxLocals    = 256
	maxUpvalues  = 256
	maxArgs      = 255
	uninitalized = -1
)

// Heap is the allocation surface the compiler needs from its embedder: it
// must intern strings (so compile-time and run-time string constants share
// the same canonical *value.String, spec.md §3.3 invariant 2) and register
// newly compiled functions as GC roots before execution begins (spec.md
// §3.4, §5). vm.VM implements Heap; the compiler package never imports vm,
// so there is no import cycle.
type Heap interface {
	InternString(s string) *value.String
	TrackFunction(f *value.Function)
}

// FuncKind distinguishes the four contexts a function body can be compiled
// in, which affects the name of slot 0 (`this` in methods and initializers),
// the implicit return, and which `return` forms are legal.
type FuncKind int

const (
	ScriptKind FuncKind = iota
	FuncFn
	MethodFn
	InitializerFn
)

type local struct {
	name       string
	depth      int
	isCaptured bool
}

type upvalueRef struct {
	index   uint8
	isLocal bool
}

// funcCompiler holds the compile-time state for one function body (or the
// top-level script). Entering a nested function pushes a new funcCompiler
// onto a chain via enclosing; leaving it pops back, emitting a Closure
// instruction in the parent (spec.md §4.4).
type funcCompiler struct {
	enclosing *funcCompiler
	function  *value.Function
	kind      FuncKind

	locals     [maxLocals]local
	localCount int
	scopeDepth int

	upvalues   [maxUpvalues]upvalueRef
	upvalCount int

	// constDedup maps a canonical key (see dedupKey) to its constant-pool
	// index, so repeated number/string literals within one function share a
	// single pool slot (spec.md §4.1: "constants are deduplicated by value
	// equality on insertion"). swiss.Map is a closed hash map, a reasonable
	// stand-in for this short-lived per-function table.
	constDedup *swiss.Map[string, uint8]
}

// classCompiler tracks state while parsing a class body, for validating
// `super` usage (spec.md §4.4).
type classCompiler struct {
	enclosing     *classCompiler
	hasSuperclass bool
}

// parser is the single-pass compiler's whole state: the token cursor, the
// current funcCompiler/classCompiler chain, and the error accumulator.
type parser struct {
	scan *scanner.Scanner
	heap Heap

	previous token.Token
	current  token.Token

	hadError  bool
	panicking bool
	errors    []string

	fc *funcCompiler
	cc *classCompiler
}

// Compile parses and emits bytecode for source into a fresh top-level
// Function (spec.md §6's compile operation). It always runs to EOF,
// resynchronising after each error, and returns a non-nil *CompileError iff
// any error was logged.
func Compile(source string, heap Heap) (*value.Function, error) {
	p := &parser{scan: scanner.New(source), heap: heap}
	p.fc = newFuncCompiler(nil, ScriptKind, "")
	p.advance()

	for !p.match(token.EOF) {
		p.declaration()
	}

	fn := p.endCompiler()
	return fn, newCompileError(p.errors)
}

func newFuncCompiler(enclosing *funcCompiler, kind FuncKind, name string) *funcCompiler {
	fc := &funcCompiler{
		enclosing:  enclosing,
		kind:       kind,
		function:   &value.Function{Name: name, Chunk: chunk.New()},
		constDedup: swiss.NewMap[string, uint8](8),
	}
	// Slot 0 of every call frame is reserved: the receiver for methods and
	// initializers, or the callable itself otherwise (spec.md §3.3
	// invariant 7).
	if kind == MethodFn || kind == InitializerFn {
		fc.locals[0] = local{name: "this", depth: 0}
	} else {
		fc.locals[0] = local{name: "", depth: 0}
	}
	fc.localCount = 1
	return fc
}

func (p *parser) currentChunk() *chunk.Chunk { return p.fc.function.Chunk }

// endCompiler emits the implicit return, pops this funcCompiler off the
// chain, and returns the finished Function (still unwrapped in a Closure;
// the caller — declaration-level code — emits the Closure instruction in
// the parent).
func (p *parser) endCompiler() *value.Function {
	p.emitReturn()
	fn := p.fc.function
	fn.UpvalueCount = p.fc.upvalCount
	p.heap.TrackFunction(fn)
	p.fc = p.fc.enclosing
	return fn
}

func (p *parser) emitReturn() {
	if p.fc.kind == InitializerFn {
		p.emitOp(chunk.ReadLocal)
		p.emitByte(0)
	} else {
		p.emitOp(chunk.Nil)
	}
	p.emitOp(chunk.Return)
}

// --- token stream -----------------------------------------------------

func (p *parser) advance() {
	p.previous = p.current
	for {
		p.current = p.scan.Next()
		if p.current.Kind != token.ERROR {
			break
		}
		p.errorAtCurrent(p.current.Lexeme)
	}
}

func (p *parser) check(k token.Kind) bool { return p.current.Kind == k }

func (p *parser) match(k token.Kind) bool {
	if !p.check(k) {
		return false
	}
	p.advance()
	return true
}

func (p *parser) consume(k token.Kind, msg string) {
	if p.current.Kind == k {
		p.advance()
		return
	}
	p.errorAtCurrent(msg)
}

func (p *parser) errorAtCurrent(msg string) { p.errorAt(p.current, msg) }
func (p *parser) error(msg string)          { p.errorAt(p.previous, msg) }

func (p *parser) errorAt(tok token.Token, msg string) {
	if p.panicking {
		return
	}
	p.panicking = true
	p.hadError = true

	where := ""
	switch tok.Kind {
	case token.EOF:
		where = "end"
	case token.ERROR:
		where = ""
	default:
		where = fmt.Sprintf("'%s'", tok.Lexeme)
	}
	p.errors = append(p.errors, formatError(tok.Line, where, msg))
}

// synchronize resynchronises after a parse error by discarding tokens until
// a statement boundary is plausible (spec.md §4.4).
func (p *parser) synchronize() {
	p.panicking = false
	for p.current.Kind != token.EOF {
		if p.previous.Kind == token.SEMICOLON {
			return
		}
		switch p.current.Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF,
			token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}

// --- emission -----------------------------------------------------------

func (p *parser) emitByte(b byte) int { return p.currentChunk().Write(b, p.previous.Line) }
func (p *parser) emitOp(op chunk.OpCode) int {
	return p.currentChunk().WriteOp(op, p.previous.Line)
}
func (p *parser) emitOp2(op chunk.OpCode, operand byte) {
	p.emitOp(op)
	p.emitByte(operand)
}

// emitJump emits a jump opcode with a placeholder 2-byte operand and
// returns the offset of that operand, to be passed to patchJump.
func (p *parser) emitJump(op chunk.OpCode) int {
	p.emitOp(op)
	return p.currentChunk().WriteUint16Placeholder(p.previous.Line)
}

func (p *parser) patchJump(operandOffset int) {
	target := len(p.currentChunk().Code)
	dist := target - (operandOffset + 2)
	if dist > 0xffff {
		p.error("too much code to jump over.")
		return
	}
	p.currentChunk().PatchJump(operandOffset, uint16(dist))
}

// emitLoop emits a JumpBack instruction targeting loopStart.
func (p *parser) emitLoop(loopStart int) {
	p.emitOp(chunk.JumpBack)
	operandOffset := p.currentChunk().WriteUint16Placeholder(p.previous.Line)
	dist := (operandOffset + 2) - loopStart
	if dist > 0xffff {
		p.error("loop body too large.")
		return
	}
	p.currentChunk().PatchJump(operandOffset, uint16(dist))
}

// makeConstant adds v to the current function's constant pool, reusing an
// existing slot for an equal Float or String (spec.md §4.1); other constant
// kinds (Functions) are never equal to one another and always get a fresh
// slot.
func (p *parser) makeConstant(v value.Value) uint8 {
	key, dedupe := dedupKey(v)
	if dedupe {
		if idx, ok := p.fc.constDedup.Get(key); ok {
			return idx
		}
	}

	idx, ok := p.currentChunk().AddConstant(v)
	if !ok {
		p.error("too many constants in one chunk.")
		return 0
	}
	if dedupe {
		p.fc.constDedup.Put(key, idx)
	}
	return idx
}

func dedupKey(v value.Value) (string, bool) {
	switch v := v.(type) {
	case value.Float:
		return "f:" + v.String(), true
	case *value.String:
		return "s:" + v.S, true
	default:
		return "", false
	}
}

func (p *parser) emitConstant(v value.Value) {
	p.emitOp2(chunk.Constant, p.makeConstant(v))
}

// identifierConstant interns name and adds it as a constant, returning its
// index — used for global names and property/method names.
func (p *parser) identifierConstant(name string) uint8 {
	return p.makeConstant(p.heap.InternString(name))
}

// --- scopes ---------------------------------------------------------------

func (p *parser) beginScope() { p.fc.scopeDepth++ }

// endScope pops every local declared in the scope being exited. Captured
// locals are closed with CloseUpVal; runs of non-captured locals are
// batch-popped with a single Pop or StackSub N (spec.md §4.4 "Block scope
// exit"). The exact interleaving order is an open question per spec.md §9;
// this walks the locals from the highest slot down, counting consecutive
// non-captured locals, and flushes that count as one Pop/StackSub before
// each captured local's CloseUpVal (so the captured local is on top when
// CloseUpVal runs), with a final flush for any remaining run. Every
// captured local is closed and every local popped.
func (p *parser) endScope() {
	p.fc.scopeDepth--

	popCount := 0
	for p.fc.localCount > 0 && p.fc.locals[p.fc.localCount-1].depth > p.fc.scopeDepth {
		loc := p.fc.locals[p.fc.localCount-1]
		if loc.isCaptured {
			if popCount > 0 {
				p.emitPopN(popCount)
				popCount = 0
			}
			p.emitOp(chunk.CloseUpVal)
		} else {
			popCount++
		}
		p.fc.localCount--
	}
	if popCount > 0 {
		p.emitPopN(popCount)
	}
}

func (p *parser) emitPopN(n int) {
	if n == 1 {
		p.emitOp(chunk.Pop)
		return
	}
	p.emitOp2(chunk.StackSub, byte(n))
}
