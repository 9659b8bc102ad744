package compiler

import (
	"github.com/mna/craftlox/lang/chunk"
	"github.com/mna/craftlox/lang/token"
)

// declareVariable registers name as a new local in the current scope (no-op
// at global scope, where variables live in the globals table instead). It is
// an error to redeclare a name already local to this exact scope (spec.md
// §4.4 "Local declaration protocol").
func (p *parser) declareVariable(name string) {
	if p.fc.scopeDepth == 0 {
		return
	}
	for i := p.fc.localCount - 1; i >= 0; i-- {
		loc := p.fc.locals[i]
		if loc.depth != uninitalized && loc.depth < p.fc.scopeDepth {
			break
		}
		if loc.name == name {
			p.error("already a variable with this name in this scope.")
		}
	}
	p.addLocal(name)
}

func (p *parser) addLocal(name string) {
	if p.fc.localCount == maxLocals {
		p.error("too many local variables in function.")
		return
	}
	p.fc.locals[p.fc.localCount] = local{name: name, depth: uninitalized}
	p.fc.localCount++
}

// markInitialized sets the most recently declared local's depth to the
// current scope, making it visible to reads (this is what turns "use a
// local in its own initializer" into a compile error: before this call the
// local's depth is still uninitalized).
func (p *parser) markInitialized() {
	if p.fc.scopeDepth == 0 {
		return
	}
	p.fc.locals[p.fc.localCount-1].depth = p.fc.scopeDepth
}

// resolveLocal searches fc's locals from the top down for name, matching
// spec.md §4.4's "Scope resolution" step 1. Returns -1 if not found.
func resolveLocal(fc *funcCompiler, name string) int {
	for i := fc.localCount - 1; i >= 0; i-- {
		if fc.locals[i].name == name {
			return i
		}
	}
	return -1
}

// resolveUpvalue recursively resolves name as an upvalue in fc's enclosing
// chain (spec.md §4.4's "Scope resolution" step 2), marking captured
// locals along the way so block-exit code knows to emit CloseUpVal.
func (p *parser) resolveUpvalue(fc *funcCompiler, name string) int {
	if fc.enclosing == nil {
		return -1
	}
	if local := resolveLocal(fc.enclosing, name); local != -1 {
		fc.enclosing.locals[local].isCaptured = true
		return p.addUpvalue(fc, uint8(local), true)
	}
	if up := p.resolveUpvalue(fc.enclosing, name); up != -1 {
		return p.addUpvalue(fc, uint8(up), false)
	}
	return -1
}

// addUpvalue records a new upvalue slot on fc, deduplicating against an
// existing entry that already captures the same (index, isLocal) pair. An
// overflow of maxUpvalues is a compile error (spec.md §4.4's "too many
// upvalues" case), not a silently-dropped capture.
func (p *parser) addUpvalue(fc *funcCompiler, index uint8, isLocal bool) int {
	for i := 0; i < fc.upvalCount; i++ {
		up := fc.upvalues[i]
		if up.index == index && up.isLocal == isLocal {
			return i
		}
	}
	if fc.upvalCount == maxUpvalues {
		p.error("too many closure variables in function.")
		return -1
	}
	fc.upvalues[fc.upvalCount] = upvalueRef{index: index, isLocal: isLocal}
	fc.upvalCount++
	return fc.upvalCount - 1
}

// namedVariable compiles a read of (canAssign==false, or the token isn't
// followed by '=') or assignment to (canAssign==true and an '=' follows) the
// variable named by name, resolving it as local, upvalue, or global in that
// order (spec.md §4.4).
func (p *parser) namedVariable(name string, canAssign bool) {
	var getOp, setOp chunk.OpCode
	var slot int

	if slot = resolveLocal(p.fc, name); slot != -1 {
		if p.fc.locals[slot].depth == uninitalized {
			p.error("can't read local variable in its own initializer.")
		}
		getOp, setOp = chunk.ReadLocal, chunk.WriteLocal
	} else if slot = p.resolveUpvalue(p.fc, name); slot != -1 {
		getOp, setOp = chunk.ReadUpval, chunk.WriteUpval
	} else {
		slot = int(p.identifierConstant(name))
		getOp, setOp = chunk.ReadGlobal, chunk.WriteGlobal
	}

	if canAssign && p.match(token.EQ) {
		p.expression()
		p.emitOp2(setOp, byte(slot))
	} else {
		p.emitOp2(getOp, byte(slot))
	}
}
