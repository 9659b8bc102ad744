package compiler

import (
	"github.com/mna/craftlox/lang/chunk"
	"github.com/mna/craftlox/lang/token"
)

func (p *parser) declaration() {
	switch {
	case p.match(token.CLASS):
		p.classDeclaration()
	case p.match(token.FUN):
		p.funDeclaration()
	case p.match(token.VAR):
		p.varDeclaration()
	default:
		p.statement()
	}

	if p.panicking {
		p.synchronize()
	}
}

func (p *parser) statement() {
	switch {
	case p.match(token.PRINT):
		p.printStatement()
	case p.match(token.IF):
		p.ifStatement()
	case p.match(token.WHILE):
		p.whileStatement()
	case p.match(token.FOR):
		p.forStatement()
	case p.match(token.RETURN):
		p.returnStatement()
	case p.match(token.LBRACE):
		p.beginScope()
		p.block()
		p.endScope()
	default:
		p.expressionStatement()
	}
}

func (p *parser) block() {
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		p.declaration()
	}
	p.consume(token.RBRACE, "expect '}' after block.")
}

func (p *parser) expressionStatement() {
	p.expression()
	p.consume(token.SEMICOLON, "expect ';' after expression.")
	p.emitOp(chunk.Pop)
}

func (p *parser) printStatement() {
	p.expression()
	p.consume(token.SEMICOLON, "expect ';' after value.")
	p.emitOp(chunk.Print)
}

func (p *parser) ifStatement() {
	p.consume(token.LPAREN, "expect '(' after 'if'.")
	p.expression()
	p.consume(token.RPAREN, "expect ')' after condition.")

	thenJump := p.emitJump(chunk.JumpFalsey)
	p.emitOp(chunk.Pop)
	p.statement()

	elseJump := p.emitJump(chunk.Jump)
	p.patchJump(thenJump)
	p.emitOp(chunk.Pop)

	if p.match(token.ELSE) {
		p.statement()
	}
	p.patchJump(elseJump)
}

func (p *parser) whileStatement() {
	loopStart := len(p.currentChunk().Code)
	p.consume(token.LPAREN, "expect '(' after 'while'.")
	p.expression()
	p.consume(token.RPAREN, "expect ')' after condition.")

	exitJump := p.emitJump(chunk.JumpFalsey)
	p.emitOp(chunk.Pop)
	p.statement()
	p.emitLoop(loopStart)

	p.patchJump(exitJump)
	p.emitOp(chunk.Pop)
}

// forStatement desugars the three-part C-style for loop into the
// initializer/condition/increment building blocks already used by
// whileStatement, exactly per spec.md §4.4's lowering: the increment clause
// is compiled where it's written but spliced to run after the body via a
// pair of jumps (spec.md §4.4 "for loop desugaring").
func (p *parser) forStatement() {
	p.beginScope()
	p.consume(token.LPAREN, "expect '(' after 'for'.")

	switch {
	case p.match(token.SEMICOLON):
		// no initializer
	case p.match(token.VAR):
		p.varDeclaration()
	default:
		p.expressionStatement()
	}

	loopStart := len(p.currentChunk().Code)
	exitJump := -1
	if !p.match(token.SEMICOLON) {
		p.expression()
		p.consume(token.SEMICOLON, "expect ';' after loop condition.")
		exitJump = p.emitJump(chunk.JumpFalsey)
		p.emitOp(chunk.Pop)
	}

	if !p.match(token.RPAREN) {
		bodyJump := p.emitJump(chunk.Jump)

		incrementStart := len(p.currentChunk().Code)
		p.expression()
		p.emitOp(chunk.Pop)
		p.consume(token.RPAREN, "expect ')' after for clauses.")

		p.emitLoop(loopStart)
		loopStart = incrementStart
		p.patchJump(bodyJump)
	}

	p.statement()
	p.emitLoop(loopStart)

	if exitJump != -1 {
		p.patchJump(exitJump)
		p.emitOp(chunk.Pop)
	}

	p.endScope()
}

func (p *parser) returnStatement() {
	if p.fc.kind == ScriptKind {
		p.error("can't return from top-level code.")
	}

	if p.match(token.SEMICOLON) {
		p.emitReturn()
		return
	}

	if p.fc.kind == InitializerFn {
		p.error("can't return a value from an initializer.")
	}
	p.expression()
	p.consume(token.SEMICOLON, "expect ';' after return value.")
	p.emitOp(chunk.Return)
}

func (p *parser) varDeclaration() {
	global := p.parseVariable("expect variable name.")

	if p.match(token.EQ) {
		p.expression()
	} else {
		p.emitOp(chunk.Nil)
	}
	p.consume(token.SEMICOLON, "expect ';' after variable declaration.")
	p.defineVariable(global)
}

// parseVariable consumes the variable's name and, for a local, declares it
// immediately (spec.md §4.4). The returned index is only meaningful for
// globals, where it's the name constant defineVariable needs; callers must
// still call defineVariable for locals, which becomes a no-op beyond
// markInitialized.
func (p *parser) parseVariable(errMsg string) uint8 {
	p.consume(token.IDENT, errMsg)
	p.declareVariable(p.previous.Lexeme)
	if p.fc.scopeDepth > 0 {
		return 0
	}
	return p.identifierConstant(p.previous.Lexeme)
}

func (p *parser) defineVariable(global uint8) {
	if p.fc.scopeDepth > 0 {
		p.markInitialized()
		return
	}
	p.emitOp2(chunk.DefGlobal, global)
}

func (p *parser) funDeclaration() {
	global := p.parseVariable("expect function name.")
	p.markInitialized()
	p.function(FuncFn)
	p.defineVariable(global)
}

// function compiles one function body under a fresh funcCompiler, leaving a
// Closure instruction (with its trailing upvalue descriptor bytes) emitted
// into the enclosing chunk (spec.md §4.4).
func (p *parser) function(kind FuncKind) {
	name := p.previous.Lexeme
	enclosing := p.fc
	p.fc = newFuncCompiler(enclosing, kind, name)
	p.beginScope()

	p.consume(token.LPAREN, "expect '(' after function name.")
	if !p.check(token.RPAREN) {
		for {
			p.fc.function.Arity++
			if p.fc.function.Arity > maxArgs {
				p.errorAtCurrent("can't have more than 255 parameters.")
			}
			paramConst := p.parseVariable("expect parameter name.")
			p.defineVariable(paramConst)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "expect ')' after parameters.")
	p.consume(token.LBRACE, "expect '{' before function body.")
	p.block()

	fc := p.fc
	fn := p.endCompiler()

	idx := p.makeConstant(fn)
	p.emitOp2(chunk.Closure, idx)
	for i := 0; i < fc.upvalCount; i++ {
		up := fc.upvalues[i]
		p.emitByte(boolByte(up.isLocal))
		p.emitByte(up.index)
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// classDeclaration compiles a class body. Methods compile as ordinary
// functions under MethodFn/InitializerFn (so `this` resolves as local slot
// 0) and are attached with one Method instruction each; a superclass, if
// any, is evaluated and inherited via Inherit, with a synthetic "super"
// local scope wrapping the method bodies so `super.x` resolves through the
// normal upvalue machinery (spec.md §4.4).
func (p *parser) classDeclaration() {
	p.consume(token.IDENT, "expect class name.")
	nameTok := p.previous
	nameConst := p.identifierConstant(nameTok.Lexeme)
	p.declareVariable(nameTok.Lexeme)

	p.emitOp2(chunk.Class, nameConst)
	p.defineVariable(nameConst)

	cc := &classCompiler{enclosing: p.cc}
	p.cc = cc

	if p.match(token.LT) {
		p.consume(token.IDENT, "expect superclass name.")
		p.variable(false)
		if p.previous.Lexeme == nameTok.Lexeme {
			p.error("a class can't inherit from itself.")
		}

		p.beginScope()
		p.addLocal("super")
		p.defineVariable(0)

		p.namedVariable(nameTok.Lexeme, false)
		p.emitOp(chunk.Inherit)
		cc.hasSuperclass = true
	}

	p.namedVariable(nameTok.Lexeme, false)
	p.consume(token.LBRACE, "expect '{' before class body.")
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		p.method()
	}
	p.consume(token.RBRACE, "expect '}' after class body.")
	p.emitOp(chunk.Pop) // drop the class value pushed by namedVariable above

	if cc.hasSuperclass {
		p.endScope()
	}
	p.cc = cc.enclosing
}

func (p *parser) method() {
	p.consume(token.IDENT, "expect method name.")
	name := p.previous.Lexeme
	nameConst := p.identifierConstant(name)

	kind := MethodFn
	if name == "init" {
		kind = InitializerFn
	}
	p.function(kind)
	p.emitOp2(chunk.Method, nameConst)
}
