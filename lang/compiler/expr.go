package compiler

import (
	"strconv"

	"github.com/mna/craftlox/lang/chunk"
	"github.com/mna/craftlox/lang/token"
	"github.com/mna/craftlox/lang/value"
)

func (p *parser) grouping(canAssign bool) {
	p.expression()
	p.consume(token.RPAREN, "expect ')' after expression.")
}

func (p *parser) number(canAssign bool) {
	f, err := strconv.ParseFloat(p.previous.Lexeme, 64)
	if err != nil {
		p.error("invalid number literal.")
		return
	}
	p.emitConstant(value.Float(f))
}

// string strips the surrounding quotes from the lexeme and interns the
// contents (spec.md §3.3 invariant 2: every string constant is canonical).
func (p *parser) string(canAssign bool) {
	lexeme := p.previous.Lexeme
	s := lexeme[1 : len(lexeme)-1]
	p.emitConstant(p.heap.InternString(s))
}

func (p *parser) literal(canAssign bool) {
	switch p.previous.Kind {
	case token.FALSE:
		p.emitOp(chunk.False)
	case token.TRUE:
		p.emitOp(chunk.True)
	case token.NIL:
		p.emitOp(chunk.Nil)
	}
}

func (p *parser) variable(canAssign bool) {
	p.namedVariable(p.previous.Lexeme, canAssign)
}

func (p *parser) unary(canAssign bool) {
	op := p.previous.Kind
	p.parsePrecedence(precUnary)
	switch op {
	case token.MINUS:
		p.emitOp(chunk.Negate)
	case token.BANG:
		p.emitOp(chunk.Not)
	}
}

func (p *parser) binary(canAssign bool) {
	op := p.previous.Kind
	rule := getRule(op)
	p.parsePrecedence(rule.prec + 1) // left-associative: parse the RHS one level tighter

	switch op {
	case token.PLUS:
		p.emitOp(chunk.Add)
	case token.MINUS:
		p.emitOp(chunk.Subtract)
	case token.STAR:
		p.emitOp(chunk.Multiply)
	case token.SLASH:
		p.emitOp(chunk.Divide)
	case token.EQ_EQ:
		p.emitOp(chunk.Eq)
	case token.BANG_EQ:
		p.emitOp(chunk.Neq)
	case token.GT:
		p.emitOp(chunk.Gt)
	case token.GT_EQ:
		p.emitOp(chunk.GtEq)
	case token.LT:
		p.emitOp(chunk.Lt)
	case token.LT_EQ:
		p.emitOp(chunk.LtEq)
	}
}

// and_ and or_ short-circuit by jumping over the RHS instead of emitting it
// as a value-producing opcode pair (spec.md §4.4).
func (p *parser) and_(canAssign bool) {
	endJump := p.emitJump(chunk.JumpFalsey)
	p.emitOp(chunk.Pop)
	p.parsePrecedence(precAnd)
	p.patchJump(endJump)
}

func (p *parser) or_(canAssign bool) {
	elseJump := p.emitJump(chunk.JumpFalsey)
	endJump := p.emitJump(chunk.Jump)
	p.patchJump(elseJump)
	p.emitOp(chunk.Pop)
	p.parsePrecedence(precOr)
	p.patchJump(endJump)
}

// argumentList parses a parenthesized, comma-separated expression list
// (call arguments), leaving the values on the stack, and returns the count.
func (p *parser) argumentList() int {
	count := 0
	if !p.check(token.RPAREN) {
		for {
			p.expression()
			if count == maxArgs {
				p.error("can't have more than 255 arguments.")
			}
			count++
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "expect ')' after arguments.")
	return count
}

func (p *parser) call(canAssign bool) {
	argCount := p.argumentList()
	p.emitOp2(chunk.Call, byte(argCount))
}

// dot compiles property access/assignment and fuses the common
// `obj.method(args)` shape directly into a single Invoke instruction rather
// than a ReadProperty followed by a Call (spec.md §4.4).
func (p *parser) dot(canAssign bool) {
	p.consume(token.IDENT, "expect property name after '.'.")
	name := p.identifierConstant(p.previous.Lexeme)

	switch {
	case canAssign && p.match(token.EQ):
		p.expression()
		p.emitOp2(chunk.WriteProperty, name)
	case p.match(token.LPAREN):
		argCount := p.argumentList()
		p.emitOp2(chunk.Invoke, name)
		p.emitByte(byte(argCount))
	default:
		p.emitOp2(chunk.ReadProperty, name)
	}
}

func (p *parser) this_(canAssign bool) {
	if p.cc == nil {
		p.error("can't use 'this' outside of a class.")
		return
	}
	p.variable(false)
}

// super_ compiles `super.method` and `super.method(args)`, pushing the
// receiver (`this`) and the enclosing class's superclass (captured as an
// upvalue/local named "super", see classDeclaration) before resolving the
// method, fusing the call case into SuperInvoke exactly as dot does for
// plain Invoke.
func (p *parser) super_(canAssign bool) {
	if p.cc == nil {
		p.error("can't use 'super' outside of a class.")
	} else if !p.cc.hasSuperclass {
		p.error("can't use 'super' in a class with no superclass.")
	}

	p.consume(token.DOT, "expect '.' after 'super'.")
	p.consume(token.IDENT, "expect superclass method name.")
	name := p.identifierConstant(p.previous.Lexeme)

	p.namedVariable("this", false)
	if p.match(token.LPAREN) {
		argCount := p.argumentList()
		p.namedVariable("super", false)
		p.emitOp2(chunk.SuperInvoke, name)
		p.emitByte(byte(argCount))
	} else {
		p.namedVariable("super", false)
		p.emitOp2(chunk.Super, name)
	}
}
