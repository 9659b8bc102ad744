package compiler

import "github.com/mna/craftlox/lang/token"

// precedence orders binding strength for parsePrecedence, low to high
// (spec.md §4.4).
type precedence int

const (
	precNone precedence = iota
	precAssignment
	precOr
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precCall
	precPrimary
)

type parseFn func(p *parser, canAssign bool)

type parseRule struct {
	prefix parseFn
	infix  parseFn
	prec   precedence
}

var rules map[token.Kind]parseRule

func init() {
	rules = map[token.Kind]parseRule{
		token.LPAREN:    {prefix: (*parser).grouping, infix: (*parser).call, prec: precCall},
		token.DOT:       {infix: (*parser).dot, prec: precCall},
		token.MINUS:     {prefix: (*parser).unary, infix: (*parser).binary, prec: precTerm},
		token.PLUS:      {infix: (*parser).binary, prec: precTerm},
		token.SLASH:     {infix: (*parser).binary, prec: precFactor},
		token.STAR:      {infix: (*parser).binary, prec: precFactor},
		token.BANG:      {prefix: (*parser).unary},
		token.BANG_EQ:   {infix: (*parser).binary, prec: precEquality},
		token.EQ_EQ:     {infix: (*parser).binary, prec: precEquality},
		token.GT:        {infix: (*parser).binary, prec: precComparison},
		token.GT_EQ:     {infix: (*parser).binary, prec: precComparison},
		token.LT:        {infix: (*parser).binary, prec: precComparison},
		token.LT_EQ:     {infix: (*parser).binary, prec: precComparison},
		token.IDENT:     {prefix: (*parser).variable},
		token.STRING:    {prefix: (*parser).string},
		token.NUMBER:    {prefix: (*parser).number},
		token.AND:       {infix: (*parser).and_, prec: precAnd},
		token.OR:        {infix: (*parser).or_, prec: precOr},
		token.FALSE:     {prefix: (*parser).literal},
		token.NIL:       {prefix: (*parser).literal},
		token.TRUE:      {prefix: (*parser).literal},
		token.THIS:      {prefix: (*parser).this_},
		token.SUPER:     {prefix: (*parser).super_},
	}
}

func getRule(k token.Kind) parseRule { return rules[k] }

// parsePrecedence is the core Pratt loop (spec.md §4.4): it runs the prefix
// rule for the current token, then keeps consuming infix operators whose
// precedence is at least prec. Assignment (`=`) is only legal when prec is
// at most precAssignment, which is how `a + b = c` is rejected: `+`'s infix
// rule parses `b` with parsePrecedence(precFactor), where canAssign is
// false, so the `=` is left unconsumed and the outermost call reports it as
// an invalid assignment target.
func (p *parser) parsePrecedence(prec precedence) {
	p.advance()
	prefix := getRule(p.previous.Kind).prefix
	if prefix == nil {
		p.error("expect expression.")
		return
	}

	canAssign := prec <= precAssignment
	prefix(p, canAssign)

	for prec <= getRule(p.current.Kind).prec {
		p.advance()
		infix := getRule(p.previous.Kind).infix
		infix(p, canAssign)
	}

	if canAssign && p.match(token.EQ) {
		p.error("invalid assignment target.")
	}
}

func (p *parser) expression() { p.parsePrecedence(precAssignment) }
