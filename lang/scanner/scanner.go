// Package scanner implements the lazy, single-pass lexer for Lox source
// text. Tokens are produced one at a time by Scanner.Next; the compiler
// pulls from it while parsing, so there is no intermediate token slice.
package scanner

import (
	"fmt"

	"github.com/mna/craftlox/lang/token"
)

// Scanner tokenizes a single chunk of source text.
type Scanner struct {
	src     string
	start   int // start of the lexeme currently being scanned
	current int // cursor into src
	line    int
}

// New returns a Scanner ready to tokenize src.
func New(src string) *Scanner {
	return &Scanner{src: src, line: 1}
}

// Next scans and returns the next token. Once EOF has been returned, every
// subsequent call returns EOF again.
func (s *Scanner) Next() token.Token {
	s.skipWhitespaceAndComments()
	s.start = s.current

	if s.atEnd() {
		return s.make(token.EOF)
	}

	c := s.advance()
	if isAlpha(c) {
		return s.identifier()
	}
	if isDigit(c) {
		return s.number()
	}

	switch c {
	case '(':
		return s.make(token.LPAREN)
	case ')':
		return s.make(token.RPAREN)
	case '{':
		return s.make(token.LBRACE)
	case '}':
		return s.make(token.RBRACE)
	case ';':
		return s.make(token.SEMICOLON)
	case ',':
		return s.make(token.COMMA)
	case '.':
		return s.make(token.DOT)
	case '-':
		return s.make(token.MINUS)
	case '+':
		return s.make(token.PLUS)
	case '/':
		return s.make(token.SLASH)
	case '*':
		return s.make(token.STAR)
	case '!':
		return s.makeIf(s.match('='), token.BANG_EQ, token.BANG)
	case '=':
		return s.makeIf(s.match('='), token.EQ_EQ, token.EQ)
	case '<':
		return s.makeIf(s.match('='), token.LT_EQ, token.LT)
	case '>':
		return s.makeIf(s.match('='), token.GT_EQ, token.GT)
	case '"':
		return s.string()
	}

	return s.errorf("unexpected character '%c'.", c)
}

func (s *Scanner) atEnd() bool { return s.current >= len(s.src) }

func (s *Scanner) advance() byte {
	c := s.src[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.src) {
		return 0
	}
	return s.src[s.current+1]
}

func (s *Scanner) match(want byte) bool {
	if s.atEnd() || s.src[s.current] != want {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch s.peek() {
		case ' ', '\r', '\t':
			s.current++
		case '\n':
			s.line++
			s.current++
		case '/':
			if s.peekNext() == '/' {
				for s.peek() != '\n' && !s.atEnd() {
					s.current++
				}
			} else {
				return
			}
		default:
			return
		}
	}
}

func (s *Scanner) make(kind token.Kind) token.Token {
	return token.Token{Kind: kind, Lexeme: s.src[s.start:s.current], Line: s.line}
}

func (s *Scanner) makeIf(cond bool, then, els token.Kind) token.Token {
	if cond {
		return s.make(then)
	}
	return s.make(els)
}

func (s *Scanner) errorf(format string, args ...interface{}) token.Token {
	return token.Token{Kind: token.ERROR, Lexeme: fmt.Sprintf(format, args...), Line: s.line}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
