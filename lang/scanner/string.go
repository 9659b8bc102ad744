package scanner

import "github.com/mna/craftlox/lang/token"

// string scans a double-quoted string literal. The opening quote has
// already been consumed. An unterminated string yields an Error token, as
// required by spec.md's scanner component.
func (s *Scanner) string() token.Token {
	for s.peek() != '"' && !s.atEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.current++
	}
	if s.atEnd() {
		return s.errorf("unterminated string.")
	}
	s.current++ // closing quote
	return s.make(token.STRING)
}
