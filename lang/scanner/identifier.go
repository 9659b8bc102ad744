package scanner

import "github.com/mna/craftlox/lang/token"

func (s *Scanner) identifier() token.Token {
	for isAlpha(s.peek()) || isDigit(s.peek()) {
		s.current++
	}
	return s.make(identifierKind(s.src[s.start:s.current]))
}

// identifierKind recognizes keywords via a manual trie on the first one or
// two characters, avoiding a hash lookup for the (common) identifier case.
// Each branch verifies the remainder of the lexeme with checkKeyword.
func identifierKind(lexeme string) token.Kind {
	if len(lexeme) == 0 {
		return token.IDENT
	}
	switch lexeme[0] {
	case 'a':
		return checkKeyword(lexeme, "and", token.AND)
	case 'c':
		return checkKeyword(lexeme, "class", token.CLASS)
	case 'e':
		return checkKeyword(lexeme, "else", token.ELSE)
	case 'f':
		if len(lexeme) > 1 {
			switch lexeme[1] {
			case 'a':
				return checkKeyword(lexeme, "false", token.FALSE)
			case 'o':
				return checkKeyword(lexeme, "for", token.FOR)
			case 'u':
				return checkKeyword(lexeme, "fun", token.FUN)
			}
		}
	case 'i':
		return checkKeyword(lexeme, "if", token.IF)
	case 'n':
		return checkKeyword(lexeme, "nil", token.NIL)
	case 'o':
		return checkKeyword(lexeme, "or", token.OR)
	case 'p':
		return checkKeyword(lexeme, "print", token.PRINT)
	case 'r':
		return checkKeyword(lexeme, "return", token.RETURN)
	case 's':
		return checkKeyword(lexeme, "super", token.SUPER)
	case 't':
		if len(lexeme) > 1 {
			switch lexeme[1] {
			case 'h':
				return checkKeyword(lexeme, "this", token.THIS)
			case 'r':
				return checkKeyword(lexeme, "true", token.TRUE)
			}
		}
	case 'v':
		return checkKeyword(lexeme, "var", token.VAR)
	case 'w':
		return checkKeyword(lexeme, "while", token.WHILE)
	}
	return token.IDENT
}

func checkKeyword(lexeme, keyword string, kind token.Kind) token.Kind {
	if lexeme == keyword {
		return kind
	}
	return token.IDENT
}
