package scanner

import (
	"testing"

	"github.com/mna/craftlox/lang/token"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	s := New(src)
	var toks []token.Token
	for {
		tok := s.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}
	return ks
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks := scanAll(t, "(){};,.-+/*! != = == < <= > >=")
	require.Equal(t, []token.Kind{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.SEMICOLON,
		token.COMMA, token.DOT, token.MINUS, token.PLUS, token.SLASH, token.STAR,
		token.BANG, token.BANG_EQ, token.EQ, token.EQ_EQ, token.LT, token.LT_EQ,
		token.GT, token.GT_EQ, token.EOF,
	}, kinds(toks))
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks := scanAll(t, "and class else false for fun if nil or print return super this true var while notakeyword")
	ks := kinds(toks)
	require.Equal(t, token.IDENT, ks[len(ks)-2])
	require.Equal(t, token.EOF, ks[len(ks)-1])
	require.Contains(t, ks, token.CLASS)
	require.Contains(t, ks, token.WHILE)
}

func TestScanNumber(t *testing.T) {
	toks := scanAll(t, "123.45")
	require.Equal(t, token.NUMBER, toks[0].Kind)
	require.Equal(t, "123.45", toks[0].Lexeme)
}

func TestScanString(t *testing.T) {
	toks := scanAll(t, `"hello world"`)
	require.Equal(t, token.STRING, toks[0].Kind)
	require.Equal(t, `"hello world"`, toks[0].Lexeme)
}

func TestScanUnterminatedStringIsErrorToken(t *testing.T) {
	toks := scanAll(t, `"hello`)
	require.Equal(t, token.ERROR, toks[0].Kind)
}

func TestScanSkipsLineComments(t *testing.T) {
	toks := scanAll(t, "// a comment\nprint 1;")
	require.Equal(t, token.PRINT, toks[0].Kind)
}

func TestScanTracksLineNumbers(t *testing.T) {
	toks := scanAll(t, "1\n2\n3")
	require.Equal(t, 1, toks[0].Line)
	require.Equal(t, 2, toks[1].Line)
	require.Equal(t, 3, toks[2].Line)
}

func TestScanPastEOFKeepsReturningEOF(t *testing.T) {
	s := New("")
	require.Equal(t, token.EOF, s.Next().Kind)
	require.Equal(t, token.EOF, s.Next().Kind)
}
