package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ISEP-Projects-JH/PseudoCompiler/internal/token"
)

func kinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	l := New(src)
	var out []token.Kind
	for {
		tok := l.Next()
		out = append(out, tok.Kind)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func TestLexerPunctuationAndOperators(t *testing.T) {
	got := kinds(t, "( ) { } ; , = + - * / == != < <= > >=")
	require.Equal(t, []token.Kind{
		token.LParen, token.RParen, token.LBrace, token.RBrace, token.Semi,
		token.Comma, token.Assign, token.Plus, token.Minus, token.Star, token.Slash,
		token.EqEq, token.NotEq, token.Lt, token.LtEq, token.Gt, token.GtEq, token.EOF,
	}, got)
}

func TestLexerKeywordsVersusIdents(t *testing.T) {
	l := New("int string if else while print counter")
	var vals []string
	for {
		tok := l.Next()
		if tok.Kind == token.EOF {
			break
		}
		vals = append(vals, tok.Kind.String())
	}
	require.Equal(t, []string{"int", "string", "if", "else", "while", "print", "IDENT"}, vals)
}

func TestLexerNumberAndString(t *testing.T) {
	l := New(`42 "hello world"`)
	n := l.Next()
	require.Equal(t, token.NUMBER, n.Kind)
	require.Equal(t, "42", n.Value)

	s := l.Next()
	require.Equal(t, token.STRING, s.Kind)
	require.Equal(t, "hello world", s.Value)
}

func TestLexerSkipsLineComments(t *testing.T) {
	l := New("x // this is ignored\n= 1;")
	require.Equal(t, token.IDENT, l.Next().Kind)
	require.Equal(t, token.Assign, l.Next().Kind)
	require.Equal(t, token.NUMBER, l.Next().Kind)
	require.Equal(t, token.Semi, l.Next().Kind)
}

func TestLexerTracksLineNumbers(t *testing.T) {
	l := New("a;\nb;\nc;")
	var lines []int
	for {
		tok := l.Next()
		if tok.Kind == token.EOF {
			break
		}
		if tok.Kind == token.IDENT {
			lines = append(lines, tok.Line)
		}
	}
	require.Equal(t, []int{1, 2, 3}, lines)
}

func TestLexerIllegalCharacter(t *testing.T) {
	l := New("@")
	tok := l.Next()
	require.Equal(t, token.ILLEGAL, tok.Kind)
	require.Equal(t, "@", tok.Value)
}
