package lexer_test

import (
	"testing"

	"github.com/aql-lang/aql/lang/lexer"
	"github.com/aql-lang/aql/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) ([]token.Token, []lexer.Value, error) {
	t.Helper()
	var el lexer.ErrorList
	var l lexer.Lexer
	l.Init("test.aql", []byte(src), el.Add)

	var toks []token.Token
	var vals []lexer.Value
	for {
		var v lexer.Value
		tok := l.Next(&v)
		toks = append(toks, tok)
		vals = append(vals, v)
		if tok == token.EOF {
			break
		}
	}
	return toks, vals, el.Err()
}

func TestLexerPunctuationAndKeywords(t *testing.T) {
	toks, _, err := scanAll(t, `let x = 1 + 2 * 3 >= 4 and not false`)
	require.NoError(t, err)
	want := []token.Token{
		token.LET, token.IDENT, token.ASSIGN, token.INT, token.PLUS, token.INT,
		token.STAR, token.INT, token.GE, token.INT, token.AND, token.NOT,
		token.FALSE, token.EOF,
	}
	assert.Equal(t, want, toks)
}

func TestLexerMultiCharOperators(t *testing.T) {
	toks, _, err := scanAll(t, `== != <= >= << >> ** := -> || ?? :: .. ...`)
	require.NoError(t, err)
	want := []token.Token{
		token.EQEQ, token.NEQ, token.LE, token.GE, token.SHL, token.SHR,
		token.POW, token.WALRUS, token.ARROW, token.OROR,
		token.QQ, token.COLONCOLON, token.DOTDOT, token.DOTDOTDOT, token.EOF,
	}
	assert.Equal(t, want, toks)
}

func TestLexerNumbers(t *testing.T) {
	_, vals, err := scanAll(t, `10 3.14 0x1F 1e3`)
	require.NoError(t, err)
	require.Len(t, vals, 5) // 4 numbers + EOF
	assert.Equal(t, int64(10), vals[0].Int)
	assert.InDelta(t, 3.14, vals[1].Float, 1e-9)
	assert.Equal(t, int64(31), vals[2].Int)
	assert.InDelta(t, 1000.0, vals[3].Float, 1e-9)
}

func TestLexerStringEscapes(t *testing.T) {
	_, vals, err := scanAll(t, `"a\tb\n\065"`)
	require.NoError(t, err)
	assert.Equal(t, "a\tb\nA", vals[0].Str)
}

func TestLexerUnterminatedString(t *testing.T) {
	_, _, err := scanAll(t, `"abc`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unfinished string")
}

func TestLexerComments(t *testing.T) {
	toks, _, err := scanAll(t, "// line comment\nlet /* block\ncomment */ x = 1")
	require.NoError(t, err)
	want := []token.Token{token.LET, token.IDENT, token.ASSIGN, token.INT, token.EOF}
	assert.Equal(t, want, toks)
}

func TestLexerLineCounting(t *testing.T) {
	_, vals, err := scanAll(t, "let x\n= 1")
	require.NoError(t, err)
	// '=' is on line 2
	assert.Equal(t, 2, vals[2].Pos.Line)
}
