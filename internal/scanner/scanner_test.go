package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cbarrett/golox/internal/scanner"
	"github.com/cbarrett/golox/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks, errList := scanner.Scan([]byte(`(){},.-+;*/ == != <= >= < > = !`))
	require.Equal(t, 0, errList.Len())
	require.Equal(t, []token.Kind{
		token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
		token.COMMA, token.DOT, token.MINUS, token.PLUS, token.SEMICOLON,
		token.STAR, token.SLASH,
		token.EQUAL_EQUAL, token.BANG_EQUAL, token.LESS_EQUAL, token.GREATER_EQUAL,
		token.LESS, token.GREATER, token.EQUAL, token.BANG,
		token.EOF,
	}, kinds(toks))
}

func TestScanKeywordsAreCaseSensitive(t *testing.T) {
	toks, errList := scanner.Scan([]byte(`if If IF`))
	require.Equal(t, 0, errList.Len())
	require.Equal(t, []token.Kind{token.IF, token.IDENTIFIER, token.IDENTIFIER, token.EOF}, kinds(toks))
}

func TestScanStringLiteral(t *testing.T) {
	toks, errList := scanner.Scan([]byte(`"hello\nworld"`))
	require.Equal(t, 0, errList.Len())
	require.Len(t, toks, 2)
	require.Equal(t, token.STRING, toks[0].Kind)
	require.Equal(t, `hello\nworld`, toks[0].Lexeme)
}

func TestScanUnterminatedString(t *testing.T) {
	_, errList := scanner.Scan([]byte(`"never closes`))
	require.Equal(t, 1, errList.Len())
}

func TestScanStringSpansNewlinesAndTracksLine(t *testing.T) {
	toks, errList := scanner.Scan([]byte("\"multi\nline\"\nprint 1;"))
	require.Equal(t, 0, errList.Len())
	require.Equal(t, token.STRING, toks[0].Kind)

	var printTok token.Token
	for _, tk := range toks {
		if tk.Kind == token.PRINT {
			printTok = tk
		}
	}
	require.Equal(t, 3, printTok.Line)
}

func TestScanNumberLiteral(t *testing.T) {
	toks, errList := scanner.Scan([]byte(`123 45.67 8.`))
	require.Equal(t, 1, errList.Len(), "trailing dot should be an error")
	require.Equal(t, "123", toks[0].Lexeme)
	require.Equal(t, "45.67", toks[1].Lexeme)
}

func TestScanUnexpectedCharacterContinues(t *testing.T) {
	toks, errList := scanner.Scan([]byte("@ 1 @ 2"))
	require.Equal(t, 2, errList.Len())
	require.Equal(t, []token.Kind{token.NUMBER, token.NUMBER, token.EOF}, kinds(toks))
}

func TestScanComment(t *testing.T) {
	toks, errList := scanner.Scan([]byte("1 // this is a comment\n2"))
	require.Equal(t, 0, errList.Len())
	require.Equal(t, []token.Kind{token.NUMBER, token.NUMBER, token.EOF}, kinds(toks))
}
