package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cbarrett/golox/internal/parser"
	"github.com/cbarrett/golox/internal/scanner"
)

func parseExpr(t *testing.T, src string) string {
	t.Helper()
	toks, scanErrs := scanner.Scan([]byte(src))
	require.Equal(t, 0, scanErrs.Len())
	stmts, parseErrs := parser.Parse(toks)
	require.Equal(t, 0, parseErrs.Len(), parseErrs.Error())
	require.Len(t, stmts, 1)
	return stmts[0].String()
}

func TestLeftAssociativeSubtraction(t *testing.T) {
	// a-b-c must parse as ((a-b)-c), not (a-(b-c)).
	got := parseExpr(t, "a-b-c;")
	require.Equal(t, "((a-b)-c);", got)
}

func TestLeftAssociativeMultiplication(t *testing.T) {
	got := parseExpr(t, "a*b*c;")
	require.Equal(t, "((a*b)*c);", got)
}

func TestRightAssociativeAssignment(t *testing.T) {
	got := parseExpr(t, "a=b=c;")
	require.Equal(t, "(a=(b=c));", got)
}

func TestPrettyPrintScenario(t *testing.T) {
	// spec.md §8.2 scenario 1.
	got := parseExpr(t, "(5/1+2)*--8;")
	require.Equal(t, "((group ((5/1)+2))*(-(-8)));", got)
}

func TestAssignToRValueFails(t *testing.T) {
	_, scanErrList := scanner.Scan([]byte("1 = 2;"))
	require.Equal(t, 0, scanErrList.Len())

	toks, _ := scanner.Scan([]byte("1 = 2;"))
	_, parseErrs := parser.Parse(toks)
	require.Equal(t, 1, parseErrs.Len())
}

func TestMultipleStatementErrorsReportedInOnePass(t *testing.T) {
	toks, _ := scanner.Scan([]byte("var; var; var x = 1;"))
	_, parseErrs := parser.Parse(toks)
	require.Equal(t, 2, parseErrs.Len())
}

func TestMissingSemicolonSynchronizes(t *testing.T) {
	toks, _ := scanner.Scan([]byte("var x = 1 var y = 2;"))
	stmts, parseErrs := parser.Parse(toks)
	require.Equal(t, 1, parseErrs.Len())
	// the first bad statement is dropped, the next is still parsed
	require.Len(t, stmts, 1)
}

func TestClassWithSuperclassAndMethods(t *testing.T) {
	toks, scanErrs := scanner.Scan([]byte(`
		class A { greet() { return "A"; } }
		class B < A { greet() { return super.greet() + "B"; } }
	`))
	require.Equal(t, 0, scanErrs.Len())
	stmts, parseErrs := parser.Parse(toks)
	require.Equal(t, 0, parseErrs.Len(), parseErrs.Error())
	require.Len(t, stmts, 2)
}

func TestForLoopAbsentClauses(t *testing.T) {
	toks, _ := scanner.Scan([]byte("for (;;) print 1;"))
	stmts, parseErrs := parser.Parse(toks)
	require.Equal(t, 0, parseErrs.Len())
	require.Len(t, stmts, 1)
}
