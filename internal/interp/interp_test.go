package interp_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cbarrett/golox/internal/interp"
	"github.com/cbarrett/golox/internal/parser"
	"github.com/cbarrett/golox/internal/scanner"
)

func run(t *testing.T, src string) string {
	t.Helper()
	toks, scanErrs := scanner.Scan([]byte(src))
	require.Equal(t, 0, scanErrs.Len(), scanErrs.Error())
	stmts, parseErrs := parser.Parse(toks)
	require.Equal(t, 0, parseErrs.Len(), parseErrs.Error())

	var out bytes.Buffer
	it := interp.New(&out, 255)
	runErrs := it.Run(stmts)
	require.Equal(t, 0, runErrs.Len(), runErrs.Error())
	return out.String()
}

func TestArithmeticPrecedence(t *testing.T) {
	out := run(t, `print (5/1+2)*--8;`)
	require.Equal(t, "56\n", out)
}

func TestStringConcatenation(t *testing.T) {
	out := run(t, `print "a" + "b";`)
	require.Equal(t, "ab\n", out)
}

func TestVarShadowingAcrossBlocks(t *testing.T) {
	out := run(t, `
		var x = 1;
		{
			var x = 2;
			print x;
		}
		print x;
	`)
	require.Equal(t, "2\n1\n", out)
}

func TestIfElse(t *testing.T) {
	out := run(t, `if (1 < 2) print "yes"; else print "no";`)
	require.Equal(t, "yes\n", out)
}

func TestWhileLoop(t *testing.T) {
	out := run(t, `
		var i = 0;
		while (i < 3) {
			print i;
			i = i + 1;
		}
	`)
	require.Equal(t, "0\n1\n2\n", out)
}

func TestForLoop(t *testing.T) {
	out := run(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	require.Equal(t, "0\n1\n2\n", out)
}

func TestClosureCapturesLexicalScope(t *testing.T) {
	out := run(t, `
		fun makeCounter() {
			var count = 0;
			fun inc() {
				count = count + 1;
				return count;
			}
			return inc;
		}
		var counter = makeCounter();
		print counter();
		print counter();
		print counter();
	`)
	require.Equal(t, "1\n2\n3\n", out)
}

func TestRecursion(t *testing.T) {
	out := run(t, `
		fun fib(n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		print fib(10);
	`)
	require.Equal(t, "55\n", out)
}

func TestClassFieldsAndMethods(t *testing.T) {
	out := run(t, `
		class Counter {
			init(start) {
				this.count = start;
			}
			bump() {
				this.count = this.count + 1;
				return this.count;
			}
		}
		var c = Counter(10);
		print c.bump();
		print c.bump();
	`)
	require.Equal(t, "11\n12\n", out)
}

func TestSingleInheritanceAndSuper(t *testing.T) {
	out := run(t, `
		class Animal {
			speak() {
				return "...";
			}
		}
		class Dog < Animal {
			speak() {
				return super.speak() + " woof";
			}
		}
		print Dog().speak();
	`)
	require.Equal(t, "... woof\n", out)
}

func runtimeErr(t *testing.T, src string) string {
	t.Helper()
	toks, scanErrs := scanner.Scan([]byte(src))
	require.Equal(t, 0, scanErrs.Len(), scanErrs.Error())
	stmts, parseErrs := parser.Parse(toks)
	require.Equal(t, 0, parseErrs.Len(), parseErrs.Error())

	var out bytes.Buffer
	it := interp.New(&out, 255)
	runErrs := it.Run(stmts)
	require.Equal(t, 1, runErrs.Len(), "expected exactly one interpret error")
	return runErrs.Error()
}

func TestDivisionByZeroYieldsInfinity(t *testing.T) {
	out := run(t, `print 1/0;`)
	require.Equal(t, "+Inf\n", out)
}

func TestZeroDividedByZeroYieldsNaN(t *testing.T) {
	out := run(t, `print 0/0;`)
	require.Equal(t, "NaN\n", out)
}

func TestClockIsMonotonicMilliseconds(t *testing.T) {
	out := run(t, `
		var a = clock();
		var b = clock();
		print b >= a;
		print b - a < 1000;
	`)
	require.Equal(t, "true\ntrue\n", out)
}

func TestOversizedNumericLiteralIsRuntimeError(t *testing.T) {
	huge := strings.Repeat("9", 400)
	msg := runtimeErr(t, `print `+huge+`;`)
	require.Contains(t, msg, "number too large")
}

func TestArityErrorNamesTheFunction(t *testing.T) {
	msg := runtimeErr(t, `
		fun greet(name) { print name; }
		greet();
	`)
	require.Contains(t, msg, "greet")
	require.Contains(t, msg, "expected 1 arguments but got 0")
}

func TestArityErrorNamesTheInitializer(t *testing.T) {
	msg := runtimeErr(t, `
		class Point {
			init(x, y) { this.x = x; this.y = y; }
		}
		Point(1);
	`)
	require.Contains(t, msg, "init")
	require.Contains(t, msg, "expected 2 arguments but got 1")
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	toks, scanErrs := scanner.Scan([]byte(`print nope;`))
	require.Equal(t, 0, scanErrs.Len())
	stmts, parseErrs := parser.Parse(toks)
	require.Equal(t, 0, parseErrs.Len())

	var out bytes.Buffer
	it := interp.New(&out, 255)
	runErrs := it.Run(stmts)
	require.Equal(t, 1, runErrs.Len())
	require.True(t, strings.Contains(runErrs.Error(), "undefined variable"))
}
