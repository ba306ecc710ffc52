// Package repl runs golox programs, either a whole script at once or one
// line at a time from an interactive prompt, sharing one global environment
// across REPL inputs so `var` declarations persist between lines.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/cbarrett/golox/internal/config"
	"github.com/cbarrett/golox/internal/errs"
	"github.com/cbarrett/golox/internal/interp"
	"github.com/cbarrett/golox/internal/parser"
	"github.com/cbarrett/golox/internal/scanner"
)

// Exit codes: 0 success, 1 generic failure (e.g. can't read the script
// file), 65 uncaught interpret error, 66 syntax errors present, 67 parse
// errors present. 66/67 are the concrete values for spec.md's
// "negative-reserved" stage codes, following sysexits.h's EX_DATAERR/
// EX_NOINPUT family.
const (
	ExitOK             = 0
	ExitGenericFailure = 1
	ExitInterpretErr   = 65
	ExitSyntaxErr      = 66
	ExitParseErr       = 67
)

// Runner executes golox source against a persistent global interpreter.
type Runner struct {
	it          *interp.Interpreter
	stderr      io.Writer
	color       bool
	historyFile string
}

// New builds a Runner that writes `print` output to stdout and diagnostics
// to stderr, colorizing the latter only when stderr is a terminal and the
// config doesn't disable it.
func New(stdout, stderr io.Writer, cfg config.Config) *Runner {
	useColor := !cfg.NoColor
	if f, ok := stderr.(interface{ Fd() uintptr }); ok {
		useColor = useColor && isatty.IsTerminal(f.Fd())
	} else {
		useColor = false
	}
	return &Runner{
		it:          interp.New(stdout, cfg.MaxCallDepth),
		stderr:      stderr,
		color:       useColor,
		historyFile: cfg.HistoryFile,
	}
}

// RunSource scans, parses, and interprets src as one unit, reporting every
// scan/parse error found (both stages collect all of theirs) but stopping at
// the first interpreter error. It returns the process exit code to use.
func (r *Runner) RunSource(src []byte) int {
	toks, scanErrs := scanner.Scan(src)
	if scanErrs.Len() > 0 {
		r.report(scanErrs)
		return ExitSyntaxErr
	}

	stmts, parseErrs := parser.Parse(toks)
	if parseErrs.Len() > 0 {
		r.report(parseErrs)
		return ExitParseErr
	}

	if runErrs := r.it.Run(stmts); runErrs.Len() > 0 {
		r.report(runErrs)
		return ExitInterpretErr
	}
	return ExitOK
}

// RunInteractive reads lines from in until EOF, feeding each through
// RunSource against the same interpreter so declarations persist, echoing a
// prompt to stdout between lines, and appending non-empty lines to
// r.historyFile (if set) as they're entered (spec §4.6, ambient: this
// doesn't exist anywhere in the retrieval pack, so it's plain os/bufio
// rather than a corpus-grounded library — see DESIGN.md).
func (r *Runner) RunInteractive(in io.Reader, prompt io.Writer) {
	var hist *os.File
	if r.historyFile != "" {
		f, err := os.OpenFile(r.historyFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			hist = f
			defer hist.Close()
		}
	}

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(prompt, "> ")
		if !sc.Scan() {
			return
		}
		line := sc.Text()
		if line == "" {
			continue
		}
		if hist != nil {
			fmt.Fprintln(hist, line)
		}
		r.RunSource([]byte(line))
	}
}

func (r *Runner) report(list *errs.List) {
	msg := list.Error()
	if r.color {
		fmt.Fprintln(r.stderr, color.RedString(msg))
		return
	}
	fmt.Fprintln(r.stderr, msg)
}
