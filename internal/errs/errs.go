// Package errs provides the stage-tagged error collection shared by the
// scanner, parser, and interpreter (spec §7): each pipeline stage appends to
// a List instead of failing fast, and the List renders as one combined error
// for the driver to report and pick an exit code from.
package errs

import (
	"fmt"
	"sort"
	"strings"
)

// Stage identifies which pipeline phase raised an error.
type Stage int

const (
	Syntax Stage = iota
	Parse
	Interpret
)

func (s Stage) prefix() string {
	switch s {
	case Syntax:
		return "Syntax error"
	case Parse:
		return "Parse error"
	case Interpret:
		return "Interpreter error"
	default:
		return "error"
	}
}

// Error is one positioned, stage-tagged failure. Line/Column are 0 when no
// source position is known (interpreter errors carry the position of the
// token that triggered them when there is one).
type Error struct {
	Stage   Stage
	Line    int
	Column  int
	Message string
}

func (e Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: [line %d] %s", e.Stage.prefix(), e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Stage.prefix(), e.Message)
}

// List accumulates errors across a pipeline stage. The zero value is ready
// to use.
type List struct {
	errs []Error
}

// Add appends a new error to the list.
func (l *List) Add(stage Stage, line, column int, format string, args ...any) {
	l.errs = append(l.errs, Error{
		Stage:   stage,
		Line:    line,
		Column:  column,
		Message: fmt.Sprintf(format, args...),
	})
}

// Len reports how many errors have been collected.
func (l *List) Len() int {
	return len(l.errs)
}

// Errs returns the collected errors, sorted by line then column. The
// returned slice is not shared with the List's internal state.
func (l *List) Errs() []Error {
	sorted := make([]Error, len(l.errs))
	copy(sorted, l.errs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Line != sorted[j].Line {
			return sorted[i].Line < sorted[j].Line
		}
		return sorted[i].Column < sorted[j].Column
	})
	return sorted
}

// Err returns the List as a single error, or nil if it is empty.
func (l *List) Err() error {
	if len(l.errs) == 0 {
		return nil
	}
	return l
}

// Error implements the error interface, joining every collected message on
// its own line.
func (l *List) Error() string {
	lines := make([]string, 0, len(l.errs))
	for _, e := range l.Errs() {
		lines = append(lines, e.Error())
	}
	return strings.Join(lines, "\n")
}
