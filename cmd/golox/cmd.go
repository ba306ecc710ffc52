// Package main wires golox's CLI surface: run a script file, run an inline
// command, or drop into an interactive REPL, following the Stdio/ExitCode
// plumbing the example corpus's command-line tools use.
package main

import (
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/cbarrett/golox/internal/config"
	"github.com/cbarrett/golox/internal/repl"
)

const binName = "golox"

var (
	// set at build time via -ldflags
	version   = "dev"
	buildDate = "unknown"
)

var usage = fmt.Sprintf(`usage: %s [<script>]
       %[1]s -s <script>
       %[1]s -c <commands>
       %[1]s -h|--help
       %[1]s -v|--version

Run a golox program. With no arguments, starts an interactive REPL that
shares one global scope across lines.

Valid flag options are:
       -s --script <path>        Run the program at <path> and exit.
       -c --commands <src>       Execute <src> as a program and exit.
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
`, binName)

// Cmd holds the CLI's flags and implements mainer's Main-with-Stdio
// pattern.
type Cmd struct {
	Help     bool   `flag:"h,help"`
	Version  bool   `flag:"v,version"`
	Commands string `flag:"c,commands"`
	Script   string `flag:"s,script"`

	args []string
}

func (c *Cmd) SetArgs(args []string)    { c.args = args }
func (c *Cmd) SetFlags(map[string]bool) {}
func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if c.Commands != "" && c.Script != "" {
		return fmt.Errorf("cannot combine -c with -s")
	}
	if (c.Commands != "" || c.Script != "") && len(c.args) > 0 {
		return fmt.Errorf("cannot combine -c/-s with a positional script argument")
	}
	if len(c.args) > 1 {
		return fmt.Errorf("expected at most one script argument, got %d", len(c.args))
	}
	return nil
}

// Main is the CLI's entry point, taking raw args and an injected Stdio so
// it's testable without touching the real process streams.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: true, EnvPrefix: binName + "_"}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, usage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, usage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s (%s)\n", binName, version, buildDate)
		return mainer.Success
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return mainer.ExitCode(repl.ExitGenericFailure)
	}
	runner := repl.New(stdio.Stdout, stdio.Stderr, cfg)

	scriptPath := c.Script
	if scriptPath == "" && len(c.args) == 1 {
		scriptPath = c.args[0]
	}

	switch {
	case c.Commands != "":
		return mainer.ExitCode(runner.RunSource([]byte(c.Commands)))
	case scriptPath != "":
		src, err := os.ReadFile(scriptPath)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return mainer.ExitCode(repl.ExitGenericFailure)
		}
		return mainer.ExitCode(runner.RunSource(src))
	default:
		runner.RunInteractive(stdio.Stdin, stdio.Stdout)
		return mainer.Success
	}
}
