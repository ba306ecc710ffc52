package repl_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cbarrett/golox/internal/config"
	"github.com/cbarrett/golox/internal/repl"
)

func TestRunSourceSuccess(t *testing.T) {
	var out, errOut bytes.Buffer
	r := repl.New(&out, &errOut, config.Default())
	code := r.RunSource([]byte(`print 1 + 2;`))
	require.Equal(t, repl.ExitOK, code)
	require.Equal(t, "3\n", out.String())
	require.Empty(t, errOut.String())
}

func TestRunSourceSyntaxErrorExitCode(t *testing.T) {
	var out, errOut bytes.Buffer
	r := repl.New(&out, &errOut, config.Default())
	code := r.RunSource([]byte(`"unterminated`))
	require.Equal(t, repl.ExitSyntaxErr, code)
	require.NotEmpty(t, errOut.String())
}

func TestRunSourceParseErrorExitCode(t *testing.T) {
	var out, errOut bytes.Buffer
	r := repl.New(&out, &errOut, config.Default())
	code := r.RunSource([]byte(`1 = 2;`))
	require.Equal(t, repl.ExitParseErr, code)
}

func TestRunSourceInterpretErrorExitCode(t *testing.T) {
	var out, errOut bytes.Buffer
	r := repl.New(&out, &errOut, config.Default())
	code := r.RunSource([]byte(`print undefinedThing;`))
	require.Equal(t, repl.ExitInterpretErr, code)
}

func TestRunInteractivePersistsDeclarationsAcrossLines(t *testing.T) {
	var out, errOut, prompt bytes.Buffer
	r := repl.New(&out, &errOut, config.Default())
	in := bytes.NewBufferString("var x = 1;\nprint x;\n")
	r.RunInteractive(in, &prompt)
	require.Equal(t, "1\n", out.String())
}

func TestRunInteractiveAppendsHistoryFile(t *testing.T) {
	var out, errOut, prompt bytes.Buffer
	cfg := config.Default()
	cfg.HistoryFile = filepath.Join(t.TempDir(), "history.log")
	r := repl.New(&out, &errOut, cfg)
	in := bytes.NewBufferString("var x = 1;\nprint x;\n")
	r.RunInteractive(in, &prompt)

	data, err := os.ReadFile(cfg.HistoryFile)
	require.NoError(t, err)
	require.Equal(t, "var x = 1;\nprint x;\n", string(data))
}
