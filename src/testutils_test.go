package fake

import (
	"io"
	"os"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Captures stdout while command runs and checks it contains what we expect.
func AssertOutputContains(t *testing.T, command func(), expectedOutputContains string) {
	t.Helper()

	var oldStdout = os.Stdout
	defer func() {
		os.Stdout = oldStdout
	}()

	var r, w, _ = os.Pipe()
	os.Stdout = w

	var outputBytes []byte
	var readErr error
	var done = make(chan struct{})

	// Drain as we go, a big dump would otherwise fill the pipe and block.
	go func() {
		outputBytes, readErr = io.ReadAll(r)
		close(done)
	}()

	command()

	w.Close() //nolint:gosec

	os.Stdout = oldStdout

	<-done

	require.NoError(t, readErr)

	var outputString = string(outputBytes)

	assert.Contains(t, outputString, expectedOutputContains)
}

// pflag (not unreasonably) assumes it only ever gets called once. But
// the mains are tested by calling them repeatedly with different
// arguments, so each run gets a fresh CommandLine.
func setupPflag(args []string) {
	os.Args = args
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
}

// quiet keeps log noise out of test output.
func quiet(t *testing.T) {
	t.Helper()

	SetLogOutput(io.Discard)
	t.Cleanup(func() {
		SetLogOutput(os.Stderr)
		SetVerbose(false)
	})
}
