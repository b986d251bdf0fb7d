package main

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlags() (*flag.FlagSet, *string, *string, paramFlags) {
	fs := flag.NewFlagSet("clipforge", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	output := fs.String("o", "", "")
	mode := fs.String("mode", "live", "")
	params := paramFlags{}
	fs.Var(params, "p", "")
	return fs, output, mode, params
}

func TestParseCommandLineFlagsAfterPositionals(t *testing.T) {
	fs, output, mode, params := newTestFlags()

	// The documented form: operation and input first, flags after.
	args, err := parseCommandLine(fs, []string{
		"trim", "in.mp4", "-o", "out.mp4", "-p", "start=0:30", "-p", "end=1:00", "-mode", "dry-run",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"trim", "in.mp4"}, args)
	assert.Equal(t, "out.mp4", *output)
	assert.Equal(t, "dry-run", *mode)
	assert.Equal(t, "0:30", params["start"])
	assert.Equal(t, "1:00", params["end"])
}

func TestParseCommandLineFlagsFirst(t *testing.T) {
	fs, output, _, params := newTestFlags()

	args, err := parseCommandLine(fs, []string{
		"-o", "out.gif", "-p", "fps=12", "gif", "in.mp4",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"gif", "in.mp4"}, args)
	assert.Equal(t, "out.gif", *output)
	assert.Equal(t, "12", params["fps"])
}

func TestParseCommandLineInterleaved(t *testing.T) {
	fs, output, mode, _ := newTestFlags()

	args, err := parseCommandLine(fs, []string{
		"-mode", "explain", "concat", "a.mp4", "b.mp4", "-o", "joined.mp4",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"concat", "a.mp4", "b.mp4"}, args)
	assert.Equal(t, "joined.mp4", *output)
	assert.Equal(t, "explain", *mode)
}

func TestParseCommandLineUnknownFlag(t *testing.T) {
	fs, _, _, _ := newTestFlags()
	_, err := parseCommandLine(fs, []string{"trim", "in.mp4", "-bogus"})
	assert.Error(t, err)
}

func TestParamFlags(t *testing.T) {
	p := paramFlags{}
	require.NoError(t, p.Set("start=0:30"))
	require.NoError(t, p.Set("text=a=b"))
	assert.Equal(t, "0:30", p["start"])
	assert.Equal(t, "a=b", p["text"], "only the first equals sign splits")
	assert.Error(t, p.Set("noequals"))
}
