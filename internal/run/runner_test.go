package run

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clipforge/clipforge/internal/media"
)

func TestParseMode(t *testing.T) {
	for s, want := range map[string]Mode{"": Live, "live": Live, "dry-run": DryRun, "explain": Explain} {
		got, err := ParseMode(s)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("verbose")
	assert.Error(t, err)
}

func TestDryRunPrintsWithoutSpawning(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(DryRun, zap.NewNop(), WithOutput(&buf))

	plan := &media.Plan{Invocations: []media.Invocation{
		{Program: "ffmpeg", Args: []string{"-i", "a.mp4", "out.mp4"}},
		{Program: "ffmpeg", Args: []string{"-i", "b.mp4", "out2.mp4"}},
	}}

	require.NoError(t, r.Run(context.Background(), plan))

	out := buf.String()
	assert.Contains(t, out, "ffmpeg -i a.mp4 out.mp4")
	assert.Contains(t, out, "ffmpeg -i b.mp4 out2.mp4")
}

func TestExplainIncludesNotes(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(Explain, zap.NewNop(), WithOutput(&buf))

	plan := &media.Plan{Invocations: []media.Invocation{
		{Program: "ffmpeg", Args: []string{"-i", "a.mp4", "p.png"}, Note: "pass 1: build palette"},
		{Program: "ffmpeg", Args: []string{"-i", "a.mp4", "out.gif"}, Note: "pass 2: apply palette"},
	}}

	require.NoError(t, r.Run(context.Background(), plan))

	out := buf.String()
	assert.Contains(t, out, "step 1/2: pass 1: build palette")
	assert.Contains(t, out, "step 2/2: pass 2: apply palette")
}

func TestLiveRunsStepsInOrder(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(Live, zap.NewNop(), WithOutput(&buf))

	dir := t.TempDir()
	first := filepath.Join(dir, "first")
	second := filepath.Join(dir, "second")

	plan := &media.Plan{Invocations: []media.Invocation{
		{Program: "sh", Args: []string{"-c", "touch " + first}},
		{Program: "sh", Args: []string{"-c", "touch " + second}},
	}}

	require.NoError(t, r.Run(context.Background(), plan))
	assert.FileExists(t, first)
	assert.FileExists(t, second)
}

func TestLiveFailFast(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(Live, zap.NewNop(), WithOutput(&buf))

	dir := t.TempDir()
	marker := filepath.Join(dir, "ran-after-failure")

	plan := &media.Plan{Invocations: []media.Invocation{
		{Program: "sh", Args: []string{"-c", "exit 3"}},
		{Program: "sh", Args: []string{"-c", "touch " + marker}},
	}}

	err := r.Run(context.Background(), plan)
	require.Error(t, err)

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, 0, stepErr.Step)
	assert.Equal(t, 2, stepErr.Total)
	assert.Equal(t, 3, stepErr.ExitCode)

	_, statErr := os.Stat(marker)
	assert.True(t, os.IsNotExist(statErr), "later steps must not run after a failure")
}

func TestLiveSurfacesDiagnosticLines(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(Live, zap.NewNop(), WithOutput(&buf))

	plan := &media.Plan{Invocations: []media.Invocation{
		{Program: "sh", Args: []string{"-c", "echo 'in.mp4: No such file or directory' >&2; exit 1"}},
	}}

	err := r.Run(context.Background(), plan)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "No such file or directory")
}
