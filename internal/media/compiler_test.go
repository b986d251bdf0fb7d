package media

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipforge/clipforge/internal/probe"
)

// stubProbe serves canned durations without touching any binary.
type stubProbe struct {
	durations map[string]float64
	infos     map[string]*probe.MediaInfo
	err       error
}

func (s *stubProbe) DurationSeconds(ctx context.Context, path string) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	d, ok := s.durations[path]
	if !ok {
		return 0, fmt.Errorf("no duration for %s", path)
	}
	return d, nil
}

func (s *stubProbe) Info(ctx context.Context, path string) (*probe.MediaInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	info, ok := s.infos[path]
	if !ok {
		return nil, fmt.Errorf("no info for %s", path)
	}
	return info, nil
}

func newTestCompiler(t *testing.T, p probe.Facade) *Compiler {
	t.Helper()
	return NewCompiler(p, CompilerConfig{Overwrite: true, WorkDir: t.TempDir()})
}

func TestCompileTrim(t *testing.T) {
	c := newTestCompiler(t, nil)

	plan, err := c.Compile(context.Background(), Request{
		Op:     "trim",
		Inputs: []string{"in.mp4"},
		Output: "out.mp4",
		Params: map[string]string{"start": "0:30", "end": "1:00"},
	})
	require.NoError(t, err)
	require.Len(t, plan.Invocations, 1)

	args := plan.Invocations[0].Args
	assert.Equal(t, "ffmpeg", plan.Invocations[0].Program)
	assert.Contains(t, args, "-ss")
	assert.Contains(t, args, "00:00:30")
	assert.Contains(t, args, "-to")
	assert.Contains(t, args, "00:01:00")
	assert.Equal(t, "out.mp4", args[len(args)-1])
}

func TestCompileTrimRejectsInvertedRange(t *testing.T) {
	c := newTestCompiler(t, nil)

	_, err := c.Compile(context.Background(), Request{
		Op:     "trim",
		Inputs: []string{"in.mp4"},
		Output: "out.mp4",
		Params: map[string]string{"start": "1:00", "end": "0:30"},
	})
	assert.Error(t, err)
}

func TestCompileGifTwoInvocations(t *testing.T) {
	c := newTestCompiler(t, nil)

	plan, err := c.Compile(context.Background(), Request{
		Op:     "gif",
		Inputs: []string{"clip.mp4"},
		Output: "clip.gif",
		Params: map[string]string{},
	})
	require.NoError(t, err)
	require.Len(t, plan.Invocations, 2)

	gen, use := plan.Invocations[0], plan.Invocations[1]
	assert.Contains(t, strings.Join(gen.Args, " "), "palettegen")
	assert.Contains(t, strings.Join(use.Args, " "), "paletteuse")

	// The second invocation must read the palette the first one wrote.
	palette := gen.Args[len(gen.Args)-1]
	assert.Contains(t, use.Args, palette)
	assert.Equal(t, "clip.gif", use.Args[len(use.Args)-1])
}

func TestCompileConvertCodecCompat(t *testing.T) {
	c := newTestCompiler(t, nil)

	tests := []struct {
		name    string
		in, out string
		video   string
		audio   string
	}{
		{name: "webm to mp4 transcodes both", in: "a.webm", out: "b.mp4", video: "libx264", audio: "aac"},
		{name: "mp4 to mp4 copies", in: "a.mp4", out: "b.mp4", video: "copy", audio: "copy"},
		{name: "mp4 to webm transcodes audio only", in: "a.mp4", out: "b.webm", video: "copy", audio: "libopus"},
		{name: "mkv to mp4 transcodes both", in: "a.mkv", out: "b.mp4", video: "libx264", audio: "aac"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := c.Compile(context.Background(), Request{
				Op: "convert", Inputs: []string{tt.in}, Output: tt.out,
			})
			require.NoError(t, err)
			joined := strings.Join(plan.Invocations[0].Args, " ")
			assert.Contains(t, joined, "-c:v "+tt.video)
			assert.Contains(t, joined, "-c:a "+tt.audio)
		})
	}
}

func TestCompileCrossfadeOffset(t *testing.T) {
	p := &stubProbe{durations: map[string]float64{"a.mp4": 10, "b.mp4": 8}}
	c := newTestCompiler(t, p)

	plan, err := c.Compile(context.Background(), Request{
		Op:     "crossfade",
		Inputs: []string{"a.mp4", "b.mp4"},
		Output: "out.mp4",
		Params: map[string]string{"duration": "2"},
	})
	require.NoError(t, err)
	require.Len(t, plan.Invocations, 1)

	// offset = min(10, 8) - 2 = 6
	joined := strings.Join(plan.Invocations[0].Args, " ")
	assert.Contains(t, joined, "xfade=transition=fade:duration=2.000:offset=6.000")
	assert.Contains(t, joined, "acrossfade=d=2.000")
}

func TestCompileCrossfadeShortClipsClampToZero(t *testing.T) {
	p := &stubProbe{durations: map[string]float64{"a.mp4": 1, "b.mp4": 1}}
	c := newTestCompiler(t, p)

	plan, err := c.Compile(context.Background(), Request{
		Op:     "crossfade",
		Inputs: []string{"a.mp4", "b.mp4"},
		Output: "out.mp4",
		Params: map[string]string{"duration": "3"},
	})
	require.NoError(t, err)
	assert.Contains(t, strings.Join(plan.Invocations[0].Args, " "), "offset=0.000")
}

func TestCompileCrossfadeProbeFailurePropagates(t *testing.T) {
	p := &stubProbe{err: fmt.Errorf("unreadable")}
	c := newTestCompiler(t, p)

	_, err := c.Compile(context.Background(), Request{
		Op:     "crossfade",
		Inputs: []string{"a.mp4", "b.mp4"},
		Output: "out.mp4",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreadable")
}

func TestCompileUnknownOperation(t *testing.T) {
	c := newTestCompiler(t, nil)
	_, err := c.Compile(context.Background(), Request{Op: "teleport", Inputs: []string{"a.mp4"}})
	assert.Error(t, err)
}

func TestCompileRequiresInput(t *testing.T) {
	c := newTestCompiler(t, nil)
	_, err := c.Compile(context.Background(), Request{Op: "convert", Output: "b.mp4"})
	assert.Error(t, err)
}

func TestCompileSpeedBuildsTempoChain(t *testing.T) {
	c := newTestCompiler(t, nil)

	plan, err := c.Compile(context.Background(), Request{
		Op:     "speed",
		Inputs: []string{"in.mp4"},
		Output: "out.mp4",
		Params: map[string]string{"factor": "9x"},
	})
	require.NoError(t, err)

	joined := strings.Join(plan.Invocations[0].Args, " ")
	assert.Contains(t, joined, "setpts=PTS/9.000000")
	assert.Contains(t, joined, "atempo=2.000000,atempo=2.000000,atempo=2.000000,atempo=1.125000")
}

func TestCompileCompressTwoPass(t *testing.T) {
	p := &stubProbe{durations: map[string]float64{"in.mp4": 60}}
	c := newTestCompiler(t, p)

	plan, err := c.Compile(context.Background(), Request{
		Op:     "compress",
		Inputs: []string{"in.mp4"},
		Output: "out.mp4",
		Params: map[string]string{"size": "10mb"},
	})
	require.NoError(t, err)
	require.Len(t, plan.Invocations, 2)

	pass1 := strings.Join(plan.Invocations[0].Args, " ")
	pass2 := strings.Join(plan.Invocations[1].Args, " ")

	assert.Contains(t, pass1, "-pass 1")
	assert.Contains(t, pass1, "-an")
	assert.Contains(t, pass1, "-f mp4")
	assert.Contains(t, pass2, "-pass 2")
	assert.Contains(t, pass2, "-movflags +faststart")

	// Both passes must share the statistics file prefix.
	logIdx := make([]string, 0, 2)
	for _, inv := range plan.Invocations {
		for i, a := range inv.Args {
			if a == "-passlogfile" {
				logIdx = append(logIdx, inv.Args[i+1])
			}
		}
	}
	require.Len(t, logIdx, 2)
	assert.Equal(t, logIdx[0], logIdx[1])

	// 10MiB over 60s is ~1398kbps total; audio clamps to 112k (8% share).
	assert.Contains(t, pass2, "-b:a 111k")
}

func TestDiscardRunsIgnoreOverwritePolicy(t *testing.T) {
	// The null sink always exists. With overwrite off these invocations
	// would otherwise carry -n and refuse to run at all.
	p := &stubProbe{durations: map[string]float64{"in.mp4": 60}}
	c := NewCompiler(p, CompilerConfig{Overwrite: false, WorkDir: t.TempDir()})

	twoPass, err := c.Compile(context.Background(), Request{
		Op:     "compress",
		Inputs: []string{"in.mp4"},
		Output: "out.mp4",
		Params: map[string]string{"size": "10mb"},
	})
	require.NoError(t, err)
	require.Len(t, twoPass.Invocations, 2)
	assert.Equal(t, "-y", twoPass.Invocations[0].Args[0], "pass 1 writes to the sink")
	assert.Equal(t, "-n", twoPass.Invocations[1].Args[0], "pass 2 writes the real output")

	for _, op := range []string{"detect-scenes", "detect-black", "detect-silence", "detect-duplicates", "analyze-loudness"} {
		plan, err := c.Compile(context.Background(), Request{Op: op, Inputs: []string{"in.mp4"}})
		require.NoError(t, err, op)
		assert.Equal(t, "-y", plan.Invocations[0].Args[0], op)
	}

	metric, err := c.Compile(context.Background(), Request{
		Op:     "compare",
		Inputs: []string{"a.mp4", "b.mp4"},
	})
	require.NoError(t, err)
	assert.Equal(t, "-y", metric.Invocations[0].Args[0])

	edl, err := c.Compile(context.Background(), Request{
		Op:     "edl",
		Inputs: []string{"in.mp4"},
		Output: "cuts.txt",
	})
	require.NoError(t, err)
	assert.Equal(t, "-y", edl.Invocations[0].Args[0])
}

func TestCompileFadeRequiresAtLeastOneDirection(t *testing.T) {
	c := newTestCompiler(t, nil)
	_, err := c.Compile(context.Background(), Request{
		Op:     "fade",
		Inputs: []string{"in.mp4"},
		Output: "out.mp4",
	})
	assert.Error(t, err)
}

func TestCompileValidateUsesProber(t *testing.T) {
	c := newTestCompiler(t, nil)

	plan, err := c.Compile(context.Background(), Request{Op: "validate", Inputs: []string{"in.mp4"}})
	require.NoError(t, err)
	assert.Equal(t, "ffprobe", plan.Invocations[0].Program)
}

func TestCompileIntroOutroOrdering(t *testing.T) {
	c := newTestCompiler(t, nil)

	plan, err := c.Compile(context.Background(), Request{
		Op:     "intro",
		Inputs: []string{"main.mp4"},
		Output: "out.mp4",
		Params: map[string]string{"clip": "bumper.mp4"},
	})
	require.NoError(t, err)
	list := readConcatList(t, plan.Invocations[0].Args)
	assert.Equal(t, []string{"bumper.mp4", "main.mp4"}, list)

	plan, err = c.Compile(context.Background(), Request{
		Op:     "outro",
		Inputs: []string{"main.mp4"},
		Output: "out.mp4",
		Params: map[string]string{"clip": "bumper.mp4"},
	})
	require.NoError(t, err)
	list = readConcatList(t, plan.Invocations[0].Args)
	assert.Equal(t, []string{"main.mp4", "bumper.mp4"}, list)
}

// readConcatList extracts the file entries from the list the demuxer
// invocation points at.
func readConcatList(t *testing.T, args []string) []string {
	t.Helper()
	var path string
	for i, a := range args {
		if a == "-i" {
			path = args[i+1]
		}
	}
	require.NotEmpty(t, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var files []string
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		files = append(files, strings.Trim(strings.TrimPrefix(line, "file "), "'"))
	}
	return files
}

func TestCompileInfoSummarizesProbe(t *testing.T) {
	p := &stubProbe{infos: map[string]*probe.MediaInfo{
		"in.mp4": {DurationSeconds: 90, Width: 1920, Height: 1080, VideoCodec: "h264", AudioCodec: "aac", FileSize: 10 * 1024 * 1024},
	}}
	c := newTestCompiler(t, p)

	plan, err := c.Compile(context.Background(), Request{Op: "info", Inputs: []string{"in.mp4"}})
	require.NoError(t, err)
	assert.Equal(t, "ffprobe", plan.Invocations[0].Program)
	assert.Contains(t, plan.Invocations[0].Note, "1920x1080")
	assert.Contains(t, plan.Invocations[0].Note, "10 MiB")
}

func TestInvocationCommandLine(t *testing.T) {
	inv := Invocation{Program: "ffmpeg", Args: []string{"-i", "my video.mp4", "-vf", "scale=1:1", "out.mp4"}}
	line := inv.CommandLine()
	assert.Contains(t, line, `"my video.mp4"`)
	assert.True(t, strings.HasPrefix(line, "ffmpeg "))
}
