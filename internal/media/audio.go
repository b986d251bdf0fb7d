package media

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/clipforge/clipforge/internal/param"
)

// tempoChain decomposes an arbitrary positive speed factor into stage
// factors the tempo filter accepts (each in [0.5, 2.0]). The product of the
// returned stages equals f. 9.0 becomes [2, 2, 2, 1.125].
func tempoChain(f float64) []float64 {
	var stages []float64
	for f > 2.0 {
		stages = append(stages, 2.0)
		f /= 2.0
	}
	for f < 0.5 {
		stages = append(stages, 0.5)
		f /= 0.5
	}
	return append(stages, f)
}

// atempoFilter renders a tempo chain as comma-joined atempo stages.
func atempoFilter(f float64) string {
	stages := tempoChain(f)
	parts := make([]string, len(stages))
	for i, s := range stages {
		parts[i] = fmt.Sprintf("atempo=%.6f", s)
	}
	return strings.Join(parts, ",")
}

// audioCodecArgs picks the audio encoder from the output extension.
func audioCodecArgs(outExt string) []string {
	switch outExt {
	case "mp3":
		return []string{"-c:a", "libmp3lame", "-q:a", "2"}
	case "wav":
		return []string{"-c:a", "pcm_s16le"}
	case "ogg":
		return []string{"-c:a", "libvorbis", "-q:a", "5"}
	default:
		return []string{"-c:a", "aac", "-b:a", "192k"}
	}
}

func (c *Compiler) compileExtractAudio(ctx context.Context, req Request) (*Plan, error) {
	args := append(c.base(), "-i", req.Input(), "-vn")
	args = append(args, audioCodecArgs(ext(req.Output))...)
	args = append(args, req.Output)
	return c.single(args, fmt.Sprintf("drop video, encode audio for .%s", ext(req.Output)), req.Output), nil
}

// compileExtractAudioRange pulls only a window of the audio track. Seeking
// happens before the demuxer opens the input, so only the window is decoded.
func (c *Compiler) compileExtractAudioRange(ctx context.Context, req Request) (*Plan, error) {
	rawStart, err := req.Require("start")
	if err != nil {
		return nil, err
	}
	rawEnd, err := req.Require("end")
	if err != nil {
		return nil, err
	}
	start, err := param.ParseTime(rawStart)
	if err != nil {
		return nil, err
	}
	end, err := param.ParseTime(rawEnd)
	if err != nil {
		return nil, err
	}
	if end.Seconds() <= start.Seconds() {
		return nil, fmt.Errorf("range end %s must be after start %s", end, start)
	}

	args := append(c.base(),
		"-ss", start.FFmpeg(),
		"-i", req.Input(),
		"-t", strconv.Itoa(end.Seconds()-start.Seconds()),
		"-vn",
	)
	args = append(args, audioCodecArgs(ext(req.Output))...)
	args = append(args, req.Output)
	note := fmt.Sprintf("audio from %s to %s as .%s", start, end, ext(req.Output))
	return c.single(args, note, req.Output), nil
}

func (c *Compiler) compileVolume(ctx context.Context, req Request) (*Plan, error) {
	raw, err := req.Require("volume")
	if err != nil {
		return nil, err
	}
	vol, err := param.ParseVolumeAdjustment(raw)
	if err != nil {
		return nil, err
	}
	args := append(c.base(),
		"-i", req.Input(),
		"-af", fmt.Sprintf("volume=%.6f", vol.Factor()),
		"-c:v", "copy",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("scale loudness by %s", vol), req.Output), nil
}

func (c *Compiler) compileMute(ctx context.Context, req Request) (*Plan, error) {
	args := append(c.base(),
		"-i", req.Input(),
		"-c:v", "copy",
		"-an",
		req.Output,
	)
	return c.single(args, "strip the audio stream", req.Output), nil
}

func (c *Compiler) compileNormalize(ctx context.Context, req Request) (*Plan, error) {
	args := append(c.base(),
		"-i", req.Input(),
		"-af", "loudnorm=I=-16:TP=-1.5:LRA=11",
		"-c:v", "copy",
		req.Output,
	)
	return c.single(args, "EBU R128 loudness normalization to -16 LUFS", req.Output), nil
}

// compileFade applies audio fade in and/or out. At least one is required;
// the fade-out start position needs the source duration.
func (c *Compiler) compileFade(ctx context.Context, req Request) (*Plan, error) {
	rawIn, hasIn := req.Get("fade-in")
	rawOut, hasOut := req.Get("fade-out")
	if !hasIn && !hasOut {
		return nil, fmt.Errorf("operation %q requires fade-in, fade-out or both", req.Op)
	}

	var filters []string
	if hasIn {
		d, err := param.ParseDuration(rawIn)
		if err != nil {
			return nil, err
		}
		filters = append(filters, fmt.Sprintf("afade=t=in:st=0:d=%.3f", d.Seconds()))
	}
	if hasOut {
		d, err := param.ParseDuration(rawOut)
		if err != nil {
			return nil, err
		}
		total, err := c.duration(ctx, req.Input())
		if err != nil {
			return nil, err
		}
		start := math.Max(total-d.Seconds(), 0)
		filters = append(filters, fmt.Sprintf("afade=t=out:st=%.3f:d=%.3f", start, d.Seconds()))
	}

	args := append(c.base(),
		"-i", req.Input(),
		"-af", strings.Join(filters, ","),
		"-c:v", "copy",
		req.Output,
	)
	return c.single(args, "audio fade envelope", req.Output), nil
}

func (c *Compiler) compileSyncAudio(ctx context.Context, req Request) (*Plan, error) {
	rawDir, err := req.Require("direction")
	if err != nil {
		return nil, err
	}
	dir, err := param.ParseAudioSyncDirection(rawDir)
	if err != nil {
		return nil, err
	}
	rawOffset, err := req.Require("offset")
	if err != nil {
		return nil, err
	}
	offset, err := param.ParseDuration(rawOffset)
	if err != nil {
		return nil, err
	}

	if dir == param.SyncDelay {
		ms := int(offset.Seconds() * 1000)
		args := append(c.base(),
			"-i", req.Input(),
			"-af", fmt.Sprintf("adelay=%d|%d", ms, ms),
			"-c:v", "copy",
			req.Output,
		)
		return c.single(args, fmt.Sprintf("push audio %dms later", ms), req.Output), nil
	}

	// Advance: feed the same file twice, shifting the audio copy earlier.
	args := append(c.base(),
		"-i", req.Input(),
		"-itsoffset", fmt.Sprintf("-%.3f", offset.Seconds()),
		"-i", req.Input(),
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c", "copy",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("pull audio %.3fs earlier", offset.Seconds()), req.Output), nil
}

func (c *Compiler) compileMixAudio(ctx context.Context, req Request) (*Plan, error) {
	if len(req.Inputs) < 2 {
		return nil, fmt.Errorf("operation %q requires a main input and a track to mix", req.Op)
	}

	var g graph
	g.add([]string{"0:a", "1:a"}, "amix=inputs=2:duration=longest", "a")
	filter, err := g.render("a")
	if err != nil {
		return nil, err
	}

	args := append(c.base(),
		"-i", req.Inputs[0],
		"-i", req.Inputs[1],
		"-filter_complex", filter,
		"-map", "0:v?",
		"-map", "[a]",
		"-c:v", "copy",
	)
	args = append(args, audioCodecArgs(ext(req.Output))...)
	args = append(args, req.Output)
	return c.single(args, "mix both audio tracks at equal weight", req.Output), nil
}

func (c *Compiler) compileAddAudio(ctx context.Context, req Request) (*Plan, error) {
	if len(req.Inputs) < 2 {
		return nil, fmt.Errorf("operation %q requires a video input and an audio input", req.Op)
	}
	args := append(c.base(),
		"-i", req.Inputs[0],
		"-i", req.Inputs[1],
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", "copy",
		"-c:a", "aac",
		"-shortest",
		req.Output,
	)
	return c.single(args, "replace the audio track, end at the shorter stream", req.Output), nil
}

// compileAudioSpeed changes audio tempo without shifting pitch. Factors
// within 1% of unity compile to a plain copy.
func (c *Compiler) compileAudioSpeed(ctx context.Context, req Request) (*Plan, error) {
	raw, err := req.Require("factor")
	if err != nil {
		return nil, err
	}
	factor, err := param.ParseSpeedFactor(raw)
	if err != nil {
		return nil, err
	}

	if math.Abs(factor.Value()-1.0) <= 0.01 {
		args := append(c.base(), "-i", req.Input(), "-c", "copy", req.Output)
		return c.single(args, "factor is effectively 1x, copying streams", req.Output), nil
	}

	args := append(c.base(),
		"-i", req.Input(),
		"-af", atempoFilter(factor.Value()),
		req.Output,
	)
	note := fmt.Sprintf("%s tempo via %d chained stage(s), pitch preserved",
		factor, len(tempoChain(factor.Value())))
	return c.single(args, note, req.Output), nil
}

func (c *Compiler) compileNoiseReduction(ctx context.Context, req Request) (*Plan, error) {
	args := append(c.base(),
		"-i", req.Input(),
		"-af", "highpass=f=200,lowpass=f=3000,anlmdn=s=0.0003",
		"-c:v", "copy",
		req.Output,
	)
	return c.single(args, "band-limit then non-local means denoise", req.Output), nil
}

func (c *Compiler) compileEchoRemoval(ctx context.Context, req Request) (*Plan, error) {
	args := append(c.base(),
		"-i", req.Input(),
		"-af", "aecho=0.8:0.88:60:0.4",
		"-c:v", "copy",
		req.Output,
	)
	return c.single(args, "echo suppression", req.Output), nil
}

func (c *Compiler) compileDucking(ctx context.Context, req Request) (*Plan, error) {
	args := append(c.base(),
		"-i", req.Input(),
		"-af", "acompressor=threshold=0.05:ratio=9:attack=5:release=50",
		"-c:v", "copy",
		req.Output,
	)
	return c.single(args, "hard compression to duck loud passages", req.Output), nil
}

// compileEqualizer applies a fixed three-band EQ at 100Hz/1kHz/10kHz.
// Gains are decibels, clamped to ±20.
func (c *Compiler) compileEqualizer(ctx context.Context, req Request) (*Plan, error) {
	clamp := func(raw string) (float64, error) {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("invalid gain %q: expected decibels", raw)
		}
		return math.Max(-20, math.Min(20, v)), nil
	}

	low, err := clamp(req.GetOr("low", "0"))
	if err != nil {
		return nil, err
	}
	mid, err := clamp(req.GetOr("mid", "0"))
	if err != nil {
		return nil, err
	}
	high, err := clamp(req.GetOr("high", "0"))
	if err != nil {
		return nil, err
	}

	filter := fmt.Sprintf(
		"equalizer=f=100:width_type=h:width=200:g=%.1f,"+
			"equalizer=f=1000:width_type=h:width=200:g=%.1f,"+
			"equalizer=f=10000:width_type=h:width=2000:g=%.1f",
		low, mid, high)

	args := append(c.base(),
		"-i", req.Input(),
		"-af", filter,
		"-c:v", "copy",
		req.Output,
	)
	note := fmt.Sprintf("three-band EQ: low %+.1fdB, mid %+.1fdB, high %+.1fdB", low, mid, high)
	return c.single(args, note, req.Output), nil
}

func (c *Compiler) compileVoiceIsolation(ctx context.Context, req Request) (*Plan, error) {
	args := append(c.base(),
		"-i", req.Input(),
		"-af", "highpass=f=300,lowpass=f=3400",
		"-c:v", "copy",
		req.Output,
	)
	return c.single(args, "keep the telephony voice band only", req.Output), nil
}
