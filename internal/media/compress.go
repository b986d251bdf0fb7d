package media

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/clipforge/clipforge/internal/param"
)

// allocateBitrate splits a total bit budget between video and audio.
// Audio gets an 8% share clamped into a speech-safe band; video takes the
// rest, floored so the encoder never receives a starvation rate.
func allocateBitrate(totalBps float64) (videoBps, audioBps int64) {
	if totalBps < 50_000 {
		totalBps = 50_000
	}
	audio := 0.08 * totalBps
	if audio < 96_000 {
		audio = 96_000
	}
	if audio > 160_000 {
		audio = 160_000
	}
	video := totalBps - audio
	if video < 50_000 {
		video = 50_000
	}
	return int64(video), int64(audio)
}

// bitrateForSize converts a byte target over a duration into bits/s.
func bitrateForSize(targetBytes int64, durationSeconds float64) float64 {
	return float64(8*targetBytes) / durationSeconds
}

func kbps(bps int64) string { return fmt.Sprintf("%dk", bps/1000) }

// compileCompress handles the three targeting modes: a byte size (two-pass
// by default), a direct bitrate, or a quality preset (CRF).
func (c *Compiler) compileCompress(ctx context.Context, req Request) (*Plan, error) {
	if raw, ok := req.Get("size"); ok {
		size, err := param.ParseTargetSize(raw)
		if err != nil {
			return nil, err
		}
		return c.compressToSize(ctx, req, size)
	}
	if raw, ok := req.Get("bitrate"); ok {
		rate, err := param.ParseTargetBitrate(raw)
		if err != nil {
			return nil, err
		}
		video, audio := allocateBitrate(float64(rate.BitsPerSecond()))
		return c.compressSinglePass(req, video, audio,
			fmt.Sprintf("targeting %s total", kbps(rate.BitsPerSecond()))), nil
	}
	if raw, ok := req.Get("quality"); ok {
		preset, err := param.ParseQualityPreset(raw)
		if err != nil {
			return nil, err
		}
		args := append(c.base(),
			"-i", req.Input(),
			"-c:v", "libx264",
			"-crf", fmt.Sprintf("%d", preset.CRF()),
			"-c:a", "aac",
			"-b:a", "128k",
			req.Output,
		)
		note := fmt.Sprintf("constant quality, CRF %d (%s)", preset.CRF(), preset)
		return c.single(args, note, req.Output), nil
	}
	return nil, fmt.Errorf("operation %q requires one of size, bitrate or quality", req.Op)
}

func (c *Compiler) compressToSize(ctx context.Context, req Request, size param.TargetSize) (*Plan, error) {
	duration, err := c.duration(ctx, req.Input())
	if err != nil {
		return nil, err
	}
	video, audio := allocateBitrate(bitrateForSize(size.Bytes(), duration))

	note := fmt.Sprintf("fit %s into %.1fs: video %s, audio %s",
		humanize.IBytes(uint64(size.Bytes())), duration, kbps(video), kbps(audio))

	if req.GetOr("single-pass", "false") == "true" {
		return c.compressSinglePass(req, video, audio, note), nil
	}

	passLog := filepath.Join(c.workDir, "ffpass-"+uuid.NewString())

	// Pass 1 discards its output, so the overwrite policy never applies.
	analyze := Invocation{
		Program: c.ffmpeg,
		Args: append(c.baseDiscard(),
			"-i", req.Input(),
			"-c:v", "libx264",
			"-b:v", kbps(video),
			"-pass", "1",
			"-passlogfile", passLog,
			"-an",
			"-f", "mp4",
			nullSink(),
		),
		Note: "pass 1: analyze complexity, write statistics, discard output",
	}
	encode := Invocation{
		Program: c.ffmpeg,
		Args: append(c.base(),
			"-i", req.Input(),
			"-c:v", "libx264",
			"-b:v", kbps(video),
			"-pass", "2",
			"-passlogfile", passLog,
			"-c:a", "aac",
			"-b:a", kbps(audio),
			"-movflags", "+faststart",
			req.Output,
		),
		Note: "pass 2: encode against the statistics; " + note,
	}

	return &Plan{Invocations: []Invocation{analyze, encode}, Outputs: []string{req.Output}}, nil
}

func (c *Compiler) compressSinglePass(req Request, videoBps, audioBps int64, note string) *Plan {
	args := append(c.base(),
		"-i", req.Input(),
		"-c:v", "libx264",
		"-b:v", kbps(videoBps),
		"-c:a", "aac",
		"-b:a", kbps(audioBps),
		req.Output,
	)
	return c.single(args, "single pass: "+note, req.Output)
}

// compileProxy makes a lightweight editing proxy.
func (c *Compiler) compileProxy(ctx context.Context, req Request) (*Plan, error) {
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", "scale=1280:-2",
		"-c:v", "libx264",
		"-crf", "28",
		"-preset", "ultrafast",
		"-c:a", "aac",
		"-b:a", "96k",
		req.Output,
	)
	return c.single(args, "720p-class proxy, speed over quality", req.Output), nil
}

// compilePreview cuts a short low-cost clip from the start.
func (c *Compiler) compilePreview(ctx context.Context, req Request) (*Plan, error) {
	args := append(c.base(),
		"-i", req.Input(),
		"-t", req.GetOr("seconds", "10"),
		"-vf", "scale=640:-2",
		"-c:v", "libx264",
		"-crf", "28",
		"-preset", "fast",
		"-c:a", "aac",
		"-b:a", "64k",
		req.Output,
	)
	return c.single(args, "10s preview at 640px wide", req.Output), nil
}
