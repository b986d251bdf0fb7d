package media

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/clipforge/clipforge/internal/param"
)

// writeConcatList writes the concat demuxer's file list into the scratch
// dir and returns its path.
func (c *Compiler) writeConcatList(inputs []string) (string, error) {
	var b strings.Builder
	for _, in := range inputs {
		// Single quotes inside a quoted concat entry close, escape, reopen.
		escaped := strings.ReplaceAll(in, `'`, `'\''`)
		fmt.Fprintf(&b, "file '%s'\n", escaped)
	}
	path := filepath.Join(c.workDir, "concat-"+uuid.NewString()+".txt")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write concat list: %w", err)
	}
	return path, nil
}

// compileConcat joins sources back to back through the concat demuxer.
// Streams are copied when every source is container-compatible with the
// output; otherwise everything is normalized through one re-encode.
func (c *Compiler) compileConcat(ctx context.Context, req Request) (*Plan, error) {
	if len(req.Inputs) < 2 {
		return nil, fmt.Errorf("operation %q requires at least two inputs", req.Op)
	}

	list, err := c.writeConcatList(req.Inputs)
	if err != nil {
		return nil, err
	}

	copyAll := true
	for _, in := range req.Inputs {
		if resolveVideoCodec(ext(in), ext(req.Output)) != "copy" ||
			resolveAudioCodec(ext(in), ext(req.Output)) != "copy" {
			copyAll = false
			break
		}
	}

	args := append(c.base(),
		"-f", "concat",
		"-safe", "0",
		"-i", list,
	)
	var note string
	if copyAll {
		args = append(args, "-c", "copy")
		note = fmt.Sprintf("join %d clips without re-encoding", len(req.Inputs))
	} else {
		args = append(args,
			"-c:v", "libx264",
			"-pix_fmt", "yuv420p",
			"-c:a", "aac",
		)
		note = fmt.Sprintf("join %d clips, normalizing codecs for the target container", len(req.Inputs))
	}
	args = append(args, req.Output)
	return c.single(args, note, req.Output), nil
}

// compileCrossfade blends the tail of the first clip into the head of the
// second. The transition offset depends on both source durations, so each
// is probed exactly once.
func (c *Compiler) compileCrossfade(ctx context.Context, req Request) (*Plan, error) {
	if len(req.Inputs) < 2 {
		return nil, fmt.Errorf("operation %q requires exactly two inputs", req.Op)
	}
	trans, err := param.ParseTransitionType(req.GetOr("transition", "fade"))
	if err != nil {
		return nil, err
	}
	dur, err := param.ParseDuration(req.GetOr("duration", "1"))
	if err != nil {
		return nil, err
	}

	d1, err := c.duration(ctx, req.Inputs[0])
	if err != nil {
		return nil, err
	}
	d2, err := c.duration(ctx, req.Inputs[1])
	if err != nil {
		return nil, err
	}
	offset := math.Max(math.Min(d1, d2)-dur.Seconds(), 0)

	var g graph
	g.add([]string{"0:v", "1:v"},
		fmt.Sprintf("xfade=transition=%s:duration=%.3f:offset=%.3f", trans.XFade(), dur.Seconds(), offset),
		"v")
	g.add([]string{"0:a", "1:a"},
		fmt.Sprintf("acrossfade=d=%.3f", dur.Seconds()),
		"a")
	filter, err := g.render("v", "a")
	if err != nil {
		return nil, err
	}

	args := append(c.base(),
		"-i", req.Inputs[0],
		"-i", req.Inputs[1],
		"-filter_complex", filter,
		"-map", "[v]",
		"-map", "[a]",
		req.Output,
	)
	note := fmt.Sprintf("%s transition of %.1fs starting at %.1fs", trans, dur.Seconds(), offset)
	return c.single(args, note, req.Output), nil
}

// compileSlideshow turns still images into a video, each held for a fixed
// time, letterboxed to a common frame.
func (c *Compiler) compileSlideshow(ctx context.Context, req Request) (*Plan, error) {
	if len(req.Inputs) < 1 {
		return nil, fmt.Errorf("operation %q requires at least one image", req.Op)
	}
	hold, err := param.ParseDuration(req.GetOr("duration", "3"))
	if err != nil {
		return nil, err
	}
	if hold.Seconds() <= 0 {
		return nil, fmt.Errorf("slide duration must be positive")
	}

	frame := "scale=1920:1080:force_original_aspect_ratio=decrease," +
		"pad=1920:1080:(ow-iw)/2:(oh-ih)/2,setsar=1"

	var g graph
	labels := make([]string, len(req.Inputs))
	for i := range req.Inputs {
		labels[i] = fmt.Sprintf("s%d", i)
		g.add([]string{fmt.Sprintf("%d:v", i)}, frame, labels[i])
	}
	g.add(labels, fmt.Sprintf("concat=n=%d:v=1:a=0", len(labels)), "outv")
	filter, err := g.render("outv")
	if err != nil {
		return nil, err
	}

	args := c.base()
	for _, in := range req.Inputs {
		args = append(args,
			"-loop", "1",
			"-t", fmt.Sprintf("%.3f", hold.Seconds()),
			"-i", in,
		)
	}
	args = append(args,
		"-filter_complex", filter,
		"-map", "[outv]",
		"-r", "30",
		req.Output,
	)
	note := fmt.Sprintf("%d slides, %.1fs each", len(req.Inputs), hold.Seconds())
	return c.single(args, note, req.Output), nil
}

// compileIntro prepends a bumper clip. The bumper comes as the "clip"
// parameter so the primary input keeps its usual position.
func (c *Compiler) compileIntro(ctx context.Context, req Request) (*Plan, error) {
	clip, err := req.Require("clip")
	if err != nil {
		return nil, err
	}
	joined := req
	joined.Inputs = append([]string{clip}, req.Inputs...)
	return c.compileConcat(ctx, joined)
}

// compileOutro appends a bumper clip.
func (c *Compiler) compileOutro(ctx context.Context, req Request) (*Plan, error) {
	clip, err := req.Require("clip")
	if err != nil {
		return nil, err
	}
	joined := req
	joined.Inputs = append(append([]string{}, req.Inputs...), clip)
	return c.compileConcat(ctx, joined)
}
