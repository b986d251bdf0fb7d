package media

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"

	"github.com/clipforge/clipforge/internal/param"
)

func (c *Compiler) compileTrim(ctx context.Context, req Request) (*Plan, error) {
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
		return nil, fmt.Errorf("trim end %s must be after start %s", end, start)
	}

	args := append(c.base(),
		"-i", req.Input(),
		"-ss", start.FFmpeg(),
		"-to", end.FFmpeg(),
		"-c:v", "libx264",
		"-c:a", "aac",
		req.Output,
	)
	note := fmt.Sprintf("keep %s to %s, re-encode for frame-accurate cuts", start, end)
	return c.single(args, note, req.Output), nil
}

// compileSplit cuts the source into pieces, one invocation per piece.
// Mode "every" takes a chunk length; mode "parts" takes a piece count.
func (c *Compiler) compileSplit(ctx context.Context, req Request) (*Plan, error) {
	duration, err := c.duration(ctx, req.Input())
	if err != nil {
		return nil, err
	}

	dir := req.Output
	plan := &Plan{}

	if raw, ok := req.Get("every"); ok {
		every, err := param.ParseDuration(raw)
		if err != nil {
			return nil, err
		}
		if every.Seconds() <= 0 {
			return nil, fmt.Errorf("split interval must be positive")
		}
		count := int(math.Ceil(duration / every.Seconds()))
		for i := 0; i < count; i++ {
			start := float64(i) * every.Seconds()
			length := math.Min(every.Seconds(), duration-start)
			out := filepath.Join(dir, fmt.Sprintf("segment_%03d.mp4", i))
			plan.Invocations = append(plan.Invocations, Invocation{
				Program: c.ffmpeg,
				Args: append(c.base(),
					"-i", req.Input(),
					"-ss", fmt.Sprintf("%.3f", start),
					"-t", fmt.Sprintf("%.3f", length),
					"-c", "copy",
					out,
				),
				Note: fmt.Sprintf("segment %d of %d", i+1, count),
			})
			plan.Outputs = append(plan.Outputs, out)
		}
		return plan, nil
	}

	if raw, ok := req.Get("parts"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid part count %q", raw)
		}
		length := duration / float64(n)
		for i := 0; i < n; i++ {
			out := filepath.Join(dir, fmt.Sprintf("part_%03d_of_%03d.mp4", i+1, n))
			plan.Invocations = append(plan.Invocations, Invocation{
				Program: c.ffmpeg,
				Args: append(c.base(),
					"-i", req.Input(),
					"-ss", fmt.Sprintf("%.3f", float64(i)*length),
					"-t", fmt.Sprintf("%.3f", length),
					"-c", "copy",
					out,
				),
				Note: fmt.Sprintf("part %d of %d", i+1, n),
			})
			plan.Outputs = append(plan.Outputs, out)
		}
		return plan, nil
	}

	return nil, fmt.Errorf("operation %q requires either every or parts", req.Op)
}

func (c *Compiler) compileExtractFrames(ctx context.Context, req Request) (*Plan, error) {
	fps := req.GetOr("fps", "1")
	out := filepath.Join(req.Output, "frame_%05d.jpg")
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", fmt.Sprintf("fps=%s", fps),
		"-q:v", "2",
		out,
	)
	return c.single(args, fmt.Sprintf("%s frame(s) per second as JPEG", fps), out), nil
}

func (c *Compiler) compileExtractKeyframes(ctx context.Context, req Request) (*Plan, error) {
	out := filepath.Join(req.Output, "keyframe_%05d.jpg")
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", "select='eq(pict_type\\,I)'",
		"-vsync", "vfr",
		"-q:v", "2",
		out,
	)
	return c.single(args, "I-frames only", out), nil
}

func (c *Compiler) compileThumbnail(ctx context.Context, req Request) (*Plan, error) {
	at, err := param.ParseTime(req.GetOr("at", "0"))
	if err != nil {
		return nil, err
	}
	// Seek before the input: fast keyframe seek is fine for a still.
	args := append(c.base(),
		"-ss", at.FFmpeg(),
		"-i", req.Input(),
		"-frames:v", "1",
		"-q:v", "2",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("single frame at %s", at), req.Output), nil
}

// compileThumbnailGrid samples the clip evenly into a contact sheet.
func (c *Compiler) compileThumbnailGrid(ctx context.Context, req Request) (*Plan, error) {
	layout, err := param.ParseGridLayout(req.GetOr("layout", "4x4"))
	if err != nil {
		return nil, err
	}
	if c.prober == nil {
		return nil, fmt.Errorf("operation needs media info but no prober is configured")
	}
	info, err := c.prober.Info(ctx, req.Input())
	if err != nil {
		return nil, err
	}

	fps := info.FrameRate
	if fps <= 0 {
		fps = 30
	}
	totalFrames := info.DurationSeconds * fps
	interval := int(totalFrames / float64(layout.Capacity()))
	if interval < 1 {
		interval = 1
	}

	filter := fmt.Sprintf("select='not(mod(n\\,%d))',scale=320:-1,tile=%dx%d",
		interval, layout.Cols, layout.Rows)
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", filter,
		"-frames:v", "1",
		"-q:v", "2",
		req.Output,
	)
	note := fmt.Sprintf("%s sheet, one cell every %d frames", layout, interval)
	return c.single(args, note, req.Output), nil
}

func (c *Compiler) compileLoop(ctx context.Context, req Request) (*Plan, error) {
	count := req.GetOr("count", "2")
	args := append(c.base(),
		"-stream_loop", count,
		"-i", req.Input(),
		"-c", "copy",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("repeat the source %s extra time(s), no re-encode", count), req.Output), nil
}

func (c *Compiler) compileFixFramerate(ctx context.Context, req Request) (*Plan, error) {
	fps := req.GetOr("fps", "30")
	args := append(c.base(),
		"-i", req.Input(),
		"-vsync", "cfr",
		"-r", fps,
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("force constant %s fps", fps), req.Output), nil
}
