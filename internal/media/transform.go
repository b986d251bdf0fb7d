package media

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/clipforge/clipforge/internal/param"
)

func (c *Compiler) compileResize(ctx context.Context, req Request) (*Plan, error) {
	raw, err := req.Require("resolution")
	if err != nil {
		return nil, err
	}
	target, err := param.ParseResizeTarget(raw)
	if err != nil {
		return nil, err
	}
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", "scale="+target.Scale(),
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("scale to %s", target), req.Output), nil
}

func (c *Compiler) compileRotate(ctx context.Context, req Request) (*Plan, error) {
	raw, err := req.Require("degrees")
	if err != nil {
		return nil, err
	}
	rot, err := param.ParseRotateDegrees(raw)
	if err != nil {
		return nil, err
	}

	var filter string
	switch rot.Degrees() {
	case 90:
		filter = "transpose=1"
	case 180:
		filter = "transpose=2,transpose=2"
	case 270:
		filter = "transpose=2"
	default:
		filter = "null"
	}

	args := append(c.base(),
		"-i", req.Input(),
		"-vf", filter,
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("rotate %s degrees clockwise", rot), req.Output), nil
}

func (c *Compiler) compileMirror(ctx context.Context, req Request) (*Plan, error) {
	dir, err := param.ParseMirrorDirection(req.GetOr("direction", "horizontal"))
	if err != nil {
		return nil, err
	}
	filter := "hflip"
	if dir == param.MirrorVertical {
		filter = "vflip"
	}
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", filter,
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("mirror %sly", dir), req.Output), nil
}

// compileCrop crops either an exact region or a centered box clamped to the
// frame. The clamped expressions keep the graph valid for any resolution.
func (c *Compiler) compileCrop(ctx context.Context, req Request) (*Plan, error) {
	var filter, note string

	if raw, ok := req.Get("region"); ok {
		region, err := param.ParseRegion(raw)
		if err != nil {
			return nil, err
		}
		filter = fmt.Sprintf("crop=%d:%d:%d:%d", region.Width, region.Height, region.X, region.Y)
		note = fmt.Sprintf("crop region %s", region)
	} else {
		raw, err := req.Require("size")
		if err != nil {
			return nil, err
		}
		target, err := param.ParseResizeTarget(raw)
		if err != nil {
			return nil, err
		}
		w, h := target.Width, target.Height
		filter = fmt.Sprintf(
			"crop=min(%d\\,iw):min(%d\\,ih):(iw-min(%d\\,iw))/2:(ih-min(%d\\,ih))/2",
			w, h, w, h)
		note = fmt.Sprintf("centered crop to at most %dx%d", w, h)
	}

	args := append(c.base(),
		"-i", req.Input(),
		"-vf", filter,
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, note, req.Output), nil
}

func (c *Compiler) compileFps(ctx context.Context, req Request) (*Plan, error) {
	fps, err := req.Require("fps")
	if err != nil {
		return nil, err
	}
	args := append(c.base(),
		"-i", req.Input(),
		"-r", fps,
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("resample to %s fps", fps), req.Output), nil
}

func (c *Compiler) compileStabilize(ctx context.Context, req Request) (*Plan, error) {
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", "deshake",
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, "single-pass shake compensation", req.Output), nil
}

func (c *Compiler) compileDenoise(ctx context.Context, req Request) (*Plan, error) {
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", "hqdn3d=4:3:6:4.5",
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, "spatial and temporal video denoise", req.Output), nil
}

func (c *Compiler) compileInterpolate(ctx context.Context, req Request) (*Plan, error) {
	fps := req.GetOr("fps", "60")
	filter := fmt.Sprintf("minterpolate=fps=%s:mi_mode=mci:mc_mode=aobmc:vsbmc=1", fps)
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", filter,
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("motion-compensated interpolation to %s fps", fps), req.Output), nil
}

func (c *Compiler) compileMotionBlur(ctx context.Context, req Request) (*Plan, error) {
	frames, err := strconv.Atoi(req.GetOr("frames", "5"))
	if err != nil || frames < 2 {
		return nil, fmt.Errorf("invalid frame count %q: expected a whole number >= 2", req.GetOr("frames", "5"))
	}
	weights := strings.TrimSuffix(strings.Repeat("1 ", frames), " ")
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", fmt.Sprintf("tmix=frames=%d:weights=%s", frames, weights),
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("average %d frames for motion trails", frames), req.Output), nil
}

func (c *Compiler) compileReverse(ctx context.Context, req Request) (*Plan, error) {
	var g graph
	g.add([]string{"0:v"}, "reverse", "v")
	g.add([]string{"0:a"}, "areverse", "a")
	filter, err := g.render("v", "a")
	if err != nil {
		return nil, err
	}

	args := append(c.base(),
		"-i", req.Input(),
		"-filter_complex", filter,
		"-map", "[v]",
		"-map", "[a]",
		req.Output,
	)
	return c.single(args, "play video and audio backwards", req.Output), nil
}

// compileSpeed retimes both streams. Video presentation timestamps divide
// by the factor; audio goes through a tempo chain so any factor works.
func (c *Compiler) compileSpeed(ctx context.Context, req Request) (*Plan, error) {
	raw, err := req.Require("factor")
	if err != nil {
		return nil, err
	}
	factor, err := param.ParseSpeedFactor(raw)
	if err != nil {
		return nil, err
	}

	var g graph
	g.add([]string{"0:v"}, fmt.Sprintf("setpts=PTS/%.6f", factor.Value()), "v")
	g.add([]string{"0:a"}, atempoFilter(factor.Value()), "a")
	filter, err := g.render("v", "a")
	if err != nil {
		return nil, err
	}

	args := append(c.base(),
		"-i", req.Input(),
		"-filter_complex", filter,
		"-map", "[v]",
		"-map", "[a]",
		req.Output,
	)
	note := fmt.Sprintf("retime to %s (%d tempo stage(s))", factor, len(tempoChain(factor.Value())))
	return c.single(args, note, req.Output), nil
}
