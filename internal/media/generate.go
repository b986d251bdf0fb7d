package media

import (
	"context"
	"fmt"

	"github.com/clipforge/clipforge/internal/param"
)

// compileTestPattern synthesizes a clip from the lavfi test source. The
// only operation with no file input.
func (c *Compiler) compileTestPattern(ctx context.Context, req Request) (*Plan, error) {
	dur, err := param.ParseDuration(req.GetOr("duration", "10"))
	if err != nil {
		return nil, err
	}
	size := req.GetOr("size", "1280x720")
	if _, err := param.ParseResizeTarget(size); err != nil {
		return nil, err
	}

	src := fmt.Sprintf("testsrc=duration=%.3f:size=%s:rate=30", dur.Seconds(), size)
	args := append(c.base(),
		"-f", "lavfi",
		"-i", src,
		"-pix_fmt", "yuv420p",
		req.Output,
	)
	note := fmt.Sprintf("%.1fs test pattern at %s", dur.Seconds(), size)
	return c.single(args, note, req.Output), nil
}

// compileVisualize renders the audio as a moving image.
func (c *Compiler) compileVisualize(ctx context.Context, req Request) (*Plan, error) {
	style, err := param.ParseVisualizationStyle(req.GetOr("style", "waveform"))
	if err != nil {
		return nil, err
	}

	var g graph
	switch style {
	case param.VisualizationWaveform:
		g.add([]string{"0:a"}, "showwaves=s=1280x720:mode=line", "v")
	case param.VisualizationSpectrum:
		g.add([]string{"0:a"}, "showspectrum=s=1280x720", "v")
	}
	filter, err := g.render("v")
	if err != nil {
		return nil, err
	}

	args := append(c.base(),
		"-i", req.Input(),
		"-filter_complex", filter,
		"-map", "[v]",
		"-map", "0:a",
		"-c:a", "aac",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("%s visualization at 1280x720", style), req.Output), nil
}
