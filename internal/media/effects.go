package media

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/clipforge/clipforge/internal/param"
)

func (c *Compiler) compileGrayscale(ctx context.Context, req Request) (*Plan, error) {
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", "format=gray",
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, "drop chroma", req.Output), nil
}

func (c *Compiler) compileColorPreset(ctx context.Context, req Request) (*Plan, error) {
	raw, err := req.Require("preset")
	if err != nil {
		return nil, err
	}
	preset, err := param.ParseColorPreset(raw)
	if err != nil {
		return nil, err
	}

	var filter string
	switch preset {
	case param.ColorVintage:
		filter = "eq=brightness=0.05:contrast=1.15:saturation=0.85," +
			"colorbalance=rs=0.1:gs=-0.05:bs=-0.1"
	case param.ColorSepia:
		filter = "colorchannelmixer=.393:.769:.189:0:.349:.686:.168:0:.272:.534:.131"
	case param.ColorBW:
		filter = "format=gray"
	}

	args := append(c.base(),
		"-i", req.Input(),
		"-vf", filter,
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("%s look", preset), req.Output), nil
}

func (c *Compiler) compileColorGrade(ctx context.Context, req Request) (*Plan, error) {
	raw, err := req.Require("preset")
	if err != nil {
		return nil, err
	}
	preset, err := param.ParseColorGradePreset(raw)
	if err != nil {
		return nil, err
	}

	var filter string
	switch preset {
	case param.GradeCinematic:
		filter = "curves=preset=medium_contrast,eq=saturation=0.9:contrast=1.1"
	case param.GradeWarm:
		filter = "colorbalance=rs=0.15:gs=0.05:bs=-0.15"
	case param.GradeCool:
		filter = "colorbalance=rs=-0.15:bs=0.15"
	case param.GradeDramatic:
		filter = "eq=contrast=1.3:saturation=1.1,vignette"
	}

	args := append(c.base(),
		"-i", req.Input(),
		"-vf", filter,
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("%s grade", preset), req.Output), nil
}

// compileAdjust maps user-facing -1..1 style adjustments onto the eq filter,
// where brightness is additive but contrast and saturation are multipliers
// centered on 1.0.
func (c *Compiler) compileAdjust(ctx context.Context, req Request) (*Plan, error) {
	parse := func(key string) (float64, error) {
		raw := req.GetOr(key, "0")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("invalid %s %q: expected a number", key, raw)
		}
		return v, nil
	}

	brightness, err := parse("brightness")
	if err != nil {
		return nil, err
	}
	contrast, err := parse("contrast")
	if err != nil {
		return nil, err
	}
	saturation, err := parse("saturation")
	if err != nil {
		return nil, err
	}

	filter := fmt.Sprintf("eq=brightness=%.3f:contrast=%.3f:saturation=%.3f",
		brightness, contrast+1.0, saturation+1.0)
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", filter,
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, "tone adjustment", req.Output), nil
}

func (c *Compiler) compileVignette(ctx context.Context, req Request) (*Plan, error) {
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", "vignette=angle=PI/4",
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, "darken the frame edges", req.Output), nil
}

func (c *Compiler) compileLensCorrect(ctx context.Context, req Request) (*Plan, error) {
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", "lenscorrection=k1=-0.1:k2=-0.05",
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, "undo barrel distortion", req.Output), nil
}

// compileGlitch shifts the red and blue planes apart and adds temporal
// noise. Shift is clamped to 15px and noise strength to 100.
func (c *Compiler) compileGlitch(ctx context.Context, req Request) (*Plan, error) {
	shift, err := strconv.Atoi(req.GetOr("shift", "5"))
	if err != nil || shift < 0 {
		return nil, fmt.Errorf("invalid shift %q: expected pixels >= 0", req.GetOr("shift", "5"))
	}
	if shift > 15 {
		shift = 15
	}
	noise, err := strconv.Atoi(req.GetOr("noise", "20"))
	if err != nil || noise < 0 {
		return nil, fmt.Errorf("invalid noise %q: expected strength >= 0", req.GetOr("noise", "20"))
	}
	if noise > 100 {
		noise = 100
	}

	filter := fmt.Sprintf(
		"format=rgb24,geq=r='r(X+%d,Y)':g='g(X,Y)':b='b(X-%d,Y)',noise=alls=%d:allf=t+u,format=yuv420p",
		shift, shift, noise)
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", filter,
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("channel shift %dpx, noise %d", shift, noise), req.Output), nil
}

func (c *Compiler) compileVintageFilm(ctx context.Context, req Request) (*Plan, error) {
	filter := "eq=brightness=0.03:contrast=1.1:saturation=0.7," +
		"colorbalance=rs=0.1:bs=-0.1,noise=alls=12:allf=t,vignette"
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", filter,
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, "faded colors, grain and a vignette", req.Output), nil
}

func (c *Compiler) compileSharpen(ctx context.Context, req Request) (*Plan, error) {
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", "unsharp=5:5:1.0:5:5:0.0",
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, "luma sharpening", req.Output), nil
}

// compileBlurRegion blurs the whole frame, crops the blurred copy to the
// target rectangle and overlays it back in place.
func (c *Compiler) compileBlurRegion(ctx context.Context, req Request) (*Plan, error) {
	raw, err := req.Require("region")
	if err != nil {
		return nil, err
	}
	region, err := param.ParseRegion(raw)
	if err != nil {
		return nil, err
	}

	var g graph
	g.add([]string{"0:v"}, "boxblur=10:10", "blurred")
	g.add([]string{"blurred"},
		fmt.Sprintf("crop=%d:%d:%d:%d", region.Width, region.Height, region.X, region.Y),
		"blurred_crop")
	g.add([]string{"0:v", "blurred_crop"},
		fmt.Sprintf("overlay=%d:%d", region.X, region.Y), "v")
	filter, err := g.render("v")
	if err != nil {
		return nil, err
	}

	args := append(c.base(),
		"-i", req.Input(),
		"-filter_complex", filter,
		"-map", "[v]",
		"-map", "0:a?",
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("blur region %s", region), req.Output), nil
}

func (c *Compiler) compileRemoveBackground(ctx context.Context, req Request) (*Plan, error) {
	key, err := param.ParseChromaKeyColor(req.GetOr("color", "green"))
	if err != nil {
		return nil, err
	}
	filter := fmt.Sprintf("chromakey=color=%s:similarity=0.3:blend=0.1", key.FFmpeg())
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", filter,
		"-pix_fmt", "yuv420p",
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("key out %s", key), req.Output), nil
}
