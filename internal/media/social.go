package media

import (
	"context"
	"fmt"

	"github.com/clipforge/clipforge/internal/param"
)

// compileSocial letterboxes into a platform's frame and pins its frame
// rate and bitrate ceiling.
func (c *Compiler) compileSocial(ctx context.Context, req Request) (*Plan, error) {
	raw, err := req.Require("platform")
	if err != nil {
		return nil, err
	}
	platform, err := param.ParseSocialPlatform(raw)
	if err != nil {
		return nil, err
	}

	filter := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
		platform.Width, platform.Height, platform.Width, platform.Height)
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", filter,
		"-r", fmt.Sprintf("%d", platform.FrameRate),
		"-c:v", "libx264",
		"-b:v", fmt.Sprintf("%dk", platform.VideoKbps),
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		req.Output,
	)
	note := fmt.Sprintf("%s: %dx%d at %dfps, %dkbps",
		platform, platform.Width, platform.Height, platform.FrameRate, platform.VideoKbps)
	return c.single(args, note, req.Output), nil
}

// compileSocialCrop crops to a square, optionally masking a circle into
// the alpha channel.
func (c *Compiler) compileSocialCrop(ctx context.Context, req Request) (*Plan, error) {
	shape, err := param.ParseSocialCropShape(req.GetOr("shape", "square"))
	if err != nil {
		return nil, err
	}

	square := "crop=min(iw\\,ih):min(iw\\,ih)"
	filter := square
	if shape == param.CropCircle {
		filter = square + ",format=rgba," +
			"geq=r='r(X\\,Y)':g='g(X\\,Y)':b='b(X\\,Y)':" +
			"a='if(lte(hypot(X-W/2\\,Y-H/2)\\,W/2)\\,255\\,0)'"
	}

	args := append(c.base(),
		"-i", req.Input(),
		"-vf", filter,
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("%s crop", shape), req.Output), nil
}

// compileVertical pads into the 9:16 story frame.
func (c *Compiler) compileVertical(ctx context.Context, req Request) (*Plan, error) {
	filter := "scale=1080:1920:force_original_aspect_ratio=decrease," +
		"pad=1080:1920:(ow-iw)/2:(oh-ih)/2:black"
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", filter,
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, "letterbox into 1080x1920", req.Output), nil
}

// compileStory is the full story treatment: the 9:16 frame of vertical
// plus the 15 second cap and delivery encode stories expect.
func (c *Compiler) compileStory(ctx context.Context, req Request) (*Plan, error) {
	filter := "scale=1080:1920:force_original_aspect_ratio=decrease," +
		"pad=1080:1920:(ow-iw)/2:(oh-ih)/2:black"
	args := append(c.base(),
		"-i", req.Input(),
		"-t", req.GetOr("seconds", "15"),
		"-vf", filter,
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		req.Output,
	)
	return c.single(args, "story cut: 1080x1920, capped at 15s, streaming-ready", req.Output), nil
}
