package media

import (
	"context"
	"fmt"

	"github.com/clipforge/clipforge/internal/param"
)

// codecPassthroughArgs copies both streams when the containers agree,
// otherwise re-encodes video and copies audio.
func codecPassthroughArgs(in, out string) []string {
	if v := resolveVideoCodec(ext(in), ext(out)); v != "copy" {
		return []string{"-c:v", v, "-c:a", "copy"}
	}
	return []string{"-c", "copy"}
}

// compileSetMetadata writes one container-level tag without touching the
// streams when the containers allow it.
func (c *Compiler) compileSetMetadata(ctx context.Context, req Request) (*Plan, error) {
	rawField, err := req.Require("field")
	if err != nil {
		return nil, err
	}
	value, err := req.Require("value")
	if err != nil {
		return nil, err
	}
	field, err := param.ParseMetadataField(rawField)
	if err != nil {
		return nil, err
	}

	args := append(c.base(),
		"-i", req.Input(),
		"-metadata", fmt.Sprintf("%s=%s", field, value),
	)
	args = append(args, codecPassthroughArgs(req.Input(), req.Output)...)
	args = append(args, req.Output)
	note := fmt.Sprintf("set %s to %q", field, value)
	return c.single(args, note, req.Output), nil
}

// compileExtractMetadata dumps stream and container metadata in a
// machine-readable format.
func (c *Compiler) compileExtractMetadata(ctx context.Context, req Request) (*Plan, error) {
	format := req.GetOr("format", "json")
	if format != "json" && format != "xml" {
		return nil, fmt.Errorf("invalid metadata format %q: expected json or xml", format)
	}
	inv := Invocation{
		Program: c.ffprobe,
		Args: []string{
			"-v", "error",
			"-show_format",
			"-show_streams",
			"-of", format,
			req.Input(),
		},
		Note: "dump all metadata as " + format,
	}
	return &Plan{Invocations: []Invocation{inv}}, nil
}

// compileFixRotation clears the container rotation tag; players that honor
// the tag stop double-rotating. The frames themselves are left alone.
func (c *Compiler) compileFixRotation(ctx context.Context, req Request) (*Plan, error) {
	args := append(c.base(), "-i", req.Input())
	args = append(args, codecPassthroughArgs(req.Input(), req.Output)...)
	args = append(args,
		"-metadata:s:v:0", "rotate=0",
		req.Output,
	)
	return c.single(args, "clear the rotation tag on the video stream", req.Output), nil
}

// compileRepair salvages a damaged file: decode errors are ignored and
// presentation timestamps are regenerated.
func (c *Compiler) compileRepair(ctx context.Context, req Request) (*Plan, error) {
	args := append(c.base(),
		"-err_detect", "ignore_err",
		"-i", req.Input(),
	)
	args = append(args, codecPassthroughArgs(req.Input(), req.Output)...)
	args = append(args,
		"-fflags", "+genpts",
		req.Output,
	)
	return c.single(args, "salvage readable streams, regenerating timestamps", req.Output), nil
}
