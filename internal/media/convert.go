package media

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/clipforge/clipforge/internal/param"
)

// resolveVideoCodec decides copy vs transcode for the video stream from the
// container extensions alone. Copy is preferred; transcode only when the
// target container cannot carry what the source container typically holds.
func resolveVideoCodec(inExt, outExt string) string {
	if (inExt == "webm" || inExt == "mkv") && outExt == "mp4" {
		return "libx264"
	}
	return "copy"
}

// resolveAudioCodec is the audio half of the compatibility table. Decided
// independently of the video stream.
func resolveAudioCodec(inExt, outExt string) string {
	switch {
	case outExt == "mp4" && (inExt == "webm" || inExt == "wmv" || inExt == "mkv"):
		return "aac"
	case outExt == "webm" && (inExt == "mp4" || inExt == "avi" || inExt == "mov"):
		return "libopus"
	}
	return "copy"
}

func (c *Compiler) compileConvert(ctx context.Context, req Request) (*Plan, error) {
	in := req.Input()
	vcodec := resolveVideoCodec(ext(in), ext(req.Output))
	acodec := resolveAudioCodec(ext(in), ext(req.Output))

	args := append(c.base(),
		"-i", in,
		"-c:v", vcodec,
		"-c:a", acodec,
		req.Output,
	)
	note := fmt.Sprintf("container %s -> %s: video %s, audio %s", ext(in), ext(req.Output), vcodec, acodec)
	return c.single(args, note, req.Output), nil
}

// palettePath names a throwaway palette image in the scratch dir.
func (c *Compiler) palettePath() string {
	return filepath.Join(c.workDir, "palette-"+uuid.NewString()+".png")
}

// compileGif is the two-invocation GIF pipeline: generate a palette, then
// apply it. The second invocation reads the first one's output.
func (c *Compiler) compileGif(ctx context.Context, req Request) (*Plan, error) {
	fps := req.GetOr("fps", "10")
	width := req.GetOr("width", "480")
	in := req.Input()
	palette := c.palettePath()

	chain := fmt.Sprintf("fps=%s,scale=%s:-1:flags=lanczos", fps, width)

	// Palette is an intermediate artifact, always safe to overwrite.
	gen := Invocation{
		Program: c.ffmpeg,
		Args:    []string{"-y", "-i", in, "-vf", chain + ",palettegen", palette},
		Note:    "pass 1: build a 256-color palette tuned to this clip",
	}
	use := Invocation{
		Program: c.ffmpeg,
		Args: append(c.base(),
			"-i", in,
			"-i", palette,
			"-lavfi", fmt.Sprintf("%s[x];[x][1:v]paletteuse=dither=bayer", chain),
			req.Output,
		),
		Note: "pass 2: map frames onto the palette with ordered dithering",
	}

	return &Plan{Invocations: []Invocation{gen, use}, Outputs: []string{req.Output}}, nil
}

// compileAnimatedGif is the GIF pipeline with per-frame palette statistics
// and optional looping.
func (c *Compiler) compileAnimatedGif(ctx context.Context, req Request) (*Plan, error) {
	fps := req.GetOr("fps", "15")
	width := req.GetOr("width", "480")
	optimized := req.GetOr("optimized", "true") == "true"
	loop := req.GetOr("loop", "true") == "true"
	in := req.Input()
	palette := c.palettePath()

	chain := fmt.Sprintf("fps=%s,scale=%s:-1:flags=lanczos", fps, width)
	gen := chain + ",palettegen"
	use := "paletteuse=dither=bayer"
	if optimized {
		gen = chain + ",palettegen=stats_mode=diff"
		use = "paletteuse=dither=bayer:bayer_scale=5"
	}

	genInv := Invocation{
		Program: c.ffmpeg,
		Args:    []string{"-y", "-i", in, "-vf", gen, palette},
		Note:    "pass 1: build palette",
	}

	applyArgs := append(c.base(),
		"-i", in,
		"-i", palette,
		"-lavfi", fmt.Sprintf("%s[x];[x][1:v]%s", chain, use),
	)
	if loop {
		applyArgs = append(applyArgs, "-loop", "0")
	}
	applyArgs = append(applyArgs, req.Output)

	applyInv := Invocation{Program: c.ffmpeg, Args: applyArgs, Note: "pass 2: apply palette"}
	return &Plan{Invocations: []Invocation{genInv, applyInv}, Outputs: []string{req.Output}}, nil
}

func (c *Compiler) compileIphone(ctx context.Context, req Request) (*Plan, error) {
	args := append(c.base(),
		"-i", req.Input(),
		"-c:v", "libx264",
		"-profile:v", "high",
		"-level", "4.0",
		"-c:a", "aac",
		"-movflags", "+faststart",
		req.Output,
	)
	return c.single(args, "H.264 high profile, faststart for instant playback", req.Output), nil
}

func (c *Compiler) compileAndroid(ctx context.Context, req Request) (*Plan, error) {
	args := append(c.base(),
		"-i", req.Input(),
		"-c:v", "libx264",
		"-profile:v", "baseline",
		"-level", "3.0",
		"-c:a", "aac",
		"-movflags", "+faststart",
		req.Output,
	)
	return c.single(args, "H.264 baseline profile for broad device support", req.Output), nil
}

// compileHls packages into an HTTP Live Streaming playlist. Output is a
// directory; segment and playlist names are fixed.
func (c *Compiler) compileHls(ctx context.Context, req Request) (*Plan, error) {
	dir := req.Output
	playlist := filepath.Join(dir, "playlist.m3u8")
	args := append(c.base(),
		"-i", req.Input(),
		"-c:v", "libx264",
		"-c:a", "aac",
		"-f", "hls",
		"-hls_time", req.GetOr("segment-seconds", "10"),
		"-hls_list_size", "0",
		"-hls_segment_filename", filepath.Join(dir, "segment_%03d.ts"),
		playlist,
	)
	return c.single(args, "10s MPEG-TS segments with a full playlist", playlist), nil
}

func (c *Compiler) compileDash(ctx context.Context, req Request) (*Plan, error) {
	dir := req.Output
	manifest := filepath.Join(dir, "manifest.mpd")
	args := append(c.base(),
		"-i", req.Input(),
		"-c:v", "libx264",
		"-c:a", "aac",
		"-f", "dash",
		"-seg_duration", req.GetOr("segment-seconds", "10"),
		"-use_timeline", "1",
		"-use_template", "1",
		"-init_seg_name", "init_$RepresentationID$.m4s",
		manifest,
	)
	return c.single(args, "DASH segments with timeline templating", manifest), nil
}

func (c *Compiler) compileHdrToSdr(ctx context.Context, req Request) (*Plan, error) {
	chain := "zscale=t=linear:npl=100,format=gbrpf32le,zscale=p=bt709," +
		"tonemap=tonemap=hable:desat=0,zscale=t=bt709:m=bt709:r=tv,format=yuv420p"
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", chain,
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, "hable tonemap from HDR to BT.709 SDR", req.Output), nil
}

func (c *Compiler) compileColorspace(ctx context.Context, req Request) (*Plan, error) {
	raw, err := req.Require("colorspace")
	if err != nil {
		return nil, err
	}
	cs, err := param.ParseColorspace(raw)
	if err != nil {
		return nil, err
	}
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", fmt.Sprintf("colorspace=%s", cs),
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("convert colorimetry to %s", cs), req.Output), nil
}

// compile360ToFlat reprojects an equirectangular source into a flat view.
// Yaw and pitch pick the viewing direction in degrees.
func (c *Compiler) compile360ToFlat(ctx context.Context, req Request) (*Plan, error) {
	yaw := req.GetOr("yaw", "0")
	pitch := req.GetOr("pitch", "0")
	fov := req.GetOr("fov", "90")
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", fmt.Sprintf("v360=input=equirect:output=flat:h_fov=%s:v_fov=%s:yaw=%s:pitch=%s", fov, fov, yaw, pitch),
		"-c:a", "copy",
		req.Output,
	)
	note := fmt.Sprintf("flatten 360 view at yaw %s, pitch %s, %s degree FOV", yaw, pitch, fov)
	return c.single(args, note, req.Output), nil
}
