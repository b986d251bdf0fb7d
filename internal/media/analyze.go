package media

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
)

// metricsRun builds an encoder invocation that discards its output; only
// the diagnostic stream matters.
func (c *Compiler) metricsRun(input string, streamArgs []string, note string) *Plan {
	args := append(c.baseDiscard(), "-i", input)
	args = append(args, streamArgs...)
	args = append(args, "-f", "null", nullSink())
	return c.single(args, note, "")
}

func (c *Compiler) compileDetectScenes(ctx context.Context, req Request) (*Plan, error) {
	threshold := req.GetOr("threshold", "0.3")
	filter := fmt.Sprintf("select='gt(scene,%s)',showinfo", threshold)
	return c.metricsRun(req.Input(), []string{"-vf", filter},
		"report frames where scene change exceeds "+threshold), nil
}

func (c *Compiler) compileDetectBlack(ctx context.Context, req Request) (*Plan, error) {
	return c.metricsRun(req.Input(), []string{"-vf", "blackdetect=d=0.1:pix_th=0.1"},
		"report black intervals of 0.1s or longer"), nil
}

func (c *Compiler) compileDetectSilence(ctx context.Context, req Request) (*Plan, error) {
	return c.metricsRun(req.Input(), []string{"-af", "silencedetect=noise=-30dB:duration=0.5"},
		"report silence below -30dB lasting 0.5s or longer"), nil
}

func (c *Compiler) compileDetectDuplicates(ctx context.Context, req Request) (*Plan, error) {
	return c.metricsRun(req.Input(), []string{"-vf", "select='not(gt(scene\\,0.0001))',showinfo"},
		"report frames nearly identical to their predecessor"), nil
}

func (c *Compiler) compileAnalyzeLoudness(ctx context.Context, req Request) (*Plan, error) {
	return c.metricsRun(req.Input(), []string{"-af", "loudnorm=I=-16:TP=-1.5:LRA=11:print_format=json"},
		"measure integrated loudness, true peak and range"), nil
}

// compileCompare either measures PSNR between two files or renders them
// side by side for eyeballing.
func (c *Compiler) compileCompare(ctx context.Context, req Request) (*Plan, error) {
	if len(req.Inputs) < 2 {
		return nil, fmt.Errorf("operation %q requires two inputs", req.Op)
	}

	if req.GetOr("mode", "metric") == "visual" {
		var g graph
		g.add([]string{"0:v"}, "scale=-2:720", "left")
		g.add([]string{"1:v"}, "scale=-2:720", "right")
		g.add([]string{"left", "right"}, "hstack", "v")
		filter, err := g.render("v")
		if err != nil {
			return nil, err
		}
		args := append(c.base(),
			"-i", req.Inputs[0],
			"-i", req.Inputs[1],
			"-filter_complex", filter,
			"-map", "[v]",
			"-an",
			req.Output,
		)
		return c.single(args, "side-by-side comparison at 720p", req.Output), nil
	}

	var g graph
	g.add([]string{"0:v", "1:v"}, "psnr", "v")
	filter, err := g.render("v")
	if err != nil {
		return nil, err
	}
	args := append(c.baseDiscard(),
		"-i", req.Inputs[0],
		"-i", req.Inputs[1],
		"-filter_complex", filter,
		"-map", "[v]",
		"-f", "null",
		nullSink(),
	)
	return c.single(args, "PSNR between the two sources", ""), nil
}

// compileValidate asks the prober to walk the whole file; a non-zero exit
// means the container or streams are damaged.
func (c *Compiler) compileValidate(ctx context.Context, req Request) (*Plan, error) {
	inv := Invocation{
		Program: c.ffprobe,
		Args:    []string{"-v", "error", "-show_format", "-show_streams", req.Input()},
		Note:    "structural validation via the prober",
	}
	return &Plan{Invocations: []Invocation{inv}}, nil
}

// compileStats dumps the full stream and container metadata as JSON.
func (c *Compiler) compileStats(ctx context.Context, req Request) (*Plan, error) {
	inv := Invocation{
		Program: c.ffprobe,
		Args:    []string{"-v", "error", "-print_format", "json", "-show_format", "-show_streams", req.Input()},
		Note:    "full metadata report",
	}
	return &Plan{Invocations: []Invocation{inv}}, nil
}

// compileEdl writes scene-cut timestamps to a text file an editor can
// import.
func (c *Compiler) compileEdl(ctx context.Context, req Request) (*Plan, error) {
	threshold := req.GetOr("threshold", "0.3")
	filter := fmt.Sprintf("select='gt(scene,%s)',metadata=print:file=%s", threshold, req.Output)
	args := append(c.baseDiscard(),
		"-i", req.Input(),
		"-vf", filter,
		"-f", "null",
		nullSink(),
	)
	return c.single(args, "edit decision list from scene cuts", req.Output), nil
}

// compileInfo probes the file up front so the step note reads like a
// summary, then prints the prober's human-oriented report.
func (c *Compiler) compileInfo(ctx context.Context, req Request) (*Plan, error) {
	note := "media summary"
	if c.prober != nil {
		info, err := c.prober.Info(ctx, req.Input())
		if err != nil {
			return nil, err
		}
		note = fmt.Sprintf("%dx%d %s/%s, %.1fs, %s",
			info.Width, info.Height, info.VideoCodec, info.AudioCodec,
			info.DurationSeconds, humanize.IBytes(uint64(info.FileSize)))
	}
	inv := Invocation{
		Program: c.ffprobe,
		Args:    []string{"-hide_banner", "-i", req.Input()},
		Note:    note,
	}
	return &Plan{Invocations: []Invocation{inv}}, nil
}
