package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/clipforge/clipforge/internal/param"
)

// compileWatermark overlays the second input onto the first. Percentage
// sizing goes through scale2ref so the logo tracks the main video's width;
// opacity below 1 routes the logo through an alpha premix first.
func (c *Compiler) compileWatermark(ctx context.Context, req Request) (*Plan, error) {
	if len(req.Inputs) < 2 {
		return nil, fmt.Errorf("operation %q requires a video input and a watermark image", req.Op)
	}

	pos, err := param.ParseWatermarkPosition(req.GetOr("position", "bottom-right"))
	if err != nil {
		return nil, err
	}

	var g graph
	mainLabel := "0:v"
	logoLabel := "1:v"

	if raw, ok := req.Get("size"); ok {
		size, err := param.ParseWatermarkSize(raw)
		if err != nil {
			return nil, err
		}
		switch size.Kind {
		case param.WatermarkPercent:
			g.add([]string{"1:v", "0:v"},
				fmt.Sprintf("scale2ref=w=iw*%.4f:h=ow/mdar", size.Fraction),
				"logo", "ref")
			logoLabel, mainLabel = "logo", "ref"
		case param.WatermarkPixels:
			h := "-1"
			if size.Height > 0 {
				h = fmt.Sprintf("%d", size.Height)
			}
			g.add([]string{"1:v"}, fmt.Sprintf("scale=%d:%s", size.Width, h), "logo")
			logoLabel = "logo"
		}
	}

	if raw, ok := req.Get("opacity"); ok {
		opacity, err := param.ParseOpacity(raw)
		if err != nil {
			return nil, err
		}
		if opacity.Value() < 1 {
			g.add([]string{logoLabel},
				fmt.Sprintf("format=rgba,colorchannelmixer=aa=%.3f", opacity.Value()),
				"logo_alpha")
			logoLabel = "logo_alpha"
		}
	}

	g.add([]string{mainLabel, logoLabel}, "overlay="+pos.Overlay(), "v")
	filter, err := g.render("v")
	if err != nil {
		return nil, err
	}

	args := append(c.base(),
		"-i", req.Inputs[0],
		"-i", req.Inputs[1],
		"-filter_complex", filter,
		"-map", "[v]",
		"-map", "0:a?",
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("watermark at %s", pos), req.Output), nil
}

func (c *Compiler) compilePip(ctx context.Context, req Request) (*Plan, error) {
	if len(req.Inputs) < 2 {
		return nil, fmt.Errorf("operation %q requires a main video and an inset video", req.Op)
	}
	pos, err := param.ParsePipPosition(req.GetOr("position", "bottom-right"))
	if err != nil {
		return nil, err
	}

	var g graph
	g.add([]string{"1:v"}, "scale=iw*0.3:-1", "inset")
	g.add([]string{"0:v", "inset"}, "overlay="+pos.Overlay(), "v")
	filter, err := g.render("v")
	if err != nil {
		return nil, err
	}

	args := append(c.base(),
		"-i", req.Inputs[0],
		"-i", req.Inputs[1],
		"-filter_complex", filter,
		"-map", "[v]",
		"-map", "0:a?",
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("30%% inset at %s", pos), req.Output), nil
}

// compileSplitScreen squeezes each source into half the frame and stacks
// the halves.
func (c *Compiler) compileSplitScreen(ctx context.Context, req Request) (*Plan, error) {
	if len(req.Inputs) < 2 {
		return nil, fmt.Errorf("operation %q requires two inputs", req.Op)
	}
	orient, err := param.ParseSplitScreenOrientation(req.GetOr("orientation", "horizontal"))
	if err != nil {
		return nil, err
	}

	var g graph
	if orient == param.SplitHorizontal {
		g.add([]string{"0:v"}, "scale=iw/2:ih", "left")
		g.add([]string{"1:v"}, "scale=iw/2:ih", "right")
		g.add([]string{"left", "right"}, "hstack", "v")
	} else {
		g.add([]string{"0:v"}, "scale=iw:ih/2", "top")
		g.add([]string{"1:v"}, "scale=iw:ih/2", "bottom")
		g.add([]string{"top", "bottom"}, "vstack", "v")
	}
	filter, err := g.render("v")
	if err != nil {
		return nil, err
	}

	args := append(c.base(),
		"-i", req.Inputs[0],
		"-i", req.Inputs[1],
		"-filter_complex", filter,
		"-map", "[v]",
		"-map", "0:a?",
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("%s split screen", orient), req.Output), nil
}

func (c *Compiler) compileOverlay(ctx context.Context, req Request) (*Plan, error) {
	if len(req.Inputs) < 2 {
		return nil, fmt.Errorf("operation %q requires a base input and an overlay input", req.Op)
	}
	pos, err := param.ParseWatermarkPosition(req.GetOr("position", "top-left"))
	if err != nil {
		return nil, err
	}

	var g graph
	g.add([]string{"0:v", "1:v"}, "overlay="+pos.Overlay(), "v")
	filter, err := g.render("v")
	if err != nil {
		return nil, err
	}

	args := append(c.base(),
		"-i", req.Inputs[0],
		"-i", req.Inputs[1],
		"-filter_complex", filter,
		"-map", "[v]",
		"-map", "0:a?",
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("overlay at %s", pos), req.Output), nil
}

func (c *Compiler) compileSubtitles(ctx context.Context, req Request) (*Plan, error) {
	subs, err := req.Require("file")
	if err != nil {
		return nil, err
	}
	filter := "subtitles=" + subs
	if ext(subs) == "ass" {
		filter = "ass=" + subs
	}
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", filter,
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, "burn subtitles into the frame", req.Output), nil
}

// escapeDrawtext protects the characters drawtext treats specially.
func escapeDrawtext(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `:`, `\:`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return s
}

func (c *Compiler) compileText(ctx context.Context, req Request) (*Plan, error) {
	text, err := req.Require("text")
	if err != nil {
		return nil, err
	}
	pos, err := param.ParseTextPosition(req.GetOr("position", "bottom"))
	if err != nil {
		return nil, err
	}
	color, err := param.ParseTextColor(req.GetOr("color", "white"))
	if err != nil {
		return nil, err
	}
	size := req.GetOr("size", "24")

	filter := fmt.Sprintf("drawtext=text='%s':fontsize=%s:fontcolor=%s:x=%s:y=%s",
		escapeDrawtext(text), size, color.FFmpeg(), pos.X(), pos.Y())
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", filter,
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("draw %q at %s", text, pos), req.Output), nil
}

// compileAnimatedText animates the text entrance. Typewriter needs timed
// styling drawtext cannot express, so it goes through a generated ASS file.
func (c *Compiler) compileAnimatedText(ctx context.Context, req Request) (*Plan, error) {
	text, err := req.Require("text")
	if err != nil {
		return nil, err
	}
	anim, err := param.ParseTextAnimation(req.GetOr("animation", "fade-in"))
	if err != nil {
		return nil, err
	}
	pos, err := param.ParseTextPosition(req.GetOr("position", "bottom"))
	if err != nil {
		return nil, err
	}
	dur, err := param.ParseDuration(req.GetOr("duration", "1"))
	if err != nil {
		return nil, err
	}
	seconds := dur.Seconds()
	if seconds <= 0 {
		seconds = 1
	}

	var filter string
	switch anim {
	case param.TextFadeIn:
		filter = fmt.Sprintf(
			"drawtext=text='%s':fontsize=48:fontcolor=white:x=%s:y=%s:alpha='if(lt(t,%.3f),t/%.3f,1)'",
			escapeDrawtext(text), pos.X(), pos.Y(), seconds, seconds)
	case param.TextSlideIn:
		filter = fmt.Sprintf(
			"drawtext=text='%s':fontsize=48:fontcolor=white:x='w-(w-%s)*min(t/%.3f,1)':y=%s",
			escapeDrawtext(text), pos.X(), seconds, pos.Y())
	case param.TextTypewriter:
		assPath, err := c.writeTypewriterASS(text, seconds)
		if err != nil {
			return nil, err
		}
		filter = "ass=" + assPath
	}

	args := append(c.base(),
		"-i", req.Input(),
		"-vf", filter,
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("%s text animation over %.1fs", anim, seconds), req.Output), nil
}

// writeTypewriterASS emits a one-line karaoke subtitle that reveals the text
// character by character.
func (c *Compiler) writeTypewriterASS(text string, seconds float64) (string, error) {
	runes := []rune(text)
	if len(runes) == 0 {
		return "", fmt.Errorf("typewriter text must not be empty")
	}
	// Karaoke timing is in centiseconds per character.
	perChar := int(seconds * 100 / float64(len(runes)))
	if perChar < 1 {
		perChar = 1
	}

	var line strings.Builder
	for _, r := range runes {
		fmt.Fprintf(&line, `{\k%d}%c`, perChar, r)
	}

	content := fmt.Sprintf(`[Script Info]
ScriptType: v4.00+
PlayResX: 1920
PlayResY: 1080

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Arial,48,&H00FFFFFF,&H00FFFFFF,&H00000000,&H00000000,0,0,2,10,10,40,1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:00.00,0:10:00.00,Default,,0,0,0,,%s
`, line.String())

	path := filepath.Join(c.workDir, "typewriter-"+uuid.NewString()+".ass")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write subtitle file: %w", err)
	}
	return path, nil
}

func (c *Compiler) compileTimecode(ctx context.Context, req Request) (*Plan, error) {
	filter := `drawtext=text='%{pts\:hms}':fontsize=24:fontcolor=white:box=1:boxcolor=black@0.5:x=10:y=10`
	args := append(c.base(),
		"-i", req.Input(),
		"-vf", filter,
		"-c:a", "copy",
		req.Output,
	)
	return c.single(args, "burn a running timecode into the corner", req.Output), nil
}
