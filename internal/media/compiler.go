package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/clipforge/clipforge/internal/probe"
)

// CompilerConfig carries the knobs the compiler needs from configuration.
type CompilerConfig struct {
	FFmpegPath  string
	FFprobePath string
	Overwrite   bool
	WorkDir     string // scratch space for palettes, pass logs, concat lists
}

// Compiler maps an operation request (plus probed metadata when needed) to
// an ordered invocation sequence.
type Compiler struct {
	prober    probe.Facade
	ffmpeg    string
	ffprobe   string
	overwrite bool
	workDir   string
}

// NewCompiler creates a Compiler. A nil prober is allowed; operations that
// need probing then fail with a precondition error.
func NewCompiler(prober probe.Facade, cfg CompilerConfig) *Compiler {
	c := &Compiler{
		prober:    prober,
		ffmpeg:    cfg.FFmpegPath,
		ffprobe:   cfg.FFprobePath,
		overwrite: cfg.Overwrite,
		workDir:   cfg.WorkDir,
	}
	if c.ffmpeg == "" {
		c.ffmpeg = "ffmpeg"
	}
	if c.ffprobe == "" {
		c.ffprobe = "ffprobe"
	}
	if c.workDir == "" {
		c.workDir = os.TempDir()
	}
	return c
}

// Compile produces the invocation plan for a request. It fails only on
// missing/unparseable parameters, unsatisfiable preconditions, or a probe
// failure; it never emits a malformed invocation.
func (c *Compiler) Compile(ctx context.Context, req Request) (*Plan, error) {
	if len(req.Inputs) == 0 && req.Op != "test-pattern" {
		return nil, fmt.Errorf("operation %q requires at least one input", req.Op)
	}

	build, ok := c.operations()[req.Op]
	if !ok {
		return nil, fmt.Errorf("unknown operation %q", req.Op)
	}
	return build(ctx, req)
}

type buildFunc func(ctx context.Context, req Request) (*Plan, error)

// operations is the dispatch table from operation tag to builder.
func (c *Compiler) operations() map[string]buildFunc {
	return map[string]buildFunc{
		// conversion and packaging
		"convert":      c.compileConvert,
		"gif":          c.compileGif,
		"animated-gif": c.compileAnimatedGif,
		"iphone":     c.compileIphone,
		"android":    c.compileAndroid,
		"hls":        c.compileHls,
		"dash":       c.compileDash,
		"hdr-to-sdr":  c.compileHdrToSdr,
		"colorspace":  c.compileColorspace,
		"360-to-flat": c.compile360ToFlat,

		// compression
		"compress": c.compileCompress,
		"proxy":    c.compileProxy,
		"preview":  c.compilePreview,

		// timeline
		"trim":              c.compileTrim,
		"split":             c.compileSplit,
		"extract-frames":    c.compileExtractFrames,
		"extract-keyframes": c.compileExtractKeyframes,
		"thumbnail":         c.compileThumbnail,
		"thumbnail-grid":    c.compileThumbnailGrid,
		"loop":              c.compileLoop,
		"fix-framerate":     c.compileFixFramerate,

		// audio
		"extract-audio":       c.compileExtractAudio,
		"extract-audio-range": c.compileExtractAudioRange,
		"volume":          c.compileVolume,
		"mute":            c.compileMute,
		"normalize":       c.compileNormalize,
		"fade":            c.compileFade,
		"sync-audio":      c.compileSyncAudio,
		"mix-audio":       c.compileMixAudio,
		"add-audio":       c.compileAddAudio,
		"audio-speed":     c.compileAudioSpeed,
		"noise-reduction": c.compileNoiseReduction,
		"echo-removal":    c.compileEchoRemoval,
		"ducking":         c.compileDucking,
		"equalizer":       c.compileEqualizer,
		"voice-isolation": c.compileVoiceIsolation,

		// geometry and motion
		"resize":       c.compileResize,
		"rotate":       c.compileRotate,
		"fix-rotation": c.compileFixRotation,
		"mirror":      c.compileMirror,
		"crop":        c.compileCrop,
		"fps":         c.compileFps,
		"stabilize":   c.compileStabilize,
		"denoise":     c.compileDenoise,
		"interpolate": c.compileInterpolate,
		"motion-blur": c.compileMotionBlur,
		"reverse":     c.compileReverse,
		"speed":       c.compileSpeed,

		// looks and effects
		"grayscale":         c.compileGrayscale,
		"color-preset":      c.compileColorPreset,
		"color-grade":       c.compileColorGrade,
		"adjust":            c.compileAdjust,
		"vignette":          c.compileVignette,
		"lens-correct":      c.compileLensCorrect,
		"glitch":            c.compileGlitch,
		"vintage-film":      c.compileVintageFilm,
		"sharpen":           c.compileSharpen,
		"blur-region":       c.compileBlurRegion,
		"remove-background": c.compileRemoveBackground,

		// overlays and text
		"watermark":     c.compileWatermark,
		"pip":           c.compilePip,
		"split-screen":  c.compileSplitScreen,
		"overlay":       c.compileOverlay,
		"subtitles":     c.compileSubtitles,
		"text":          c.compileText,
		"animated-text": c.compileAnimatedText,
		"timecode":      c.compileTimecode,

		// composition
		"montage":      c.compileMontage,
		"tile":         c.compileTile,
		"sync-cameras": c.compileSyncCameras,
		"concat":       c.compileConcat,
		"intro":        c.compileIntro,
		"outro":        c.compileOutro,
		"crossfade":    c.compileCrossfade,
		"transition":   c.compileCrossfade,
		"slideshow":    c.compileSlideshow,

		// analysis
		"detect-scenes":     c.compileDetectScenes,
		"detect-black":      c.compileDetectBlack,
		"detect-silence":    c.compileDetectSilence,
		"detect-duplicates": c.compileDetectDuplicates,
		"analyze-loudness":  c.compileAnalyzeLoudness,
		"compare":           c.compileCompare,
		"validate":          c.compileValidate,
		"stats":             c.compileStats,
		"info":              c.compileInfo,
		"set-metadata":      c.compileSetMetadata,
		"extract-metadata":  c.compileExtractMetadata,
		"repair":            c.compileRepair,
		"edl":               c.compileEdl,

		// generation
		"test-pattern": c.compileTestPattern,
		"visualize":    c.compileVisualize,

		// social targets
		"social":      c.compileSocial,
		"social-crop": c.compileSocialCrop,
		"vertical":    c.compileVertical,
		"story":       c.compileStory,
	}
}

// base starts an encoder argument vector with the overwrite policy flag,
// which the toolkit expects before any input.
func (c *Compiler) base() []string {
	if c.overwrite {
		return []string{"-y"}
	}
	return []string{"-n"}
}

// baseDiscard starts an argument vector for invocations that write to the
// null sink. The sink always exists, so -n would refuse it; overwrite
// policy only applies to real outputs.
func (c *Compiler) baseDiscard() []string {
	return []string{"-y"}
}

// duration queries the prober, turning a missing prober into a precondition
// error rather than a panic.
func (c *Compiler) duration(ctx context.Context, path string) (float64, error) {
	if c.prober == nil {
		return 0, fmt.Errorf("operation needs media duration but no prober is configured")
	}
	return c.prober.DurationSeconds(ctx, path)
}

// nullSink is the platform bit bucket used for metrics-only runs.
func nullSink() string {
	if runtime.GOOS == "windows" {
		return "NUL"
	}
	return "/dev/null"
}

// ext returns the lowercased extension without the dot.
func ext(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// single wraps one encoder invocation into a Plan.
func (c *Compiler) single(args []string, note, output string) *Plan {
	inv := Invocation{Program: c.ffmpeg, Args: args, Note: note}
	p := &Plan{Invocations: []Invocation{inv}}
	if output != "" {
		p.Outputs = []string{output}
	}
	return p
}
