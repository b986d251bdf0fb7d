package param

import (
	"fmt"
	"strconv"
	"strings"
)

// SpeedFactor is a playback-rate multiplier. Accepts "2x", "0.5x" or a bare
// positive float.
type SpeedFactor struct {
	factor float64
}

// ParseSpeedFactor parses a speed multiplier string.
func ParseSpeedFactor(raw string) (SpeedFactor, error) {
	s := strings.TrimSuffix(strings.TrimSpace(strings.ToLower(raw)), "x")
	v, err := parseFiniteFloat(s)
	if err != nil {
		return SpeedFactor{}, fmt.Errorf("invalid speed %q: expected a multiplier like \"2x\" or \"0.5x\"", raw)
	}
	if v <= 0 {
		return SpeedFactor{}, fmt.Errorf("invalid speed %q: must be greater than zero", raw)
	}
	return SpeedFactor{factor: v}, nil
}

// Value returns the multiplier.
func (f SpeedFactor) Value() float64 { return f.factor }

func (f SpeedFactor) String() string {
	return strconv.FormatFloat(f.factor, 'f', -1, 64) + "x"
}

// RotateDegrees is a rotation restricted to quarter turns. Any integer input
// is normalized into [0, 360) first, so 450 means 90 and -90 means 270.
type RotateDegrees struct {
	degrees int
}

// ParseRotateDegrees parses a degree string like "90" or "450".
func ParseRotateDegrees(raw string) (RotateDegrees, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return RotateDegrees{}, fmt.Errorf("invalid rotation %q: expected a whole number of degrees", raw)
	}
	return NewRotateDegrees(v)
}

// NewRotateDegrees validates a rotation given directly as an integer.
func NewRotateDegrees(degrees int) (RotateDegrees, error) {
	norm := ((degrees % 360) + 360) % 360
	switch norm {
	case 0, 90, 180, 270:
		return RotateDegrees{degrees: norm}, nil
	}
	return RotateDegrees{}, fmt.Errorf("invalid rotation %d: only multiples of 90 degrees are supported", degrees)
}

// Degrees returns the normalized rotation in {0, 90, 180, 270}.
func (r RotateDegrees) Degrees() int { return r.degrees }

func (r RotateDegrees) String() string { return strconv.Itoa(r.degrees) }

// ResizeTarget is an output resolution, either a named preset or WxH.
type ResizeTarget struct {
	Width  int
	Height int
}

var resizePresets = map[string]ResizeTarget{
	"480p":  {Width: 854, Height: 480},
	"720p":  {Width: 1280, Height: 720},
	"1080p": {Width: 1920, Height: 1080},
	"1440p": {Width: 2560, Height: 1440},
	"2160p": {Width: 3840, Height: 2160},
	"4k":    {Width: 3840, Height: 2160},
}

// ParseResizeTarget parses "720p", "4k" or "640x480".
func ParseResizeTarget(raw string) (ResizeTarget, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if preset, ok := resizePresets[s]; ok {
		return preset, nil
	}
	w, h, err := parseDims(s)
	if err != nil {
		return ResizeTarget{}, fmt.Errorf("invalid resolution %q: expected a preset like 720p or WxH", raw)
	}
	if w <= 0 || h <= 0 {
		return ResizeTarget{}, fmt.Errorf("invalid resolution %q: dimensions must be positive", raw)
	}
	return ResizeTarget{Width: w, Height: h}, nil
}

// Scale renders the scale filter argument, e.g. "1280:720".
func (r ResizeTarget) Scale() string { return fmt.Sprintf("%d:%d", r.Width, r.Height) }

func (r ResizeTarget) String() string { return fmt.Sprintf("%dx%d", r.Width, r.Height) }

// GridLayout is a cols x rows arrangement for montage, tile and multi-camera
// composition.
type GridLayout struct {
	Cols int
	Rows int
}

// ParseGridLayout parses "3x2" style layouts. Both dimensions must be >= 1.
func ParseGridLayout(raw string) (GridLayout, error) {
	c, r, err := parseDims(raw)
	if err != nil {
		return GridLayout{}, fmt.Errorf("invalid layout %q: expected COLSxROWS like 2x2", raw)
	}
	if c < 1 || r < 1 {
		return GridLayout{}, fmt.Errorf("invalid layout %q: both dimensions must be at least 1", raw)
	}
	return GridLayout{Cols: c, Rows: r}, nil
}

// Capacity returns the number of cells in the grid.
func (g GridLayout) Capacity() int { return g.Cols * g.Rows }

func (g GridLayout) String() string { return fmt.Sprintf("%dx%d", g.Cols, g.Rows) }

// QualityPreset maps a named quality tier to encoder CRF values.
type QualityPreset struct {
	name    string
	crf     int
	crfVP9  int
}

var qualityPresets = map[string]QualityPreset{
	"low":    {name: "low", crf: 28, crfVP9: 50},
	"medium": {name: "medium", crf: 23, crfVP9: 40},
	"high":   {name: "high", crf: 18, crfVP9: 30},
	"ultra":  {name: "ultra", crf: 15, crfVP9: 20},
}

// ParseQualityPreset parses low/medium/high/ultra.
func ParseQualityPreset(raw string) (QualityPreset, error) {
	if p, ok := qualityPresets[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return p, nil
	}
	return QualityPreset{}, fmt.Errorf("invalid quality %q: expected low, medium, high or ultra", raw)
}

// CRF returns the x264/x265 constant rate factor.
func (q QualityPreset) CRF() int { return q.crf }

// CRFVP9 returns the VP9 constant rate factor, which runs on a wider scale.
func (q QualityPreset) CRFVP9() int { return q.crfVP9 }

func (q QualityPreset) String() string { return q.name }

// VideoCodec is a named encoder selection.
type VideoCodec struct {
	name    string
	encoder string
}

var videoCodecs = map[string]string{
	"h264": "libx264",
	"h265": "libx265",
	"vp9":  "libvpx-vp9",
	"copy": "copy",
}

// ParseVideoCodec parses h264/h265/vp9/copy.
func ParseVideoCodec(raw string) (VideoCodec, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if enc, ok := videoCodecs[s]; ok {
		return VideoCodec{name: s, encoder: enc}, nil
	}
	return VideoCodec{}, fmt.Errorf("invalid codec %q: expected h264, h265, vp9 or copy", raw)
}

// Encoder returns the toolkit encoder name, e.g. "libx264".
func (c VideoCodec) Encoder() string { return c.encoder }

func (c VideoCodec) String() string { return c.name }

// TransitionType names an xfade transition style.
type TransitionType struct {
	name  string
	xfade string
}

var transitionTypes = map[string]string{
	"fade":  "fade",
	"wipe":  "wipeleft",
	"slide": "slideleft",
}

// ParseTransitionType parses fade/wipe/slide.
func ParseTransitionType(raw string) (TransitionType, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if x, ok := transitionTypes[s]; ok {
		return TransitionType{name: s, xfade: x}, nil
	}
	return TransitionType{}, fmt.Errorf("invalid transition %q: expected fade, wipe or slide", raw)
}

// XFade returns the xfade filter transition name.
func (t TransitionType) XFade() string { return t.xfade }

func (t TransitionType) String() string { return t.name }

// MirrorDirection selects the flip axis.
type MirrorDirection string

const (
	MirrorHorizontal MirrorDirection = "horizontal"
	MirrorVertical   MirrorDirection = "vertical"
)

// ParseMirrorDirection parses horizontal/vertical.
func ParseMirrorDirection(raw string) (MirrorDirection, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "horizontal":
		return MirrorHorizontal, nil
	case "vertical":
		return MirrorVertical, nil
	}
	return "", fmt.Errorf("invalid mirror direction %q: expected horizontal or vertical", raw)
}

// SplitScreenOrientation selects how two halves are stacked.
type SplitScreenOrientation string

const (
	SplitHorizontal SplitScreenOrientation = "horizontal"
	SplitVertical   SplitScreenOrientation = "vertical"
)

// ParseSplitScreenOrientation parses horizontal/vertical.
func ParseSplitScreenOrientation(raw string) (SplitScreenOrientation, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "horizontal":
		return SplitHorizontal, nil
	case "vertical":
		return SplitVertical, nil
	}
	return "", fmt.Errorf("invalid orientation %q: expected horizontal or vertical", raw)
}

// VisualizationStyle selects the audio visualization filter.
type VisualizationStyle string

const (
	VisualizationWaveform VisualizationStyle = "waveform"
	VisualizationSpectrum VisualizationStyle = "spectrum"
)

// ParseVisualizationStyle parses waveform/spectrum.
func ParseVisualizationStyle(raw string) (VisualizationStyle, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "waveform":
		return VisualizationWaveform, nil
	case "spectrum":
		return VisualizationSpectrum, nil
	}
	return "", fmt.Errorf("invalid visualization %q: expected waveform or spectrum", raw)
}

// Colorspace names a target colorimetry.
type Colorspace string

const (
	ColorspaceBT709     Colorspace = "bt709"
	ColorspaceBT2020    Colorspace = "bt2020"
	ColorspaceSMPTE170M Colorspace = "smpte170m"
)

// ParseColorspace parses bt709/bt2020/smpte170m.
func ParseColorspace(raw string) (Colorspace, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "bt709":
		return ColorspaceBT709, nil
	case "bt2020":
		return ColorspaceBT2020, nil
	case "smpte170m":
		return ColorspaceSMPTE170M, nil
	}
	return "", fmt.Errorf("invalid colorspace %q: expected bt709, bt2020 or smpte170m", raw)
}
