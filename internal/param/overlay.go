package param

import (
	"fmt"
	"strconv"
	"strings"
)

// Opacity is an alpha value in [0, 1].
type Opacity struct {
	value float64
}

// ParseOpacity parses a float in [0, 1].
func ParseOpacity(raw string) (Opacity, error) {
	v, err := parseFiniteFloat(strings.TrimSpace(raw))
	if err != nil {
		return Opacity{}, fmt.Errorf("invalid opacity %q: expected a number between 0 and 1", raw)
	}
	if v < 0 || v > 1 {
		return Opacity{}, fmt.Errorf("invalid opacity %q: must be between 0 and 1", raw)
	}
	return Opacity{value: v}, nil
}

// Value returns the alpha in [0, 1].
func (o Opacity) Value() float64 { return o.value }

func (o Opacity) String() string { return strconv.FormatFloat(o.value, 'f', -1, 64) }

// WatermarkPosition places an overlay at a named corner, the center, or an
// exact pixel offset.
type WatermarkPosition struct {
	anchor string // "" when custom
	x, y   int
}

// ParseWatermarkPosition parses a corner name, "center", or "x,y".
func ParseWatermarkPosition(raw string) (WatermarkPosition, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "top-left", "top-right", "bottom-left", "bottom-right", "center":
		return WatermarkPosition{anchor: s}, nil
	}
	x, y, err := parsePair(s)
	if err != nil {
		return WatermarkPosition{}, fmt.Errorf("invalid position %q: expected a corner name, center, or x,y", raw)
	}
	return WatermarkPosition{x: int(x), y: int(y)}, nil
}

// Overlay renders the overlay filter x:y expression. Anchors use symbolic
// main/overlay dimensions so the graph works at any resolution.
func (p WatermarkPosition) Overlay() string {
	switch p.anchor {
	case "top-left":
		return "10:10"
	case "top-right":
		return "W-w-10:10"
	case "bottom-left":
		return "10:H-h-10"
	case "bottom-right":
		return "W-w-10:H-h-10"
	case "center":
		return "(W-w)/2:(H-h)/2"
	}
	return fmt.Sprintf("%d:%d", p.x, p.y)
}

func (p WatermarkPosition) String() string {
	if p.anchor != "" {
		return p.anchor
	}
	return fmt.Sprintf("%d,%d", p.x, p.y)
}

// WatermarkSizeKind discriminates the two sizing modes.
type WatermarkSizeKind int

const (
	// WatermarkPercent scales the overlay relative to the main video width.
	WatermarkPercent WatermarkSizeKind = iota
	// WatermarkPixels scales the overlay to fixed pixel dimensions.
	WatermarkPixels
)

// WatermarkSize sizes an overlay either as a fraction of the main video
// width or as fixed pixels.
//
// The tie-break for bare numbers is deliberate and load-bearing: input with
// a percent sign is a fraction; a bare decimal containing '.' that lands in
// [0, 1] is a fraction; anything else is pixels ("200" = 200px wide,
// "320x240" = exact box). "1.0" therefore means 100%, not one pixel.
type WatermarkSize struct {
	Kind     WatermarkSizeKind
	Fraction float64
	Width    int
	Height   int // 0 = preserve aspect
}

// ParseWatermarkSize parses "10%", "0.25", "200" or "320x240".
func ParseWatermarkSize(raw string) (WatermarkSize, error) {
	s := strings.ToLower(strings.TrimSpace(raw))

	if pct, ok := strings.CutSuffix(s, "%"); ok {
		v, err := parseFiniteFloat(strings.TrimSpace(pct))
		if err != nil || v < 0 || v > 100 {
			return WatermarkSize{}, fmt.Errorf("invalid watermark size %q: percentage must be between 0 and 100", raw)
		}
		return WatermarkSize{Kind: WatermarkPercent, Fraction: v / 100}, nil
	}

	if strings.Contains(s, "x") {
		w, h, err := parseDims(s)
		if err != nil || w <= 0 || h <= 0 {
			return WatermarkSize{}, fmt.Errorf("invalid watermark size %q: expected WxH with positive dimensions", raw)
		}
		return WatermarkSize{Kind: WatermarkPixels, Width: w, Height: h}, nil
	}

	v, err := parseFiniteFloat(s)
	if err != nil || v <= 0 {
		return WatermarkSize{}, fmt.Errorf("invalid watermark size %q: expected a percentage, a fraction, a width or WxH", raw)
	}
	if strings.Contains(s, ".") && v <= 1 {
		return WatermarkSize{Kind: WatermarkPercent, Fraction: v}, nil
	}
	return WatermarkSize{Kind: WatermarkPixels, Width: int(v)}, nil
}

func (s WatermarkSize) String() string {
	if s.Kind == WatermarkPercent {
		return fmt.Sprintf("%.0f%%", s.Fraction*100)
	}
	if s.Height > 0 {
		return fmt.Sprintf("%dx%d", s.Width, s.Height)
	}
	return fmt.Sprintf("%dpx", s.Width)
}

// Region is a rectangle inside the frame, used for blur and crop targets.
type Region struct {
	X, Y          int
	Width, Height int
}

// ParseRegion parses "x,y,w,h" with positive width and height.
func ParseRegion(raw string) (Region, error) {
	parts := strings.Split(strings.TrimSpace(raw), ",")
	if len(parts) != 4 {
		return Region{}, fmt.Errorf("invalid region %q: expected x,y,w,h", raw)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Region{}, fmt.Errorf("invalid region %q: %q is not a whole number", raw, p)
		}
		vals[i] = v
	}
	if vals[2] <= 0 || vals[3] <= 0 {
		return Region{}, fmt.Errorf("invalid region %q: width and height must be positive", raw)
	}
	return Region{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

func (r Region) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height)
}

// PipPosition places a picture-in-picture inset at a corner.
type PipPosition string

const (
	PipTopLeft     PipPosition = "top-left"
	PipTopRight    PipPosition = "top-right"
	PipBottomLeft  PipPosition = "bottom-left"
	PipBottomRight PipPosition = "bottom-right"
)

// ParsePipPosition parses a corner name.
func ParsePipPosition(raw string) (PipPosition, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "top-left":
		return PipTopLeft, nil
	case "top-right":
		return PipTopRight, nil
	case "bottom-left":
		return PipBottomLeft, nil
	case "bottom-right":
		return PipBottomRight, nil
	}
	return "", fmt.Errorf("invalid position %q: expected a corner like top-right", raw)
}

// Overlay renders the overlay x:y expression for the inset.
func (p PipPosition) Overlay() string {
	switch p {
	case PipTopLeft:
		return "10:10"
	case PipTopRight:
		return "W-w-10:10"
	case PipBottomLeft:
		return "10:H-h-10"
	default:
		return "W-w-10:H-h-10"
	}
}

// ChromaKeyColor is the key color for background removal.
type ChromaKeyColor struct {
	hex string // RRGGBB
}

// ParseChromaKeyColor parses green, blue or #RRGGBB.
func ParseChromaKeyColor(raw string) (ChromaKeyColor, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "green":
		return ChromaKeyColor{hex: "00FF00"}, nil
	case "blue":
		return ChromaKeyColor{hex: "0000FF"}, nil
	}
	if hex, ok := parseHexColor(s); ok {
		return ChromaKeyColor{hex: hex}, nil
	}
	return ChromaKeyColor{}, fmt.Errorf("invalid key color %q: expected green, blue or #RRGGBB", raw)
}

// FFmpeg renders the 0xRRGGBB form the chromakey filter accepts.
func (c ChromaKeyColor) FFmpeg() string { return "0x" + c.hex }

func (c ChromaKeyColor) String() string { return "#" + c.hex }

// parseHexColor accepts "#RRGGBB" or "RRGGBB" and returns uppercase RRGGBB.
func parseHexColor(s string) (string, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return "", false
	}
	if _, err := strconv.ParseUint(s, 16, 32); err != nil {
		return "", false
	}
	return strings.ToUpper(s), true
}
