package param

import (
	"fmt"
	"strings"
)

// SocialPlatform bundles the output constraints of a publishing target.
type SocialPlatform struct {
	Name      string
	Width     int
	Height    int
	FrameRate int
	VideoKbps int
}

var socialPlatforms = map[string]SocialPlatform{
	"instagram":      {Name: "instagram", Width: 1080, Height: 1080, FrameRate: 30, VideoKbps: 3500},
	"tiktok":         {Name: "tiktok", Width: 1080, Height: 1920, FrameRate: 30, VideoKbps: 4000},
	"youtube-shorts": {Name: "youtube-shorts", Width: 1080, Height: 1920, FrameRate: 30, VideoKbps: 5000},
	"twitter":        {Name: "twitter", Width: 1280, Height: 720, FrameRate: 30, VideoKbps: 3000},
}

// ParseSocialPlatform parses instagram/tiktok/youtube-shorts/twitter.
func ParseSocialPlatform(raw string) (SocialPlatform, error) {
	if p, ok := socialPlatforms[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return p, nil
	}
	return SocialPlatform{}, fmt.Errorf("invalid platform %q: expected instagram, tiktok, youtube-shorts or twitter", raw)
}

func (p SocialPlatform) String() string { return p.Name }

// SocialCropShape selects the crop mask for social output.
type SocialCropShape string

const (
	CropSquare SocialCropShape = "square"
	CropCircle SocialCropShape = "circle"
)

// ParseSocialCropShape parses square/circle.
func ParseSocialCropShape(raw string) (SocialCropShape, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "square":
		return CropSquare, nil
	case "circle":
		return CropCircle, nil
	}
	return "", fmt.Errorf("invalid crop shape %q: expected square or circle", raw)
}

// ColorPreset is a one-shot look applied with fixed filter settings.
type ColorPreset string

const (
	ColorVintage ColorPreset = "vintage"
	ColorBW      ColorPreset = "bw"
	ColorSepia   ColorPreset = "sepia"
)

// ParseColorPreset parses vintage/bw/sepia.
func ParseColorPreset(raw string) (ColorPreset, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "vintage":
		return ColorVintage, nil
	case "bw", "black-and-white":
		return ColorBW, nil
	case "sepia":
		return ColorSepia, nil
	}
	return "", fmt.Errorf("invalid color preset %q: expected vintage, bw or sepia", raw)
}

// ColorGradePreset is a named grading look.
type ColorGradePreset string

const (
	GradeCinematic ColorGradePreset = "cinematic"
	GradeWarm      ColorGradePreset = "warm"
	GradeCool      ColorGradePreset = "cool"
	GradeDramatic  ColorGradePreset = "dramatic"
)

// ParseColorGradePreset parses cinematic/warm/cool/dramatic.
func ParseColorGradePreset(raw string) (ColorGradePreset, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "cinematic":
		return GradeCinematic, nil
	case "warm":
		return GradeWarm, nil
	case "cool":
		return GradeCool, nil
	case "dramatic":
		return GradeDramatic, nil
	}
	return "", fmt.Errorf("invalid grade %q: expected cinematic, warm, cool or dramatic", raw)
}
