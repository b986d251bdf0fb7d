package param

import (
	"fmt"
	"strings"
)

// TextPosition places drawtext output at a named anchor or exact pixels.
type TextPosition struct {
	anchor string
	x, y   int
}

// ParseTextPosition parses one of the seven anchors or "x,y".
func ParseTextPosition(raw string) (TextPosition, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "top", "top-left", "top-right", "center", "bottom", "bottom-left", "bottom-right":
		return TextPosition{anchor: s}, nil
	}
	x, y, err := parsePair(s)
	if err != nil {
		return TextPosition{}, fmt.Errorf("invalid text position %q: expected an anchor like bottom or x,y", raw)
	}
	return TextPosition{x: int(x), y: int(y)}, nil
}

// X renders the drawtext x expression.
func (p TextPosition) X() string {
	switch p.anchor {
	case "top", "center", "bottom":
		return "(w-text_w)/2"
	case "top-left", "bottom-left":
		return "10"
	case "top-right", "bottom-right":
		return "w-text_w-10"
	}
	return fmt.Sprintf("%d", p.x)
}

// Y renders the drawtext y expression.
func (p TextPosition) Y() string {
	switch p.anchor {
	case "top", "top-left", "top-right":
		return "10"
	case "center":
		return "(h-text_h)/2"
	case "bottom", "bottom-left", "bottom-right":
		return "h-text_h-10"
	}
	return fmt.Sprintf("%d", p.y)
}

func (p TextPosition) String() string {
	if p.anchor != "" {
		return p.anchor
	}
	return fmt.Sprintf("%d,%d", p.x, p.y)
}

// TextColor is a drawtext color, named or hex.
type TextColor struct {
	name string
	hex  string
}

var namedColors = map[string]string{
	"white":   "FFFFFF",
	"black":   "000000",
	"red":     "FF0000",
	"green":   "00FF00",
	"blue":    "0000FF",
	"yellow":  "FFFF00",
	"cyan":    "00FFFF",
	"magenta": "FF00FF",
}

// ParseTextColor parses a named color or #RRGGBB.
func ParseTextColor(raw string) (TextColor, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if hex, ok := namedColors[s]; ok {
		return TextColor{name: s, hex: hex}, nil
	}
	if hex, ok := parseHexColor(s); ok {
		return TextColor{hex: hex}, nil
	}
	return TextColor{}, fmt.Errorf("invalid color %q: expected a name like white or #RRGGBB", raw)
}

// FFmpeg renders the 0xRRGGBB form.
func (c TextColor) FFmpeg() string { return "0x" + c.hex }

func (c TextColor) String() string {
	if c.name != "" {
		return c.name
	}
	return "#" + c.hex
}

// TextAnimation names a text entrance animation.
type TextAnimation string

const (
	TextFadeIn     TextAnimation = "fade-in"
	TextSlideIn    TextAnimation = "slide-in"
	TextTypewriter TextAnimation = "typewriter"
)

// ParseTextAnimation parses fade-in/slide-in/typewriter.
func ParseTextAnimation(raw string) (TextAnimation, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "fade-in":
		return TextFadeIn, nil
	case "slide-in":
		return TextSlideIn, nil
	case "typewriter":
		return TextTypewriter, nil
	}
	return "", fmt.Errorf("invalid animation %q: expected fade-in, slide-in or typewriter", raw)
}

// MetadataField names a container-level tag the toolkit can set.
type MetadataField string

const (
	MetaTitle       MetadataField = "title"
	MetaAuthor      MetadataField = "author"
	MetaCopyright   MetadataField = "copyright"
	MetaComment     MetadataField = "comment"
	MetaDescription MetadataField = "description"
)

// ParseMetadataField parses a tag name.
func ParseMetadataField(raw string) (MetadataField, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "title":
		return MetaTitle, nil
	case "author":
		return MetaAuthor, nil
	case "copyright":
		return MetaCopyright, nil
	case "comment":
		return MetaComment, nil
	case "description":
		return MetaDescription, nil
	}
	return "", fmt.Errorf("invalid metadata field %q: expected title, author, copyright, comment or description", raw)
}
