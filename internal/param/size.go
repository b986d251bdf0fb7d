package param

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var sizeRe = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(b|kb|k|mb|m|gb|g)$`)

// TargetSize is a desired output file size. Units are binary (1024-based):
// "10mb" is 10 * 1024 * 1024 bytes.
type TargetSize struct {
	bytes int64
}

// ParseTargetSize parses strings like "800k", "10mb", "1.5gb".
func ParseTargetSize(raw string) (TargetSize, error) {
	m := sizeRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return TargetSize{}, fmt.Errorf("invalid size %q: expected a number followed by b, kb, mb or gb", raw)
	}
	value, _ := strconv.ParseFloat(m[1], 64)

	var mult float64
	switch strings.ToLower(m[2]) {
	case "b":
		mult = 1
	case "k", "kb":
		mult = 1024
	case "m", "mb":
		mult = 1024 * 1024
	case "g", "gb":
		mult = 1024 * 1024 * 1024
	}

	bytes := int64(value * mult)
	if bytes <= 0 {
		return TargetSize{}, fmt.Errorf("invalid size %q: must be positive", raw)
	}
	return TargetSize{bytes: bytes}, nil
}

// Bytes returns the size in bytes.
func (s TargetSize) Bytes() int64 { return s.bytes }

func (s TargetSize) String() string { return fmt.Sprintf("%d bytes", s.bytes) }

var bitrateRe = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(k|kb|kbps|m|mb|mbps)$`)

// TargetBitrate is a desired total output bitrate in bits per second.
// Units are decimal (1000-based) as bitrates conventionally are.
type TargetBitrate struct {
	bps int64
}

// ParseTargetBitrate parses strings like "2500k" or "4mbps".
func ParseTargetBitrate(raw string) (TargetBitrate, error) {
	m := bitrateRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return TargetBitrate{}, fmt.Errorf("invalid bitrate %q: expected a number followed by k, kbps, m or mbps", raw)
	}
	value, _ := strconv.ParseFloat(m[1], 64)

	var mult float64
	switch strings.ToLower(m[2]) {
	case "k", "kb", "kbps":
		mult = 1000
	case "m", "mb", "mbps":
		mult = 1000 * 1000
	}

	bps := int64(value * mult)
	if bps <= 0 {
		return TargetBitrate{}, fmt.Errorf("invalid bitrate %q: must be positive", raw)
	}
	return TargetBitrate{bps: bps}, nil
}

// BitsPerSecond returns the bitrate in bits per second.
func (b TargetBitrate) BitsPerSecond() int64 { return b.bps }

func (b TargetBitrate) String() string { return fmt.Sprintf("%dk", b.bps/1000) }
