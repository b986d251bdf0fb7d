package run

import (
	"regexp"
	"strconv"
	"strings"
)

// Progress is one decoded snapshot of the encoder's status line.
type Progress struct {
	Frame   int64
	FPS     float64
	Seconds float64
	Speed   float64
	Bitrate string
}

var (
	frameRe   = regexp.MustCompile(`frame=\s*(\d+)`)
	fpsRe     = regexp.MustCompile(`fps=\s*([\d.]+)`)
	timeRe    = regexp.MustCompile(`time=(\d{2,}):(\d{2}):(\d{2})\.(\d+)`)
	speedRe   = regexp.MustCompile(`speed=\s*([\d.]+)x`)
	bitrateRe = regexp.MustCompile(`bitrate=\s*([\d.]+\s*\w?bits/s)`)
)

// ParseProgress decodes an encoder status line. The encoder interleaves
// status with diagnostics on the same stream, so anything without a frame
// counter is treated as a plain log line and rejected.
func ParseProgress(line string) (Progress, bool) {
	if !strings.Contains(line, "frame=") {
		return Progress{}, false
	}

	var p Progress
	if m := frameRe.FindStringSubmatch(line); m != nil {
		p.Frame, _ = strconv.ParseInt(m[1], 10, 64)
	}
	if m := fpsRe.FindStringSubmatch(line); m != nil {
		p.FPS, _ = strconv.ParseFloat(m[1], 64)
	}
	if m := timeRe.FindStringSubmatch(line); m != nil {
		h, _ := strconv.ParseFloat(m[1], 64)
		min, _ := strconv.ParseFloat(m[2], 64)
		s, _ := strconv.ParseFloat(m[3], 64)
		frac, _ := strconv.ParseFloat("0."+m[4], 64)
		p.Seconds = h*3600 + min*60 + s + frac
	}
	if m := speedRe.FindStringSubmatch(line); m != nil {
		p.Speed, _ = strconv.ParseFloat(m[1], 64)
	}
	if m := bitrateRe.FindStringSubmatch(line); m != nil {
		p.Bitrate = strings.TrimSpace(m[1])
	}
	return p, true
}

// looksLikeError flags diagnostic lines worth surfacing even while a
// progress display is active.
func looksLikeError(line string) bool {
	lower := strings.ToLower(line)
	for _, marker := range []string{"error", "invalid", "failed", "no such file", "permission denied"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
