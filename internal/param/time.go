package param

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var timeRe = regexp.MustCompile(`^(\d+)(?::(\d{1,2}))?(?::(\d{1,2}))?$`)

// Time is a point on a media timeline, stored as whole seconds.
// Accepted shapes: "90" (seconds), "1:30" (M:SS), "1:05:30" (H:MM:SS).
type Time struct {
	seconds int
}

// ParseTime parses a timestamp string into a Time.
func ParseTime(raw string) (Time, error) {
	s := strings.TrimSpace(raw)
	m := timeRe.FindStringSubmatch(s)
	if m == nil {
		return Time{}, fmt.Errorf("invalid time %q: expected SS, M:SS or H:MM:SS", raw)
	}

	first, _ := strconv.Atoi(m[1])
	switch {
	case m[2] == "" && m[3] == "":
		return Time{seconds: first}, nil
	case m[3] == "":
		sec, _ := strconv.Atoi(m[2])
		if sec >= 60 {
			return Time{}, fmt.Errorf("invalid time %q: seconds field must be < 60", raw)
		}
		return Time{seconds: first*60 + sec}, nil
	default:
		min, _ := strconv.Atoi(m[2])
		sec, _ := strconv.Atoi(m[3])
		if min >= 60 || sec >= 60 {
			return Time{}, fmt.Errorf("invalid time %q: minute and second fields must be < 60", raw)
		}
		return Time{seconds: first*3600 + min*60 + sec}, nil
	}
}

// Seconds returns the timestamp as whole seconds from the start.
func (t Time) Seconds() int { return t.seconds }

// FFmpeg renders the zero-padded HH:MM:SS form the toolkit accepts.
func (t Time) FFmpeg() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.seconds/3600, (t.seconds%3600)/60, t.seconds%60)
}

func (t Time) String() string { return t.FFmpeg() }

// Duration is a non-negative span of seconds. Accepts "5", "2.5" or "5s".
type Duration struct {
	seconds float64
}

// ParseDuration parses a duration string into a Duration.
func ParseDuration(raw string) (Duration, error) {
	s := strings.TrimSuffix(strings.TrimSpace(strings.ToLower(raw)), "s")
	v, err := parseFiniteFloat(s)
	if err != nil {
		return Duration{}, fmt.Errorf("invalid duration %q: expected seconds like \"5\" or \"2.5s\"", raw)
	}
	if v < 0 {
		return Duration{}, fmt.Errorf("invalid duration %q: must not be negative", raw)
	}
	return Duration{seconds: v}, nil
}

// Seconds returns the span in seconds.
func (d Duration) Seconds() float64 { return d.seconds }

func (d Duration) String() string {
	return strconv.FormatFloat(d.seconds, 'f', -1, 64) + "s"
}
