package param

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var volumeDBRe = regexp.MustCompile(`(?i)^([+-]?\d+(?:\.\d+)?)\s*db$`)

// VolumeAdjustment is a loudness change, given either as a percentage of the
// original level ("50%" halves it, capped at 100) or as a decibel offset
// ("+3dB", "-6dB").
type VolumeAdjustment struct {
	factor float64
	label  string
}

// ParseVolumeAdjustment parses "N%" with N in [0, 100] or "±NdB".
func ParseVolumeAdjustment(raw string) (VolumeAdjustment, error) {
	s := strings.TrimSpace(raw)

	if m := volumeDBRe.FindStringSubmatch(s); m != nil {
		db, _ := strconv.ParseFloat(m[1], 64)
		return VolumeAdjustment{factor: math.Pow(10, db/20), label: s}, nil
	}

	if pct, ok := strings.CutSuffix(s, "%"); ok {
		v, err := parseFiniteFloat(strings.TrimSpace(pct))
		if err != nil || v < 0 || v > 100 {
			return VolumeAdjustment{}, fmt.Errorf("invalid volume %q: percentage must be between 0 and 100", raw)
		}
		return VolumeAdjustment{factor: v / 100, label: s}, nil
	}

	return VolumeAdjustment{}, fmt.Errorf("invalid volume %q: expected a percentage like 50%% or an offset like -6dB", raw)
}

// Factor returns the linear multiplier for the volume filter.
func (v VolumeAdjustment) Factor() float64 { return v.factor }

func (v VolumeAdjustment) String() string { return v.label }

// AudioSyncDirection says which way to shift audio against video.
type AudioSyncDirection string

const (
	// SyncDelay moves audio later relative to video.
	SyncDelay AudioSyncDirection = "delay"
	// SyncAdvance moves audio earlier relative to video.
	SyncAdvance AudioSyncDirection = "advance"
)

// ParseAudioSyncDirection parses delay/advance.
func ParseAudioSyncDirection(raw string) (AudioSyncDirection, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "delay":
		return SyncDelay, nil
	case "advance":
		return SyncAdvance, nil
	}
	return "", fmt.Errorf("invalid sync direction %q: expected delay or advance", raw)
}
