// Package probe wraps the metadata prober binary. The compiler consults it
// whenever a decision depends on source properties (durations for fades and
// crossfades, sizes for bitrate math).
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Facade is what the compiler needs from a prober. Implementations must be
// read-only; results are snapshots, never cached across operations.
type Facade interface {
	DurationSeconds(ctx context.Context, path string) (float64, error)
	Info(ctx context.Context, path string) (*MediaInfo, error)
}

// MediaInfo is a read-only snapshot of a media file's properties.
type MediaInfo struct {
	DurationSeconds float64
	Width           int
	Height          int
	FrameRate       float64
	VideoCodec      string
	VideoBitRate    int64
	AudioCodec      string
	AudioBitRate    int64
	TotalBitRate    int64
	FileSize        int64
}

// Prober runs the ffprobe binary.
type Prober struct {
	ffprobePath string
}

// New creates a Prober for the given binary path ("" = "ffprobe").
func New(ffprobePath string) *Prober {
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Prober{ffprobePath: ffprobePath}
}

// DurationSeconds returns the container duration in seconds. Values are
// floored at 0.01 so downstream division never sees zero.
func (p *Prober) DurationSeconds(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	out, err := exec.CommandContext(ctx, p.ffprobePath, args...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return 0, fmt.Errorf("probe of %s failed: %s", path, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return 0, fmt.Errorf("probe of %s failed: %w", path, err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("probe of %s returned no parseable duration", path)
	}
	if seconds < 0.01 {
		seconds = 0.01
	}
	return seconds, nil
}

// Info returns the full metadata snapshot for a file.
func (p *Prober) Info(ctx context.Context, path string) (*MediaInfo, error) {
	args := []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}

	out, err := exec.CommandContext(ctx, p.ffprobePath, args...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("probe of %s failed: %s", path, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("probe of %s failed: %w", path, err)
	}

	return parseOutput(out)
}

// ffprobeOutput mirrors the JSON the prober emits.
type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
	Size     string `json:"size"`
	BitRate  string `json:"bit_rate"`
}

type ffprobeStream struct {
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	RFrameRate string `json:"r_frame_rate"`
	BitRate    string `json:"bit_rate"`
}

func parseOutput(data []byte) (*MediaInfo, error) {
	var out ffprobeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse probe output: %w", err)
	}

	info := &MediaInfo{
		DurationSeconds: parseFloat(out.Format.Duration),
		FileSize:        parseInt64(out.Format.Size),
		TotalBitRate:    parseInt64(out.Format.BitRate),
	}
	if info.DurationSeconds < 0.01 {
		info.DurationSeconds = 0.01
	}

	for _, s := range out.Streams {
		switch s.CodecType {
		case "video":
			// First video stream wins
			if info.VideoCodec == "" {
				info.VideoCodec = s.CodecName
				info.Width = s.Width
				info.Height = s.Height
				info.FrameRate = parseFrameRate(s.RFrameRate)
				info.VideoBitRate = parseInt64(s.BitRate)
			}
		case "audio":
			if info.AudioCodec == "" {
				info.AudioCodec = s.CodecName
				info.AudioBitRate = parseInt64(s.BitRate)
			}
		}
	}

	return info, nil
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseInt64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

// parseFrameRate handles the "30000/1001" rational form.
func parseFrameRate(s string) float64 {
	if s == "" {
		return 0
	}
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}
