package param

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		seconds int
		ffmpeg  string
		wantErr bool
	}{
		{name: "bare seconds", in: "90", seconds: 90, ffmpeg: "00:01:30"},
		{name: "minutes and seconds", in: "1:30", seconds: 90, ffmpeg: "00:01:30"},
		{name: "full timestamp", in: "1:05:30", seconds: 3930, ffmpeg: "01:05:30"},
		{name: "zero", in: "0", seconds: 0, ffmpeg: "00:00:00"},
		{name: "trim start", in: "0:30", seconds: 30, ffmpeg: "00:00:30"},
		{name: "trim end", in: "1:00", seconds: 60, ffmpeg: "00:01:00"},
		{name: "seconds field too large", in: "1:75", wantErr: true},
		{name: "minutes field too large", in: "1:75:00", wantErr: true},
		{name: "garbage", in: "abc", wantErr: true},
		{name: "negative", in: "-5", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTime(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.seconds, got.Seconds())
			assert.Equal(t, tt.ffmpeg, got.FFmpeg())
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		seconds float64
		wantErr bool
	}{
		{name: "bare number", in: "5", seconds: 5},
		{name: "with suffix", in: "2.5s", seconds: 2.5},
		{name: "zero", in: "0", seconds: 0},
		{name: "negative", in: "-1", wantErr: true},
		{name: "garbage", in: "fast", wantErr: true},
		{name: "infinite", in: "inf", wantErr: true},
		{name: "not a number", in: "nan", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.seconds, got.Seconds())
		})
	}
}
