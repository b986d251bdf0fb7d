package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocateBitrate(t *testing.T) {
	tests := []struct {
		name     string
		totalBps float64
		video    int64
		audio    int64
	}{
		{name: "generous budget caps audio at 160k", totalBps: 8_000_000, video: 7_840_000, audio: 160_000},
		{name: "mid budget takes the 8% share", totalBps: 1_500_000, video: 1_380_000, audio: 120_000},
		{name: "lean budget floors audio at 96k", totalBps: 400_000, video: 304_000, audio: 96_000},
		{name: "starved budget floors video at 50k", totalBps: 100_000, video: 50_000, audio: 96_000},
		{name: "absurd budget is floored before the split", totalBps: 1_000, video: 50_000, audio: 96_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			video, audio := allocateBitrate(tt.totalBps)
			assert.Equal(t, tt.video, video)
			assert.Equal(t, tt.audio, audio)
			assert.GreaterOrEqual(t, audio, int64(96_000))
			assert.LessOrEqual(t, audio, int64(160_000))
			assert.GreaterOrEqual(t, video, int64(50_000))
		})
	}
}

func TestBitrateForSize(t *testing.T) {
	// 10 MiB over 60s.
	got := bitrateForSize(10*1024*1024, 60)
	assert.InDelta(t, 1_398_101.33, got, 1)
}

func TestKbps(t *testing.T) {
	assert.Equal(t, "1398k", kbps(1_398_101))
	assert.Equal(t, "96k", kbps(96_000))
}
