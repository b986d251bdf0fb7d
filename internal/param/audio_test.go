package param

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVolumeAdjustment(t *testing.T) {
	t.Run("percentage", func(t *testing.T) {
		v, err := ParseVolumeAdjustment("50%")
		require.NoError(t, err)
		assert.InDelta(t, 0.5, v.Factor(), 1e-9)
	})

	t.Run("positive decibels", func(t *testing.T) {
		v, err := ParseVolumeAdjustment("+6dB")
		require.NoError(t, err)
		assert.InDelta(t, math.Pow(10, 6.0/20), v.Factor(), 1e-9)
	})

	t.Run("negative decibels", func(t *testing.T) {
		v, err := ParseVolumeAdjustment("-6db")
		require.NoError(t, err)
		assert.InDelta(t, math.Pow(10, -6.0/20), v.Factor(), 1e-9)
	})

	t.Run("rejects over 100 percent", func(t *testing.T) {
		_, err := ParseVolumeAdjustment("150%")
		assert.Error(t, err)
	})

	t.Run("rejects bare number", func(t *testing.T) {
		_, err := ParseVolumeAdjustment("0.5")
		assert.Error(t, err)
	})

	t.Run("rejects non-finite percentage", func(t *testing.T) {
		for _, raw := range []string{"nan%", "inf%"} {
			_, err := ParseVolumeAdjustment(raw)
			assert.Error(t, err, raw)
		}
	})
}

func TestParseAudioSyncDirection(t *testing.T) {
	d, err := ParseAudioSyncDirection("delay")
	require.NoError(t, err)
	assert.Equal(t, SyncDelay, d)

	d, err = ParseAudioSyncDirection("Advance")
	require.NoError(t, err)
	assert.Equal(t, SyncAdvance, d)

	_, err = ParseAudioSyncDirection("backwards")
	assert.Error(t, err)
}

func TestParseSocialPlatform(t *testing.T) {
	p, err := ParseSocialPlatform("tiktok")
	require.NoError(t, err)
	assert.Equal(t, 1080, p.Width)
	assert.Equal(t, 1920, p.Height)
	assert.Equal(t, 4000, p.VideoKbps)

	_, err = ParseSocialPlatform("myspace")
	assert.Error(t, err)
}
