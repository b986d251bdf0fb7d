package param

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSpeedFactor(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		factor  float64
		wantErr bool
	}{
		{name: "with suffix", in: "2x", factor: 2},
		{name: "fractional", in: "0.5x", factor: 0.5},
		{name: "bare number", in: "1.25", factor: 1.25},
		{name: "zero", in: "0x", wantErr: true},
		{name: "negative", in: "-1x", wantErr: true},
		{name: "garbage", in: "fast", wantErr: true},
		{name: "infinite", in: "infx", wantErr: true},
		{name: "not a number", in: "nanx", wantErr: true},
		{name: "bare inf", in: "+Inf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSpeedFactor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.factor, got.Value())
		})
	}
}

func TestRotateDegrees(t *testing.T) {
	t.Run("accepts quarter turns", func(t *testing.T) {
		for _, d := range []int{0, 90, 180, 270} {
			got, err := NewRotateDegrees(d)
			require.NoError(t, err)
			assert.Equal(t, d, got.Degrees())
		}
	})

	t.Run("normalizes beyond a full turn", func(t *testing.T) {
		got, err := NewRotateDegrees(450)
		require.NoError(t, err)
		assert.Equal(t, 90, got.Degrees())
	})

	t.Run("normalizes negative", func(t *testing.T) {
		got, err := NewRotateDegrees(-90)
		require.NoError(t, err)
		assert.Equal(t, 270, got.Degrees())
	})

	t.Run("rejects off-axis angles", func(t *testing.T) {
		_, err := NewRotateDegrees(45)
		assert.Error(t, err)
	})

	t.Run("parses from string", func(t *testing.T) {
		got, err := ParseRotateDegrees("180")
		require.NoError(t, err)
		assert.Equal(t, 180, got.Degrees())
	})
}

func TestParseResizeTarget(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		w, h    int
		wantErr bool
	}{
		{name: "720p", in: "720p", w: 1280, h: 720},
		{name: "1080p", in: "1080p", w: 1920, h: 1080},
		{name: "4k alias", in: "4k", w: 3840, h: 2160},
		{name: "explicit dims", in: "640x480", w: 640, h: 480},
		{name: "zero dim", in: "0x480", wantErr: true},
		{name: "unknown preset", in: "8k", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResizeTarget(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.w, got.Width)
			assert.Equal(t, tt.h, got.Height)
		})
	}
}

func TestParseGridLayout(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		g, err := ParseGridLayout("3x2")
		require.NoError(t, err)
		assert.Equal(t, 3, g.Cols)
		assert.Equal(t, 2, g.Rows)
		assert.Equal(t, 6, g.Capacity())
	})

	t.Run("zero dimension", func(t *testing.T) {
		_, err := ParseGridLayout("0x2")
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseGridLayout("grid")
		assert.Error(t, err)
	})
}

func TestParseQualityPreset(t *testing.T) {
	p, err := ParseQualityPreset("high")
	require.NoError(t, err)
	assert.Equal(t, 18, p.CRF())
	assert.Equal(t, 30, p.CRFVP9())

	p, err = ParseQualityPreset("LOW")
	require.NoError(t, err)
	assert.Equal(t, 28, p.CRF())

	_, err = ParseQualityPreset("best")
	assert.Error(t, err)
}

func TestParseVideoCodec(t *testing.T) {
	c, err := ParseVideoCodec("h265")
	require.NoError(t, err)
	assert.Equal(t, "libx265", c.Encoder())

	c, err = ParseVideoCodec("copy")
	require.NoError(t, err)
	assert.Equal(t, "copy", c.Encoder())

	_, err = ParseVideoCodec("av2")
	assert.Error(t, err)
}

func TestParseTransitionType(t *testing.T) {
	tr, err := ParseTransitionType("wipe")
	require.NoError(t, err)
	assert.Equal(t, "wipeleft", tr.XFade())

	_, err = ParseTransitionType("dissolve")
	assert.Error(t, err)
}
