package param

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWatermarkPosition(t *testing.T) {
	tests := []struct {
		in      string
		overlay string
	}{
		{in: "top-left", overlay: "10:10"},
		{in: "top-right", overlay: "W-w-10:10"},
		{in: "bottom-left", overlay: "10:H-h-10"},
		{in: "bottom-right", overlay: "W-w-10:H-h-10"},
		{in: "center", overlay: "(W-w)/2:(H-h)/2"},
		{in: "100,50", overlay: "100:50"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWatermarkPosition(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.overlay, got.Overlay())
		})
	}

	_, err := ParseWatermarkPosition("middle-ish")
	assert.Error(t, err)
}

func TestParseWatermarkSize(t *testing.T) {
	t.Run("percent suffix", func(t *testing.T) {
		s, err := ParseWatermarkSize("10%")
		require.NoError(t, err)
		assert.Equal(t, WatermarkPercent, s.Kind)
		assert.InDelta(t, 0.10, s.Fraction, 1e-9)
	})

	t.Run("bare decimal in unit range is a fraction", func(t *testing.T) {
		s, err := ParseWatermarkSize("0.25")
		require.NoError(t, err)
		assert.Equal(t, WatermarkPercent, s.Kind)
		assert.InDelta(t, 0.25, s.Fraction, 1e-9)
	})

	t.Run("one point zero means full width", func(t *testing.T) {
		s, err := ParseWatermarkSize("1.0")
		require.NoError(t, err)
		assert.Equal(t, WatermarkPercent, s.Kind)
		assert.InDelta(t, 1.0, s.Fraction, 1e-9)
	})

	t.Run("bare integer is pixels", func(t *testing.T) {
		s, err := ParseWatermarkSize("200")
		require.NoError(t, err)
		assert.Equal(t, WatermarkPixels, s.Kind)
		assert.Equal(t, 200, s.Width)
		assert.Zero(t, s.Height)
	})

	t.Run("explicit box", func(t *testing.T) {
		s, err := ParseWatermarkSize("320x240")
		require.NoError(t, err)
		assert.Equal(t, WatermarkPixels, s.Kind)
		assert.Equal(t, 320, s.Width)
		assert.Equal(t, 240, s.Height)
	})

	t.Run("rejects out-of-range percent", func(t *testing.T) {
		_, err := ParseWatermarkSize("150%")
		assert.Error(t, err)
	})

	t.Run("rejects non-finite values", func(t *testing.T) {
		for _, raw := range []string{"nan", "inf", "nan%", "inf%"} {
			_, err := ParseWatermarkSize(raw)
			assert.Error(t, err, raw)
		}
	})
}

func TestParseOpacity(t *testing.T) {
	o, err := ParseOpacity("0.7")
	require.NoError(t, err)
	assert.InDelta(t, 0.7, o.Value(), 1e-9)

	_, err = ParseOpacity("1.5")
	assert.Error(t, err)

	_, err = ParseOpacity("-0.1")
	assert.Error(t, err)

	for _, raw := range []string{"nan", "inf", "-inf"} {
		_, err = ParseOpacity(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseRegion(t *testing.T) {
	r, err := ParseRegion("10,20,300,200")
	require.NoError(t, err)
	assert.Equal(t, Region{X: 10, Y: 20, Width: 300, Height: 200}, r)

	_, err = ParseRegion("10,20,0,200")
	assert.Error(t, err)

	_, err = ParseRegion("10,20,300")
	assert.Error(t, err)
}

func TestParseChromaKeyColor(t *testing.T) {
	c, err := ParseChromaKeyColor("green")
	require.NoError(t, err)
	assert.Equal(t, "0x00FF00", c.FFmpeg())

	c, err = ParseChromaKeyColor("#1a2b3c")
	require.NoError(t, err)
	assert.Equal(t, "0x1A2B3C", c.FFmpeg())

	_, err = ParseChromaKeyColor("chartreuse")
	assert.Error(t, err)
}

func TestParseTextPosition(t *testing.T) {
	p, err := ParseTextPosition("bottom-right")
	require.NoError(t, err)
	assert.Equal(t, "w-text_w-10", p.X())
	assert.Equal(t, "h-text_h-10", p.Y())

	p, err = ParseTextPosition("center")
	require.NoError(t, err)
	assert.Equal(t, "(w-text_w)/2", p.X())
	assert.Equal(t, "(h-text_h)/2", p.Y())

	p, err = ParseTextPosition("40,60")
	require.NoError(t, err)
	assert.Equal(t, "40", p.X())
	assert.Equal(t, "60", p.Y())
}

func TestParseTextColor(t *testing.T) {
	c, err := ParseTextColor("yellow")
	require.NoError(t, err)
	assert.Equal(t, "0xFFFF00", c.FFmpeg())

	c, err = ParseTextColor("#ff8800")
	require.NoError(t, err)
	assert.Equal(t, "0xFF8800", c.FFmpeg())

	_, err = ParseTextColor("mauve")
	assert.Error(t, err)
}

func TestParseMetadataField(t *testing.T) {
	for _, raw := range []string{"title", "Author", " copyright ", "comment", "description"} {
		f, err := ParseMetadataField(raw)
		require.NoError(t, err, raw)
		assert.NotEmpty(t, f)
	}

	_, err := ParseMetadataField("rating")
	assert.Error(t, err)
}
