package run

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProgress(t *testing.T) {
	line := "frame=  240 fps= 48 q=28.0 size=    1024kB time=00:00:10.05 bitrate= 834.6kbits/s speed=2.01x"

	p, ok := ParseProgress(line)
	require.True(t, ok)
	assert.Equal(t, int64(240), p.Frame)
	assert.Equal(t, 48.0, p.FPS)
	assert.InDelta(t, 10.05, p.Seconds, 0.001)
	assert.Equal(t, 2.01, p.Speed)
	assert.Equal(t, "834.6kbits/s", p.Bitrate)
}

func TestParseProgressLongRunningClock(t *testing.T) {
	p, ok := ParseProgress("frame=999999 fps=30 time=101:02:03.50 speed=1.00x")
	require.True(t, ok)
	assert.InDelta(t, 101*3600+2*60+3.5, p.Seconds, 0.001)
}

func TestParseProgressRejectsPlainLogLines(t *testing.T) {
	for _, line := range []string{
		"Input #0, mov,mp4,m4a,3gp,3g2,mj2, from 'in.mp4':",
		"Stream mapping:",
		"  Duration: 00:01:00.00, start: 0.000000, bitrate: 1000 kb/s",
		"",
	} {
		_, ok := ParseProgress(line)
		assert.False(t, ok, "line %q", line)
	}
}

func TestLooksLikeError(t *testing.T) {
	assert.True(t, looksLikeError("in.mp4: No such file or directory"))
	assert.True(t, looksLikeError("Error while decoding stream #0:0"))
	assert.True(t, looksLikeError("Invalid data found when processing input"))
	assert.False(t, looksLikeError("Press [q] to stop, [?] for help"))
	assert.False(t, looksLikeError("Output #0, mp4, to 'out.mp4':"))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00:30", formatClock(30))
	assert.Equal(t, "01:05:30", formatClock(3930))
}
