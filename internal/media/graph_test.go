package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphRender(t *testing.T) {
	var g graph
	g.add([]string{"0:v"}, "scale=640:-2", "scaled")
	g.add([]string{"scaled"}, "hflip", "v")

	expr, err := g.render("v")
	require.NoError(t, err)
	assert.Equal(t, "[0:v]scale=640:-2[scaled];[scaled]hflip[v]", expr)
}

func TestGraphRenderUnconsumedStream(t *testing.T) {
	var g graph
	g.add([]string{"0:v"}, "split=2", "a", "b")
	g.add([]string{"a"}, "hflip", "v")

	_, err := g.render("v")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"b"`)
}

func TestGraphRenderDoubleConsumedStream(t *testing.T) {
	var g graph
	g.add([]string{"0:v"}, "null", "x")
	g.add([]string{"x"}, "hflip", "v1")
	g.add([]string{"x"}, "vflip", "v2")

	_, err := g.render("v1", "v2")
	assert.Error(t, err)
}

func TestGraphRenderDuplicateProducer(t *testing.T) {
	var g graph
	g.add([]string{"0:v"}, "hflip", "v")
	g.add([]string{"1:v"}, "vflip", "v")

	_, err := g.render("v", "v")
	assert.Error(t, err)
}

func TestGraphDemuxerStreamsReusable(t *testing.T) {
	// "0:v" is a demuxer stream, so reading it twice is legal.
	var g graph
	g.add([]string{"0:v"}, "crop=100:100:0:0", "patch")
	g.add([]string{"0:v", "patch"}, "overlay=0:0", "v")

	_, err := g.render("v")
	assert.NoError(t, err)
}
