package media

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipforge/clipforge/internal/param"
)

func mustLayout(t *testing.T, s string) param.GridLayout {
	t.Helper()
	layout, err := param.ParseGridLayout(s)
	require.NoError(t, err)
	return layout
}

func TestGridComposeFullGrid(t *testing.T) {
	var g graph
	labels := []string{"0:v", "1:v", "2:v", "3:v"}

	final, err := gridCompose(&g, labels, mustLayout(t, "2x2"))
	require.NoError(t, err)

	expr, err := g.render(final)
	require.NoError(t, err)

	assert.Contains(t, expr, "hstack=inputs=2")
	assert.Contains(t, expr, "vstack=inputs=2")
	// 2 columns of 320px cells, even and divisible by the column count.
	assert.Contains(t, expr, "scale=640:-2")
	assert.NotContains(t, expr, "pad=640")
}

func TestGridComposePartialLastRowPadded(t *testing.T) {
	var g graph
	labels := []string{"0:v", "1:v", "2:v", "3:v", "4:v"}

	final, err := gridCompose(&g, labels, mustLayout(t, "3x2"))
	require.NoError(t, err)

	expr, err := g.render(final)
	require.NoError(t, err)

	// 5 streams into 3 columns leaves a 2-cell last row, padded to 960px.
	assert.Contains(t, expr, "pad=960:240:0:0")
	assert.Contains(t, expr, "scale=960:-2")
}

func TestGridComposeSingleStream(t *testing.T) {
	var g graph
	final, err := gridCompose(&g, []string{"0:v"}, mustLayout(t, "1x1"))
	require.NoError(t, err)

	expr, err := g.render(final)
	require.NoError(t, err)
	assert.NotContains(t, expr, "stack")
	assert.Contains(t, expr, "scale=320:-2")
}

func TestGridComposeOverCapacity(t *testing.T) {
	var g graph
	labels := []string{"0:v", "1:v", "2:v", "3:v", "4:v"}
	_, err := gridCompose(&g, labels, mustLayout(t, "2x2"))
	assert.Error(t, err)
}

func TestGridWidthProperty(t *testing.T) {
	for cols := 1; cols <= 5; cols++ {
		for rows := 1; rows <= 4; rows++ {
			layout := mustLayout(t, fmt.Sprintf("%dx%d", cols, rows))
			var g graph
			labels := make([]string, layout.Capacity())
			for i := range labels {
				labels[i] = fmt.Sprintf("%d:v", i)
			}

			final, err := gridCompose(&g, labels, layout)
			require.NoError(t, err)
			expr, err := g.render(final)
			require.NoError(t, err)

			width := cols * gridCellW
			assert.Zero(t, width%2)
			assert.Zero(t, width%cols)
			assert.Contains(t, expr, fmt.Sprintf("scale=%d:-2", width))
		}
	}
}

func TestCompileMontage(t *testing.T) {
	c := newTestCompiler(t, nil)

	plan, err := c.Compile(context.Background(), Request{
		Op:     "montage",
		Inputs: []string{"a.mp4", "b.mp4", "c.mp4", "d.mp4"},
		Output: "wall.mp4",
		Params: map[string]string{"layout": "2x2"},
	})
	require.NoError(t, err)
	require.Len(t, plan.Invocations, 1)

	joined := strings.Join(plan.Invocations[0].Args, " ")
	assert.Equal(t, 4, strings.Count(joined, "-i "))
	assert.Contains(t, joined, "-an")
}

func TestCompileMontageTooManyInputs(t *testing.T) {
	c := newTestCompiler(t, nil)

	_, err := c.Compile(context.Background(), Request{
		Op:     "montage",
		Inputs: []string{"a.mp4", "b.mp4", "c.mp4", "d.mp4", "e.mp4"},
		Output: "wall.mp4",
		Params: map[string]string{"layout": "2x2"},
	})
	assert.Error(t, err)
}
