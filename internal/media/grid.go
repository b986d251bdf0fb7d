package media

import (
	"context"
	"fmt"
	"math"

	"github.com/clipforge/clipforge/internal/param"
)

const (
	gridCellW = 320
	gridCellH = 240
)

// gridCellFilter letterboxes a source into one fixed cell.
var gridCellFilter = fmt.Sprintf(
	"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
	gridCellW, gridCellH, gridCellW, gridCellH)

// gridCompose stacks the given stream labels into a cols x rows mosaic and
// returns the final label. Rows are built by horizontal stacking; multiple
// rows stack vertically; a partial last row is padded to full width so the
// stack stays rectangular. The closing rescale pins the width to
// cols*cellWidth, which is even and divisible by cols as 4:2:0 output
// requires.
func gridCompose(g *graph, labels []string, layout param.GridLayout) (string, error) {
	n := len(labels)
	if n < 1 {
		return "", fmt.Errorf("grid composition needs at least one input stream")
	}
	if n > layout.Capacity() {
		return "", fmt.Errorf("layout %s holds %d cells but %d streams were given", layout, layout.Capacity(), n)
	}

	fullW := layout.Cols * gridCellW

	for i, label := range labels {
		g.add([]string{label}, gridCellFilter, fmt.Sprintf("cell%d", i))
	}

	numRows := (n + layout.Cols - 1) / layout.Cols
	rowLabels := make([]string, 0, numRows)
	for r := 0; r < numRows; r++ {
		lo := r * layout.Cols
		hi := lo + layout.Cols
		if hi > n {
			hi = n
		}
		cells := make([]string, 0, hi-lo)
		for i := lo; i < hi; i++ {
			cells = append(cells, fmt.Sprintf("cell%d", i))
		}

		rowLabel := cells[0]
		if len(cells) > 1 {
			rowLabel = fmt.Sprintf("row%d", r)
			g.add(cells, fmt.Sprintf("hstack=inputs=%d", len(cells)), rowLabel)
		}
		if len(cells) < layout.Cols && numRows > 1 {
			padded := fmt.Sprintf("row%dp", r)
			g.add([]string{rowLabel}, fmt.Sprintf("pad=%d:%d:0:0", fullW, gridCellH), padded)
			rowLabel = padded
		}
		rowLabels = append(rowLabels, rowLabel)
	}

	composed := rowLabels[0]
	if len(rowLabels) > 1 {
		composed = "stacked"
		g.add(rowLabels, fmt.Sprintf("vstack=inputs=%d", len(rowLabels)), composed)
	}

	g.add([]string{composed}, fmt.Sprintf("scale=%d:-2", fullW), "v")
	return "v", nil
}

// compileMontage composes several sources into one mosaic frame.
func (c *Compiler) compileMontage(ctx context.Context, req Request) (*Plan, error) {
	layout, err := param.ParseGridLayout(req.GetOr("layout", "2x2"))
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(req.Inputs))
	for i := range req.Inputs {
		labels[i] = fmt.Sprintf("%d:v", i)
	}

	var g graph
	final, err := gridCompose(&g, labels, layout)
	if err != nil {
		return nil, err
	}
	filter, err := g.render(final)
	if err != nil {
		return nil, err
	}

	args := c.base()
	for _, in := range req.Inputs {
		args = append(args, "-i", in)
	}
	args = append(args,
		"-filter_complex", filter,
		"-map", "["+final+"]",
		"-an",
		req.Output,
	)
	note := fmt.Sprintf("%d sources in a %s mosaic", len(req.Inputs), layout)
	return c.single(args, note, req.Output), nil
}

// compileTile repeats one source across every cell via a splitter stage.
func (c *Compiler) compileTile(ctx context.Context, req Request) (*Plan, error) {
	layout, err := param.ParseGridLayout(req.GetOr("layout", "2x2"))
	if err != nil {
		return nil, err
	}
	n := layout.Capacity()

	var g graph
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("t%d", i)
	}
	g.add([]string{"0:v"}, fmt.Sprintf("split=%d", n), labels...)

	final, err := gridCompose(&g, labels, layout)
	if err != nil {
		return nil, err
	}
	filter, err := g.render(final)
	if err != nil {
		return nil, err
	}

	args := append(c.base(),
		"-i", req.Input(),
		"-filter_complex", filter,
		"-map", "["+final+"]",
		"-an",
		req.Output,
	)
	return c.single(args, fmt.Sprintf("same source tiled %s", layout), req.Output), nil
}

// compileSyncCameras arranges N camera angles in a near-square grid.
func (c *Compiler) compileSyncCameras(ctx context.Context, req Request) (*Plan, error) {
	n := len(req.Inputs)
	if n < 2 {
		return nil, fmt.Errorf("operation %q requires at least two camera inputs", req.Op)
	}

	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	layout := param.GridLayout{Cols: cols, Rows: rows}

	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("%d:v", i)
	}

	var g graph
	final, err := gridCompose(&g, labels, layout)
	if err != nil {
		return nil, err
	}
	filter, err := g.render(final)
	if err != nil {
		return nil, err
	}

	args := c.base()
	for _, in := range req.Inputs {
		args = append(args, "-i", in)
	}
	args = append(args,
		"-filter_complex", filter,
		"-map", "["+final+"]",
		"-map", "0:a?",
		"-c:a", "copy",
		req.Output,
	)
	note := fmt.Sprintf("%d cameras in a %s grid, audio from camera 1", n, layout)
	return c.single(args, note, req.Output), nil
}
