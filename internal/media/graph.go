package media

import (
	"fmt"
	"strings"
)

// graph assembles a filter_complex expression from ordered stages. Each
// stage consumes zero or more labeled streams and produces zero or more.
// Before rendering, the builder checks that every label produced inside the
// graph is consumed exactly once, either by a later stage or by an explicit
// output mapping; this catches malformed graphs before a process is spawned.
type graph struct {
	stages []graphStage
}

type graphStage struct {
	inputs  []string
	expr    string
	outputs []string
}

// add appends a stage. Input labels refer either to demuxer streams
// ("0:v", "1:a") or to labels produced by earlier stages.
func (g *graph) add(inputs []string, expr string, outputs ...string) {
	g.stages = append(g.stages, graphStage{inputs: inputs, expr: expr, outputs: outputs})
}

// render joins the stages with ";" after validating stream consumption.
// mapped lists the labels the caller will hand to -map.
func (g *graph) render(mapped ...string) (string, error) {
	produced := map[string]int{}
	consumed := map[string]int{}

	for _, s := range g.stages {
		for _, in := range s.inputs {
			if isStreamLabel(in) {
				consumed[in]++
			}
		}
		for _, out := range s.outputs {
			produced[out]++
		}
	}
	for _, m := range mapped {
		consumed[m]++
	}

	for label, n := range produced {
		if n > 1 {
			return "", fmt.Errorf("filter graph produces stream %q more than once", label)
		}
		if consumed[label] != 1 {
			return "", fmt.Errorf("filter graph stream %q must be consumed exactly once, got %d", label, consumed[label])
		}
	}

	parts := make([]string, 0, len(g.stages))
	for _, s := range g.stages {
		var b strings.Builder
		for _, in := range s.inputs {
			fmt.Fprintf(&b, "[%s]", in)
		}
		b.WriteString(s.expr)
		for _, out := range s.outputs {
			fmt.Fprintf(&b, "[%s]", out)
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, ";"), nil
}

// isStreamLabel reports whether a label names a graph-internal stream rather
// than a demuxer stream like "0:v" or "1:a:0".
func isStreamLabel(label string) bool {
	return !strings.ContainsRune(label, ':')
}
