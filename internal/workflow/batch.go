package workflow

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clipforge/clipforge/internal/media"
	"github.com/clipforge/clipforge/internal/probe"
)

// Condition filters batch candidates by probed properties. Zero fields
// mean "no constraint".
type Condition struct {
	MinDurationSeconds float64
	MaxDurationSeconds float64
	MinWidth           int
	MinHeight          int
}

func (c Condition) empty() bool {
	return c.MinDurationSeconds == 0 && c.MaxDurationSeconds == 0 &&
		c.MinWidth == 0 && c.MinHeight == 0
}

// matches probes the file and checks it against the condition.
func (c Condition) matches(ctx context.Context, prober probe.Facade, path string) (bool, error) {
	if c.empty() {
		return true, nil
	}
	info, err := prober.Info(ctx, path)
	if err != nil {
		return false, err
	}
	if c.MinDurationSeconds > 0 && info.DurationSeconds < c.MinDurationSeconds {
		return false, nil
	}
	if c.MaxDurationSeconds > 0 && info.DurationSeconds > c.MaxDurationSeconds {
		return false, nil
	}
	if c.MinWidth > 0 && info.Width < c.MinWidth {
		return false, nil
	}
	if c.MinHeight > 0 && info.Height < c.MinHeight {
		return false, nil
	}
	return true, nil
}

// BatchJob applies one operation to every file matching a glob pattern.
type BatchJob struct {
	Pattern   string
	Op        string
	Params    map[string]string
	OutputDir string
	// OutputExt overrides the output container; empty keeps each input's.
	OutputExt string
	// ContinueOnError keeps going past per-file failures and reports them
	// together at the end.
	ContinueOnError bool
	Condition       Condition
}

// BatchResult describes one processed file.
type BatchResult struct {
	ID     string
	Input  string
	Output string
	Err    error
}

// RunBatch expands the pattern, filters by condition, then compiles and
// runs the operation per file.
func (e *Engine) RunBatch(ctx context.Context, prober probe.Facade, job BatchJob) ([]BatchResult, error) {
	paths, err := filepath.Glob(job.Pattern)
	if err != nil {
		return nil, fmt.Errorf("bad glob pattern %q: %w", job.Pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files match %q", job.Pattern)
	}

	var results []BatchResult
	var failed int

	for _, in := range paths {
		if ok, err := job.Condition.matches(ctx, prober, in); err != nil {
			e.Logger.Warn("skipping unprobeable file", zap.String("path", in), zap.Error(err))
			continue
		} else if !ok {
			e.Logger.Debug("condition filtered out file", zap.String("path", in))
			continue
		}

		res := BatchResult{
			ID:     uuid.NewString(),
			Input:  in,
			Output: batchOutput(job, in),
		}

		plan, err := e.Compiler.Compile(ctx, media.Request{
			Op:     job.Op,
			Inputs: []string{in},
			Output: res.Output,
			Params: job.Params,
		})
		if err == nil {
			err = e.Runner.Run(ctx, plan)
		}
		res.Err = err
		results = append(results, res)

		if err != nil {
			failed++
			e.Logger.Error("batch item failed",
				zap.String("job", res.ID),
				zap.String("input", in),
				zap.Error(err),
			)
			if !job.ContinueOnError {
				return results, fmt.Errorf("batch aborted at %s: %w", in, err)
			}
		}
	}

	if failed > 0 {
		return results, fmt.Errorf("%d of %d batch items failed", failed, len(results))
	}
	return results, nil
}

// batchOutput derives the per-file output path from the job settings.
func batchOutput(job BatchJob, input string) string {
	base := filepath.Base(input)
	if job.OutputExt != "" {
		base = strings.TrimSuffix(base, filepath.Ext(base)) + "." + job.OutputExt
	}
	dir := job.OutputDir
	if dir == "" {
		dir = filepath.Dir(input)
		base = "out_" + base
	}
	return filepath.Join(dir, base)
}
