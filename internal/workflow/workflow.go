// Package workflow layers multi-step orchestration on top of the compiler
// and runner: YAML workflow files, reusable templates, batch globbing and
// a watch-folder mode.
package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/clipforge/clipforge/internal/media"
	"github.com/clipforge/clipforge/internal/run"
)

// Step is one named operation inside a workflow file.
type Step struct {
	Name   string            `yaml:"name"`
	Op     string            `yaml:"op"`
	Params map[string]string `yaml:"params"`
	// Ext overrides the intermediate container for this step's output,
	// needed when a step changes media kind (e.g. extract-audio).
	Ext string `yaml:"ext"`
}

// Workflow is an ordered list of steps applied to a single input. Each
// step consumes the previous step's output.
type Workflow struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// ParseWorkflow decodes a workflow document.
func ParseWorkflow(data []byte) (*Workflow, error) {
	var wf Workflow
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("parse workflow: %w", err)
	}
	if len(wf.Steps) == 0 {
		return nil, fmt.Errorf("workflow %q has no steps", wf.Name)
	}
	for i, s := range wf.Steps {
		if s.Op == "" {
			return nil, fmt.Errorf("workflow %q step %d has no operation", wf.Name, i+1)
		}
	}
	return &wf, nil
}

// LoadWorkflow reads and parses a workflow file.
func LoadWorkflow(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow: %w", err)
	}
	return ParseWorkflow(data)
}

// stepOutput names the intermediate file a step writes.
func stepOutput(workDir string, step Step, finalOutput string, last bool) string {
	if last {
		return finalOutput
	}
	ext := step.Ext
	if ext == "" {
		ext = "mp4"
	}
	return filepath.Join(workDir, fmt.Sprintf("wfstep-%s.%s", uuid.NewString(), ext))
}

// Engine compiles and runs workflow steps.
type Engine struct {
	Compiler *media.Compiler
	Runner   *run.Runner
	Logger   *zap.Logger
	WorkDir  string
}

// Execute runs every step of the workflow in order, chaining outputs.
// Intermediates are removed once the chain completes.
func (e *Engine) Execute(ctx context.Context, wf *Workflow, input, output string) error {
	workDir := e.WorkDir
	if workDir == "" {
		workDir = os.TempDir()
	}

	current := input
	var intermediates []string
	defer func() {
		for _, p := range intermediates {
			os.Remove(p)
		}
	}()

	for i, step := range wf.Steps {
		last := i == len(wf.Steps)-1
		out := stepOutput(workDir, step, output, last)
		if !last {
			intermediates = append(intermediates, out)
		}

		e.Logger.Info("workflow step",
			zap.String("workflow", wf.Name),
			zap.Int("step", i+1),
			zap.Int("total", len(wf.Steps)),
			zap.String("op", step.Op),
		)

		plan, err := e.Compiler.Compile(ctx, media.Request{
			Op:     step.Op,
			Inputs: []string{current},
			Output: out,
			Params: step.Params,
		})
		if err != nil {
			return fmt.Errorf("workflow %q step %d (%s): %w", wf.Name, i+1, step.Op, err)
		}
		if err := e.Runner.Run(ctx, plan); err != nil {
			return fmt.Errorf("workflow %q step %d (%s): %w", wf.Name, i+1, step.Op, err)
		}
		current = out
	}
	return nil
}
