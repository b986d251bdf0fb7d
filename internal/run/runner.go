// Package run executes compiled invocation plans sequentially against the
// real encoder binaries, with dry-run and explain modes that only print.
package run

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"github.com/clipforge/clipforge/internal/media"
)

// Mode selects what Run does with a plan.
type Mode int

const (
	// Live spawns each invocation and streams progress.
	Live Mode = iota
	// DryRun prints the exact command lines without spawning anything.
	DryRun
	// Explain prints command lines plus the human note for each step.
	Explain
)

// ParseMode maps a mode flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "live":
		return Live, nil
	case "dry-run":
		return DryRun, nil
	case "explain":
		return Explain, nil
	}
	return 0, fmt.Errorf("unknown run mode %q", s)
}

// StepError reports which invocation of a plan failed and how.
type StepError struct {
	Step     int
	Total    int
	Command  string
	ExitCode int
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d/%d failed (exit %d): %s", e.Step+1, e.Total, e.ExitCode, e.Command)
}

func (e *StepError) Unwrap() error { return e.Err }

// Runner executes plans. Invocations run strictly in order and the first
// failure aborts the remainder, since later steps read earlier outputs.
type Runner struct {
	mode     Mode
	logger   *zap.Logger
	out      io.Writer
	interval time.Duration
}

// Option adjusts a Runner.
type Option func(*Runner)

// WithOutput redirects the progress display, used by tests.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.out = w }
}

// WithInterval overrides the progress redraw cadence.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) { r.interval = d }
}

// NewRunner creates a Runner for the given mode.
func NewRunner(mode Mode, logger *zap.Logger, opts ...Option) *Runner {
	r := &Runner{
		mode:     mode,
		logger:   logger,
		out:      os.Stdout,
		interval: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the plan under the Runner's mode.
func (r *Runner) Run(ctx context.Context, plan *media.Plan) error {
	total := len(plan.Invocations)

	for i, inv := range plan.Invocations {
		switch r.mode {
		case DryRun:
			fmt.Fprintln(r.out, inv.CommandLine())
			continue
		case Explain:
			fmt.Fprintf(r.out, "step %d/%d: %s\n", i+1, total, inv.Note)
			fmt.Fprintf(r.out, "  %s\n", inv.CommandLine())
			continue
		}

		r.logger.Info("running invocation",
			zap.Int("step", i+1),
			zap.Int("total", total),
			zap.String("program", inv.Program),
		)

		if err := r.execute(ctx, inv); err != nil {
			exitCode := -1
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				exitCode = exitErr.ExitCode()
			}
			return &StepError{
				Step:     i,
				Total:    total,
				Command:  inv.CommandLine(),
				ExitCode: exitCode,
				Err:      err,
			}
		}
	}

	if r.mode == Live && len(plan.Outputs) > 0 {
		for _, out := range plan.Outputs {
			r.logger.Info("wrote output", zap.String("path", out))
		}
	}
	return nil
}

// execute spawns one invocation and relays its status stream until exit.
func (r *Runner) execute(ctx context.Context, inv media.Invocation) error {
	cmd := exec.CommandContext(ctx, inv.Program, inv.Args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("attach status stream: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", inv.Program, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.relayStatus(stderr)
	}()

	<-done
	if err := cmd.Wait(); err != nil {
		return err
	}
	return nil
}

// relayStatus reads the status stream, redrawing a single progress line at
// the configured cadence and surfacing diagnostic lines immediately. The
// encoder terminates status updates with carriage returns, so the scanner
// splits on both CR and LF.
func (r *Runner) relayStatus(stream io.Reader) {
	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(scanCRLF)

	lastDraw := time.Time{}
	drew := false

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		if p, ok := ParseProgress(line); ok {
			if time.Since(lastDraw) < r.interval {
				continue
			}
			lastDraw = time.Now()
			drew = true
			fmt.Fprintf(r.out, "\r\x1b[Kframe %d  fps %.0f  time %s  speed %.2fx",
				p.Frame, p.FPS, formatClock(p.Seconds), p.Speed)
			continue
		}

		if looksLikeError(line) {
			if drew {
				fmt.Fprint(r.out, "\r\x1b[K")
				drew = false
			}
			fmt.Fprintln(r.out, line)
		}
	}

	if drew {
		fmt.Fprintln(r.out)
	}
}

// scanCRLF splits on either carriage return or newline.
func scanCRLF(data []byte, atEOF bool) (advance int, token []byte, err error) {
	for i, b := range data {
		if b == '\r' || b == '\n' {
			return i + 1, data[:i], nil
		}
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func formatClock(seconds float64) string {
	s := int(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}
