package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/clipforge/clipforge/internal/media"
	"github.com/clipforge/clipforge/internal/probe"
	"github.com/clipforge/clipforge/internal/run"
	"github.com/clipforge/clipforge/internal/shared/config"
	"github.com/clipforge/clipforge/internal/shared/logging"
	"github.com/clipforge/clipforge/internal/workflow"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// paramFlags collects repeated -p key=value pairs.
type paramFlags map[string]string

func (p paramFlags) String() string { return "" }

func (p paramFlags) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("parameter %q must be key=value", s)
	}
	p[key] = value
	return nil
}

// parseCommandLine parses argv, accepting flags both before and after the
// positional operation and inputs. Stdlib flag stops at the first
// non-flag, so the remainder is handed back to the parser until argv is
// exhausted.
func parseCommandLine(fs *flag.FlagSet, argv []string) ([]string, error) {
	var positionals []string
	for {
		if err := fs.Parse(argv); err != nil {
			return nil, err
		}
		rest := fs.Args()
		i := 0
		for i < len(rest) && !strings.HasPrefix(rest[i], "-") {
			i++
		}
		positionals = append(positionals, rest[:i]...)
		if i == len(rest) {
			return positionals, nil
		}
		argv = rest[i:]
	}
}

func main() {
	params := paramFlags{}
	var (
		output       = flag.String("o", "", "output path")
		mode         = flag.String("mode", "live", "run mode: live, dry-run or explain")
		workflowPath = flag.String("workflow", "", "YAML workflow file to run instead of a single operation")
		templatePath = flag.String("templates", "", "YAML template file; use -template to pick one")
		templateName = flag.String("template", "", "template name from the template file")
		batchPattern = flag.String("batch", "", "glob pattern; run the operation on every match")
		batchDir     = flag.String("batch-out", "", "output directory for batch results")
		keepGoing    = flag.Bool("continue-on-error", false, "in batch mode, keep going past failures")
		minDuration  = flag.Float64("min-duration", 0, "batch filter: minimum duration in seconds")
		maxDuration  = flag.Float64("max-duration", 0, "batch filter: maximum duration in seconds")
		minWidth     = flag.Int("min-width", 0, "batch filter: minimum video width")
		watchDir     = flag.String("watch", "", "directory to watch; run the operation on new media files")
	)
	flag.Var(params, "p", "operation parameter key=value (repeatable)")
	flag.Usage = usage
	args, err := parseCommandLine(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse arguments: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	runMode, err := run.ParseMode(*mode)
	if err != nil {
		logger.Fatal("Bad mode flag", zap.Error(err))
	}

	prober := probe.New(cfg.FFprobePath)
	compiler := media.NewCompiler(prober, media.CompilerConfig{
		FFmpegPath:  cfg.FFmpegPath,
		FFprobePath: cfg.FFprobePath,
		Overwrite:   cfg.Overwrite,
		WorkDir:     cfg.WorkDir,
	})
	runner := run.NewRunner(runMode, logger)
	engine := &workflow.Engine{
		Compiler: compiler,
		Runner:   runner,
		Logger:   logger,
		WorkDir:  cfg.WorkDir,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case *watchDir != "":
		err = runWatch(ctx, engine, args, params, *watchDir, *output, cfg)
	case *workflowPath != "":
		err = runWorkflow(ctx, engine, args, *workflowPath, *output)
	case *batchPattern != "":
		err = runBatch(ctx, engine, prober, args, params, batchOptions{
			pattern:     *batchPattern,
			outDir:      *batchDir,
			keepGoing:   *keepGoing,
			minDuration: *minDuration,
			maxDuration: *maxDuration,
			minWidth:    *minWidth,
		})
	default:
		err = runSingle(ctx, compiler, runner, args, params, *templatePath, *templateName, *output, cfg)
	}
	if err != nil {
		logger.Fatal("Run failed", zap.Error(err))
	}
}

// runSingle handles the common path: one operation, one set of inputs.
func runSingle(ctx context.Context, compiler *media.Compiler, runner *run.Runner,
	args []string, params paramFlags, templatePath, templateName, output string, cfg *config.Config) error {

	if len(args) < 1 {
		flag.Usage()
		return fmt.Errorf("no operation given")
	}
	op, inputs := args[0], args[1:]
	merged := map[string]string(params)

	if templateName != "" {
		if templatePath == "" {
			return fmt.Errorf("-template requires -templates")
		}
		templates, err := workflow.LoadTemplates(templatePath)
		if err != nil {
			return err
		}
		tpl, ok := templates[templateName]
		if !ok {
			return fmt.Errorf("no template named %q in %s", templateName, templatePath)
		}
		op, merged = tpl.Apply(merged)
	}

	if output == "" && len(inputs) > 0 {
		output = filepath.Join(cfg.OutputDir, "out_"+filepath.Base(inputs[0]))
	}

	plan, err := compiler.Compile(ctx, media.Request{
		Op:     op,
		Inputs: inputs,
		Output: output,
		Params: merged,
	})
	if err != nil {
		return err
	}
	return runner.Run(ctx, plan)
}

func runWorkflow(ctx context.Context, engine *workflow.Engine, args []string, path, output string) error {
	if len(args) != 1 {
		return fmt.Errorf("-workflow takes exactly one input file")
	}
	if output == "" {
		return fmt.Errorf("-workflow requires -o")
	}
	wf, err := workflow.LoadWorkflow(path)
	if err != nil {
		return err
	}
	return engine.Execute(ctx, wf, args[0], output)
}

type batchOptions struct {
	pattern     string
	outDir      string
	keepGoing   bool
	minDuration float64
	maxDuration float64
	minWidth    int
}

func runBatch(ctx context.Context, engine *workflow.Engine, prober probe.Facade,
	args []string, params paramFlags, opts batchOptions) error {

	if len(args) != 1 {
		return fmt.Errorf("-batch takes exactly one operation")
	}
	_, err := engine.RunBatch(ctx, prober, workflow.BatchJob{
		Pattern:         opts.pattern,
		Op:              args[0],
		Params:          params,
		OutputDir:       opts.outDir,
		ContinueOnError: opts.keepGoing,
		Condition: workflow.Condition{
			MinDurationSeconds: opts.minDuration,
			MaxDurationSeconds: opts.maxDuration,
			MinWidth:           opts.minWidth,
		},
	})
	return err
}

func runWatch(ctx context.Context, engine *workflow.Engine, args []string, params paramFlags,
	dir, output string, cfg *config.Config) error {

	if len(args) != 1 {
		return fmt.Errorf("-watch takes exactly one operation")
	}
	outDir := output
	if outDir == "" {
		outDir = cfg.OutputDir
	}
	w := &workflow.Watcher{
		Engine:         engine,
		Op:             args[0],
		Params:         params,
		OutputDir:      outDir,
		SettleInterval: time.Duration(cfg.WatchSettleMillis) * time.Millisecond,
	}
	return w.Watch(ctx, dir)
}

func usage() {
	fmt.Fprintf(os.Stderr, `clipforge %s (built %s)

Usage:
  clipforge [flags] <operation> <input>... -o <output>
  clipforge -workflow flow.yaml <input> -o <output>
  clipforge -batch '*.mov' [filters] <operation>
  clipforge -watch <dir> <operation>

Examples:
  clipforge trim in.mp4 -o out.mp4 -p start=0:30 -p end=1:00
  clipforge gif in.mp4 -o out.gif -p fps=12 -p width=360
  clipforge compress in.mp4 -o small.mp4 -p size=10mb -mode explain
  clipforge -batch 'raw/*.mov' -batch-out done -min-duration 5 convert

Flags:
`, Version, BuildTime)
	flag.PrintDefaults()
}
