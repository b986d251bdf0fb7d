package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/clipforge/clipforge/internal/media"
)

// mediaExtensions lists the containers the watcher reacts to.
var mediaExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".mkv": true, ".webm": true, ".avi": true,
	".wmv": true, ".mp3": true, ".wav": true, ".flac": true, ".m4a": true,
}

// tracker deduplicates in-flight paths. A path is claimed while queued or
// processing and released afterward, so a file dropped into the folder a
// second time is picked up again.
type tracker struct {
	mu     sync.Mutex
	active map[string]bool
}

func newTracker() *tracker {
	return &tracker{active: map[string]bool{}}
}

// claim reports whether the path was newly claimed.
func (t *tracker) claim(path string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active[path] {
		return false
	}
	t.active[path] = true
	return true
}

func (t *tracker) release(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.active, path)
}

// Watcher runs one operation on every media file dropped into a directory.
// Files are processed one at a time, matching the tool's sequential
// execution model.
type Watcher struct {
	Engine    *Engine
	Op        string
	Params    map[string]string
	OutputDir string
	OutputExt string
	// SettleInterval is how long a file's size must hold still before it
	// counts as fully written. Uploads and copies arrive in chunks.
	SettleInterval time.Duration
}

// Watch blocks, processing files until the context is canceled.
func (w *Watcher) Watch(ctx context.Context, dir string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	settle := w.SettleInterval
	if settle <= 0 {
		settle = 500 * time.Millisecond
	}

	w.Engine.Logger.Info("watching folder", zap.String("dir", dir), zap.String("op", w.Op))

	inFlight := newTracker()
	queue := make(chan string, 64)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for path := range queue {
			if err := w.process(ctx, path, settle); err != nil && ctx.Err() == nil {
				w.Engine.Logger.Error("watch item failed", zap.String("path", path), zap.Error(err))
			}
			inFlight.release(path)
		}
	}()
	defer wg.Wait()
	defer close(queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			path := event.Name
			if !mediaExtensions[strings.ToLower(filepath.Ext(path))] || !inFlight.claim(path) {
				continue
			}
			select {
			case queue <- path:
			default:
				// Queue full; let the next write event requeue it.
				inFlight.release(path)
				w.Engine.Logger.Warn("watch queue full, deferring file", zap.String("path", path))
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Engine.Logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// process waits for the file to settle, then compiles and runs the op.
func (w *Watcher) process(ctx context.Context, path string, settle time.Duration) error {
	if err := waitForSettle(ctx, path, settle); err != nil {
		return err
	}

	output := filepath.Join(w.OutputDir, filepath.Base(path))
	if w.OutputExt != "" {
		output = strings.TrimSuffix(output, filepath.Ext(output)) + "." + w.OutputExt
	}

	w.Engine.Logger.Info("processing new file", zap.String("input", path), zap.String("output", output))

	plan, err := w.Engine.Compiler.Compile(ctx, media.Request{
		Op:     w.Op,
		Inputs: []string{path},
		Output: output,
		Params: w.Params,
	})
	if err != nil {
		return err
	}
	return w.Engine.Runner.Run(ctx, plan)
}

// waitForSettle polls the file size until two consecutive reads agree.
func waitForSettle(ctx context.Context, path string, interval time.Duration) error {
	var lastSize int64 = -1
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}
			if info.Size() == lastSize {
				return nil
			}
			lastSize = info.Size()
		}
	}
}
