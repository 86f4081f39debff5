// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package watch

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrAlreadyRunning = errors.New("tailer already running")
	ErrNotRunning     = errors.New("tailer not running")
)

// =============================================================================
// TAILER
// =============================================================================

// Executor runs one transcript and returns its result string.
// voice.Engine satisfies this.
type Executor interface {
	Execute(transcript string) string
}

// ResultFunc receives each executed line and its result.
type ResultFunc func(transcript, result string)

// Tailer watches a transcript file and executes appended lines.
type Tailer struct {
	path     string
	executor Executor
	onResult ResultFunc
	debounce time.Duration
	logger   *zap.Logger

	watcher *fsnotify.Watcher
	ctx     context.Context
	cancel  context.CancelFunc

	mu      sync.Mutex
	offset  int64
	partial string
	dirty   bool
	lastHit time.Time
	running bool
}

// Option configures a Tailer.
type Option func(*Tailer)

// WithDebounce sets how long to wait after a write before reading.
func WithDebounce(d time.Duration) Option {
	return func(t *Tailer) { t.debounce = d }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Tailer) { t.logger = logger }
}

// WithResultFunc sets a callback invoked for each executed line.
func WithResultFunc(fn ResultFunc) Option {
	return func(t *Tailer) { t.onResult = fn }
}

// FromStart makes the tailer process lines already in the file at startup.
// By default only lines appended after Start are executed.
func FromStart() Option {
	return func(t *Tailer) { t.offset = -1 }
}

// New creates a Tailer over the given transcript file.
func New(path string, executor Executor, opts ...Option) *Tailer {
	t := &Tailer{
		path:     path,
		executor: executor,
		debounce: 150 * time.Millisecond,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start begins watching. The file need not exist yet; it is picked up when
// created. Blocks only for setup; processing happens in goroutines.
func (t *Tailer) Start() error {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return ErrAlreadyRunning
	}
	t.running = true

	// Seek to end unless FromStart was requested.
	if t.offset >= 0 {
		if info, err := os.Stat(t.path); err == nil {
			t.offset = info.Size()
		} else {
			t.offset = 0
		}
	} else {
		t.offset = 0
	}
	t.mu.Unlock()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		t.mu.Lock()
		t.running = false
		t.mu.Unlock()
		return err
	}

	// Watch the directory, not the file: the file may not exist yet, and
	// rename-based rotation drops file-level watches.
	dir := filepath.Dir(t.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		t.mu.Lock()
		t.running = false
		t.mu.Unlock()
		return err
	}

	t.watcher = watcher
	t.ctx, t.cancel = context.WithCancel(context.Background())

	go t.processEvents()
	go t.processPending()

	t.logger.Info("watching transcript file", zap.String("path", t.path))
	return nil
}

// Close stops watching and releases resources.
func (t *Tailer) Close() error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return ErrNotRunning
	}
	t.running = false
	t.mu.Unlock()

	t.cancel()
	return t.watcher.Close()
}

// =============================================================================
// EVENT PROCESSING
// =============================================================================

// processEvents marks the file dirty on relevant filesystem events.
func (t *Tailer) processEvents() {
	for {
		select {
		case <-t.ctx.Done():
			return

		case event, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(t.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				t.mu.Lock()
				t.dirty = true
				t.lastHit = time.Now()
				t.mu.Unlock()
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				// File rotated away; start over when it reappears.
				t.mu.Lock()
				t.offset = 0
				t.partial = ""
				t.mu.Unlock()
			}

		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			t.logger.Warn("watch error", zap.Error(err))
		}
	}
}

// processPending drains newly appended lines once writes settle.
func (t *Tailer) processPending() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-t.ctx.Done():
			return

		case <-ticker.C:
			t.mu.Lock()
			ready := t.dirty && time.Since(t.lastHit) >= t.debounce
			if ready {
				t.dirty = false
			}
			t.mu.Unlock()

			if ready {
				t.drain()
			}
		}
	}
}

// drain reads from the stored offset and executes complete lines.
func (t *Tailer) drain() {
	f, err := os.Open(t.path)
	if err != nil {
		return
	}
	defer f.Close()

	t.mu.Lock()
	offset := t.offset
	t.mu.Unlock()

	// Truncation check.
	if info, err := f.Stat(); err == nil && info.Size() < offset {
		offset = 0
		t.mu.Lock()
		t.partial = ""
		t.mu.Unlock()
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return
	}

	data, err := io.ReadAll(f)
	if err != nil || len(data) == 0 {
		return
	}

	t.mu.Lock()
	t.offset = offset + int64(len(data))
	text := t.partial + string(data)
	lines := strings.Split(text, "\n")
	// The final element is an incomplete line (or "") to carry forward.
	t.partial = lines[len(lines)-1]
	lines = lines[:len(lines)-1]
	t.mu.Unlock()

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		result := t.executor.Execute(line)
		t.logger.Info("transcript line executed",
			zap.String("transcript", line),
			zap.String("result", result),
		)
		if t.onResult != nil {
			t.onResult(line, result)
		}
	}
}
