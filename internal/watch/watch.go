// Package watch reloads the graph when the repository changes on disk. It
// watches the .git directory via fsnotify and coalesces event bursts with a
// trailing-edge debounce before invoking the caller's reload callback.
package watch

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thiagokokada/gitgraph-go/internal/debounce"
)

const DefaultDebounceDelay = 350 * time.Millisecond

type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	debounce *debounce.Debouncer
	closed   bool
}

// New starts watching the repository at repoPath and calls onChange after
// each debounced burst of filesystem events. Close releases the watcher.
func New(repoPath string, delay time.Duration, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	for path := range watchPaths(repoPath) {
		slog.Debug("adding path to FS watcher", slog.String("path", path))
		if err := fsw.Add(path); err != nil {
			err := errors.Join(err, fsw.Close())
			return nil, fmt.Errorf("watch %s: %w", path, err)
		}
	}
	w := &Watcher{
		watcher:  fsw,
		debounce: debounce.New(delay, onChange),
	}
	go w.loop(fsw)
	return w, nil
}

func (w *Watcher) loop(fsw *fsnotify.Watcher) {
	for {
		select {
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if shouldIgnorePath(ev.Name) {
				continue
			}
			slog.Debug("fsnotify event",
				slog.String("op", ev.Op.String()),
				slog.String("path", ev.Name),
			)
			w.trigger()
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			slog.Error("fsnotify error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.debounce == nil {
		return
	}
	w.debounce.Trigger()
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.debounce != nil {
		w.debounce.Stop()
		w.debounce = nil
	}
	var err error
	if w.watcher != nil {
		err = w.watcher.Close()
		w.watcher = nil
	}
	return err
}

// watchPaths yields the .git directory when it exists as a directory (the
// usual case), otherwise the root itself (bare repos, gitdir files).
func watchPaths(root string) iter.Seq[string] {
	if root == "" {
		return nil
	}
	uniquePaths := map[string]struct{}{}
	gitDir := filepath.Join(root, ".git")
	if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
		uniquePaths[gitDir] = struct{}{}
		return maps.Keys(uniquePaths)
	}
	uniquePaths[root] = struct{}{}
	return maps.Keys(uniquePaths)
}

// Lock and ipc churn inside .git would otherwise retrigger on every git
// invocation.
func shouldIgnorePath(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".lock" || ext == ".ipc"
}
