package watcher

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/fsnotify/fsnotify"

	"github.com/AkatukiSora/ace-analytics/internal/loader"
)

// DefaultDebounce is how long the watcher waits after the last change
// before reporting.
const DefaultDebounce = 500 * time.Millisecond

// DirWatcher monitors hand history directories for session file changes.
type DirWatcher struct {
	Dirs     []string
	watcher  *fsnotify.Watcher
	clock    quartz.Clock
	debounce time.Duration
	done     chan struct{}
	stopOnce sync.Once

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *quartz.Timer

	onChange func(paths []string)
	onError  func(err error)
}

type WatcherConfig struct {
	// OnChange receives the session files touched during one quiet period,
	// sorted by path.
	OnChange func(paths []string)
	OnError  func(err error)
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// Clock defaults to the real clock.
	Clock quartz.Clock
}

// NewDirWatcher creates a watcher for the given directories
func NewDirWatcher(dirs []string, cfg WatcherConfig) (*DirWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}

	expanded := make([]string, len(dirs))
	for i, dir := range dirs {
		expanded[i] = expandHome(dir)
	}

	return &DirWatcher{
		Dirs:     expanded,
		watcher:  w,
		clock:    cfg.Clock,
		debounce: cfg.Debounce,
		done:     make(chan struct{}),
		pending:  map[string]struct{}{},
		onChange: cfg.OnChange,
		onError:  cfg.OnError,
	}, nil
}

// Start begins watching every directory
func (dw *DirWatcher) Start() error {
	slog.Info("watcher starting", "dirs", dw.Dirs)
	for _, dir := range dw.Dirs {
		if err := dw.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch directory %s: %w", dir, err)
		}
	}

	go dw.watchLoop()
	return nil
}

// Stop stops the watcher. Pending changes are discarded.
func (dw *DirWatcher) Stop() {
	dw.stopOnce.Do(func() {
		slog.Info("watcher stopped", "dirs", dw.Dirs)
		close(dw.done)
		_ = dw.watcher.Close()

		dw.mu.Lock()
		defer dw.mu.Unlock()
		if dw.timer != nil {
			dw.timer.Stop()
		}
	})
}

func (dw *DirWatcher) watchLoop() {
	for {
		select {
		case <-dw.done:
			return
		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if !isSessionFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Remove) {
				dw.schedule(filepath.Clean(event.Name))
			}
		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			if dw.onError != nil {
				dw.onError(err)
			}
		}
	}
}

// schedule records path and restarts the quiet period.
func (dw *DirWatcher) schedule(path string) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	dw.pending[path] = struct{}{}
	if dw.timer == nil {
		dw.timer = dw.clock.AfterFunc(dw.debounce, dw.flush)
		return
	}
	dw.timer.Reset(dw.debounce)
}

func (dw *DirWatcher) flush() {
	dw.mu.Lock()
	paths := make([]string, 0, len(dw.pending))
	for p := range dw.pending {
		paths = append(paths, p)
	}
	dw.pending = map[string]struct{}{}
	dw.mu.Unlock()

	select {
	case <-dw.done:
		return
	default:
	}
	if len(paths) == 0 || dw.onChange == nil {
		return
	}
	sort.Strings(paths)
	slog.Debug("session files changed", "files", len(paths))
	dw.onChange(paths)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			home = os.Getenv("HOME")
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func isSessionFile(path string) bool {
	return filepath.Ext(path) == loader.Extension
}
