package dev

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a change batch is delivered.
const DefaultDebounce = 100 * time.Millisecond

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Files are the files to watch. Their directories are watched so that
	// editors that save by renaming are still noticed.
	Files []string

	// Debounce is the delay before triggering on change.
	// Default: DefaultDebounce
	Debounce time.Duration

	// Logger receives watcher errors.
	Logger *slog.Logger
}

// Watcher reports changes to a set of files, batching bursts of events.
type Watcher struct {
	config   WatcherConfig
	onChange func(paths []string)
	fs       *fsnotify.Watcher
	files    map[string]bool
	logger   *slog.Logger

	changes  chan string
	done     chan struct{}
	stopOnce sync.Once

	mu      sync.Mutex
	running bool
}

// NewWatcher creates a watcher that calls onChange with the changed files
// after each quiet period.
func NewWatcher(config WatcherConfig, onChange func(paths []string)) (*Watcher, error) {
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default().With("component", "dev")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	files := make(map[string]bool, len(config.Files))
	for _, f := range config.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, err
		}
		files[abs] = true
	}

	return &Watcher{
		config:   config,
		onChange: onChange,
		fs:       fw,
		files:    files,
		logger:   logger,
		changes:  make(chan string, 64),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. It returns once the watches are registered.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dirs := make(map[string]bool)
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := w.fs.Add(dir); err != nil {
			return err
		}
	}

	go w.processEvents(ctx)
	go w.debounceLoop(ctx)
	return nil
}

// Stop stops watching. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.fs.Close()

		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	})
}

// IsRunning reports whether the watcher has been started and not stopped.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !w.files[name] {
				continue
			}
			select {
			case w.changes <- name:
			default:
				// batch already pending
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) debounceLoop(ctx context.Context) {
	batch := make(map[string]bool)
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if len(batch) > 0 && w.onChange != nil {
			paths := make([]string, 0, len(batch))
			for p := range batch {
				paths = append(paths, p)
			}
			w.onChange(paths)
		}
		clear(batch)
		if timer != nil {
			timer.Stop()
			timer = nil
			timerC = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case name := <-w.changes:
			batch[name] = true
			if timer == nil {
				timer = time.NewTimer(w.config.Debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.config.Debounce)
			}
		case <-timerC:
			flush()
		}
	}
}
