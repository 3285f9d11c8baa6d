package cache

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/webiny-go/restroute/internal/observability"
)

// Watcher watches the compiled-table directory and invalidates memoized
// entries when the table compiler rewrites a file. Events for the same
// file are debounced because compilers typically emit several writes per
// rewrite.
type Watcher struct {
	dir           string
	loader        *Loader
	watcher       *fsnotify.Watcher
	logger        observability.Logger
	debounceDelay time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
	running bool

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// NewWatcher creates a Watcher invalidating loader entries for files
// changed under dir.
func NewWatcher(dir string, loader *Loader, logger observability.Logger) (*Watcher, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = observability.NewNopLogger()
	}

	return &Watcher{
		dir:           absDir,
		loader:        loader,
		watcher:       fsWatcher,
		logger:        logger,
		debounceDelay: 100 * time.Millisecond,
		pending:       make(map[string]*time.Timer),
		stopCh:        make(chan struct{}),
		stoppedCh:     make(chan struct{}),
	}, nil
}

// Start begins watching the table directory.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}

	w.logger.Info("watching compiled table directory",
		observability.String("dir", w.dir))

	go w.watch(ctx)

	return nil
}

// Stop stops the watcher and waits for the watch loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false

	for _, timer := range w.pending {
		timer.Stop()
	}
	w.pending = make(map[string]*time.Timer)
	w.mu.Unlock()

	close(w.stopCh)
	<-w.stoppedCh

	return w.watcher.Close()
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.stoppedCh)

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("table watcher error", observability.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if filepath.Ext(event.Name) != tableExt {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	filename := filepath.Base(event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}

	if timer, exists := w.pending[filename]; exists {
		timer.Stop()
	}
	w.pending[filename] = time.AfterFunc(w.debounceDelay, func() {
		w.invalidate(ctx, filename)
	})
}

func (w *Watcher) invalidate(ctx context.Context, filename string) {
	w.mu.Lock()
	delete(w.pending, filename)
	w.mu.Unlock()

	if err := w.loader.Invalidate(ctx, filename); err != nil {
		w.logger.Error("table invalidation failed",
			observability.String("filename", filename),
			observability.Error(err))
		return
	}

	w.logger.Info("compiled table invalidated",
		observability.String("filename", filename))
}
