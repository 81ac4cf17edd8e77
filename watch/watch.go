// Package watch monitors a recordings directory and processes new WAV
// files as they finish copying off the AudioMoth SD card.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"mothgrams/internal/logging"
)

// Handler is invoked once per settled WAV file.
type Handler func(ctx context.Context, wavPath string)

// Watcher debounces filesystem events per file: SD card copies arrive as
// many write events, so a file is handed to the Handler only after it has
// stayed quiet for the debounce interval.
type Watcher struct {
	dir      string
	debounce time.Duration
	handler  Handler
	log      *logging.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New creates a Watcher for dir.
func New(dir string, debounce time.Duration, handler Handler, log *logging.Logger) *Watcher {
	if log == nil {
		log = logging.Nop()
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		handler:  handler,
		log:      log,
		timers:   make(map[string]*time.Timer),
	}
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return err
	}
	w.log.Info("watching for recordings", zap.String("dir", w.dir))

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !isWAV(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.startOrResetTimer(ctx, event.Name)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

func isWAV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wav")
}

// startOrResetTimer arms the debounce timer for a file, resetting it on
// every new event.
func (w *Watcher) startOrResetTimer(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, exists := w.timers[path]; exists {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		w.log.Info("recording settled", zap.String("path", path))
		w.handler(ctx, path)
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
}
