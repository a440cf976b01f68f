// Package watcher reloads binding files when they change on disk.
//
// Watcher wraps fsnotify. It watches the directories that contain the
// requested files, so editors that save by rename-and-replace are still
// seen, and coalesces bursts of events per file before calling handlers.
// Reloader is a handler that re-applies a keymap.Registry to its target.
package watcher

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ErrWatcherClosed is returned when adding paths to a closed watcher.
var ErrWatcherClosed = errors.New("watcher is closed")

// Event represents a file change event.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string

	// Op is the operation that triggered the event.
	Op Operation

	// Time is when the event occurred.
	Time time.Time
}

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates a new file was created.
	OpCreate

	// OpRemove indicates the file was deleted.
	OpRemove

	// OpRename indicates the file was renamed away.
	OpRename
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// fromFSNotify maps an fsnotify op. Chmod-only events are dropped.
func fromFSNotify(op fsnotify.Op) (Operation, bool) {
	switch {
	case op.Has(fsnotify.Remove):
		return OpRemove, true
	case op.Has(fsnotify.Rename):
		return OpRename, true
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpWrite, true
	default:
		return 0, false
	}
}

// Handler is called when a file change is detected.
type Handler func(event Event)

// Watcher monitors files for changes.
type Watcher struct {
	mu sync.RWMutex

	fsw *fsnotify.Watcher

	// Watched files, and per directory the glob patterns of WatchDir plus a
	// reference count of the files that keep it watched.
	files    map[string]bool
	patterns map[string][]string
	dirRefs  map[string]int

	handlers []Handler
	logger   zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	running bool
	closed  bool

	debounce     time.Duration
	pendingMu    sync.Mutex
	pendingFiles map[string]pendingEvent
}

// pendingEvent stores a pending event with its operation for debouncing.
type pendingEvent struct {
	Op   Operation
	Time time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a file must be quiet before its event is
// delivered. Zero delivers every event immediately.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger.With().Str("component", "watcher").Logger()
	}
}

// New creates a new file watcher.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:          fsw,
		files:        make(map[string]bool),
		patterns:     make(map[string][]string),
		dirRefs:      make(map[string]int),
		logger:       zerolog.Nop(),
		debounce:     100 * time.Millisecond,
		pendingFiles: make(map[string]pendingEvent),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch adds a file to the watch list. The file need not exist yet, but
// its directory must.
func (w *Watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.files[absPath] {
		return nil
	}
	if err := w.addDirLocked(filepath.Dir(absPath)); err != nil {
		return err
	}
	w.files[absPath] = true
	return nil
}

// Unwatch removes a file from the watch list.
func (w *Watcher) Unwatch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.files[absPath] {
		return nil
	}
	delete(w.files, absPath)
	return w.releaseDirLocked(filepath.Dir(absPath))
}

// WatchDir watches every file in dir whose name matches pattern,
// including files created later.
func (w *Watcher) WatchDir(dir string, pattern string) error {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return err
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if slices.Contains(w.patterns[absDir], pattern) {
		return nil
	}
	if err := w.addDirLocked(absDir); err != nil {
		return err
	}
	w.patterns[absDir] = append(w.patterns[absDir], pattern)
	return nil
}

func (w *Watcher) addDirLocked(dir string) error {
	if w.dirRefs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirRefs[dir]++
	return nil
}

func (w *Watcher) releaseDirLocked(dir string) error {
	w.dirRefs[dir]--
	if w.dirRefs[dir] > 0 {
		return nil
	}
	delete(w.dirRefs, dir)
	return w.fsw.Remove(dir)
}

// matches reports whether path is watched directly or through a pattern.
func (w *Watcher) matches(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.files[path] {
		return true
	}
	name := filepath.Base(path)
	for _, pattern := range w.patterns[filepath.Dir(path)] {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// OnChange registers a handler for file change events.
func (w *Watcher) OnChange(handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Start begins delivering events.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.running || w.closed {
		w.mu.Unlock()
		return
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.eventLoop()

	if w.debounce > 0 {
		w.wg.Add(1)
		go w.debounceLoop()
	}
}

// Close stops the watcher and releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	running := w.running
	w.running = false
	if running {
		w.cancel()
	}
	w.mu.Unlock()

	w.wg.Wait()
	return w.fsw.Close()
}

// IsRunning returns whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// WatchedFiles returns the watched files in sorted order.
func (w *Watcher) WatchedFiles() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	files := make([]string, 0, len(w.files))
	for path := range w.files {
		files = append(files, path)
	}
	slices.Sort(files)
	return files
}

// eventLoop translates fsnotify events.
func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleFSEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("file watch error")
		}
	}
}

func (w *Watcher) handleFSEvent(ev fsnotify.Event) {
	op, ok := fromFSNotify(ev.Op)
	if !ok {
		return
	}
	path, err := filepath.Abs(ev.Name)
	if err != nil || !w.matches(path) {
		return
	}

	event := Event{Path: path, Op: op, Time: time.Now()}
	w.logger.Debug().Str("file", path).Str("op", op.String()).Msg("file changed")
	if w.debounce > 0 {
		w.queueEvent(event)
	} else {
		w.emitEvent(event)
	}
}

// queueEvent queues an event for debounced delivery.
// It coalesces events per file:
// - create + write => create
// - write + write => write (latest time)
// - any + remove => remove
// - remove + create => write (the file was replaced)
func (w *Watcher) queueEvent(event Event) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	existing, exists := w.pendingFiles[event.Path]
	if !exists {
		w.pendingFiles[event.Path] = pendingEvent{Op: event.Op, Time: event.Time}
		return
	}

	op := event.Op
	switch event.Op {
	case OpCreate:
		if existing.Op == OpRemove || existing.Op == OpRename {
			op = OpWrite
		}
	case OpWrite:
		if existing.Op == OpCreate {
			op = OpCreate
		}
	}
	w.pendingFiles[event.Path] = pendingEvent{Op: op, Time: event.Time}
}

// debounceLoop processes debounced events.
func (w *Watcher) debounceLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.processPendingEvents()
		}
	}
}

// processPendingEvents emits events that have been stable.
func (w *Watcher) processPendingEvents() {
	w.pendingMu.Lock()
	stableThreshold := time.Now().Add(-w.debounce)

	var toEmit []Event
	for path, pending := range w.pendingFiles {
		if pending.Time.Before(stableThreshold) {
			toEmit = append(toEmit, Event{Path: path, Op: pending.Op, Time: pending.Time})
			delete(w.pendingFiles, path)
		}
	}
	w.pendingMu.Unlock()

	slices.SortFunc(toEmit, func(a, b Event) int {
		return a.Time.Compare(b.Time)
	})
	for _, event := range toEmit {
		w.emitEvent(event)
	}
}

// emitEvent calls all handlers with the event.
func (w *Watcher) emitEvent(event Event) {
	w.mu.RLock()
	handlers := slices.Clone(w.handlers)
	w.mu.RUnlock()

	for _, handler := range handlers {
		w.safeCallHandler(handler, event)
	}
}

// safeCallHandler keeps a panicking handler from killing the event loop.
func (w *Watcher) safeCallHandler(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error().Interface("panic", r).Str("file", event.Path).Msg("watch handler panicked")
		}
	}()
	handler(event)
}
