package enumerate

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// WatchConfig configures a WatchBackend.
type WatchConfig struct {
	// Dir is the directory holding device nodes (default "/dev").
	Dir string

	// Pattern is the glob node names must match (default "media*").
	Pattern string
}

// DefaultWatchConfig returns a WatchConfig for kernel media nodes.
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{
		Dir:     "/dev",
		Pattern: "media*",
	}
}

// WatchBackend discovers device nodes by watching a directory. Node
// creation maps to ActionAdd, removal (or a rename away) to
// ActionRemove. Every file system transition yields exactly one event;
// transitions are never coalesced, so a node that disappears and
// reappears delivers a remove followed by an add even when the two
// happen back to back.
//
// The backend reports node paths only. It cannot describe the device
// behind a node, so the enumerator it feeds needs an explicit
// Introspector.
type WatchBackend struct {
	dir     string
	pattern string

	watcher *fsnotify.Watcher
	events  chan Event
	done    chan struct{}

	started   bool
	closeOnce sync.Once
}

// NewWatchBackend creates a directory-watching backend. Zero-value
// config fields fall back to DefaultWatchConfig.
func NewWatchBackend(config WatchConfig) (*WatchBackend, error) {
	def := DefaultWatchConfig()
	if config.Dir == "" {
		config.Dir = def.Dir
	}
	if config.Pattern == "" {
		config.Pattern = def.Pattern
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &WatchBackend{
		dir:     config.Dir,
		pattern: config.Pattern,
		watcher: fsw,
		events:  make(chan Event, 16),
		done:    make(chan struct{}),
	}, nil
}

// Name identifies the backend.
func (b *WatchBackend) Name() string {
	return "fsnotify"
}

// Init starts watching the node directory.
func (b *WatchBackend) Init(ctx context.Context) error {
	if err := b.watcher.Add(b.dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", b.dir, err)
	}

	b.started = true
	go b.loop()
	return nil
}

// Nodes scans the directory for nodes matching the pattern, in
// lexical order.
func (b *WatchBackend) Nodes(ctx context.Context) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(b.dir, b.pattern))
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", b.dir, err)
	}
	return matches, nil
}

// Events returns the hotplug event stream.
func (b *WatchBackend) Events() <-chan Event {
	return b.events
}

// Close stops watching and shuts the event stream down. Safe to call
// more than once.
func (b *WatchBackend) Close() error {
	var err error
	b.closeOnce.Do(func() {
		close(b.done)
		err = b.watcher.Close()
		if !b.started {
			// No loop running to close the stream for us.
			close(b.events)
		}
	})
	return err
}

// loop translates file system events one to one, in arrival order.
func (b *WatchBackend) loop() {
	defer close(b.events)

	for {
		select {
		case event, ok := <-b.watcher.Events:
			if !ok {
				return
			}

			ev, relevant := b.translate(event)
			if !relevant {
				continue
			}

			select {
			case b.events <- ev:
			case <-b.done:
				return
			}

		case _, ok := <-b.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are not node transitions; keep watching.
			// Callers that need error visibility can wrap the backend.

		case <-b.done:
			return
		}
	}
}

// translate maps a file system event onto a node transition.
func (b *WatchBackend) translate(event fsnotify.Event) (Event, bool) {
	if !b.matches(event.Name) {
		return Event{}, false
	}

	switch {
	case event.Op&fsnotify.Create != 0:
		return Event{Action: ActionAdd, Node: event.Name}, true
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		return Event{Action: ActionRemove, Node: event.Name}, true
	}

	// Writes and chmods happen on nodes that already exist.
	return Event{}, false
}

// matches reports whether path names a node this backend covers.
func (b *WatchBackend) matches(path string) bool {
	ok, err := filepath.Match(b.pattern, filepath.Base(path))
	return err == nil && ok
}

// Compile-time interface satisfaction check.
var _ Backend = (*WatchBackend)(nil)
