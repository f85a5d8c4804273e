package enumerate

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

// waitEvent reads one event from a backend stream, failing the test if
// none arrives in time.
func waitEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()

	select {
	case ev, ok := <-events:
		if !ok {
			t.Fatal("event stream closed")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

// waitClosed waits for a backend stream to close.
func waitClosed(t *testing.T, events <-chan Event) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			t.Logf("draining event %+v", ev)
		case <-deadline:
			t.Fatal("timed out waiting for stream close")
		}
	}
}

func newTempWatchBackend(t *testing.T) (*WatchBackend, string) {
	t.Helper()

	dir := t.TempDir()
	backend, err := NewWatchBackend(WatchConfig{Dir: dir})
	if err != nil {
		t.Fatalf("NewWatchBackend failed: %v", err)
	}
	t.Cleanup(func() { backend.Close() })
	return backend, dir
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("node"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func TestWatchBackendDefaults(t *testing.T) {
	backend, err := NewWatchBackend(WatchConfig{})
	if err != nil {
		t.Fatalf("NewWatchBackend failed: %v", err)
	}
	defer backend.Close()

	if backend.dir != "/dev" {
		t.Errorf("dir = %q, want /dev", backend.dir)
	}
	if backend.pattern != "media*" {
		t.Errorf("pattern = %q, want media*", backend.pattern)
	}
	if backend.Name() != "fsnotify" {
		t.Errorf("Name() = %q", backend.Name())
	}
}

func TestWatchBackendTranslate(t *testing.T) {
	backend, _ := newTempWatchBackend(t)

	tests := []struct {
		name     string
		event    fsnotify.Event
		want     Event
		relevant bool
	}{
		{
			name:     "Create",
			event:    fsnotify.Event{Name: "/dev/media0", Op: fsnotify.Create},
			want:     Event{Action: ActionAdd, Node: "/dev/media0"},
			relevant: true,
		},
		{
			name:     "Remove",
			event:    fsnotify.Event{Name: "/dev/media0", Op: fsnotify.Remove},
			want:     Event{Action: ActionRemove, Node: "/dev/media0"},
			relevant: true,
		},
		{
			name:     "RenameAway",
			event:    fsnotify.Event{Name: "/dev/media0", Op: fsnotify.Rename},
			want:     Event{Action: ActionRemove, Node: "/dev/media0"},
			relevant: true,
		},
		{
			name:  "WriteIgnored",
			event: fsnotify.Event{Name: "/dev/media0", Op: fsnotify.Write},
		},
		{
			name:  "ChmodIgnored",
			event: fsnotify.Event{Name: "/dev/media0", Op: fsnotify.Chmod},
		},
		{
			name:  "OtherNodesIgnored",
			event: fsnotify.Event{Name: "/dev/video0", Op: fsnotify.Create},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, relevant := backend.translate(tc.event)
			if relevant != tc.relevant {
				t.Fatalf("relevant = %v, want %v", relevant, tc.relevant)
			}
			if relevant && got != tc.want {
				t.Errorf("event = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestWatchBackendNodes(t *testing.T) {
	backend, dir := newTempWatchBackend(t)

	touch(t, filepath.Join(dir, "media1"))
	touch(t, filepath.Join(dir, "media0"))
	touch(t, filepath.Join(dir, "video0"))

	nodes, err := backend.Nodes(context.Background())
	if err != nil {
		t.Fatalf("Nodes failed: %v", err)
	}

	// Glob results come back in lexical order, pattern applied.
	if len(nodes) != 2 {
		t.Fatalf("nodes = %v, want 2 media entries", nodes)
	}
	if filepath.Base(nodes[0]) != "media0" || filepath.Base(nodes[1]) != "media1" {
		t.Errorf("nodes = %v, want [media0 media1]", nodes)
	}
}

func TestWatchBackendEvents(t *testing.T) {
	backend, dir := newTempWatchBackend(t)

	if err := backend.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	// A node that misses the pattern never surfaces.
	touch(t, filepath.Join(dir, "video0"))

	touch(t, filepath.Join(dir, "media5"))
	ev := waitEvent(t, backend.Events())
	if ev.Action != ActionAdd || filepath.Base(ev.Node) != "media5" {
		t.Errorf("event = %+v, want add for media5", ev)
	}

	if err := os.Remove(filepath.Join(dir, "media5")); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	ev = waitEvent(t, backend.Events())
	if ev.Action != ActionRemove || filepath.Base(ev.Node) != "media5" {
		t.Errorf("event = %+v, want remove for media5", ev)
	}
}

func TestWatchBackendRenameAway(t *testing.T) {
	backend, dir := newTempWatchBackend(t)

	if err := backend.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	touch(t, filepath.Join(dir, "media6"))
	ev := waitEvent(t, backend.Events())
	if ev.Action != ActionAdd || filepath.Base(ev.Node) != "media6" {
		t.Fatalf("event = %+v, want add for media6", ev)
	}

	// Renaming to a name outside the pattern counts as a departure.
	if err := os.Rename(filepath.Join(dir, "media6"), filepath.Join(dir, "video6")); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	ev = waitEvent(t, backend.Events())
	if ev.Action != ActionRemove || filepath.Base(ev.Node) != "media6" {
		t.Errorf("event = %+v, want remove for media6", ev)
	}
}

func TestWatchBackendNoCoalescing(t *testing.T) {
	backend, dir := newTempWatchBackend(t)

	if err := backend.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	// Back-to-back transitions of one node must all come through.
	node := filepath.Join(dir, "media7")
	touch(t, node)
	if err := os.Remove(node); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	touch(t, node)

	want := []Action{ActionAdd, ActionRemove, ActionAdd}
	for i, action := range want {
		ev := waitEvent(t, backend.Events())
		if ev.Action != action || filepath.Base(ev.Node) != "media7" {
			t.Errorf("event %d = %+v, want %v for media7", i, ev, action)
		}
	}
}

func TestWatchBackendClose(t *testing.T) {
	backend, _ := newTempWatchBackend(t)

	if err := backend.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := backend.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	waitClosed(t, backend.Events())

	if err := backend.Close(); err != nil {
		t.Errorf("second Close error = %v, want nil", err)
	}
}

func TestWatchBackendCloseBeforeInit(t *testing.T) {
	backend, err := NewWatchBackend(WatchConfig{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewWatchBackend failed: %v", err)
	}

	if err := backend.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, ok := <-backend.Events(); ok {
		t.Error("event stream should be closed")
	}
}
