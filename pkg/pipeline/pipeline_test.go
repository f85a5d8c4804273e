package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/lumen-media/lumen-go/pkg/camera"
	"github.com/lumen-media/lumen-go/pkg/enumerate"
	"github.com/lumen-media/lumen-go/pkg/media"
)

type stubHandler struct{ name string }

func (h *stubHandler) Name() string { return h.name }

func (h *stubHandler) Match(*enumerate.Enumerator) ([]*camera.Camera, error) {
	return nil, nil
}

func stubFactory(name string) Factory {
	return func() Handler { return &stubHandler{name: name} }
}

func mustPanic(t *testing.T, want string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q", want)
		}
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, want) {
			t.Fatalf("panic = %v, want containing %q", r, want)
		}
	}()
	fn()
}

func TestRegisterOrder(t *testing.T) {
	// The registry is package-global; append to whatever earlier
	// tests (or imported handler packages) left behind.
	before := Names()

	Register("order-a", stubFactory("order-a"))
	Register("order-b", stubFactory("order-b"))

	got := Names()
	want := append(append([]string{}, before...), "order-a", "order-b")
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	factories := Factories()
	if len(factories) != len(want) {
		t.Fatalf("Factories() has %d entries, want %d", len(factories), len(want))
	}
	if h := factories[len(factories)-1](); h.Name() != "order-b" {
		t.Errorf("last factory builds %q, want order-b", h.Name())
	}
}

func TestRegisterMisuse(t *testing.T) {
	mustPanic(t, "empty name", func() {
		Register("", stubFactory("x"))
	})
	mustPanic(t, "nil factory", func() {
		Register("misuse-nil", nil)
	})

	Register("misuse-dup", stubFactory("misuse-dup"))
	mustPanic(t, "twice", func() {
		Register("misuse-dup", stubFactory("misuse-dup"))
	})
}

func newPopulatedEnumerator(t *testing.T, topo enumerate.Topology) (*enumerate.Enumerator, *enumerate.FixtureBackend) {
	t.Helper()

	backend := enumerate.NewFixtureBackend(topo)
	enum, err := enumerate.New(enumerate.Config{Backend: backend})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { enum.Close() })

	ctx := context.Background()
	if err := enum.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := enum.Enumerate(ctx); err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	return enum, backend
}

func TestAcquireDevice(t *testing.T) {
	enum, _ := newPopulatedEnumerator(t, enumerate.Topology{
		Devices: []enumerate.NodeSpec{
			{Node: "/dev/media0", Driver: "vimc"},
			{Node: "/dev/media1", Driver: "uvcvideo"},
			{Node: "/dev/media2", Driver: "uvcvideo"},
		},
	})

	match := enumerate.NewDeviceMatch("uvcvideo")

	first := AcquireDevice(enum, match)
	if first == nil || first.Path() != "/dev/media1" {
		t.Fatalf("first AcquireDevice = %v, want /dev/media1", first)
	}
	if !first.Busy() {
		t.Error("acquired device should be claimed")
	}

	second := AcquireDevice(enum, match)
	if second == nil || second.Path() != "/dev/media2" {
		t.Fatalf("second AcquireDevice = %v, want /dev/media2", second)
	}

	// Everything matching is claimed now.
	if got := AcquireDevice(enum, match); got != nil {
		t.Errorf("third AcquireDevice = %v, want nil", got)
	}

	// A released device becomes claimable again.
	first.Release()
	if got := AcquireDevice(enum, match); got != first {
		t.Error("released device should be claimed next")
	}
}

func TestAcquireDeviceSkipsRemoved(t *testing.T) {
	enum, _ := newPopulatedEnumerator(t, enumerate.Topology{
		Devices: []enumerate.NodeSpec{
			{Node: "/dev/media0", Driver: "uvcvideo"},
			{Node: "/dev/media1", Driver: "uvcvideo"},
		},
	})

	dev, err := enum.HandleEvent(context.Background(),
		enumerate.Event{Action: enumerate.ActionRemove, Node: "/dev/media0"})
	if err != nil || dev == nil {
		t.Fatalf("HandleEvent remove = (%v, %v)", dev, err)
	}

	got := AcquireDevice(enum, enumerate.NewDeviceMatch("uvcvideo"))
	if got == nil || got.Path() != "/dev/media1" {
		t.Fatalf("AcquireDevice = %v, want the surviving /dev/media1", got)
	}
}

func TestAcquireDeviceNoMatch(t *testing.T) {
	enum, _ := newPopulatedEnumerator(t, enumerate.Topology{
		Devices: []enumerate.NodeSpec{
			{Node: "/dev/media0", Driver: "vimc"},
		},
	})

	if got := AcquireDevice(enum, enumerate.NewDeviceMatch("uvcvideo")); got != nil {
		t.Errorf("AcquireDevice = %v, want nil for a foreign driver", got)
	}
}

func TestAcquireDeviceEntityRequirements(t *testing.T) {
	enum, _ := newPopulatedEnumerator(t, enumerate.Topology{
		Devices: []enumerate.NodeSpec{
			{
				Node:     "/dev/media0",
				Driver:   "vimc",
				Entities: []media.Entity{{Name: "Sensor A"}},
			},
			{
				Node:   "/dev/media1",
				Driver: "vimc",
				Entities: []media.Entity{
					{Name: "Sensor A"},
					{Name: "Raw Capture 0"},
				},
			},
		},
	})

	match := enumerate.NewDeviceMatch("vimc")
	match.Add("Sensor A")
	match.Add("Raw Capture 0")

	got := AcquireDevice(enum, match)
	if got == nil || got.Path() != "/dev/media1" {
		t.Fatalf("AcquireDevice = %v, want the complete /dev/media1", got)
	}
}
