package camera

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/lumen-media/lumen-go/pkg/enumerate"
)

// The shared slot is process-global, so these tests run sequentially
// and each leaves the slot empty behind it.

func sharedTestConfig() Config {
	return Config{
		NewBackend: func() (enumerate.Backend, error) {
			return enumerate.NewFixtureBackend(testTopology()), nil
		},
		Pipelines: []PipelineFactory{pipelineFor("uvc", "uvcvideo")},
	}
}

func TestAcquireShares(t *testing.T) {
	first, err := Acquire(context.Background(), sharedTestConfig())
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}

	// The second acquirer's config is ignored; it joins the running
	// manager.
	second, err := Acquire(context.Background(), Config{
		NewBackend: func() (enumerate.Backend, error) {
			t.Error("joining Acquire must not build a backend")
			return nil, errors.New("unreachable")
		},
	})
	if err != nil {
		t.Fatalf("second Acquire: %v", err)
	}

	if first.Manager() != second.Manager() {
		t.Fatal("handles should share one manager")
	}
	if first.Manager().State() != StateRunning {
		t.Fatalf("shared manager state = %v, want RUNNING", first.Manager().State())
	}

	mgr := first.Manager()
	if err := first.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if mgr.State() != StateRunning {
		t.Error("manager should keep running while a handle is open")
	}
	if err := second.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if mgr.State() != StateStopped {
		t.Errorf("manager state after last close = %v, want STOPPED", mgr.State())
	}
}

func TestAcquireConcurrent(t *testing.T) {
	config := sharedTestConfig()

	const n = 8
	var wg sync.WaitGroup
	handles := make([]*Handle, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i], errs[i] = Acquire(context.Background(), config)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("Acquire %d: %v", i, err)
		}
	}

	mgr := handles[0].Manager()
	for i, h := range handles {
		if h.Manager() != mgr {
			t.Fatalf("handle %d got a different manager", i)
		}
	}
	if mgr.State() != StateRunning {
		t.Fatalf("shared manager state = %v, want RUNNING", mgr.State())
	}

	for i, h := range handles {
		if err := h.Close(); err != nil {
			t.Fatalf("Close %d: %v", i, err)
		}
	}
	if mgr.State() != StateStopped {
		t.Errorf("manager state after last close = %v, want STOPPED", mgr.State())
	}
}

func TestAcquireFreshAfterRelease(t *testing.T) {
	first, err := Acquire(context.Background(), sharedTestConfig())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	mgr := first.Manager()
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := Acquire(context.Background(), sharedTestConfig())
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	defer second.Close()

	if second.Manager() == mgr {
		t.Error("a released slot should yield a distinct manager")
	}
	if second.Manager().State() != StateRunning {
		t.Errorf("fresh manager state = %v, want RUNNING", second.Manager().State())
	}
}

func TestAcquireStartFailure(t *testing.T) {
	boom := errors.New("backend exploded")
	if _, err := Acquire(context.Background(), Config{
		NewBackend: func() (enumerate.Backend, error) { return nil, boom },
	}); !errors.Is(err, boom) {
		t.Fatalf("Acquire = %v, want wrapped %v", err, boom)
	}

	if _, err := Acquire(context.Background(), Config{}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Acquire(Config{}) = %v, want ErrInvalidConfig", err)
	}

	// Neither failure published anything; a good config starts clean.
	handle, err := Acquire(context.Background(), sharedTestConfig())
	if err != nil {
		t.Fatalf("Acquire after failures: %v", err)
	}
	defer handle.Close()

	if handle.Manager().State() != StateRunning {
		t.Error("manager should be running after a clean Acquire")
	}
}

func TestHandleDoubleClose(t *testing.T) {
	first, err := Acquire(context.Background(), sharedTestConfig())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	second, err := Acquire(context.Background(), sharedTestConfig())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	mgr := first.Manager()

	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// The repeat close must not steal the remaining reference.
	if err := first.Close(); err != nil {
		t.Fatalf("repeat Close: %v", err)
	}
	if mgr.State() != StateRunning {
		t.Fatal("manager stopped by a double close")
	}

	if err := second.Close(); err != nil {
		t.Fatalf("last Close: %v", err)
	}
	if mgr.State() != StateStopped {
		t.Errorf("manager state after last close = %v, want STOPPED", mgr.State())
	}
}
