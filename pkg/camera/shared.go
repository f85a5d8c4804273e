package camera

import (
	"context"
	"sync"
)

// The shared manager is a process-wide singleton: libraries embedded in
// the same process acquire handles instead of each running a manager of
// their own. sharedMu is held across construction AND Start, so
// concurrent first acquires serialize and exactly one instance is
// built; the slot is only published once Start has succeeded.
var (
	sharedMu   sync.Mutex
	sharedMgr  *Manager
	sharedRefs int
)

// Handle is a reference to the shared manager. Closing the last open
// handle stops the manager and clears the shared slot.
type Handle struct {
	mgr  *Manager
	once sync.Once
}

// Acquire returns a handle to the shared manager, starting one if none
// is live. The config is consulted only when this call is the one that
// constructs the manager; later acquirers join whatever is already
// running. ctx bounds startup only.
//
// A start failure publishes nothing: the error goes to this caller and
// the next Acquire tries again from scratch.
func Acquire(ctx context.Context, config Config) (*Handle, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedMgr == nil {
		mgr, err := NewManager(config)
		if err != nil {
			return nil, err
		}
		if err := mgr.Start(ctx); err != nil {
			return nil, err
		}
		sharedMgr = mgr
	}

	sharedRefs++
	return &Handle{mgr: sharedMgr}, nil
}

// Manager returns the shared manager this handle refers to. The
// pointer stays valid after Close, but the manager may have stopped.
func (h *Handle) Manager() *Manager {
	return h.mgr
}

// Close releases the handle. When the last handle closes, the shared
// manager is stopped and the slot cleared; a later Acquire builds a
// fresh instance. Closing twice is a no-op.
func (h *Handle) Close() error {
	var err error
	h.once.Do(func() {
		sharedMu.Lock()
		defer sharedMu.Unlock()

		sharedRefs--
		if sharedRefs == 0 {
			err = sharedMgr.Stop()
			sharedMgr = nil
		}
	})
	return err
}
