package camera

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lumen-media/lumen-go/pkg/enumerate"
	"github.com/lumen-media/lumen-go/pkg/log"
	"github.com/lumen-media/lumen-go/pkg/media"
	"github.com/lumen-media/lumen-go/pkg/persistence"
	"github.com/lumen-media/lumen-go/pkg/version"
)

// Manager owns the camera lifecycle for a process. Start builds the
// discovery backend, scans it, and matches pipeline handlers against
// the devices found; afterwards a single run-loop goroutine applies
// hotplug events, building cameras as hardware arrives and retiring
// them as it goes away.
//
// The run loop is the sole owner of the enumerator and its registry.
// Everything the manager exposes to other goroutines (cameras, device
// snapshots, state) is guarded separately, so Manager methods are safe
// for concurrent use.
type Manager struct {
	mu sync.RWMutex

	config  Config
	state   ManagerState
	session string

	enum        *enumerate.Enumerator
	cameras     []*Camera
	cameraIndex map[string]*Camera
	deviceTable []media.DeviceInfo

	added   subscriberList
	removed subscriberList

	// logger is optional; nil disables logging.
	logger *slog.Logger

	// trace is optional; nil disables trace capture.
	trace log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewManager creates a manager. Nothing touches the backend until
// Start.
func NewManager(config Config) (*Manager, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	session := config.Session
	if session == "" {
		session = uuid.NewString()
	}

	return &Manager{
		config:      config,
		state:       StateIdle,
		session:     session,
		cameraIndex: make(map[string]*Camera),
		logger:      config.Logger,
		trace:       config.Trace,
	}, nil
}

// State returns the current manager state.
func (m *Manager) State() ManagerState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Session returns the session ID stamped on trace events.
func (m *Manager) Session() string {
	return m.session
}

// Version returns the library version banner.
func (m *Manager) Version() string {
	return version.String()
}

// OnCameraAdded subscribes fn to camera additions. fn runs
// synchronously on the goroutine that built the camera: the Start
// caller during the initial match, the run loop for hotplug arrivals.
func (m *Manager) OnCameraAdded(fn func(*Camera)) *Subscription {
	return m.added.add(fn)
}

// OnCameraRemoved subscribes fn to camera retirements. fn runs
// synchronously on the run loop; the retired camera stays readable.
func (m *Manager) OnCameraRemoved(fn func(*Camera)) *Subscription {
	return m.removed.add(fn)
}

// Start starts the manager: backend construction, initial scan,
// pipeline matching, then the hotplug run loop. ctx bounds startup
// only; the run loop lives until Stop. Any failure rolls the manager
// back to idle with nothing running.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateIdle && m.state != StateStopped {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	prev := m.state
	m.state = StateStarting
	m.mu.Unlock()
	m.traceState(prev, StateStarting, "start requested")

	backend, err := m.config.NewBackend()
	if err != nil {
		m.rollback()
		return fmt.Errorf("building backend: %w", err)
	}

	enum, err := enumerate.New(enumerate.Config{
		Backend:      backend,
		Introspector: m.config.Introspector,
		Session:      m.session,
		Logger:       m.logger,
		Trace:        m.trace,
	})
	if err != nil {
		backend.Close()
		m.rollback()
		return err
	}

	if err := enum.Init(ctx); err != nil {
		enum.Close()
		m.rollback()
		return err
	}

	if err := enum.Enumerate(ctx); err != nil {
		enum.Close()
		m.rollback()
		return err
	}

	m.mu.Lock()
	m.enum = enum
	m.mu.Unlock()

	m.refreshDeviceTable()
	m.matchPipelines()

	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.done = make(chan struct{})
	go m.run()

	m.mu.Lock()
	m.state = StateRunning
	m.mu.Unlock()
	m.traceState(StateStarting, StateRunning, "start complete")

	return nil
}

// Stop stops the run loop, persists the device snapshot if configured,
// and shuts the backend down. Claims on devices are released; no
// removal events fire, the whole manager is going away.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if m.state != StateRunning {
		m.mu.Unlock()
		return ErrNotStarted
	}
	m.state = StateStopping
	m.mu.Unlock()
	m.traceState(StateRunning, StateStopping, "stop requested")

	m.cancel()
	<-m.done

	// The run loop has exited; this goroutine owns the enumerator now.
	m.saveSnapshot()
	err := m.enum.Close()

	m.mu.Lock()
	retired := m.cameras
	m.cameras = nil
	m.cameraIndex = make(map[string]*Camera)
	m.deviceTable = nil
	m.enum = nil
	m.state = StateStopped
	m.mu.Unlock()

	for _, cam := range retired {
		cam.device.Release()
	}

	m.traceState(StateStopping, StateStopped, "stop complete")
	return err
}

// Cameras returns a snapshot of the current cameras in the order the
// pipelines built them.
func (m *Manager) Cameras() []*Camera {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Camera, len(m.cameras))
	copy(out, m.cameras)
	return out
}

// Get returns the camera with the given ID.
func (m *Manager) Get(id string) (*Camera, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cam, ok := m.cameraIndex[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCameraNotFound, id)
	}
	return cam, nil
}

// DeviceInfos returns snapshots of the devices currently registered,
// claimed or not, in scan order. The snapshots are decoupled from the
// live registry and safe to hold.
func (m *Manager) DeviceInfos() []media.DeviceInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]media.DeviceInfo, len(m.deviceTable))
	copy(out, m.deviceTable)
	return out
}

// run is the manager's owner loop: the only goroutine that touches
// the enumerator after Start.
func (m *Manager) run() {
	defer close(m.done)

	for {
		select {
		case ev, ok := <-m.enum.Events():
			if !ok {
				return
			}
			m.handleHotplug(ev)
		case <-m.ctx.Done():
			return
		}
	}
}

// handleHotplug applies one hotplug event and reconciles the camera
// set with its outcome. Events are handled one at a time, in arrival
// order.
func (m *Manager) handleHotplug(ev enumerate.Event) {
	dev, err := m.enum.HandleEvent(m.ctx, ev)
	if err != nil {
		m.debugLog("hotplug event rejected",
			"action", ev.Action.String(), "node", ev.Node, "error", err)
		return
	}
	if dev == nil {
		// Duplicate add, failed probe, or unknown remove. Nothing
		// changed.
		return
	}

	m.refreshDeviceTable()

	switch ev.Action {
	case enumerate.ActionAdd:
		m.matchPipelines()
	case enumerate.ActionRemove:
		m.retireCameras(dev)
	}
}

// matchPipelines drives every pipeline factory against the current
// registry. Each factory is instantiated and matched repeatedly until
// a pass builds no cameras, so one pipeline claims every device it can
// serve, one handler instance each.
//
// Called on the goroutine that owns the enumerator.
func (m *Manager) matchPipelines() {
	for _, factory := range m.config.Pipelines {
		for {
			handler := factory()
			cams, err := handler.Match(m.enum)
			if err != nil {
				m.debugLog("pipeline match failed",
					"pipeline", handler.Name(), "error", err)
				m.traceError(err, "match "+handler.Name())
				break
			}
			if len(cams) == 0 {
				m.traceMatch(handler.Name(), nil)
				break
			}
			for _, cam := range cams {
				m.traceMatch(handler.Name(), cam)
				m.addCamera(cam)
			}
		}
	}
}

// addCamera registers cam and announces it. A camera whose ID is
// already present is absorbed with a log entry; the first instance
// stays authoritative and the device claim stays with it.
func (m *Manager) addCamera(cam *Camera) {
	m.mu.Lock()
	if _, dup := m.cameraIndex[cam.id]; dup {
		m.mu.Unlock()
		m.debugLog("duplicate camera ignored", "id", cam.id)
		return
	}
	m.cameras = append(m.cameras, cam)
	m.cameraIndex[cam.id] = cam
	m.mu.Unlock()

	m.debugLog("camera added", "id", cam.id, "node", cam.Node())
	m.traceCamera(cam, "", "AVAILABLE", "pipeline match")
	m.added.notify(cam)
}

// retireCameras drops every camera built on dev and announces the
// retirements. The cameras stay readable; only the device claims are
// released.
func (m *Manager) retireCameras(dev *media.Device) {
	m.mu.Lock()
	var retired []*Camera
	kept := m.cameras[:0]
	for _, cam := range m.cameras {
		if cam.device == dev {
			retired = append(retired, cam)
			delete(m.cameraIndex, cam.id)
		} else {
			kept = append(kept, cam)
		}
	}
	m.cameras = kept
	m.mu.Unlock()

	for _, cam := range retired {
		cam.device.Release()
		m.debugLog("camera retired", "id", cam.id, "node", cam.Node())
		m.traceCamera(cam, "AVAILABLE", "RETIRED", "device removed")
		m.removed.notify(cam)
	}
}

// refreshDeviceTable re-snapshots the registry for DeviceInfos.
// Called on the goroutine that owns the enumerator.
func (m *Manager) refreshDeviceTable() {
	devices := m.enum.Devices()
	infos := make([]media.DeviceInfo, 0, len(devices))
	for _, dev := range devices {
		infos = append(infos, *dev.Info())
	}

	m.mu.Lock()
	m.deviceTable = infos
	m.mu.Unlock()
}

// saveSnapshot persists the device table when a snapshot path is
// configured. Failures are logged, never fatal: the manager must stop
// cleanly even when its state directory is gone.
func (m *Manager) saveSnapshot() {
	if m.config.SnapshotPath == "" {
		return
	}

	infos := m.DeviceInfos()

	store := persistence.NewSnapshotStore(m.config.SnapshotPath)
	snap := &persistence.Snapshot{Session: m.session, Devices: infos}
	if err := store.Save(snap); err != nil {
		m.debugLog("snapshot save failed",
			"path", m.config.SnapshotPath, "error", err)
	}
}

// rollback returns the manager to idle after a failed start.
func (m *Manager) rollback() {
	m.mu.Lock()
	m.state = StateIdle
	m.mu.Unlock()
	m.traceState(StateStarting, StateIdle, "start failed")
}

// traceState records a manager lifecycle transition.
func (m *Manager) traceState(prev, next ManagerState, reason string) {
	if m.trace == nil {
		return
	}

	m.trace.Log(log.Event{
		Timestamp: time.Now(),
		Session:   m.session,
		Stage:     log.StageManager,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityManager,
			OldState: prev.String(),
			NewState: next.String(),
			Reason:   reason,
		},
	})
}

// traceCamera records a camera availability transition.
func (m *Manager) traceCamera(cam *Camera, prev, next, reason string) {
	if m.trace == nil {
		return
	}

	m.trace.Log(log.Event{
		Timestamp: time.Now(),
		Session:   m.session,
		Stage:     log.StageManager,
		Category:  log.CategoryState,
		Node:      cam.Node(),
		Driver:    cam.device.Driver(),
		CameraID:  cam.id,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityCamera,
			OldState: prev,
			NewState: next,
			Reason:   reason,
		},
	})
}

// traceMatch records one pipeline match pass. cam is nil for a pass
// that built nothing.
func (m *Manager) traceMatch(pipeline string, cam *Camera) {
	if m.trace == nil {
		return
	}

	ev := log.Event{
		Timestamp: time.Now(),
		Session:   m.session,
		Stage:     log.StageManager,
		Category:  log.CategoryMatch,
		Match: &log.MatchEvent{
			Pipeline: pipeline,
			Matched:  cam != nil,
		},
	}
	if cam != nil {
		ev.Node = cam.Node()
		ev.Driver = cam.device.Driver()
		ev.CameraID = cam.id
	}
	m.trace.Log(ev)
}

// traceError records a manager-stage failure.
func (m *Manager) traceError(err error, context string) {
	if m.trace == nil {
		return
	}

	m.trace.Log(log.Event{
		Timestamp: time.Now(),
		Session:   m.session,
		Stage:     log.StageManager,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Stage:   log.StageManager,
			Message: err.Error(),
			Context: context,
		},
	})
}

// debugLog logs a debug message if a logger is configured.
func (m *Manager) debugLog(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Debug(msg, args...)
	}
}
