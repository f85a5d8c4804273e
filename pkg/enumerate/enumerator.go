package enumerate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lumen-media/lumen-go/pkg/log"
	"github.com/lumen-media/lumen-go/pkg/media"
	"github.com/lumen-media/lumen-go/pkg/signal"
)

// Config configures an Enumerator.
type Config struct {
	// Backend produces device nodes. Required.
	Backend Backend

	// Introspector probes device nodes into devices. Optional when
	// Backend implements Introspector itself.
	Introspector Introspector

	// Session identifies this enumeration run in trace events.
	// If empty, a random UUID is generated.
	Session string

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// Trace is the optional structured trace sink.
	// If nil, tracing is disabled.
	Trace log.Logger
}

// Validate checks if the config is valid.
func (c *Config) Validate() error {
	if c.Backend == nil {
		return ErrNilBackend
	}
	if c.Introspector == nil {
		if _, ok := c.Backend.(Introspector); !ok {
			return ErrNoIntrospector
		}
	}
	return nil
}

// Enumerator drives one backend through its lifecycle and maintains
// the registry of devices the backend has produced. Init and Enumerate
// are one-shot: a second call of either is an error. Hotplug events
// read from Events are applied with HandleEvent, one at a time, in the
// order the backend delivered them.
//
// Like its registry, an Enumerator is confined to a single owner.
// Methods must not be called concurrently; the owner (typically a
// camera manager run loop) serializes scanning, event handling and
// searches on one goroutine.
type Enumerator struct {
	backend      Backend
	introspector Introspector
	registry     *Registry
	session      string
	state        EnumeratorState

	// logger is optional; nil disables logging.
	logger *slog.Logger

	// trace is optional; nil disables trace capture.
	trace log.Logger
}

// New creates an Enumerator for the configured backend. The registry
// starts empty; nothing touches the backend until Init.
func New(config Config) (*Enumerator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	intro := config.Introspector
	if intro == nil {
		intro = config.Backend.(Introspector)
	}

	session := config.Session
	if session == "" {
		session = uuid.NewString()
	}

	return &Enumerator{
		backend:      config.Backend,
		introspector: intro,
		registry:     NewRegistry(config.Logger),
		session:      session,
		state:        EnumeratorCreated,
		logger:       config.Logger,
		trace:        config.Trace,
	}, nil
}

// Init initializes the backend and starts hotplug monitoring. It is
// one-shot: calling it again returns ErrAlreadyInitialized.
func (e *Enumerator) Init(ctx context.Context) error {
	switch e.state {
	case EnumeratorClosed:
		return ErrClosed
	case EnumeratorInitialized, EnumeratorPopulated:
		return ErrAlreadyInitialized
	}

	if err := e.backend.Init(ctx); err != nil {
		return fmt.Errorf("backend init: %w", err)
	}

	e.setState(EnumeratorInitialized, "backend ready")
	return nil
}

// Enumerate performs the initial scan: every node the backend reports
// is probed and the resulting devices are added to the registry in
// scan order. Nodes whose probe fails are skipped, logged and traced;
// they never abort the scan. Enumerate is one-shot: calling it again
// returns ErrAlreadyPopulated. Later node transitions arrive through
// Events instead.
func (e *Enumerator) Enumerate(ctx context.Context) error {
	switch e.state {
	case EnumeratorClosed:
		return ErrClosed
	case EnumeratorCreated:
		return ErrNotInitialized
	case EnumeratorPopulated:
		return ErrAlreadyPopulated
	}

	start := time.Now()
	nodes, err := e.backend.Nodes(ctx)
	if err != nil {
		return fmt.Errorf("backend scan: %w", err)
	}

	added, skipped := 0, 0
	for _, node := range nodes {
		if err := ctx.Err(); err != nil {
			return err
		}

		dev, err := e.createDevice(ctx, node)
		if err != nil {
			skipped++
			continue
		}
		if e.registry.AddDevice(dev) {
			added++
		}
	}

	e.traceScan(len(nodes), added, skipped, time.Since(start))
	e.setState(EnumeratorPopulated, "initial scan complete")
	return nil
}

// HandleEvent applies one hotplug event to the registry and returns
// the affected device: the freshly probed device for ActionAdd, the
// now-removed device for ActionRemove. It returns a nil device when
// the event had no effect - a failed probe, an add for a node that is
// already registered, or a remove for a node that never was. None of
// those are errors; the error return covers lifecycle misuse only.
func (e *Enumerator) HandleEvent(ctx context.Context, ev Event) (*media.Device, error) {
	switch e.state {
	case EnumeratorClosed:
		return nil, ErrClosed
	case EnumeratorCreated:
		return nil, ErrNotInitialized
	case EnumeratorInitialized:
		return nil, ErrNotPopulated
	}

	switch ev.Action {
	case ActionAdd:
		known := e.registry.DeviceByNode(ev.Node) != nil
		e.traceHotplug(ev, known)
		if known {
			e.debugLog("duplicate device ignored", "node", ev.Node)
			return nil, nil
		}

		dev, err := e.createDevice(ctx, ev.Node)
		if err != nil {
			return nil, nil
		}
		if !e.registry.AddDevice(dev) {
			return nil, nil
		}
		return dev, nil

	case ActionRemove:
		dev := e.registry.RemoveDevice(ev.Node)
		e.traceHotplug(ev, dev != nil)
		return dev, nil
	}

	return nil, nil
}

// Search returns the first registered device, in insertion order, that
// satisfies m, or nil when none does.
func (e *Enumerator) Search(m DeviceMatch) *media.Device {
	return e.registry.Search(m)
}

// Devices returns the registered devices in insertion order.
func (e *Enumerator) Devices() []*media.Device {
	return e.registry.Devices()
}

// OnDeviceAdded subscribes fn to device insertions. See
// Registry.OnDeviceAdded for delivery semantics.
func (e *Enumerator) OnDeviceAdded(fn func(*media.Device)) *signal.Connection[*media.Device] {
	return e.registry.OnDeviceAdded(fn)
}

// Registry exposes the underlying registry. The single-owner contract
// extends to it: only the enumerator's owner may touch it.
func (e *Enumerator) Registry() *Registry {
	return e.registry
}

// Events returns the backend's hotplug event stream.
func (e *Enumerator) Events() <-chan Event {
	return e.backend.Events()
}

// State returns the enumerator lifecycle state.
func (e *Enumerator) State() EnumeratorState {
	return e.state
}

// Session returns the session ID stamped on trace events.
func (e *Enumerator) Session() string {
	return e.session
}

// Close shuts the backend down. It is safe to call more than once;
// calls after the first are no-ops.
func (e *Enumerator) Close() error {
	if e.state == EnumeratorClosed {
		return nil
	}
	e.setState(EnumeratorClosed, "closed")
	return e.backend.Close()
}

// createDevice probes node into a fresh device. Every call produces a
// new device instance, so a node that departs and returns yields a
// distinct device from its earlier incarnation.
func (e *Enumerator) createDevice(ctx context.Context, node string) (*media.Device, error) {
	dev, err := e.introspector.Probe(ctx, node)
	if err != nil {
		e.debugLog("device probe failed", "node", node, "error", err)
		e.traceError(node, err, "createDevice")
		return nil, err
	}
	return dev, nil
}

// setState transitions the lifecycle state and records the change.
func (e *Enumerator) setState(next EnumeratorState, reason string) {
	prev := e.state
	e.state = next
	e.debugLog("enumerator state changed", "old", prev.String(), "new", next.String())

	if e.trace == nil {
		return
	}
	e.trace.Log(log.Event{
		Timestamp: time.Now(),
		Session:   e.session,
		Stage:     log.StageBackend,
		Category:  log.CategoryState,
		Backend:   e.backend.Name(),
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityEnumerator,
			OldState: prev.String(),
			NewState: next.String(),
			Reason:   reason,
		},
	})
}

// traceScan records the outcome of the initial scan.
func (e *Enumerator) traceScan(nodes, devices, skipped int, took time.Duration) {
	if e.trace == nil {
		return
	}

	e.trace.Log(log.Event{
		Timestamp: time.Now(),
		Session:   e.session,
		Stage:     log.StageBackend,
		Category:  log.CategoryScan,
		Backend:   e.backend.Name(),
		Scan: &log.ScanEvent{
			Nodes:    nodes,
			Devices:  devices,
			Skipped:  skipped,
			Duration: took,
		},
	})
}

// traceHotplug records a hotplug transition.
func (e *Enumerator) traceHotplug(ev Event, known bool) {
	if e.trace == nil {
		return
	}

	e.trace.Log(log.Event{
		Timestamp: time.Now(),
		Session:   e.session,
		Stage:     log.StageBackend,
		Category:  log.CategoryHotplug,
		Backend:   e.backend.Name(),
		Node:      ev.Node,
		Hotplug: &log.HotplugEvent{
			Action: ev.Action.String(),
			Known:  known,
		},
	})
}

// traceError records a node-level failure.
func (e *Enumerator) traceError(node string, err error, context string) {
	if e.trace == nil {
		return
	}

	e.trace.Log(log.Event{
		Timestamp: time.Now(),
		Session:   e.session,
		Stage:     log.StageBackend,
		Category:  log.CategoryError,
		Backend:   e.backend.Name(),
		Node:      node,
		Error: &log.ErrorEventData{
			Stage:   log.StageBackend,
			Message: err.Error(),
			Context: context,
		},
	})
}

// debugLog logs a debug message if a logger is configured.
func (e *Enumerator) debugLog(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
