package camera

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/lumen-media/lumen-go/pkg/enumerate"
	"github.com/lumen-media/lumen-go/pkg/log"
)

// Manager errors.
var (
	ErrNotStarted     = errors.New("manager not started")
	ErrAlreadyStarted = errors.New("manager already started")
	ErrCameraNotFound = errors.New("camera not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// ManagerState represents the manager lifecycle state.
type ManagerState uint8

const (
	// StateIdle - manager created but not started.
	StateIdle ManagerState = iota

	// StateStarting - manager is starting up.
	StateStarting

	// StateRunning - manager is running normally.
	StateRunning

	// StateStopping - manager is shutting down.
	StateStopping

	// StateStopped - manager has stopped.
	StateStopped
)

// String returns the state name.
func (s ManagerState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateStarting:
		return "STARTING"
	case StateRunning:
		return "RUNNING"
	case StateStopping:
		return "STOPPING"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// PipelineHandler claims devices from the registry and builds cameras
// on top of them. Implementations live in the pipeline subpackages and
// reach the manager through Config.Pipelines.
type PipelineHandler interface {
	// Name identifies the pipeline (e.g. "uvc", "vimc").
	Name() string

	// Match searches the registry for a device the pipeline can
	// drive, claims it, and returns the cameras built on it.
	// Returning no cameras is routine: every device the pipeline
	// could use is already claimed, removed, or absent.
	Match(enum *enumerate.Enumerator) ([]*Camera, error)
}

// PipelineFactory builds a fresh PipelineHandler. The manager calls
// the factory and matches repeatedly until a pass yields no cameras,
// so one pipeline can claim any number of devices, one handler
// instance each.
type PipelineFactory func() PipelineHandler

// Config configures a Manager.
type Config struct {
	// NewBackend constructs the discovery backend. Every Start call
	// builds a fresh backend, so a restarted manager never reuses a
	// closed one. Required.
	NewBackend func() (enumerate.Backend, error)

	// Introspector probes device nodes into devices. Optional when
	// the backend implements enumerate.Introspector itself.
	Introspector enumerate.Introspector

	// Pipelines are the pipeline factories to match devices against,
	// usually pipeline.Factories(). A manager without pipelines
	// tracks devices but never builds cameras.
	Pipelines []PipelineFactory

	// Session identifies this manager run in trace events.
	// If empty, a random UUID is generated.
	Session string

	// SnapshotPath persists the device table to a JSON file on Stop
	// when set.
	SnapshotPath string

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// Trace is the optional structured trace sink.
	// If nil, tracing is disabled.
	Trace log.Logger
}

// Validate checks if the config is valid.
func (c *Config) Validate() error {
	if c.NewBackend == nil {
		return fmt.Errorf("%w: NewBackend is required", ErrInvalidConfig)
	}
	return nil
}
