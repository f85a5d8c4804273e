package log

import (
	"time"
)

// Event represents a discovery trace event captured at any stage of
// enumeration or camera lifecycle handling.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// Session uniquely identifies one manager run (UUID).
	Session string `cbor:"2,keyasint"`

	// Stage where the event was captured.
	Stage Stage `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Backend is the enumerator backend that produced the node
	// (fixture, fsnotify, mdns).
	Backend string `cbor:"5,keyasint,omitempty"`

	// Node is the device node path the event refers to.
	Node string `cbor:"6,keyasint,omitempty"`

	// Driver is the kernel driver bound to the node.
	Driver string `cbor:"7,keyasint,omitempty"`

	// CameraID identifies the camera (populated once a pipeline
	// claimed the device).
	CameraID string `cbor:"8,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Scan        *ScanEvent        `cbor:"9,keyasint,omitempty"`  // Initial enumeration
	Hotplug     *HotplugEvent     `cbor:"10,keyasint,omitempty"` // Node arrival/departure
	Match       *MatchEvent       `cbor:"11,keyasint,omitempty"` // Pipeline matching
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"` // Lifecycle state
	Error       *ErrorEventData   `cbor:"13,keyasint,omitempty"` // Errors at any stage
}

// Stage indicates which subsystem captured the event.
type Stage uint8

const (
	// StageBackend is the node discovery layer (scans, hotplug sources).
	StageBackend Stage = 0
	// StageRegistry is the device registry layer.
	StageRegistry Stage = 1
	// StageManager is the camera manager layer.
	StageManager Stage = 2
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageBackend:
		return "BACKEND"
	case StageRegistry:
		return "REGISTRY"
	case StageManager:
		return "MANAGER"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryScan indicates an initial enumeration pass.
	CategoryScan Category = 0
	// CategoryHotplug indicates a node arrival or departure.
	CategoryHotplug Category = 1
	// CategoryMatch indicates a pipeline handler match attempt.
	CategoryMatch Category = 2
	// CategoryState indicates a lifecycle state change.
	CategoryState Category = 3
	// CategoryError indicates an error event.
	CategoryError Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryScan:
		return "SCAN"
	case CategoryHotplug:
		return "HOTPLUG"
	case CategoryMatch:
		return "MATCH"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ScanEvent captures the outcome of an initial enumeration pass.
type ScanEvent struct {
	// Nodes is the number of device nodes the backend reported.
	Nodes int `cbor:"1,keyasint"`

	// Devices is the number of devices that probed successfully.
	Devices int `cbor:"2,keyasint"`

	// Skipped is the number of nodes whose probe failed.
	Skipped int `cbor:"3,keyasint"`

	// Duration is the wall time the scan took.
	// Stored as nanoseconds.
	Duration time.Duration `cbor:"4,keyasint,omitempty"`
}

// HotplugEvent captures a single node arrival or departure.
type HotplugEvent struct {
	// Action is the transition, "ADD" or "REMOVE".
	Action string `cbor:"1,keyasint"`

	// Known reports whether the node was already registered when the
	// event arrived (a duplicate add or an effective remove).
	Known bool `cbor:"2,keyasint,omitempty"`
}

// MatchEvent captures a pipeline handler match attempt against a device.
type MatchEvent struct {
	// Pipeline is the handler name (e.g. "uvc", "vimc").
	Pipeline string `cbor:"1,keyasint"`

	// Matched reports whether the handler accepted the device.
	Matched bool `cbor:"2,keyasint"`

	// Entities lists the entity names the handler required.
	Entities []string `cbor:"3,keyasint,omitempty"`
}

// StateChangeEvent captures enumerator and manager lifecycle events.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityEnumerator indicates an enumerator state change.
	StateEntityEnumerator StateEntity = 0
	// StateEntityManager indicates a manager state change.
	StateEntityManager StateEntity = 1
	// StateEntityCamera indicates a camera availability change.
	StateEntityCamera StateEntity = 2
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityEnumerator:
		return "ENUMERATOR"
	case StateEntityManager:
		return "MANAGER"
	case StateEntityCamera:
		return "CAMERA"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any stage.
type ErrorEventData struct {
	// Stage where the error occurred.
	Stage Stage `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
