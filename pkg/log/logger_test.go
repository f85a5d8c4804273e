package log

import (
	"testing"
	"time"
)

func TestNoopLoggerDoesNotPanic(t *testing.T) {
	logger := NoopLogger{}

	// Should not panic with any event type
	event := Event{
		Timestamp: time.Now(),
		Session:   "test-session",
		Stage:     StageBackend,
		Category:  CategoryScan,
	}

	// Test with nil payloads
	logger.Log(event)

	// Test with scan payload
	event.Scan = &ScanEvent{Nodes: 3, Devices: 2, Skipped: 1}
	logger.Log(event)

	// Test with hotplug payload
	event.Scan = nil
	event.Hotplug = &HotplugEvent{Action: "ADD"}
	logger.Log(event)

	// Test with match payload
	event.Hotplug = nil
	event.Match = &MatchEvent{Pipeline: "uvc", Matched: true}
	logger.Log(event)

	// Test with state change payload
	event.Match = nil
	event.StateChange = &StateChangeEvent{Entity: StateEntityManager, NewState: "RUNNING"}
	logger.Log(event)

	// Test with error payload
	event.StateChange = nil
	event.Error = &ErrorEventData{Message: "test error"}
	logger.Log(event)
}

func TestLoggerInterfaceSatisfaction(t *testing.T) {
	// Compile-time check that NoopLogger satisfies Logger interface
	var _ Logger = NoopLogger{}
	var _ Logger = &NoopLogger{}
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	// NoopLogger should be usable as zero value
	var logger NoopLogger
	logger.Log(Event{})
}
