// Package log provides structured discovery tracing for lumen.
//
// This package defines the Logger interface and Event types for capturing
// discovery events at multiple stages (backend, registry, manager).
// It is separate from operational logging (slog) - trace capture provides
// a complete machine-readable record of enumeration runs for debugging
// and analysis.
//
// # Basic Usage
//
// Applications configure tracing by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Trace = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.Trace, _ = log.NewFileLogger("/var/log/lumen/manager.ltrace")
//
//	// Both: use MultiLogger
//	cfg.Trace = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    log.NewFileLogger("/var/log/lumen/manager.ltrace"),
//	)
//
// # Event Types
//
// Events are captured at multiple stages:
//   - Backend: Scans and hotplug transitions (ScanEvent, HotplugEvent)
//   - Registry: Device insertions and removals (HotplugEvent)
//   - Manager: Pipeline matching and lifecycle (MatchEvent, StateChangeEvent)
//
// Errors at any stage have a dedicated event type.
//
// # File Format
//
// Trace files use CBOR encoding with .ltrace extension. The lumen-log CLI
// tool provides viewing, filtering, and export capabilities.
package log
