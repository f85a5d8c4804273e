package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger.
// Useful for development when you want to see discovery events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.Session),
		slog.String("stage", event.Stage.String()),
		slog.String("category", event.Category.String()),
	}

	// Add optional identifiers
	if event.Backend != "" {
		attrs = append(attrs, slog.String("backend", event.Backend))
	}
	if event.Node != "" {
		attrs = append(attrs, slog.String("node", event.Node))
	}
	if event.Driver != "" {
		attrs = append(attrs, slog.String("driver", event.Driver))
	}
	if event.CameraID != "" {
		attrs = append(attrs, slog.String("camera_id", event.CameraID))
	}

	// Add type-specific attributes
	switch {
	case event.Scan != nil:
		attrs = append(attrs,
			slog.Int("nodes", event.Scan.Nodes),
			slog.Int("devices", event.Scan.Devices),
			slog.Int("skipped", event.Scan.Skipped),
		)
		if event.Scan.Duration != 0 {
			attrs = append(attrs, slog.Duration("duration", event.Scan.Duration))
		}
	case event.Hotplug != nil:
		attrs = append(attrs,
			slog.String("action", event.Hotplug.Action),
			slog.Bool("known", event.Hotplug.Known),
		)
	case event.Match != nil:
		attrs = append(attrs,
			slog.String("pipeline", event.Match.Pipeline),
			slog.Bool("matched", event.Match.Matched),
		)
		if len(event.Match.Entities) > 0 {
			attrs = append(attrs, slog.Any("entities", event.Match.Entities))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("entity", event.StateChange.Entity.String()),
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_stage", event.Error.Stage.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "discovery", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
