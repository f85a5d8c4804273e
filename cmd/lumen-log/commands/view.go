// Package commands implements the lumen-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lumen-media/lumen-go/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Stage    *log.Stage
	Category *log.Category
	Session  string
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		if filter.Stage != nil && event.Stage != *filter.Stage {
			continue
		}
		if filter.Category != nil && event.Category != *filter.Category {
			continue
		}
		if filter.Session != "" && event.Session != filter.Session {
			continue
		}

		formatEvent(output, event)
	}

	return nil
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [sess:id] STAGE Type
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	sess := shortenSession(event.Session)

	var typeLabel string
	switch {
	case event.Scan != nil:
		typeLabel = "Scan"
	case event.Hotplug != nil:
		typeLabel = event.Hotplug.Action
	case event.Match != nil:
		typeLabel = "Match"
	case event.StateChange != nil:
		typeLabel = "State"
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [sess:%s] %-8s %s\n", ts, sess, event.Stage.String(), typeLabel)

	if event.Node != "" {
		if event.Driver != "" {
			fmt.Fprintf(w, "  Node: %s (%s)\n", event.Node, event.Driver)
		} else {
			fmt.Fprintf(w, "  Node: %s\n", event.Node)
		}
	}
	if event.Backend != "" {
		fmt.Fprintf(w, "  Backend: %s\n", event.Backend)
	}
	if event.CameraID != "" {
		fmt.Fprintf(w, "  Camera: %s\n", event.CameraID)
	}

	switch {
	case event.Scan != nil:
		formatScanDetails(w, event.Scan)
	case event.Hotplug != nil:
		formatHotplugDetails(w, event.Hotplug)
	case event.Match != nil:
		formatMatchDetails(w, event.Match)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenSession returns the first 8 characters of the session ID.
func shortenSession(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatScanDetails(w io.Writer, scan *log.ScanEvent) {
	fmt.Fprintf(w, "  Nodes: %d  Devices: %d  Skipped: %d\n",
		scan.Nodes, scan.Devices, scan.Skipped)
	if scan.Duration > 0 {
		fmt.Fprintf(w, "  Duration: %s\n", formatDuration(scan.Duration))
	}
}

func formatHotplugDetails(w io.Writer, hp *log.HotplugEvent) {
	fmt.Fprintf(w, "  Known: %t\n", hp.Known)
}

func formatMatchDetails(w io.Writer, m *log.MatchEvent) {
	fmt.Fprintf(w, "  Pipeline: %s\n", m.Pipeline)
	fmt.Fprintf(w, "  Matched: %t\n", m.Matched)
	if len(m.Entities) > 0 {
		fmt.Fprintf(w, "  Entities: %s\n", strings.Join(m.Entities, ", "))
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Entity: %s\n", sc.Entity.String())
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Stage: %s\n", err.Stage.String())
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseStageFlag parses a stage string from a command-line flag
// (case-insensitive).
func ParseStageFlag(s string) (log.Stage, error) {
	return parseStage(s)
}

func parseStage(s string) (log.Stage, error) {
	switch strings.ToLower(s) {
	case "backend":
		return log.StageBackend, nil
	case "registry":
		return log.StageRegistry, nil
	case "manager":
		return log.StageManager, nil
	default:
		return 0, fmt.Errorf("invalid stage: %s (must be backend, registry, or manager)", s)
	}
}

// ParseCategoryFlag parses a category string from a command-line flag
// (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	return parseCategory(s)
}

func parseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "scan":
		return log.CategoryScan, nil
	case "hotplug":
		return log.CategoryHotplug, nil
	case "match":
		return log.CategoryMatch, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be scan, hotplug, match, state, or error)", s)
	}
}
