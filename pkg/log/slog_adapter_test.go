package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestSlogAdapterLogsScanEvent(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	slogger := slog.New(handler)

	adapter := NewSlogAdapter(slogger)

	adapter.Log(Event{
		Timestamp: time.Now(),
		Session:   "session-123",
		Stage:     StageBackend,
		Category:  CategoryScan,
		Backend:   "fixture",
		Scan: &ScanEvent{
			Nodes:   5,
			Devices: 4,
			Skipped: 1,
		},
	})

	output := buf.String()
	if output == "" {
		t.Fatal("no output produced")
	}

	// Parse JSON log entry
	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	// Verify key fields
	if logEntry["session"] != "session-123" {
		t.Errorf("session: got %v, want %q", logEntry["session"], "session-123")
	}
	if logEntry["stage"] != "BACKEND" {
		t.Errorf("stage: got %v, want %q", logEntry["stage"], "BACKEND")
	}
	if logEntry["backend"] != "fixture" {
		t.Errorf("backend: got %v, want %q", logEntry["backend"], "fixture")
	}
	if logEntry["nodes"] != float64(5) {
		t.Errorf("nodes: got %v, want %v", logEntry["nodes"], 5)
	}
}

func TestSlogAdapterLogsMatchEvent(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	slogger := slog.New(handler)

	adapter := NewSlogAdapter(slogger)

	adapter.Log(Event{
		Timestamp: time.Now(),
		Session:   "session-456",
		Stage:     StageManager,
		Category:  CategoryMatch,
		Node:      "/dev/media0",
		Driver:    "vimc",
		Match: &MatchEvent{
			Pipeline: "vimc",
			Matched:  true,
			Entities: []string{"Sensor A", "Debayer A"},
		},
	})

	output := buf.String()
	if output == "" {
		t.Fatal("no output produced")
	}

	// Parse JSON log entry
	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	// Verify match fields
	if logEntry["pipeline"] != "vimc" {
		t.Errorf("pipeline: got %v, want %q", logEntry["pipeline"], "vimc")
	}
	if logEntry["matched"] != true {
		t.Errorf("matched: got %v, want true", logEntry["matched"])
	}
	if logEntry["node"] != "/dev/media0" {
		t.Errorf("node: got %v, want %q", logEntry["node"], "/dev/media0")
	}
}

func TestSlogAdapterIncludesSession(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	slogger := slog.New(handler)

	adapter := NewSlogAdapter(slogger)

	adapter.Log(Event{
		Timestamp: time.Now(),
		Session:   "abc12345-def6-7890",
		Stage:     StageManager,
		Category:  CategoryState,
		StateChange: &StateChangeEvent{
			Entity:   StateEntityManager,
			NewState: "RUNNING",
		},
	})

	output := buf.String()
	if !strings.Contains(output, "abc12345-def6-7890") {
		t.Error("output does not contain session ID")
	}
}

func TestSlogAdapterInterfaceSatisfaction(t *testing.T) {
	var _ Logger = (*SlogAdapter)(nil)
}
