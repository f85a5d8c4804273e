// Command lumen-ctl is an interactive console for the lumen camera
// manager.
//
// It starts the shared camera manager on a chosen discovery backend and
// drops into a command prompt for inspecting the device table, the
// cameras built on it, and the matching behavior of the registered
// pipelines. With the fixture backend, device hotplug can be driven by
// hand to watch the manager react.
//
// Usage:
//
//	lumen-ctl [flags]
//
// Flags:
//
//	-backend string    Discovery backend: fixture, fsnotify, mdns (default "fixture")
//	-topology string   Fixture topology YAML file (fixture backend)
//	-dir string        Device node directory (fsnotify backend, default "/dev")
//	-pattern string    Device node glob pattern (fsnotify backend, default "media*")
//	-trace string      Write a discovery trace to this file
//	-snapshot string   Persist the device table to this JSON file on exit
//	-log-level string  Log level: debug, info, warn, error (default "info")
//
// Examples:
//
//	# Explore a scripted topology
//	lumen-ctl -topology testdata/vimc.yaml
//
//	# Watch real kernel media nodes, capturing a trace
//	lumen-ctl -backend fsnotify -trace session.ltrace
//
//	# Browse network-exported cameras
//	lumen-ctl -backend mdns
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/lumen-media/lumen-go/pkg/camera"
	"github.com/lumen-media/lumen-go/pkg/enumerate"
	"github.com/lumen-media/lumen-go/pkg/log"
	"github.com/lumen-media/lumen-go/pkg/pipeline"

	// Enabled pipeline handlers.
	_ "github.com/lumen-media/lumen-go/pkg/pipeline/netcam"
	_ "github.com/lumen-media/lumen-go/pkg/pipeline/uvc"
	_ "github.com/lumen-media/lumen-go/pkg/pipeline/vimc"
)

// Config holds the console configuration.
type Config struct {
	Backend  string
	Topology string
	Dir      string
	Pattern  string
	Trace    string
	Snapshot string
	LogLevel string
}

var config Config

func init() {
	flag.StringVar(&config.Backend, "backend", "fixture", "Discovery backend: fixture, fsnotify, mdns")
	flag.StringVar(&config.Topology, "topology", "", "Fixture topology YAML file (fixture backend)")
	flag.StringVar(&config.Dir, "dir", "", "Device node directory (fsnotify backend)")
	flag.StringVar(&config.Pattern, "pattern", "", "Device node glob pattern (fsnotify backend)")
	flag.StringVar(&config.Trace, "trace", "", "Write a discovery trace to this file")
	flag.StringVar(&config.Snapshot, "snapshot", "", "Persist the device table to this JSON file on exit")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := newLogger(config.LogLevel)

	var trace log.Logger
	if config.Trace != "" {
		fl, err := log.NewFileLogger(config.Trace)
		if err != nil {
			return fmt.Errorf("opening trace file: %w", err)
		}
		defer fl.Close()
		trace = fl
	}

	// The fixture backend doubles as the console's hotplug injector,
	// so keep hold of the instance the manager ends up running on.
	var fixture *enumerate.FixtureBackend

	newBackend, err := backendFactory(&fixture)
	if err != nil {
		return err
	}

	handle, err := camera.Acquire(context.Background(), camera.Config{
		NewBackend:   newBackend,
		Pipelines:    pipeline.Factories(),
		SnapshotPath: config.Snapshot,
		Logger:       logger,
		Trace:        trace,
	})
	if err != nil {
		return fmt.Errorf("starting shared manager: %w", err)
	}
	defer handle.Close()

	console, err := NewConsole(handle.Manager(), fixture)
	if err != nil {
		return err
	}
	return console.Run()
}

// backendFactory builds the NewBackend constructor for the selected
// backend. For the fixture backend the constructed instance is also
// stored through fixture so the console can inject hotplug events.
func backendFactory(fixture **enumerate.FixtureBackend) (func() (enumerate.Backend, error), error) {
	switch config.Backend {
	case "fixture":
		return func() (enumerate.Backend, error) {
			var (
				b   *enumerate.FixtureBackend
				err error
			)
			if config.Topology != "" {
				b, err = enumerate.NewFixtureBackendFromFile(config.Topology)
			} else {
				b = enumerate.NewFixtureBackend(enumerate.Topology{})
			}
			if err != nil {
				return nil, err
			}
			*fixture = b
			return b, nil
		}, nil

	case "fsnotify":
		return func() (enumerate.Backend, error) {
			return enumerate.NewWatchBackend(enumerate.WatchConfig{
				Dir:     config.Dir,
				Pattern: config.Pattern,
			})
		}, nil

	case "mdns":
		return func() (enumerate.Backend, error) {
			return enumerate.NewNetBackend(enumerate.NetConfig{})
		}, nil

	default:
		return nil, fmt.Errorf("unknown backend %q (want fixture, fsnotify or mdns)", config.Backend)
	}
}

// newLogger builds the slog logger for the selected level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	}))
}
