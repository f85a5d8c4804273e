// Command lumen-export advertises discovered cameras over mDNS.
//
// It runs a camera manager on a local discovery backend and keeps one
// mDNS service record per camera alive: cameras are advertised as they
// appear and withdrawn as they go away, so other hosts browsing for
// _lumen-cam._tcp always see the current set.
//
// Usage:
//
//	lumen-export [flags]
//
// Flags:
//
//	-config string     YAML configuration file
//	-backend string    Discovery backend: fsnotify, fixture (default "fsnotify")
//	-topology string   Fixture topology YAML file (fixture backend)
//	-dir string        Device node directory (fsnotify backend, default "/dev")
//	-pattern string    Device node glob pattern (fsnotify backend, default "media*")
//	-iface string      Network interface to advertise on (default all)
//	-port int          Stream port advertised in service records (default 8554)
//	-trace string      Write a discovery trace to this file
//	-log-level string  Log level: debug, info, warn, error (default "info")
//
// Examples:
//
//	# Export kernel media devices on all interfaces
//	lumen-export
//
//	# Export a scripted topology on one interface
//	lumen-export -backend fixture -topology lab.yaml -iface eth0
//
//	# Run from a config file
//	lumen-export -config /etc/lumen/export.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/lumen-media/lumen-go/pkg/camera"
	"github.com/lumen-media/lumen-go/pkg/enumerate"
	"github.com/lumen-media/lumen-go/pkg/log"
	"github.com/lumen-media/lumen-go/pkg/netcam"
	"github.com/lumen-media/lumen-go/pkg/pipeline"

	// Enabled pipeline handlers. The netcam pipeline is deliberately
	// absent: re-exporting cameras learned from the network would
	// advertise them in a loop.
	_ "github.com/lumen-media/lumen-go/pkg/pipeline/uvc"
	_ "github.com/lumen-media/lumen-go/pkg/pipeline/vimc"
)

// Config holds the exporter configuration. Fields map 1:1 onto flags;
// a config file provides defaults and explicit flags override it.
type Config struct {
	Backend  string `yaml:"backend,omitempty"`
	Topology string `yaml:"topology,omitempty"`
	Dir      string `yaml:"dir,omitempty"`
	Pattern  string `yaml:"pattern,omitempty"`
	Iface    string `yaml:"iface,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	Trace    string `yaml:"trace,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`
}

func main() {
	configFile := flag.String("config", "", "YAML configuration file")
	backend := flag.String("backend", "", "Discovery backend: fsnotify, fixture")
	topology := flag.String("topology", "", "Fixture topology YAML file (fixture backend)")
	dir := flag.String("dir", "", "Device node directory (fsnotify backend)")
	pattern := flag.String("pattern", "", "Device node glob pattern (fsnotify backend)")
	iface := flag.String("iface", "", "Network interface to advertise on (default all)")
	port := flag.Int("port", 0, "Stream port advertised in service records")
	trace := flag.String("trace", "", "Write a discovery trace to this file")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	flag.Parse()

	config := Config{
		Backend:  "fsnotify",
		Port:     netcam.DefaultPort,
		LogLevel: "info",
	}
	if *configFile != "" {
		if err := loadConfig(*configFile, &config); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
	overrideString(&config.Backend, *backend)
	overrideString(&config.Topology, *topology)
	overrideString(&config.Dir, *dir)
	overrideString(&config.Pattern, *pattern)
	overrideString(&config.Iface, *iface)
	overrideString(&config.Trace, *trace)
	overrideString(&config.LogLevel, *logLevel)
	if *port != 0 {
		config.Port = *port
	}

	if err := run(config); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig merges the YAML file at path into config.
func loadConfig(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	return nil
}

func overrideString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func run(config Config) error {
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

	newBackend, err := backendFactory(config)
	if err != nil {
		return err
	}

	advertiser, err := netcam.NewMDNSAdvertiser(netcam.AdvertiserConfig{
		Interface: config.Iface,
		TTL:       netcam.DefaultAdvertiserConfig().TTL,
	})
	if err != nil {
		return fmt.Errorf("creating advertiser: %w", err)
	}
	exporter := netcam.NewExporter(advertiser)
	defer exporter.Stop()

	mgr, err := camera.NewManager(camera.Config{
		NewBackend: newBackend,
		Pipelines:  pipeline.Factories(),
		Logger:     logger,
		Trace:      trace,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Subscribed before Start so the cameras built by the initial
	// match are exported too.
	added := mgr.OnCameraAdded(func(cam *camera.Camera) {
		info := cameraInfo(cam, config.Port)
		if err := exporter.Export(ctx, info); err != nil {
			logger.Warn("camera export failed",
				"id", cam.ID(), "node", cam.Node(), "error", err)
			return
		}
		logger.Info("camera exported", "id", cam.ID(), "node", cam.Node())
	})
	defer added.Cancel()

	removed := mgr.OnCameraRemoved(func(cam *camera.Camera) {
		if err := exporter.Unexport(cam.Node()); err != nil {
			logger.Warn("camera unexport failed",
				"id", cam.ID(), "node", cam.Node(), "error", err)
			return
		}
		logger.Info("camera withdrawn", "id", cam.ID(), "node", cam.Node())
	})
	defer removed.Cancel()

	if err := mgr.Start(ctx); err != nil {
		return fmt.Errorf("starting manager: %w", err)
	}

	logger.Info("lumen-export running",
		"version", mgr.Version(),
		"backend", config.Backend,
		"cameras", len(mgr.Cameras()))

	<-ctx.Done()
	logger.Info("shutting down")

	return mgr.Stop()
}

// cameraInfo builds the advertised service description for cam.
func cameraInfo(cam *camera.Camera, port int) *netcam.CameraInfo {
	dev := cam.Device()

	entities := dev.Entities()
	names := make([]string, 0, len(entities))
	for _, e := range entities {
		names = append(names, e.Name)
	}

	return &netcam.CameraInfo{
		Node:        dev.Path(),
		Driver:      dev.Driver(),
		Fingerprint: dev.Fingerprint(),
		Model:       dev.Model(),
		Entities:    names,
		Port:        uint16(port),
	}
}

// backendFactory builds the NewBackend constructor for the selected
// backend. The mdns backend is rejected: exporting what the network
// already advertises would loop.
func backendFactory(config Config) (func() (enumerate.Backend, error), error) {
	switch config.Backend {
	case "fsnotify":
		return func() (enumerate.Backend, error) {
			return enumerate.NewWatchBackend(enumerate.WatchConfig{
				Dir:     config.Dir,
				Pattern: config.Pattern,
			})
		}, nil

	case "fixture":
		if config.Topology == "" {
			return nil, fmt.Errorf("fixture backend needs -topology")
		}
		return func() (enumerate.Backend, error) {
			return enumerate.NewFixtureBackendFromFile(config.Topology)
		}, nil

	default:
		return nil, fmt.Errorf("unknown backend %q (want fsnotify or fixture)", config.Backend)
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
