// Package pipeline hosts the pipeline handler registry.
//
// Handlers are the bridge between enumerated devices and cameras: each
// handler knows one family of hardware, searches the registry for a
// device it can drive, claims it, and builds cameras on it. Handler
// packages register a factory from init(), so importing a pipeline
// subpackage is what enables it:
//
//	import (
//		_ "github.com/lumen-media/lumen-go/pkg/pipeline/uvc"
//		_ "github.com/lumen-media/lumen-go/pkg/pipeline/vimc"
//	)
//
// The registered set is closed once the manager starts; Factories()
// hands the manager a snapshot in registration order.
package pipeline

import (
	"sync"

	"github.com/lumen-media/lumen-go/pkg/camera"
	"github.com/lumen-media/lumen-go/pkg/enumerate"
	"github.com/lumen-media/lumen-go/pkg/media"
)

// Handler claims devices and builds cameras. See camera.PipelineHandler.
type Handler = camera.PipelineHandler

// Factory builds a fresh Handler per matching pass. See
// camera.PipelineFactory.
type Factory = camera.PipelineFactory

var (
	muFactories sync.RWMutex
	factories   []registration
	known       = map[string]struct{}{}
)

type registration struct {
	name    string
	factory Factory
}

// Register adds a handler factory under name. It is intended to be
// called from init() in handler packages and panics on misuse:
// registering an empty name, a nil factory, or a name twice.
func Register(name string, factory Factory) {
	if name == "" {
		panic("pipeline: Register called with empty name")
	}
	if factory == nil {
		panic("pipeline: Register called with nil factory for " + name)
	}

	muFactories.Lock()
	defer muFactories.Unlock()

	if _, dup := known[name]; dup {
		panic("pipeline: Register called twice for " + name)
	}
	known[name] = struct{}{}
	factories = append(factories, registration{name: name, factory: factory})
}

// Factories returns the registered factories in registration order.
func Factories() []Factory {
	muFactories.RLock()
	defer muFactories.RUnlock()

	out := make([]Factory, 0, len(factories))
	for _, reg := range factories {
		out = append(out, reg.factory)
	}
	return out
}

// Names returns the registered handler names in registration order.
func Names() []string {
	muFactories.RLock()
	defer muFactories.RUnlock()

	out := make([]string, 0, len(factories))
	for _, reg := range factories {
		out = append(out, reg.name)
	}
	return out
}

// AcquireDevice finds the first free device satisfying m, in scan
// order, and claims it. It returns nil when every matching device is
// already claimed or none matches, which ends the handler's matching
// loop.
func AcquireDevice(enum *enumerate.Enumerator, m enumerate.DeviceMatch) *media.Device {
	for _, dev := range enum.Devices() {
		if !m.Match(dev) {
			continue
		}
		if dev.Acquire() {
			return dev
		}
	}
	return nil
}
