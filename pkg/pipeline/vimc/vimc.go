// Package vimc is the pipeline handler for the virtual media
// controller test driver.
package vimc

import (
	"github.com/lumen-media/lumen-go/pkg/camera"
	"github.com/lumen-media/lumen-go/pkg/enumerate"
	"github.com/lumen-media/lumen-go/pkg/pipeline"
)

// Name is the handler name cameras are tagged with.
const Name = "vimc"

func init() {
	pipeline.Register(Name, New)
}

// entities is the complement a usable vimc topology exposes. A device
// missing any of them is a partial or foreign topology and is not
// matched.
var entities = []string{
	"Sensor A",
	"Sensor B",
	"Debayer A",
	"Debayer B",
	"RGB/YUV Capture",
	"Raw Capture 0",
	"Raw Capture 1",
}

// Handler drives one vimc media device.
type Handler struct{}

// New builds an unbound handler.
func New() pipeline.Handler {
	return &Handler{}
}

// Name returns the handler name.
func (h *Handler) Name() string {
	return Name
}

// Match claims the first free vimc device carrying the full entity
// complement and builds one camera on it, named after the sensor
// entity driving the pipeline.
func (h *Handler) Match(enum *enumerate.Enumerator) ([]*camera.Camera, error) {
	match := enumerate.NewDeviceMatch("vimc")
	for _, name := range entities {
		match.Add(name)
	}

	dev := pipeline.AcquireDevice(enum, match)
	if dev == nil {
		return nil, nil
	}

	name := dev.Model()
	if name == "" {
		name = "VIMC Sensor A"
	}

	return []*camera.Camera{camera.New(Name, name, dev)}, nil
}
