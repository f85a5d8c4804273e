package camera

import (
	"github.com/lumen-media/lumen-go/pkg/media"
)

// Camera is a usable camera a pipeline handler built around a claimed
// device. Its ID combines the pipeline name with the device
// fingerprint, so the same hardware keeps its ID across manager runs
// while identical sensors on different nodes still differ.
//
// A camera outlives its hardware: when the device node goes away the
// manager retires the camera, but the camera and the device behind it
// stay readable.
type Camera struct {
	id       string
	name     string
	pipeline string
	device   *media.Device
}

// New builds a camera for a claimed device. pipeline is the handler
// that built it; name is the human-readable camera name shown by
// tooling.
func New(pipeline, name string, dev *media.Device) *Camera {
	return &Camera{
		id:       pipeline + ":" + dev.Fingerprint(),
		name:     name,
		pipeline: pipeline,
		device:   dev,
	}
}

// ID returns the camera ID.
func (c *Camera) ID() string {
	return c.id
}

// Name returns the human-readable camera name.
func (c *Camera) Name() string {
	return c.name
}

// Pipeline returns the name of the pipeline handler that built the
// camera.
func (c *Camera) Pipeline() string {
	return c.pipeline
}

// Device returns the device behind the camera.
func (c *Camera) Device() *media.Device {
	return c.device
}

// Node returns the device node path.
func (c *Camera) Node() string {
	return c.device.Path()
}

// Removed reports whether the device behind the camera has gone away.
func (c *Camera) Removed() bool {
	return c.device.Removed()
}
