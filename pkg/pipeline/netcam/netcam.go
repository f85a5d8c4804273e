// Package netcam is the pipeline handler for network-exported cameras
// discovered over mDNS.
package netcam

import (
	"github.com/lumen-media/lumen-go/pkg/camera"
	"github.com/lumen-media/lumen-go/pkg/enumerate"
	"github.com/lumen-media/lumen-go/pkg/media"
	"github.com/lumen-media/lumen-go/pkg/pipeline"
)

// Name is the handler name cameras are tagged with.
const Name = "netcam"

func init() {
	pipeline.Register(Name, New)
}

// Handler drives one remote camera produced by the network discovery
// backend.
type Handler struct{}

// New builds an unbound handler.
func New() pipeline.Handler {
	return &Handler{}
}

// Name returns the handler name.
func (h *Handler) Name() string {
	return Name
}

// Match claims the first free network camera and builds one camera on
// it.
func (h *Handler) Match(enum *enumerate.Enumerator) ([]*camera.Camera, error) {
	match := enumerate.NewDeviceMatch(enumerate.NetDriver)

	dev := pipeline.AcquireDevice(enum, match)
	if dev == nil {
		return nil, nil
	}

	return []*camera.Camera{camera.New(Name, cameraName(dev), dev)}, nil
}

// cameraName prefers the exported model name, then the advertised
// host, then the raw node.
func cameraName(dev *media.Device) string {
	if model := dev.Model(); model != "" {
		return model
	}
	if host := dev.Property("host"); host != "" {
		return host
	}
	return dev.Path()
}
