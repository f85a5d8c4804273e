// Package uvc is the pipeline handler for USB Video Class webcams.
package uvc

import (
	"github.com/lumen-media/lumen-go/pkg/camera"
	"github.com/lumen-media/lumen-go/pkg/enumerate"
	"github.com/lumen-media/lumen-go/pkg/media"
	"github.com/lumen-media/lumen-go/pkg/pipeline"
)

// Name is the handler name cameras are tagged with.
const Name = "uvc"

func init() {
	pipeline.Register(Name, New)
}

// Handler drives one uvcvideo device. UVC hardware is self-describing,
// so the match carries no entity requirements: any device bound to the
// uvcvideo driver qualifies.
type Handler struct{}

// New builds an unbound handler.
func New() pipeline.Handler {
	return &Handler{}
}

// Name returns the handler name.
func (h *Handler) Name() string {
	return Name
}

// Match claims the first free uvcvideo device and builds one camera on
// it.
func (h *Handler) Match(enum *enumerate.Enumerator) ([]*camera.Camera, error) {
	match := enumerate.NewDeviceMatch("uvcvideo")

	dev := pipeline.AcquireDevice(enum, match)
	if dev == nil {
		return nil, nil
	}

	return []*camera.Camera{camera.New(Name, cameraName(dev), dev)}, nil
}

// cameraName prefers the hardware model name; nodes without one fall
// back to the device path.
func cameraName(dev *media.Device) string {
	if model := dev.Model(); model != "" {
		return model
	}
	return dev.Path()
}
