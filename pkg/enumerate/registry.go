package enumerate

import (
	"log/slog"

	"github.com/lumen-media/lumen-go/pkg/media"
	"github.com/lumen-media/lumen-go/pkg/signal"
)

// Registry holds the devices currently known to an enumerator, in the
// order they were added. Search walks that order, so earlier devices
// win when several satisfy the same match.
//
// A Registry does no locking of its own. It has a single owner, the
// enumerator that feeds it, and that owner serializes all access.
// Callers that share a registry across goroutines must bring their own
// synchronization.
type Registry struct {
	devices []*media.Device
	byNode  map[string]*media.Device
	added   signal.Signal[*media.Device]

	// logger is optional; nil disables logging.
	logger *slog.Logger
}

// NewRegistry creates an empty registry. logger may be nil.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		byNode: make(map[string]*media.Device),
		logger: logger,
	}
}

// AddDevice appends dev to the registry and notifies deviceAdded
// subscribers, synchronously and in subscription order, on the calling
// goroutine. A device whose node is already registered is ignored: the
// registry logs the duplicate and reports false, and no notification
// fires. AddDevice reports true when the device was inserted.
func (r *Registry) AddDevice(dev *media.Device) bool {
	if dev == nil {
		return false
	}

	node := dev.Path()
	if _, exists := r.byNode[node]; exists {
		r.debugLog("duplicate device ignored", "node", node, "driver", dev.Driver())
		return false
	}

	r.devices = append(r.devices, dev)
	r.byNode[node] = dev
	r.debugLog("device added", "node", node, "driver", dev.Driver())

	r.added.Emit(dev)
	return true
}

// RemoveDevice takes the device registered under node out of the
// registry and marks it removed. The device stays readable afterwards;
// only mutation is disabled. RemoveDevice returns the removed device,
// or nil when no device is registered under node, which is not an
// error.
func (r *Registry) RemoveDevice(node string) *media.Device {
	dev, exists := r.byNode[node]
	if !exists {
		return nil
	}

	delete(r.byNode, node)
	for i, d := range r.devices {
		if d == dev {
			r.devices = append(r.devices[:i], r.devices[i+1:]...)
			break
		}
	}

	dev.MarkRemoved()
	r.debugLog("device removed", "node", node, "driver", dev.Driver())
	return dev
}

// Search returns the first device, in insertion order, that satisfies
// m. It returns nil when no device matches; an empty result is routine
// and not an error. Search never mutates the registry or the devices.
func (r *Registry) Search(m DeviceMatch) *media.Device {
	for _, dev := range r.devices {
		if m.Match(dev) {
			return dev
		}
	}
	return nil
}

// DeviceByNode returns the device registered under node, or nil.
func (r *Registry) DeviceByNode(node string) *media.Device {
	return r.byNode[node]
}

// Devices returns a copy of the device list in insertion order.
func (r *Registry) Devices() []*media.Device {
	out := make([]*media.Device, len(r.devices))
	copy(out, r.devices)
	return out
}

// Len reports the number of registered devices.
func (r *Registry) Len() int {
	return len(r.devices)
}

// OnDeviceAdded subscribes fn to device insertions. Subscribers run
// synchronously on the goroutine that called AddDevice, in
// subscription order. Disconnect the returned connection to
// unsubscribe.
func (r *Registry) OnDeviceAdded(fn func(*media.Device)) *signal.Connection[*media.Device] {
	return r.added.Connect(fn)
}

// debugLog logs a debug message if a logger is configured.
func (r *Registry) debugLog(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
