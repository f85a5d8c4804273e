package media

import (
	"sync"
	"sync/atomic"
)

// Device represents a kernel-exposed media pipeline node: the device node
// path that identifies it, the driver that bound it, and the entity graph
// the driver exposes.
//
// A Device is shared between the enumerator registry and any consumer that
// claimed it. Removal from the registry never invalidates a held pointer:
// the object stays readable for every holder. Once MarkRemoved has been
// called, mutating methods become no-ops.
type Device struct {
	mu sync.RWMutex

	// path is the device node path. It is the registry identity and never
	// changes after construction.
	path string

	// driver is the kernel driver name that bound the device.
	driver string

	// model is the hardware model string, if the driver reports one.
	model string

	// entities is the device's entity graph.
	entities []Entity

	// properties holds free-form driver/bus metadata.
	properties map[string]string

	removed atomic.Bool
	busy    atomic.Bool
}

// NewDevice creates a device for the given node path and driver.
func NewDevice(path, driver string) *Device {
	return &Device{
		path:       path,
		driver:     driver,
		properties: make(map[string]string),
	}
}

// Path returns the device node path.
func (d *Device) Path() string {
	return d.path
}

// Driver returns the kernel driver name.
func (d *Device) Driver() string {
	return d.driver
}

// Model returns the hardware model string.
func (d *Device) Model() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.model
}

// SetModel sets the hardware model string.
// It is a no-op once the device has been removed.
func (d *Device) SetModel(model string) {
	if d.removed.Load() {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.model = model
}

// Populate replaces the device's entity graph.
// It is a no-op once the device has been removed.
func (d *Device) Populate(entities []Entity) {
	if d.removed.Load() {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entities = make([]Entity, len(entities))
	copy(d.entities, entities)
}

// Entities returns a copy of the device's entity graph.
func (d *Device) Entities() []Entity {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make([]Entity, len(d.entities))
	copy(result, d.entities)
	return result
}

// EntityByName returns the entity with the given name, matched by exact
// string equality.
func (d *Device) EntityByName(name string) (Entity, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, e := range d.entities {
		if e.Name == name {
			return e, true
		}
	}
	return Entity{}, false
}

// HasEntity returns true if the device graph contains an entity with the
// given name.
func (d *Device) HasEntity(name string) bool {
	_, ok := d.EntityByName(name)
	return ok
}

// SetProperty sets a metadata property.
// It is a no-op once the device has been removed.
func (d *Device) SetProperty(key, value string) {
	if d.removed.Load() {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.properties[key] = value
}

// Property returns a metadata property, or "" if unset.
func (d *Device) Property(key string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.properties[key]
}

// Properties returns a copy of all metadata properties.
func (d *Device) Properties() map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make(map[string]string, len(d.properties))
	for k, v := range d.properties {
		result[k] = v
	}
	return result
}

// MarkRemoved marks the device as removed from the registry.
// The device stays readable; further mutation attempts are ignored.
func (d *Device) MarkRemoved() {
	d.removed.Store(true)
}

// Removed reports whether the device has been removed from the registry.
func (d *Device) Removed() bool {
	return d.removed.Load()
}

// Acquire claims the device for exclusive use by a pipeline.
// It returns false if the device is already claimed or has been removed.
func (d *Device) Acquire() bool {
	if d.removed.Load() {
		return false
	}
	return d.busy.CompareAndSwap(false, true)
}

// Release gives up an exclusive claim. Releasing an unclaimed device is
// harmless.
func (d *Device) Release() {
	d.busy.Store(false)
}

// Busy reports whether the device is exclusively claimed.
func (d *Device) Busy() bool {
	return d.busy.Load()
}

// DeviceInfo is a point-in-time snapshot of a device for traces, caches,
// and network export.
type DeviceInfo struct {
	Path        string            `cbor:"1,keyasint" json:"path"`
	Driver      string            `cbor:"2,keyasint" json:"driver"`
	Model       string            `cbor:"3,keyasint,omitempty" json:"model,omitempty"`
	Fingerprint string            `cbor:"4,keyasint" json:"fingerprint"`
	Entities    []EntityInfo      `cbor:"5,keyasint,omitempty" json:"entities,omitempty"`
	Properties  map[string]string `cbor:"6,keyasint,omitempty" json:"properties,omitempty"`
}

// Info returns a snapshot of the device.
func (d *Device) Info() *DeviceInfo {
	fp := d.Fingerprint()

	d.mu.RLock()
	defer d.mu.RUnlock()

	entities := make([]EntityInfo, 0, len(d.entities))
	for _, e := range d.entities {
		entities = append(entities, EntityInfo{Name: e.Name, Function: e.Function})
	}

	props := make(map[string]string, len(d.properties))
	for k, v := range d.properties {
		props[k] = v
	}

	return &DeviceInfo{
		Path:        d.path,
		Driver:      d.driver,
		Model:       d.model,
		Fingerprint: fp,
		Entities:    entities,
		Properties:  props,
	}
}
