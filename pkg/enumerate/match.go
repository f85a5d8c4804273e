package enumerate

import (
	"github.com/lumen-media/lumen-go/pkg/media"
)

// DeviceMatch describes the device a pipeline handler is looking for:
// a kernel driver name plus the entities the handler needs to find on
// the device. A match with no entities accepts any device bound to the
// driver.
type DeviceMatch struct {
	driver   string
	entities []string
}

// NewDeviceMatch creates a match for devices bound to driver.
func NewDeviceMatch(driver string) DeviceMatch {
	return DeviceMatch{driver: driver}
}

// Add appends a required entity name. Names are compared exactly, no
// prefix or substring matching.
func (m *DeviceMatch) Add(name string) {
	m.entities = append(m.entities, name)
}

// Driver returns the driver name the match requires.
func (m *DeviceMatch) Driver() string {
	return m.driver
}

// Entities returns a copy of the required entity names.
func (m *DeviceMatch) Entities() []string {
	out := make([]string, len(m.entities))
	copy(out, m.entities)
	return out
}

// Match reports whether dev satisfies the match: the driver names are
// identical and every required entity name is present on the device.
// Match never mutates the device and ignores its removed or claimed
// state.
func (m *DeviceMatch) Match(dev *media.Device) bool {
	if dev == nil || dev.Driver() != m.driver {
		return false
	}

	for _, name := range m.entities {
		if !dev.HasEntity(name) {
			return false
		}
	}

	return true
}
