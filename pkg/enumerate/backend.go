package enumerate

import (
	"context"

	"github.com/lumen-media/lumen-go/pkg/media"
)

// Backend produces device nodes for an Enumerator. Implementations
// cover one discovery mechanism each: a directory watch, an mDNS
// browse, or a scripted fixture for tests.
type Backend interface {
	// Name identifies the backend, e.g. "fsnotify" or "mdns".
	Name() string

	// Init prepares the backend and starts hotplug monitoring. The
	// enumerator calls it exactly once, before the initial scan.
	Init(ctx context.Context) error

	// Nodes returns the device nodes present right now. The
	// enumerator calls it once for the initial scan.
	Nodes(ctx context.Context) ([]string, error)

	// Events returns the hotplug event stream. The backend closes the
	// channel when it shuts down. Events are delivered one per node
	// transition, never coalesced.
	Events() <-chan Event

	// Close stops monitoring and releases backend resources.
	Close() error
}

// Introspector probes a device node and describes the device behind
// it. Backends that know their devices (fixture, mDNS) implement it
// themselves; path-based backends need one supplied through
// Config.Introspector.
type Introspector interface {
	// Probe opens node and returns the populated device, or an error
	// if the node cannot be described. A failed probe skips the node,
	// it never aborts enumeration.
	Probe(ctx context.Context, node string) (*media.Device, error)
}
