package enumerate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/lumen-media/lumen-go/pkg/media"
)

// Fixture backend errors.
var (
	ErrUnknownFixtureNode = errors.New("unknown fixture node")
	ErrBrokenFixtureNode  = errors.New("broken fixture node")
)

// Topology describes the devices a FixtureBackend can produce. It is
// typically loaded from a YAML file:
//
//	devices:
//	  - node: /dev/media0
//	    driver: vimc
//	    model: VIMC Test Device
//	    entities:
//	      - name: Sensor A
//	        function: sensor
//	  - node: /dev/media1
//	    driver: uvcvideo
//	    hotplug: true
type Topology struct {
	Devices []NodeSpec `yaml:"devices"`
}

// NodeSpec describes one device node in a fixture topology.
type NodeSpec struct {
	// Node is the device node path. Required.
	Node string `yaml:"node"`

	// Driver is the kernel driver name. Required.
	Driver string `yaml:"driver"`

	// Model is the device model name.
	Model string `yaml:"model,omitempty"`

	// Entities lists the media entities the device exposes.
	Entities []media.Entity `yaml:"entities,omitempty"`

	// Properties carries free-form device properties.
	Properties map[string]string `yaml:"properties,omitempty"`

	// Hotplug excludes the node from the initial scan; it only
	// appears when SimulateAdd is called for it.
	Hotplug bool `yaml:"hotplug,omitempty"`

	// Broken makes every probe of this node fail.
	Broken bool `yaml:"broken,omitempty"`
}

// Validate checks that every node spec carries a path and a driver.
func (t *Topology) Validate() error {
	for i, spec := range t.Devices {
		if spec.Node == "" {
			return fmt.Errorf("fixture device %d: missing node path", i)
		}
		if spec.Driver == "" {
			return fmt.Errorf("fixture device %d (%s): missing driver", i, spec.Node)
		}
	}
	return nil
}

// LoadTopology reads and validates a YAML topology file.
func LoadTopology(path string) (*Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTopology(data)
}

// ParseTopology parses and validates YAML topology data.
func ParseTopology(data []byte) (*Topology, error) {
	var topo Topology
	if err := yaml.Unmarshal(data, &topo); err != nil {
		return nil, fmt.Errorf("parse topology: %w", err)
	}
	if err := topo.Validate(); err != nil {
		return nil, err
	}
	return &topo, nil
}

// FixtureBackend serves a scripted topology instead of real hardware.
// The initial scan reports every non-hotplug node; SimulateAdd and
// SimulateRemove inject node transitions afterwards. Each probe builds
// a fresh device, so a node that is removed and re-added yields a new
// device instance, just like a driver rebind would.
//
// The backend itself is safe for concurrent use: an interactive
// console may inject events while an enumerator's owner consumes them.
type FixtureBackend struct {
	mu     sync.Mutex
	specs  map[string]NodeSpec
	order  []string
	events chan Event
	closed bool
}

// NewFixtureBackend creates a backend serving topo.
func NewFixtureBackend(topo Topology) *FixtureBackend {
	b := &FixtureBackend{
		specs:  make(map[string]NodeSpec, len(topo.Devices)),
		events: make(chan Event, 16),
	}
	for _, spec := range topo.Devices {
		if _, dup := b.specs[spec.Node]; dup {
			continue
		}
		b.specs[spec.Node] = spec
		b.order = append(b.order, spec.Node)
	}
	return b
}

// NewFixtureBackendFromFile creates a backend from a YAML topology file.
func NewFixtureBackendFromFile(path string) (*FixtureBackend, error) {
	topo, err := LoadTopology(path)
	if err != nil {
		return nil, err
	}
	return NewFixtureBackend(*topo), nil
}

// Name identifies the backend.
func (b *FixtureBackend) Name() string {
	return "fixture"
}

// Init prepares the backend. The fixture has nothing to start, so this
// only checks for a closed backend.
func (b *FixtureBackend) Init(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	return nil
}

// Nodes returns every non-hotplug node in topology order.
func (b *FixtureBackend) Nodes(ctx context.Context) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	var nodes []string
	for _, node := range b.order {
		if !b.specs[node].Hotplug {
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

// Events returns the injected event stream.
func (b *FixtureBackend) Events() <-chan Event {
	return b.events
}

// Probe builds a fresh device from the node's spec. Unknown nodes and
// nodes marked broken fail the probe.
func (b *FixtureBackend) Probe(ctx context.Context, node string) (*media.Device, error) {
	b.mu.Lock()
	spec, ok := b.specs[node]
	b.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFixtureNode, node)
	}
	if spec.Broken {
		return nil, fmt.Errorf("%w: %s", ErrBrokenFixtureNode, node)
	}

	dev := media.NewDevice(spec.Node, spec.Driver)
	dev.SetModel(spec.Model)
	dev.Populate(spec.Entities)
	for k, v := range spec.Properties {
		dev.SetProperty(k, v)
	}
	return dev, nil
}

// SimulateAdd injects an arrival event for node. The node does not
// have to be described in the topology; probing an undescribed node
// simply fails, which exercises the same skip path a flaky device
// would. Must not be called after Close.
func (b *FixtureBackend) SimulateAdd(node string) {
	b.inject(Event{Action: ActionAdd, Node: node})
}

// SimulateRemove injects a departure event for node. Removing a node
// that was never added is allowed; the enumerator treats it as a
// no-op. Must not be called after Close.
func (b *FixtureBackend) SimulateRemove(node string) {
	b.inject(Event{Action: ActionRemove, Node: node})
}

// inject queues one event, blocking if the consumer is behind. Events
// are delivered strictly in injection order, one per transition.
func (b *FixtureBackend) inject(ev Event) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	b.events <- ev
}

// SetBroken flips the broken flag on an existing node, so tests can
// make a probe fail and later succeed again.
func (b *FixtureBackend) SetBroken(node string, broken bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	spec, ok := b.specs[node]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFixtureNode, node)
	}
	spec.Broken = broken
	b.specs[node] = spec
	return nil
}

// Close shuts the event stream down. Safe to call more than once.
func (b *FixtureBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	close(b.events)
	return nil
}

// Compile-time interface satisfaction checks.
var (
	_ Backend      = (*FixtureBackend)(nil)
	_ Introspector = (*FixtureBackend)(nil)
)
