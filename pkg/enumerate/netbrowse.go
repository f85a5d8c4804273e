package enumerate

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lumen-media/lumen-go/pkg/media"
	"github.com/lumen-media/lumen-go/pkg/netcam"
)

// NetDriver is the driver name assigned to network-exported cameras.
const NetDriver = "netcam"

// NetNodePrefix marks device nodes that refer to network-exported cameras.
const NetNodePrefix = "net:"

// ErrUnknownNetNode is returned when probing a node no browse result covers.
var ErrUnknownNetNode = fmt.Errorf("unknown network camera node")

// NetConfig configures a network camera backend.
type NetConfig struct {
	// Browser performs the mDNS browsing.
	// If nil, an MDNSBrowser with default configuration is used.
	Browser netcam.Browser

	// CollectWindow bounds how long the initial scan waits for browse
	// answers before Nodes returns. Cameras that answer later surface
	// as hotplug events instead.
	// Default: netcam.DefaultCollectWindow.
	CollectWindow time.Duration
}

// NetBackend discovers cameras exported on the local network over mDNS and
// presents each one as a device node named "net:<fingerprint>".
//
// Browse answers that arrive during the collect window form the initial
// scan; answers after it are delivered as hotplug events, one event per
// appearance or disappearance, in arrival order.
type NetBackend struct {
	browser netcam.Browser
	collect time.Duration

	events chan Event
	ready  chan struct{}
	cancel context.CancelFunc

	mu        sync.Mutex
	known     map[string]*netcam.CameraService // keyed by node name
	initial   []string
	streaming bool
	started   bool
	closeOnce sync.Once
}

// NewNetBackend creates a network camera backend.
func NewNetBackend(config NetConfig) (*NetBackend, error) {
	browser := config.Browser
	if browser == nil {
		var err error
		browser, err = netcam.NewMDNSBrowser(netcam.DefaultBrowserConfig())
		if err != nil {
			return nil, fmt.Errorf("creating mdns browser: %w", err)
		}
	}

	collect := config.CollectWindow
	if collect <= 0 {
		collect = netcam.DefaultCollectWindow
	}

	return &NetBackend{
		browser: browser,
		collect: collect,
		events:  make(chan Event, 16),
		ready:   make(chan struct{}),
		known:   make(map[string]*netcam.CameraService),
	}, nil
}

// Name returns the backend name.
func (b *NetBackend) Name() string {
	return "mdns"
}

// Init starts browsing. The context only bounds Init itself; browsing
// continues until Close.
func (b *NetBackend) Init(ctx context.Context) error {
	browseCtx, cancel := context.WithCancel(context.Background())

	added, removed, err := b.browser.BrowseCameras(browseCtx)
	if err != nil {
		cancel()
		return fmt.Errorf("starting mdns browse: %w", err)
	}

	b.cancel = cancel
	b.started = true
	go b.run(browseCtx, added, removed)
	return nil
}

// Nodes returns the nodes of the cameras that answered within the collect
// window, in arrival order.
func (b *NetBackend) Nodes(ctx context.Context) ([]string, error) {
	select {
	case <-b.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	nodes := make([]string, len(b.initial))
	copy(nodes, b.initial)
	return nodes, nil
}

// Probe builds a device from the most recent browse answer for the node.
// Each call returns a fresh instance.
func (b *NetBackend) Probe(ctx context.Context, node string) (*media.Device, error) {
	b.mu.Lock()
	svc, ok := b.known[node]
	b.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNetNode, node)
	}

	dev := media.NewDevice(node, NetDriver)
	dev.SetModel(svc.Model)

	entities := make([]media.Entity, 0, len(svc.Entities))
	for _, name := range svc.Entities {
		entities = append(entities, media.Entity{Name: name})
	}
	dev.Populate(entities)

	dev.SetProperty("fingerprint", svc.Fingerprint)
	dev.SetProperty("host", svc.Host)
	dev.SetProperty("port", strconv.Itoa(int(svc.Port)))
	if len(svc.Addresses) > 0 {
		dev.SetProperty("addresses", strings.Join(svc.Addresses, ","))
	}
	dev.SetProperty("remote.node", svc.Node)
	dev.SetProperty("remote.driver", svc.Driver)
	return dev, nil
}

// Events returns the hotplug event channel.
func (b *NetBackend) Events() <-chan Event {
	return b.events
}

// Close stops browsing and closes the event channel. Safe to call
// more than once.
func (b *NetBackend) Close() error {
	b.closeOnce.Do(func() {
		if b.cancel != nil {
			b.cancel()
		}
		if !b.started {
			// No run loop to close the stream for us.
			close(b.events)
		}
	})
	return nil
}

// run consumes browse results, splitting them into the initial node set
// and the post-window event stream.
func (b *NetBackend) run(ctx context.Context, added, removed <-chan *netcam.CameraService) {
	defer close(b.events)
	defer b.finishCollect()

	window := time.NewTimer(b.collect)
	defer window.Stop()

	for {
		select {
		case svc, ok := <-added:
			if !ok {
				return
			}
			node := NetNodePrefix + svc.Fingerprint

			b.mu.Lock()
			_, dup := b.known[node]
			b.known[node] = svc
			stream := b.streaming
			if !dup && !stream {
				b.initial = append(b.initial, node)
			}
			b.mu.Unlock()

			if dup || !stream {
				continue
			}
			select {
			case b.events <- Event{Action: ActionAdd, Node: node}:
			case <-ctx.Done():
				return
			}

		case svc, ok := <-removed:
			if !ok {
				// Departures ended; arrivals may still flow.
				removed = nil
				continue
			}
			node := NetNodePrefix + svc.Fingerprint

			b.mu.Lock()
			_, found := b.known[node]
			delete(b.known, node)
			stream := b.streaming
			if found && !stream {
				b.initial = dropNode(b.initial, node)
			}
			b.mu.Unlock()

			if !found || !stream {
				continue
			}
			select {
			case b.events <- Event{Action: ActionRemove, Node: node}:
			case <-ctx.Done():
				return
			}

		case <-window.C:
			b.finishCollect()

		case <-ctx.Done():
			return
		}
	}
}

// finishCollect ends the collect window and unblocks Nodes.
func (b *NetBackend) finishCollect() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.streaming {
		b.streaming = true
		close(b.ready)
	}
}

func dropNode(nodes []string, node string) []string {
	for i, n := range nodes {
		if n == node {
			return append(nodes[:i], nodes[i+1:]...)
		}
	}
	return nodes
}

// Compile-time interface checks.
var (
	_ Backend      = (*NetBackend)(nil)
	_ Introspector = (*NetBackend)(nil)
)
