package netcam

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/enbility/zeroconf/v3"
)

// MDNSAdvertiser implements the Advertiser interface using zeroconf.
type MDNSAdvertiser struct {
	config AdvertiserConfig

	mu sync.Mutex

	// Active services keyed by node path
	servers map[string]*zeroconf.Server
}

// NewMDNSAdvertiser creates a new mDNS advertiser.
func NewMDNSAdvertiser(config AdvertiserConfig) (*MDNSAdvertiser, error) {
	return &MDNSAdvertiser{
		config:  config,
		servers: make(map[string]*zeroconf.Server),
	}, nil
}

// getInterfaces returns the network interfaces to use for advertising.
// Returns nil to use all interfaces.
func (a *MDNSAdvertiser) getInterfaces() []net.Interface {
	if a.config.Interface == "" {
		return nil
	}

	iface, err := net.InterfaceByName(a.config.Interface)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

// AdvertiseCamera starts advertising an exported camera.
func (a *MDNSAdvertiser) AdvertiseCamera(ctx context.Context, info *CameraInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Stop existing for this node if any
	if server, exists := a.servers[info.Node]; exists {
		server.Shutdown()
		delete(a.servers, info.Node)
	}

	// Build instance name: "LUMEN-<fingerprint>"
	instanceName := CameraInstanceName(info.Fingerprint)
	if len(instanceName) > MaxInstanceNameLen {
		instanceName = instanceName[:MaxInstanceNameLen]
	}

	// Build TXT records
	txtRecords := EncodeCameraTXT(info)
	txtStrings := TXTRecordsToStrings(txtRecords)

	// Determine port
	port := int(info.Port)
	if port == 0 {
		port = DefaultPort
	}

	// Register service
	var opts []zeroconf.ServerOption
	if a.config.TTL > 0 {
		opts = append(opts, zeroconf.TTL(uint32(a.config.TTL.Seconds())))
	}

	// Get interfaces (nil means all interfaces)
	ifaces := a.getInterfaces()

	server, err := zeroconf.Register(
		instanceName,
		ServiceTypeCamera,
		Domain,
		port,
		txtStrings,
		ifaces,
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to register camera service: %w", err)
	}

	a.servers[info.Node] = server
	return nil
}

// UpdateCamera updates TXT records for an exported camera.
func (a *MDNSAdvertiser) UpdateCamera(node string, info *CameraInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	server, exists := a.servers[node]
	if !exists {
		return ErrNotFound
	}

	// Update TXT records
	txtRecords := EncodeCameraTXT(info)
	txtStrings := TXTRecordsToStrings(txtRecords)
	server.SetText(txtStrings)

	return nil
}

// StopCamera stops advertising the camera for a specific node.
func (a *MDNSAdvertiser) StopCamera(node string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	server, exists := a.servers[node]
	if !exists {
		return ErrNotFound
	}

	server.Shutdown()
	delete(a.servers, node)
	return nil
}

// StopAll stops all advertisements.
func (a *MDNSAdvertiser) StopAll() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for node, server := range a.servers {
		server.Shutdown()
		delete(a.servers, node)
	}
}

// MDNSBrowser implements the Browser interface using zeroconf.
type MDNSBrowser struct {
	config BrowserConfig

	mu      sync.Mutex
	stopped bool
	cancels []context.CancelFunc
}

// NewMDNSBrowser creates a new mDNS browser.
func NewMDNSBrowser(config BrowserConfig) (*MDNSBrowser, error) {
	return &MDNSBrowser{
		config: config,
	}, nil
}

// BrowseCameras searches for exported cameras.
// Services are aggregated by instance name - addresses from multiple interfaces
// are combined into a single entry. A camera is reported removed once its
// addresses from all interfaces have disappeared.
func (b *MDNSBrowser) BrowseCameras(ctx context.Context) (<-chan *CameraService, <-chan *CameraService, error) {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return nil, nil, ErrBrowserStopped
	}
	ctx, cancel := context.WithCancel(ctx)
	b.cancels = append(b.cancels, cancel)
	b.mu.Unlock()

	added := make(chan *CameraService)
	gone := make(chan *CameraService)

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	// Set up browser options
	opts := b.browserOptions()

	// Process entries with aggregation
	go func() {
		defer close(added)
		defer close(gone)

		// Track services by instance name, aggregating addresses
		services := make(map[string]*CameraService)

		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				svc := b.entryToCamera(entry)
				if svc == nil {
					continue
				}

				existing, found := services[svc.InstanceName]
				if found {
					// Merge addresses into existing entry
					existing.Addresses = mergeAddresses(existing.Addresses, svc.Addresses)
				} else {
					// New service - store and emit
					services[svc.InstanceName] = svc
					select {
					case added <- svc:
					case <-ctx.Done():
						return
					}
				}

			case entry, ok := <-removed:
				if !ok {
					continue
				}
				// Remove addresses that came from this interface
				existing, found := services[entry.Instance]
				if !found {
					continue
				}
				existing.Addresses = removeAddresses(existing.Addresses, entry)
				// If no addresses remain, the camera is gone
				if len(existing.Addresses) == 0 {
					delete(services, entry.Instance)
					select {
					case gone <- existing:
					case <-ctx.Done():
						return
					}
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	// Start browsing in background
	go func() {
		_ = zeroconf.Browse(ctx, ServiceTypeCamera, Domain, entries, removed, opts...)
	}()

	return added, gone, nil
}

// FindByFingerprint searches for a specific exported camera.
func (b *MDNSBrowser) FindByFingerprint(ctx context.Context, fingerprint string) (*CameraService, error) {
	results, _, err := b.BrowseCameras(ctx)
	if err != nil {
		return nil, err
	}

	for {
		select {
		case svc, ok := <-results:
			if !ok {
				return nil, ErrNotFound
			}
			if svc.Fingerprint == fingerprint {
				return svc, nil
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Stop stops all active browsing operations.
func (b *MDNSBrowser) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopped = true
	for _, cancel := range b.cancels {
		cancel()
	}
	b.cancels = nil
}

// browserOptions returns zeroconf client options based on config.
func (b *MDNSBrowser) browserOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	// Select specific interface if configured
	if b.config.Interface != "" {
		iface, err := net.InterfaceByName(b.config.Interface)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}

	return opts
}

// entryToCamera converts a zeroconf entry to CameraService.
func (b *MDNSBrowser) entryToCamera(entry *zeroconf.ServiceEntry) *CameraService {
	txt := StringsToTXTRecords(entry.Text)
	info, err := DecodeCameraTXT(txt)
	if err != nil {
		return nil
	}

	// Collect addresses
	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}

	return &CameraService{
		InstanceName: entry.Instance,
		Host:         entry.HostName,
		Port:         uint16(entry.Port),
		Addresses:    addrs,
		Node:         info.Node,
		Driver:       info.Driver,
		Fingerprint:  info.Fingerprint,
		Model:        info.Model,
		Entities:     info.Entities,
	}
}

// mergeAddresses adds new addresses to existing list, avoiding duplicates.
func mergeAddresses(existing, new []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, addr := range existing {
		seen[addr] = true
	}

	for _, addr := range new {
		if !seen[addr] {
			existing = append(existing, addr)
			seen[addr] = true
		}
	}
	return existing
}

// removeAddresses removes addresses from a zeroconf entry from the list.
func removeAddresses(addresses []string, entry *zeroconf.ServiceEntry) []string {
	// Build set of addresses to remove
	toRemove := make(map[string]bool)
	for _, ip := range entry.AddrIPv4 {
		toRemove[ip.String()] = true
	}
	for _, ip := range entry.AddrIPv6 {
		toRemove[ip.String()] = true
	}

	// Filter out removed addresses
	result := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if !toRemove[addr] {
			result = append(result, addr)
		}
	}
	return result
}

// Ensure MDNSAdvertiser implements Advertiser interface.
var _ Advertiser = (*MDNSAdvertiser)(nil)

// Ensure MDNSBrowser implements Browser interface.
var _ Browser = (*MDNSBrowser)(nil)
