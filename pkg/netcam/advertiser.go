package netcam

import (
	"context"
	"sync"
	"time"
)

// Advertiser provides mDNS service advertising capabilities.
type Advertiser interface {
	// AdvertiseCamera starts advertising an exported camera.
	// The service is advertised until StopCamera is called.
	// Multiple cameras can be advertised simultaneously.
	AdvertiseCamera(ctx context.Context, info *CameraInfo) error

	// UpdateCamera updates TXT records for an exported camera.
	UpdateCamera(node string, info *CameraInfo) error

	// StopCamera stops advertising the camera for a specific node.
	StopCamera(node string) error

	// StopAll stops all advertisements.
	StopAll()
}

// AdvertiserConfig configures advertiser behavior.
type AdvertiserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// TTL is the DNS record TTL.
	// Default: 120 seconds.
	TTL time.Duration
}

// DefaultAdvertiserConfig returns the default advertiser configuration.
func DefaultAdvertiserConfig() AdvertiserConfig {
	return AdvertiserConfig{
		Interface: "",
		TTL:       120 * time.Second,
	}
}

// Exporter tracks the set of cameras a host exports and keeps their
// advertisements current.
type Exporter struct {
	mu sync.RWMutex

	advertiser Advertiser

	// Exported cameras keyed by node path
	exports map[string]*CameraInfo

	// Callback for export set changes
	onChange func(node string, exported bool)
}

// NewExporter creates a new exporter.
func NewExporter(advertiser Advertiser) *Exporter {
	return &Exporter{
		advertiser: advertiser,
		exports:    make(map[string]*CameraInfo),
	}
}

// OnChange sets a callback invoked when a camera is exported or unexported.
func (e *Exporter) OnChange(fn func(node string, exported bool)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onChange = fn
}

// Export starts advertising a camera.
func (e *Exporter) Export(ctx context.Context, info *CameraInfo) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if info.Node == "" || info.Driver == "" || info.Fingerprint == "" {
		return ErrMissingRequired
	}

	if err := e.advertiser.AdvertiseCamera(ctx, info); err != nil {
		return err
	}

	_, existed := e.exports[info.Node]
	e.exports[info.Node] = info

	if e.onChange != nil && !existed {
		e.onChange(info.Node, true)
	}
	return nil
}

// Update refreshes the TXT records of an exported camera.
func (e *Exporter) Update(info *CameraInfo) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.exports[info.Node]; !exists {
		return ErrNotFound
	}

	if err := e.advertiser.UpdateCamera(info.Node, info); err != nil {
		return err
	}

	e.exports[info.Node] = info
	return nil
}

// Unexport stops advertising a camera.
func (e *Exporter) Unexport(node string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.exports[node]; !exists {
		return ErrNotFound
	}

	if err := e.advertiser.StopCamera(node); err != nil {
		return err
	}

	delete(e.exports, node)

	if e.onChange != nil {
		e.onChange(node, false)
	}
	return nil
}

// Exports returns the currently exported cameras in no particular order.
func (e *Exporter) Exports() []*CameraInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()

	infos := make([]*CameraInfo, 0, len(e.exports))
	for _, info := range e.exports {
		infos = append(infos, info)
	}
	return infos
}

// ExportCount returns the number of exported cameras.
func (e *Exporter) ExportCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.exports)
}

// Stop stops all advertising and clears the export set.
func (e *Exporter) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.advertiser.StopAll()
	e.exports = make(map[string]*CameraInfo)
}
