package netcam

import (
	"context"
)

// Browser provides mDNS service browsing capabilities.
type Browser interface {
	// BrowseCameras searches for exported cameras.
	// Returns two channels: added (new cameras) and removed (cameras that
	// disappeared). Both channels are closed when the context is cancelled
	// or the browser is stopped.
	BrowseCameras(ctx context.Context) (added, removed <-chan *CameraService, err error)

	// FindByFingerprint searches for a specific exported camera.
	// Returns when found or when the context is cancelled.
	FindByFingerprint(ctx context.Context, fingerprint string) (*CameraService, error)

	// Stop stops all active browsing operations.
	Stop()
}

// BrowserConfig configures browser behavior.
type BrowserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string
}

// DefaultBrowserConfig returns the default browser configuration.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		Interface: "",
	}
}

// FilterFunc is a function that filters browse results.
type FilterFunc func(*CameraService) bool

// FilterByDriver returns a filter that matches cameras bound to the given driver.
func FilterByDriver(driver string) FilterFunc {
	return func(svc *CameraService) bool {
		return svc.Driver == driver
	}
}

// FilterByFingerprint returns a filter that matches a camera with the given fingerprint.
func FilterByFingerprint(fingerprint string) FilterFunc {
	return func(svc *CameraService) bool {
		return svc.Fingerprint == fingerprint
	}
}

// FilterBrowseResults filters a channel of camera services.
func FilterBrowseResults(in <-chan *CameraService, filter FilterFunc) <-chan *CameraService {
	out := make(chan *CameraService)
	go func() {
		defer close(out)
		for svc := range in {
			if filter(svc) {
				out <- svc
			}
		}
	}()
	return out
}

// ServiceEntry holds raw mDNS service entry data.
// This is a helper for Browser implementations and tests.
type ServiceEntry struct {
	Instance string
	Service  string
	Domain   string
	Host     string
	Port     uint16
	Text     []string
	Addrs    []string
}

// ToCameraService converts a ServiceEntry to CameraService.
func (e *ServiceEntry) ToCameraService() (*CameraService, error) {
	txt := StringsToTXTRecords(e.Text)
	info, err := DecodeCameraTXT(txt)
	if err != nil {
		return nil, err
	}

	return &CameraService{
		InstanceName: e.Instance,
		Host:         e.Host,
		Port:         e.Port,
		Addresses:    e.Addrs,
		Node:         info.Node,
		Driver:       info.Driver,
		Fingerprint:  info.Fingerprint,
		Model:        info.Model,
		Entities:     info.Entities,
	}, nil
}
