package netcam

import (
	"errors"
	"time"
)

// Service type constants for mDNS.
const (
	// ServiceTypeCamera is the service type exported cameras advertise.
	ServiceTypeCamera = "_lumen-cam._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// DefaultPort is the default stream port.
	DefaultPort = 8554
)

// TXT record key constants.
const (
	TXTKeyNode        = "node"  // Device node path the exporter serves
	TXTKeyDriver      = "drv"   // Kernel driver bound to the node
	TXTKeyFingerprint = "fp"    // Device fingerprint (16 hex chars)
	TXTKeyModel       = "model" // Model name (optional)
	TXTKeyEntities    = "ent"   // Entity names, comma-separated (optional)
)

// Timing constants.
const (
	// BrowseTimeout is the default timeout for one-shot lookups.
	BrowseTimeout = 10 * time.Second

	// DefaultCollectWindow is how long an initial browse gathers
	// services before the result is considered the current set.
	DefaultCollectWindow = 2 * time.Second
)

// Limits.
const (
	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63

	// MaxTXTRecordSize is the maximum total TXT record size.
	MaxTXTRecordSize = 400
)

// Discovery errors.
var (
	ErrInvalidTXTRecord    = errors.New("invalid TXT record format")
	ErrMissingRequired     = errors.New("missing required field")
	ErrInvalidFingerprint  = errors.New("invalid fingerprint format")
	ErrInstanceNameTooLong = errors.New("instance name exceeds 63 characters")
	ErrNotFound            = errors.New("service not found")
	ErrBrowserStopped      = errors.New("browser stopped")
)

// CameraInfo contains information for advertising an exported camera.
type CameraInfo struct {
	// Node is the device node path the exporter serves.
	Node string

	// Driver is the kernel driver bound to the node.
	Driver string

	// Fingerprint is the device fingerprint (16 hex chars).
	Fingerprint string

	// Model is the optional model name.
	Model string

	// Entities lists the entity names the device exposes. Names must
	// not contain commas; they are joined into one TXT value.
	Entities []string

	// Port is the stream port.
	Port uint16

	// Host is the hostname to advertise.
	Host string
}

// CameraService represents an exported camera found via mDNS.
type CameraService struct {
	// InstanceName is the mDNS instance name (e.g., "LUMEN-a1b2c3d4e5f6a7b8").
	InstanceName string

	// Host is the hostname (e.g., "capture-box.local").
	Host string

	// Port is the stream port.
	Port uint16

	// Addresses contains resolved IP addresses.
	Addresses []string

	// Node is the device node path on the exporting host (from TXT "node").
	Node string

	// Driver is the kernel driver name (from TXT "drv").
	Driver string

	// Fingerprint is the device fingerprint (from TXT "fp", 16 hex chars).
	Fingerprint string

	// Model is the optional model name (from TXT "model").
	Model string

	// Entities lists the entity names (from TXT "ent").
	Entities []string
}
