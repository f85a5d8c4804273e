package media

import (
	"encoding/hex"
	"sort"

	"golang.org/x/crypto/blake2b"
)

// FingerprintLength is the length of a device fingerprint (16 hex chars).
const FingerprintLength = 16

// Fingerprint returns a stable identifier for the device.
//
// The fingerprint is the first 64 bits (16 hex chars) of the BLAKE2b hash of
// the driver, node path, model, and sorted entity names. It is stable across
// processes for the same hardware topology, and stays readable after the
// device is removed from the registry.
func (d *Device) Fingerprint() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.entities))
	for _, e := range d.entities {
		names = append(names, e.Name)
	}
	sort.Strings(names)

	// Size and key are valid constants, so New cannot fail here.
	h, _ := blake2b.New(8, nil)
	h.Write([]byte(d.driver))
	h.Write([]byte{0})
	h.Write([]byte(d.path))
	h.Write([]byte{0})
	h.Write([]byte(d.model))
	for _, name := range names {
		h.Write([]byte{0})
		h.Write([]byte(name))
	}

	return hex.EncodeToString(h.Sum(nil))
}

// ValidFingerprint checks if a string is a well-formed device fingerprint.
func ValidFingerprint(fp string) bool {
	if len(fp) != FingerprintLength {
		return false
	}
	_, err := hex.DecodeString(fp)
	return err == nil
}
