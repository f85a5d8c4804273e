package netcam

import (
	"fmt"
	"strings"

	"github.com/lumen-media/lumen-go/pkg/media"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeCameraTXT creates TXT records for an exported camera.
func EncodeCameraTXT(info *CameraInfo) TXTRecordMap {
	txt := make(TXTRecordMap)

	// Required fields
	txt[TXTKeyNode] = info.Node
	txt[TXTKeyDriver] = info.Driver
	txt[TXTKeyFingerprint] = info.Fingerprint

	// Optional fields
	if info.Model != "" {
		txt[TXTKeyModel] = info.Model
	}
	if len(info.Entities) > 0 {
		txt[TXTKeyEntities] = encodeEntities(info.Entities)
	}

	return txt
}

// DecodeCameraTXT parses TXT records from camera discovery.
func DecodeCameraTXT(txt TXTRecordMap) (*CameraInfo, error) {
	info := &CameraInfo{}

	// Parse node (required)
	var ok bool
	info.Node, ok = txt[TXTKeyNode]
	if !ok || info.Node == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyNode)
	}

	// Parse driver (required)
	info.Driver, ok = txt[TXTKeyDriver]
	if !ok || info.Driver == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyDriver)
	}

	// Parse fingerprint (required)
	info.Fingerprint, ok = txt[TXTKeyFingerprint]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyFingerprint)
	}
	if !media.ValidFingerprint(info.Fingerprint) {
		return nil, ErrInvalidFingerprint
	}

	// Optional fields
	info.Model = txt[TXTKeyModel]
	info.Entities = parseEntities(txt[TXTKeyEntities])

	return info, nil
}

// encodeEntities converts entity names to a comma-separated string.
func encodeEntities(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return strings.Join(names, ",")
}

// parseEntities parses a comma-separated entity name string.
func parseEntities(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	names := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		names = append(names, p)
	}

	if len(names) == 0 {
		return nil
	}
	return names
}

// CameraInstanceName returns the mDNS instance name for a fingerprint.
func CameraInstanceName(fingerprint string) string {
	return "LUMEN-" + fingerprint
}

// FingerprintFromInstanceName extracts the fingerprint from an instance name.
func FingerprintFromInstanceName(name string) (string, error) {
	fp, ok := strings.CutPrefix(name, "LUMEN-")
	if !ok {
		return "", fmt.Errorf("%w: missing LUMEN prefix", ErrInvalidTXTRecord)
	}
	if !media.ValidFingerprint(fp) {
		return "", ErrInvalidFingerprint
	}
	return fp, nil
}

// TXTRecordsToStrings converts a TXTRecordMap to a slice of "key=value" strings.
// This format is commonly used by mDNS libraries.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	return result
}

// StringsToTXTRecords parses a slice of "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 2 {
			txt[parts[0]] = parts[1]
		} else if len(parts) == 1 && parts[0] != "" {
			// Key without value (boolean flag)
			txt[parts[0]] = ""
		}
	}
	return txt
}

// ValidateInstanceName checks if an instance name is valid for mDNS.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInstanceNameTooLong)
	}
	if len(name) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}
