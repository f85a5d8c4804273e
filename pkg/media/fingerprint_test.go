package media

import (
	"testing"
)

func TestFingerprint(t *testing.T) {
	t.Run("Stable", func(t *testing.T) {
		a := testDevice()
		b := testDevice()
		if a.Fingerprint() != b.Fingerprint() {
			t.Error("identical devices must produce identical fingerprints")
		}
		if a.Fingerprint() != a.Fingerprint() {
			t.Error("fingerprint must be deterministic")
		}
	})

	t.Run("EntityOrderIndependent", func(t *testing.T) {
		a := NewDevice("/dev/media0", "vimc")
		a.Populate([]Entity{{Name: "Sensor A"}, {Name: "Debayer A"}})

		b := NewDevice("/dev/media0", "vimc")
		b.Populate([]Entity{{Name: "Debayer A"}, {Name: "Sensor A"}})

		if a.Fingerprint() != b.Fingerprint() {
			t.Error("entity order must not affect the fingerprint")
		}
	})

	t.Run("DistinguishesDevices", func(t *testing.T) {
		a := NewDevice("/dev/media0", "vimc")
		b := NewDevice("/dev/media1", "vimc")
		if a.Fingerprint() == b.Fingerprint() {
			t.Error("different nodes must produce different fingerprints")
		}

		c := NewDevice("/dev/media0", "uvcvideo")
		if a.Fingerprint() == c.Fingerprint() {
			t.Error("different drivers must produce different fingerprints")
		}
	})

	t.Run("Length", func(t *testing.T) {
		fp := testDevice().Fingerprint()
		if len(fp) != FingerprintLength {
			t.Errorf("expected %d hex chars, got %d", FingerprintLength, len(fp))
		}
	})
}

func TestValidFingerprint(t *testing.T) {
	valid := testDevice().Fingerprint()

	tests := []struct {
		name string
		fp   string
		want bool
	}{
		{"Valid", valid, true},
		{"Empty", "", false},
		{"TooShort", valid[:8], false},
		{"TooLong", valid + "00", false},
		{"NotHex", "zzzzzzzzzzzzzzzz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidFingerprint(tt.fp); got != tt.want {
				t.Errorf("ValidFingerprint(%q) = %t, want %t", tt.fp, got, tt.want)
			}
		})
	}
}
