package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile describes the pipeline handler to generate.
type Profile struct {
	// Name is the handler name, used as the package name and the
	// pipeline registration name. Must be a lower-case identifier.
	Name string `yaml:"name"`

	// Driver is the kernel driver name the handler's match requires.
	Driver string `yaml:"driver"`

	// Entities lists the entity names a usable device must expose.
	// Empty means any device bound to the driver qualifies.
	Entities []string `yaml:"entities,omitempty"`

	// CameraName is the fallback camera name used when a device
	// reports no model. Empty falls back to the device path.
	CameraName string `yaml:"camera_name,omitempty"`
}

// Validate checks the profile for generation.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile: missing name")
	}
	if !validPackageName(p.Name) {
		return fmt.Errorf("profile: name %q is not a valid package name", p.Name)
	}
	if p.Driver == "" {
		return fmt.Errorf("profile %s: missing driver", p.Name)
	}
	for i, e := range p.Entities {
		if strings.TrimSpace(e) == "" {
			return fmt.Errorf("profile %s: entity %d is empty", p.Name, i)
		}
	}
	return nil
}

// LoadProfile reads and validates a profile YAML file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseProfile(data)
}

// ParseProfile parses and validates profile YAML data.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// validPackageName reports whether name works as both a Go package
// name and a pipeline registration name.
func validPackageName(name string) bool {
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return len(name) > 0
}
