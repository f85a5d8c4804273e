// Command lumen-handlergen generates a pipeline handler package from a
// YAML profile.
//
// A profile names the handler, the kernel driver it binds to, and the
// entity complement a usable device must expose. The generated package
// follows the structure of the built-in handlers: it registers itself
// from init(), matches with a DeviceMatch built from the profile, and
// claims one device per matching pass.
//
// Usage:
//
//	lumen-handlergen -profile <file.yaml> -output <dir>
//
// Flags:
//
//	-profile string  Handler profile YAML file
//	-output string   Directory to write the handler package into
//
// Profile format:
//
//	name: isp            # handler and package name
//	driver: my-isp       # kernel driver the handler binds to
//	entities:            # entity names a usable device must expose
//	  - Sensor
//	  - ISP
//	camera_name: My ISP  # fallback camera name (default: device path)
//
// The package is written to <output>/<name>/<name>.go and formatted
// with goimports.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/tools/imports"
)

func main() {
	profilePath := flag.String("profile", "", "Handler profile YAML file")
	outputDir := flag.String("output", "", "Directory to write the handler package into")
	flag.Parse()

	if *profilePath == "" || *outputDir == "" {
		fmt.Fprintln(os.Stderr, "Usage: lumen-handlergen -profile <file.yaml> -output <dir>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(*profilePath, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(profilePath, outputDir string) error {
	profile, err := LoadProfile(profilePath)
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}

	code, err := Generate(profile)
	if err != nil {
		return fmt.Errorf("generating handler: %w", err)
	}

	pkgDir := filepath.Join(outputDir, profile.Name)
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	outPath := filepath.Join(pkgDir, profile.Name+".go")
	if err := writeFormatted(outPath, code); err != nil {
		return err
	}

	fmt.Printf("  generated %s\n", outPath)
	return nil
}

// writeFormatted runs goimports over code and writes the result.
func writeFormatted(path, code string) error {
	formatted, err := imports.Process(path, []byte(code), nil)
	if err != nil {
		// Write unformatted so you can debug the generator output
		_ = os.WriteFile(path+".broken", []byte(code), 0o644)
		return fmt.Errorf("goimports %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, formatted, 0o644)
}
