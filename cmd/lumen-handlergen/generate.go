package main

import (
	"fmt"
	"strings"
	"text/template"
)

var funcMap = template.FuncMap{
	"quote": func(s string) string { return fmt.Sprintf("%q", s) },
}

var handlerTmpl = template.Must(template.New("handler").Funcs(funcMap).Parse(
	`// Package {{.Name}} is the pipeline handler for the {{.Driver}} driver.
//
// Code generated by lumen-handlergen. Edit to taste: the skeleton
// claims one device per matching pass and builds one camera on it.
package {{.Name}}

import (
	"github.com/lumen-media/lumen-go/pkg/camera"
	"github.com/lumen-media/lumen-go/pkg/enumerate"
	"github.com/lumen-media/lumen-go/pkg/media"
	"github.com/lumen-media/lumen-go/pkg/pipeline"
)

// Name is the handler name cameras are tagged with.
const Name = {{quote .Name}}

func init() {
	pipeline.Register(Name, New)
}
{{if .Entities}}
// entities is the complement a usable {{.Driver}} topology exposes. A
// device missing any of them is not matched.
var entities = []string{
{{- range .Entities}}
	{{quote .}},
{{- end}}
}
{{end}}
// Handler drives one {{.Driver}} device.
type Handler struct{}

// New builds an unbound handler.
func New() pipeline.Handler {
	return &Handler{}
}

// Name returns the handler name.
func (h *Handler) Name() string {
	return Name
}

// Match claims the first free {{.Driver}} device and builds one camera
// on it.
func (h *Handler) Match(enum *enumerate.Enumerator) ([]*camera.Camera, error) {
	match := enumerate.NewDeviceMatch({{quote .Driver}})
{{- if .Entities}}
	for _, name := range entities {
		match.Add(name)
	}
{{- end}}

	dev := pipeline.AcquireDevice(enum, match)
	if dev == nil {
		return nil, nil
	}

	return []*camera.Camera{camera.New(Name, cameraName(dev), dev)}, nil
}

// cameraName prefers the hardware model name; nodes without one fall
// back to {{if .CameraName}}the profile's camera name{{else}}the device path{{end}}.
func cameraName(dev *media.Device) string {
	if model := dev.Model(); model != "" {
		return model
	}
{{- if .CameraName}}
	return {{quote .CameraName}}
{{- else}}
	return dev.Path()
{{- end}}
}
`))

// Generate renders the handler package source for profile.
func Generate(profile *Profile) (string, error) {
	var b strings.Builder
	if err := handlerTmpl.Execute(&b, profile); err != nil {
		return "", err
	}
	return b.String(), nil
}
