// Package app holds the payloads and, on the host, the supervisor that
// starts them the way the firmware does.
package app

import (
	"context"
	"sort"
	"strings"

	"card10/hal"
)

// Payload is a program the firmware can start. It runs until it returns,
// calls epic.Exit or hands over with epic.Exec. ctx ends when the host
// shuts down; on the device it never does.
type Payload func(ctx context.Context) error

// AppDir is where payloads are installed.
const AppDir = "/apps/"

// MenuPath is the payload started after every exit.
var MenuPath = Path("menu")

// Path returns the install path of the named payload.
func Path(name string) string { return AppDir + name + ".elf" }

// Name is the inverse of Path. It returns path unchanged if path is not
// an installed payload path.
func Name(path string) string {
	return strings.TrimSuffix(strings.TrimPrefix(path, AppDir), ".elf")
}

// Registry maps install paths to payloads.
type Registry struct {
	byPath map[string]Payload
}

func NewRegistry() *Registry {
	return &Registry{byPath: make(map[string]Payload)}
}

// Register installs p under Path(name), replacing any previous payload.
func (r *Registry) Register(name string, p Payload) {
	r.byPath[Path(name)] = p
}

func (r *Registry) Lookup(path string) (Payload, bool) {
	p, ok := r.byPath[path]
	return p, ok
}

// Paths returns every install path, sorted.
func (r *Registry) Paths() []string {
	out := make([]string, 0, len(r.byPath))
	for p := range r.byPath {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Install adds every payload to the simulated file table.
func (r *Registry) Install(l *hal.Loader) {
	for p := range r.byPath {
		l.Install(p, hal.FileELF)
	}
}

// Default returns the registry with the built-in payloads.
func Default() *Registry {
	r := NewRegistry()
	r.Register("hello", Hello)
	r.Register("accelplot", AccelPlot)
	r.Register("menu", Menu(func() []string {
		var out []string
		for _, p := range r.Paths() {
			if p != MenuPath {
				out = append(out, p)
			}
		}
		return out
	}))
	return r
}
