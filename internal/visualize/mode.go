package visualize

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Options parameterizes a filter graph template.
type Options struct {
	Width  int
	Height int
	FPS    int
	Scheme Scheme
}

// Mode is one visualization filter graph template. FilterGraph renders the
// full filter_complex string for the given options; Fallback names the
// simpler mode the pipeline retries with after a filter failure.
type Mode struct {
	Name        string
	Description string
	Fallback    string

	// RequiresVideo marks graphs that read the input's video stream.
	RequiresVideo bool

	build      func(Options) string
	inputFlags []string
}

// FilterGraph returns the filter_complex string for the mode.
func (m *Mode) FilterGraph(opts Options) string {
	return m.build(opts)
}

// InputFlags returns extra ffmpeg input options the mode's graph depends
// on. They belong before -i on the command line.
func (m *Mode) InputFlags() []string {
	return append([]string(nil), m.inputFlags...)
}

// Label returns the display label of the mode.
func (m *Mode) Label() string {
	return cases.Title(language.English).String(m.Name)
}

// ModeByName resolves a visualization mode, case-insensitively.
func ModeByName(name string) (*Mode, error) {
	mode, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown visualization mode %q (known: %s)", name, strings.Join(ModeNames(), ", "))
	}
	return mode, nil
}

// ModeNames returns the registered mode names, sorted.
func ModeNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Modes returns all registered modes ordered by name.
func Modes() []*Mode {
	names := ModeNames()
	modes := make([]*Mode, 0, len(names))
	for _, name := range names {
		modes = append(modes, registry[name])
	}
	return modes
}
