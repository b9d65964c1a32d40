package visualize

import (
	"fmt"
	"sort"
	"strings"
)

// Scheme maps one user-facing color scheme name onto the per-filter color
// parameters of the transcoder: showspectrum takes a palette name, showwaves
// takes hex colors, showcqt takes a six-component cscheme vector.
type Scheme struct {
	Name       string
	Spectrum   string
	WaveColors string
	CQT        string
}

var schemes = map[string]Scheme{
	"rainbow":   {Name: "rainbow", Spectrum: "rainbow", WaveColors: "0x00ffff|0xff00ff", CQT: "1|0.5|0|0.5|0|1"},
	"intensity": {Name: "intensity", Spectrum: "intensity", WaveColors: "white", CQT: "1|1|1|0.5|0.5|0.5"},
	"fire":      {Name: "fire", Spectrum: "fire", WaveColors: "0xff4500|0xffd700", CQT: "1|0.5|0|1|0.25|0"},
	"mono":      {Name: "mono", Spectrum: "channel", WaveColors: "white", CQT: "1|1|1|1|1|1"},
	"ocean":     {Name: "ocean", Spectrum: "cool", WaveColors: "0x0066ff|0x00ffcc", CQT: "0|0.5|1|0|1|0.5"},
	// Orange-to-blue, the showcqt ritual palette.
	"ritual": {Name: "ritual", Spectrum: "nebulae", WaveColors: "0x66ccff", CQT: "1|0.5|0|0|0.5|1"},
}

// SchemeByName resolves a color scheme, case-insensitively.
func SchemeByName(name string) (Scheme, error) {
	scheme, ok := schemes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Scheme{}, fmt.Errorf("unknown color scheme %q (known: %s)", name, strings.Join(SchemeNames(), ", "))
	}
	return scheme, nil
}

// SchemeNames returns the known scheme names, sorted.
func SchemeNames() []string {
	names := make([]string, 0, len(schemes))
	for name := range schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
