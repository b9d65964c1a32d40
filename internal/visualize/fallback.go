package visualize

import "fmt"

// FallbackFilter returns the hard-coded minimal filter string used when a
// mode's full graph fails inside the transcoder. These deliberately avoid
// labeled chains, expression parameters, and optional filters so they work
// on any build.
func FallbackFilter(mode *Mode, opts Options) string {
	name := "waves"
	if mode != nil {
		name = mode.Name
	}
	switch name {
	case "spectrum", "kaleidoscope", "vortex", "spectrosynth", "neural":
		return fmt.Sprintf("showspectrum=s=%dx%d:mode=combined:color=intensity,format=rgb24", opts.Width, opts.Height)
	case "cqt", "edge", "fractal":
		return fmt.Sprintf("showcqt=s=%dx%d,format=rgb24", opts.Width, opts.Height)
	default:
		return fmt.Sprintf("showwaves=s=%dx%d:mode=line:colors=white,format=rgb24", opts.Width, opts.Height)
	}
}

// FallbackMode returns the simpler mode the pipeline should switch to after
// exhausting retries with the current one. Base modes fall back to waves.
func FallbackMode(mode *Mode) (*Mode, error) {
	if mode == nil || mode.Fallback == "" {
		return ModeByName("waves")
	}
	return ModeByName(mode.Fallback)
}
