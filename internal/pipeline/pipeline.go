// Package pipeline orchestrates a full render: preflight, probe, frame
// extraction with adaptive quality, optional character-art post-processing,
// encode, mux, and ledger bookkeeping.
package pipeline

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"asciisymphony/internal/config"
	"asciisymphony/internal/history"
	"asciisymphony/internal/logging"
	"asciisymphony/internal/quality"
	"asciisymphony/internal/services"
	"asciisymphony/internal/visualize"
)

// Request describes one render. Zero values fall back to the configuration.
type Request struct {
	Input  string
	Output string

	Mode        string
	Quality     string
	ColorScheme string
	Width       int
	Height      int
	FPS         int

	ASCII    bool
	Glitch   bool
	HueShift bool

	DisableMonitor bool
	KeepWorkspace  bool
}

// Summary reports a completed render.
type Summary struct {
	JobID        string
	Output       string
	Frames       int
	Duration     time.Duration
	OutputBytes  int64
	FallbackUsed bool
	FinalQuality quality.Level
}

// Pipeline runs renders against one configuration and ledger.
type Pipeline struct {
	cfg    *config.Config
	store  *history.Store
	logger *slog.Logger
}

// New builds a pipeline.
func New(cfg *config.Config, store *history.Store, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{cfg: cfg, store: store, logger: logger}
}

// plan is the resolved set of render parameters.
type plan struct {
	input  string
	output string
	mode   *visualize.Mode
	opts   visualize.Options
	level  quality.Level
	ascii  bool
}

// resolvePlan merges request overrides onto configuration defaults and
// validates the result.
func (p *Pipeline) resolvePlan(req Request) (*plan, error) {
	input := strings.TrimSpace(req.Input)
	if input == "" {
		return nil, services.Wrap(services.ErrValidation, "plan", "input", "input file is required", nil)
	}

	modeName := req.Mode
	if modeName == "" {
		modeName = p.cfg.Render.Mode
	}
	mode, err := visualize.ModeByName(modeName)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "plan", "mode", err.Error(), nil)
	}

	schemeName := req.ColorScheme
	if schemeName == "" {
		schemeName = p.cfg.Render.ColorScheme
	}
	scheme, err := visualize.SchemeByName(schemeName)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "plan", "color scheme", err.Error(), nil)
	}

	qualityName := req.Quality
	if qualityName == "" {
		qualityName = p.cfg.Render.Quality
	}
	level, err := quality.Parse(qualityName)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "plan", "quality", err.Error(), nil)
	}

	opts := visualize.Options{
		Width:  p.cfg.Render.Width,
		Height: p.cfg.Render.Height,
		FPS:    p.cfg.Render.FPS,
		Scheme: scheme,
	}
	if req.Width > 0 {
		opts.Width = req.Width
	}
	if req.Height > 0 {
		opts.Height = req.Height
	}
	if req.FPS > 0 {
		opts.FPS = req.FPS
	}
	if opts.FPS < 1 || opts.FPS > 120 {
		return nil, services.Wrap(services.ErrValidation, "plan", "fps",
			fmt.Sprintf("fps %d out of range 1-120", opts.FPS), nil)
	}

	output := strings.TrimSpace(req.Output)
	if output == "" {
		output = defaultOutputPath(p.cfg.Paths.OutputDir, input, mode.Name)
	}

	return &plan{
		input:  input,
		output: output,
		mode:   mode,
		opts:   opts,
		level:  level,
		ascii:  req.ASCII,
	}, nil
}

// defaultOutputPath derives `<output_dir>/<input-stem>_<mode>.mp4`.
func defaultOutputPath(outputDir, input, mode string) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(outputDir, fmt.Sprintf("%s_%s.mp4", stem, mode))
}
