package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"asciisymphony/internal/logging"
	"asciisymphony/internal/services"
	"asciisymphony/internal/visualize"
)

// ExtractRequest describes one frame-extraction run.
type ExtractRequest struct {
	Input        string
	Mode         *visualize.Mode
	Options      visualize.Options
	FramePattern string

	// OnFrame receives the cumulative frame count as ffmpeg reports it.
	OnFrame func(frames int)
}

// ExtractResult reports what actually ran.
type ExtractResult struct {
	FallbackUsed bool
	FilterGraph  string
}

// Extractor renders visualization frames, retrying once with the mode's
// hard-coded fallback filter when the elaborate graph fails mid-flight.
type Extractor struct {
	runner *Runner
	logger *slog.Logger
}

// NewExtractor builds an extractor around an ffmpeg runner.
func NewExtractor(runner *Runner, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Extractor{runner: runner, logger: logger}
}

// Extract runs the visualization graph for the request. Filter failures get
// one retry with the fallback graph; validation failures do not, they would
// fail again identically.
func (e *Extractor) Extract(ctx context.Context, req ExtractRequest) (ExtractResult, error) {
	graph := req.Mode.FilterGraph(req.Options)
	err := e.run(ctx, graph, req.Mode.InputFlags(), req)
	if err == nil {
		return ExtractResult{FilterGraph: graph}, nil
	}
	if !services.Retryable(err) || ctx.Err() != nil {
		return ExtractResult{}, err
	}

	fallbackGraph := visualize.FallbackFilter(req.Mode, req.Options)
	if fallbackGraph == "" || fallbackGraph == graph {
		return ExtractResult{}, err
	}
	e.logger.Warn("filter graph failed, retrying with fallback",
		logging.String("mode", req.Mode.Name),
		logging.String("fallback", req.Mode.Fallback),
		logging.Error(err))

	// The failed graph may already have written frames; leaving them in
	// place would splice two renders into one output.
	if err := clearFrames(req.FramePattern); err != nil {
		return ExtractResult{}, err
	}

	// Fallback filters read nothing special from the input; extra input
	// flags stay with the graph that needed them.
	if err := e.run(ctx, fallbackGraph, nil, req); err != nil {
		return ExtractResult{}, err
	}
	return ExtractResult{FallbackUsed: true, FilterGraph: fallbackGraph}, nil
}

// clearFrames removes everything matching the pattern's frame prefix so a
// retry starts from an empty directory.
func clearFrames(framePattern string) error {
	dir := filepath.Dir(framePattern)
	prefix := filepath.Base(framePattern)
	if i := strings.IndexByte(prefix, '%'); i >= 0 {
		prefix = prefix[:i]
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear stale frames: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("clear stale frames: %w", err)
		}
	}
	return nil
}

func (e *Extractor) run(ctx context.Context, graph string, inputFlags []string, req ExtractRequest) error {
	args := ExtractArgs(req.Input, inputFlags, graph, req.Options.FPS, req.FramePattern)
	return e.runner.Run(ctx, "extract frames", args, func(line string) {
		if req.OnFrame == nil {
			return
		}
		if frames, ok := ParseFrameCount(line); ok {
			req.OnFrame(frames)
		}
	})
}
