package pipeline

import (
	"errors"
	"path/filepath"
	"testing"

	"asciisymphony/internal/config"
	"asciisymphony/internal/probe"
	"asciisymphony/internal/quality"
	"asciisymphony/internal/services"
	"asciisymphony/internal/visualize"
)

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.WorkspaceDir = filepath.Join(t.TempDir(), "work")
	cfg.Paths.OutputDir = filepath.Join(t.TempDir(), "out")
	return New(&cfg, nil, nil)
}

func TestResolvePlanUsesConfigDefaults(t *testing.T) {
	p := testPipeline(t)

	plan, err := p.resolvePlan(Request{Input: "/music/track.flac"})
	if err != nil {
		t.Fatalf("resolvePlan: %v", err)
	}
	if plan.mode.Name != p.cfg.Render.Mode {
		t.Fatalf("mode = %q, want config default %q", plan.mode.Name, p.cfg.Render.Mode)
	}
	if plan.level != quality.Balanced {
		t.Fatalf("level = %q, want balanced", plan.level)
	}
	if plan.opts.Width != p.cfg.Render.Width || plan.opts.FPS != p.cfg.Render.FPS {
		t.Fatalf("opts = %+v", plan.opts)
	}
	if filepath.Base(plan.output) != "track_spectrum.mp4" {
		t.Fatalf("output = %q", plan.output)
	}
	if filepath.Dir(plan.output) != p.cfg.Paths.OutputDir {
		t.Fatalf("output dir = %q, want %q", filepath.Dir(plan.output), p.cfg.Paths.OutputDir)
	}
}

func TestResolvePlanAppliesOverrides(t *testing.T) {
	p := testPipeline(t)

	plan, err := p.resolvePlan(Request{
		Input:       "/music/track.flac",
		Output:      "/custom/out.mp4",
		Mode:        "neural",
		Quality:     "ultra",
		ColorScheme: "fire",
		Width:       1920,
		Height:      1080,
		FPS:         60,
	})
	if err != nil {
		t.Fatalf("resolvePlan: %v", err)
	}
	if plan.mode.Name != "neural" || plan.level != quality.Ultra {
		t.Fatalf("plan = %+v", plan)
	}
	if plan.opts.Width != 1920 || plan.opts.Height != 1080 || plan.opts.FPS != 60 {
		t.Fatalf("opts = %+v", plan.opts)
	}
	if plan.opts.Scheme.Name != "fire" {
		t.Fatalf("scheme = %q", plan.opts.Scheme.Name)
	}
	if plan.output != "/custom/out.mp4" {
		t.Fatalf("output = %q", plan.output)
	}
}

func TestResolvePlanRejectsBadRequests(t *testing.T) {
	p := testPipeline(t)

	cases := []struct {
		label string
		req   Request
	}{
		{"missing input", Request{}},
		{"unknown mode", Request{Input: "a.flac", Mode: "hologram"}},
		{"unknown quality", Request{Input: "a.flac", Quality: "extreme"}},
		{"unknown scheme", Request{Input: "a.flac", ColorScheme: "plaid"}},
		{"fps out of range", Request{Input: "a.flac", FPS: 500}},
	}
	for _, tc := range cases {
		if _, err := p.resolvePlan(tc.req); !errors.Is(err, services.ErrValidation) {
			t.Errorf("%s: err = %v, want ErrValidation", tc.label, err)
		}
	}
}

func TestDefaultOutputPath(t *testing.T) {
	got := defaultOutputPath("/out", "/music/My Track.flac", "cqt")
	if got != filepath.Join("/out", "My Track_cqt.mp4") {
		t.Fatalf("defaultOutputPath = %q", got)
	}
}

func TestPercentOf(t *testing.T) {
	if got := percentOf(50, 200); got != 25 {
		t.Fatalf("percentOf = %f", got)
	}
	if got := percentOf(10, 0); got != 0 {
		t.Fatalf("percentOf with zero total = %f", got)
	}
	if got := percentOf(300, 200); got != 100 {
		t.Fatalf("percentOf over total = %f", got)
	}
}

func TestCheckModeMedia(t *testing.T) {
	motion, err := visualize.ModeByName("motion")
	if err != nil {
		t.Fatalf("motion missing: %v", err)
	}
	waves, err := visualize.ModeByName("waves")
	if err != nil {
		t.Fatalf("waves missing: %v", err)
	}

	audioOnly := &probe.Media{Path: "/music/track.flac", SampleRate: 44100, Channels: 2}
	withVideo := &probe.Media{Path: "/clips/dance.mp4", SampleRate: 48000, Channels: 2, HasVideo: true}

	if err := checkModeMedia(motion, audioOnly); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("motion on audio-only input: err = %v, want ErrValidation", err)
	}
	if err := checkModeMedia(motion, withVideo); err != nil {
		t.Fatalf("motion on video input: %v", err)
	}
	if err := checkModeMedia(waves, audioOnly); err != nil {
		t.Fatalf("waves on audio-only input: %v", err)
	}
}
