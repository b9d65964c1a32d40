package visualize_test

import (
	"strings"
	"testing"

	"asciisymphony/internal/visualize"
)

func testOptions(t *testing.T) visualize.Options {
	t.Helper()
	scheme, err := visualize.SchemeByName("rainbow")
	if err != nil {
		t.Fatalf("rainbow scheme missing: %v", err)
	}
	return visualize.Options{Width: 1280, Height: 720, FPS: 30, Scheme: scheme}
}

func TestModeByNameCaseInsensitive(t *testing.T) {
	mode, err := visualize.ModeByName(" CQT ")
	if err != nil {
		t.Fatalf("ModeByName returned error: %v", err)
	}
	if mode.Name != "cqt" {
		t.Fatalf("unexpected mode: %s", mode.Name)
	}
	if mode.Label() != "Cqt" {
		t.Fatalf("unexpected label: %s", mode.Label())
	}
}

func TestModeByNameUnknown(t *testing.T) {
	if _, err := visualize.ModeByName("plasma"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestAllModesProduceFilterGraphs(t *testing.T) {
	opts := testOptions(t)
	for _, mode := range visualize.Modes() {
		graph := mode.FilterGraph(opts)
		if graph == "" {
			t.Fatalf("mode %s produced empty graph", mode.Name)
		}
		if !strings.Contains(graph, "1280x") {
			t.Fatalf("mode %s graph missing width: %s", mode.Name, graph)
		}
		if !strings.HasSuffix(graph, "format=rgb24") {
			t.Fatalf("mode %s graph must end in rgb24 conversion: %s", mode.Name, graph)
		}
	}
}

func TestCompositeGraphsCarryInputLabels(t *testing.T) {
	opts := testOptions(t)
	for _, name := range []string{"combo", "neural", "particles", "spectrosynth"} {
		mode, err := visualize.ModeByName(name)
		if err != nil {
			t.Fatalf("mode %s missing: %v", name, err)
		}
		graph := mode.FilterGraph(opts)
		if !strings.HasPrefix(graph, "[0:a]") {
			t.Fatalf("composite mode %s must consume the audio input pad explicitly: %s", name, graph)
		}
	}
}

func TestNeuralShrinksOnShortCanvas(t *testing.T) {
	opts := testOptions(t)
	opts.Height = 80
	mode, err := visualize.ModeByName("neural")
	if err != nil {
		t.Fatalf("neural missing: %v", err)
	}
	graph := mode.FilterGraph(opts)
	if strings.Contains(graph, "vstack") {
		t.Fatalf("short canvas must collapse the neural stack: %s", graph)
	}
}

func TestMotionModeReadsVideoStream(t *testing.T) {
	mode, err := visualize.ModeByName("motion")
	if err != nil {
		t.Fatalf("motion missing: %v", err)
	}
	if !mode.RequiresVideo {
		t.Fatal("motion must require a video stream")
	}

	graph := mode.FilterGraph(testOptions(t))
	if !strings.HasPrefix(graph, "[0:v]") {
		t.Fatalf("motion must consume the video input pad: %s", graph)
	}
	if !strings.Contains(graph, "codecview=mv=pf+bf+bb") {
		t.Fatalf("motion graph missing codecview: %s", graph)
	}

	if got := strings.Join(mode.InputFlags(), " "); got != "-flags2 +export_mvs" {
		t.Fatalf("motion input flags = %q", got)
	}

	waves, err := visualize.ModeByName("waves")
	if err != nil {
		t.Fatal(err)
	}
	if len(waves.InputFlags()) != 0 || waves.RequiresVideo {
		t.Fatal("audio modes must not carry video requirements")
	}
}

func TestFallbackTable(t *testing.T) {
	for _, mode := range visualize.Modes() {
		fb, err := visualize.FallbackMode(mode)
		if err != nil {
			t.Fatalf("fallback for %s: %v", mode.Name, err)
		}
		if fb.Name == mode.Name && mode.Name != "waves" {
			t.Fatalf("mode %s falls back to itself", mode.Name)
		}
	}
	// waves is the bottom of every chain
	waves, err := visualize.ModeByName("waves")
	if err != nil {
		t.Fatal(err)
	}
	fb, err := visualize.FallbackMode(waves)
	if err != nil {
		t.Fatal(err)
	}
	if fb.Name != "waves" {
		t.Fatalf("waves fallback should be waves, got %s", fb.Name)
	}
}

func TestFallbackFiltersAreSimple(t *testing.T) {
	opts := testOptions(t)
	for _, mode := range visualize.Modes() {
		filter := visualize.FallbackFilter(mode, opts)
		if strings.Contains(filter, "[") {
			t.Fatalf("fallback filter for %s must be label-free: %s", mode.Name, filter)
		}
	}
}

func TestSchemeNamesStable(t *testing.T) {
	names := visualize.SchemeNames()
	if len(names) == 0 {
		t.Fatal("expected schemes")
	}
	for _, name := range names {
		if _, err := visualize.SchemeByName(name); err != nil {
			t.Fatalf("scheme %s not resolvable: %v", name, err)
		}
	}
	if _, err := visualize.SchemeByName("hypercolor"); err == nil {
		t.Fatal("expected error for unknown scheme")
	}
}
