package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"asciisymphony/internal/services"
	"asciisymphony/internal/visualize"
)

type sequenceExecutor struct {
	errs  []error
	lines []string
	calls int
	got   [][]string
}

func (s *sequenceExecutor) Run(_ context.Context, _ string, args []string, onLine func(string)) error {
	call := s.calls
	s.calls++
	s.got = append(s.got, args)
	for _, line := range s.lines {
		onLine(line)
	}
	if call < len(s.errs) {
		return s.errs[call]
	}
	return nil
}

func extractRequest(t *testing.T, modeName string) ExtractRequest {
	t.Helper()
	mode, err := visualize.ModeByName(modeName)
	if err != nil {
		t.Fatalf("ModeByName: %v", err)
	}
	scheme, err := visualize.SchemeByName("rainbow")
	if err != nil {
		t.Fatalf("SchemeByName: %v", err)
	}
	return ExtractRequest{
		Input:        "track.flac",
		Mode:         mode,
		Options:      visualize.Options{Width: 1280, Height: 720, FPS: 30, Scheme: scheme},
		FramePattern: "/ws/frames_raw/frame_%05d.png",
	}
}

func TestExtractSucceedsFirstTry(t *testing.T) {
	exec := &sequenceExecutor{lines: []string{"frame=  42 fps=30"}}
	extractor := NewExtractor(NewRunner("ffmpeg", nil, WithExecutor(exec)), nil)

	var lastFrames int
	req := extractRequest(t, "neural")
	req.OnFrame = func(frames int) { lastFrames = frames }

	result, err := extractor.Extract(context.Background(), req)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if result.FallbackUsed {
		t.Fatal("fallback should not run on success")
	}
	if exec.calls != 1 {
		t.Fatalf("calls = %d, want 1", exec.calls)
	}
	if lastFrames != 42 {
		t.Fatalf("lastFrames = %d, want 42", lastFrames)
	}
}

func TestExtractRetriesOnceWithFallback(t *testing.T) {
	exec := &sequenceExecutor{errs: []error{errors.New("exit status 1")}}
	extractor := NewExtractor(NewRunner("ffmpeg", nil, WithExecutor(exec)), nil)

	req := extractRequest(t, "neural")
	result, err := extractor.Extract(context.Background(), req)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !result.FallbackUsed {
		t.Fatal("expected fallback retry")
	}
	if exec.calls != 2 {
		t.Fatalf("calls = %d, want 2", exec.calls)
	}

	primary := req.Mode.FilterGraph(req.Options)
	retried := strings.Join(exec.got[1], " ")
	if strings.Contains(retried, primary) {
		t.Fatal("retry reused the failing filter graph")
	}
	if !strings.Contains(retried, result.FilterGraph) {
		t.Fatalf("retry args missing fallback graph: %s", retried)
	}
}

// frameWritingExecutor simulates ffmpeg writing numbered frames before each
// call's verdict, so directory contents can be inspected across a retry.
type frameWritingExecutor struct {
	dir    string
	counts []int
	errs   []error
	calls  int
}

func (f *frameWritingExecutor) Run(_ context.Context, _ string, _ []string, _ func(string)) error {
	call := f.calls
	f.calls++
	if call < len(f.counts) {
		for i := 1; i <= f.counts[call]; i++ {
			name := filepath.Join(f.dir, fmt.Sprintf("frame_%05d.png", i))
			if err := os.WriteFile(name, []byte(fmt.Sprintf("run%d", call)), 0o644); err != nil {
				return err
			}
		}
	}
	if call < len(f.errs) {
		return f.errs[call]
	}
	return nil
}

func TestExtractFallbackDropsFramesFromFailedGraph(t *testing.T) {
	dir := t.TempDir()
	exec := &frameWritingExecutor{
		dir:    dir,
		counts: []int{5, 3},
		errs:   []error{errors.New("exit status 1")},
	}
	extractor := NewExtractor(NewRunner("ffmpeg", nil, WithExecutor(exec)), nil)

	req := extractRequest(t, "neural")
	req.FramePattern = filepath.Join(dir, "frame_%05d.png")
	result, err := extractor.Extract(context.Background(), req)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !result.FallbackUsed {
		t.Fatal("expected fallback retry")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("frames after fallback = %d, want 3", len(entries))
	}
	for _, entry := range entries {
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			t.Fatalf("read frame: %v", err)
		}
		if string(data) != "run1" {
			t.Fatalf("%s holds content from the failed run: %q", entry.Name(), data)
		}
	}
}

func TestExtractGivesUpAfterFallbackFailure(t *testing.T) {
	exec := &sequenceExecutor{errs: []error{errors.New("exit status 1"), errors.New("exit status 1")}}
	extractor := NewExtractor(NewRunner("ffmpeg", nil, WithExecutor(exec)), nil)

	_, err := extractor.Extract(context.Background(), extractRequest(t, "fractal"))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("err = %v, want ErrExternalTool", err)
	}
	if exec.calls != 2 {
		t.Fatalf("calls = %d, want exactly 2 (one retry)", exec.calls)
	}
}

func TestExtractDoesNotRetryAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	exec := &sequenceExecutor{errs: []error{errors.New("signal: killed")}}
	extractor := NewExtractor(NewRunner("ffmpeg", nil, WithExecutor(exec)), nil)

	cancel()
	_, err := extractor.Extract(ctx, extractRequest(t, "neural"))
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if exec.calls != 1 {
		t.Fatalf("calls = %d, want 1 (no retry after cancel)", exec.calls)
	}
}
