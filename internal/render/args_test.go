package render_test

import (
	"strings"
	"testing"

	"asciisymphony/internal/quality"
	"asciisymphony/internal/render"
)

func argString(args []string) string {
	return strings.Join(args, " ")
}

func TestExtractArgs(t *testing.T) {
	args := render.ExtractArgs("track.flac", nil, "[0:a]showwaves=s=1280x720[v]", 30, "/ws/frames_raw/frame_%05d.png")
	joined := argString(args)

	for _, want := range []string{
		"-i track.flac",
		"-filter_complex [0:a]showwaves=s=1280x720[v]",
		"-r 30",
		"/ws/frames_raw/frame_%05d.png",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("extract args missing %q: %s", want, joined)
		}
	}
}

func TestExtractArgsInputFlagsPrecedeInput(t *testing.T) {
	args := render.ExtractArgs("clip.mp4", []string{"-flags2", "+export_mvs"},
		"[0:v]codecview=mv=pf+bf+bb", 30, "/ws/frames_raw/frame_%05d.png")
	joined := argString(args)

	flagsAt := strings.Index(joined, "-flags2 +export_mvs")
	inputAt := strings.Index(joined, "-i clip.mp4")
	if flagsAt < 0 || inputAt < 0 || flagsAt > inputAt {
		t.Fatalf("input flags must come before -i: %s", joined)
	}
}

func TestEncodeArgsMapQuality(t *testing.T) {
	args := render.EncodeArgs("/ws/frame_%05d.png", 24, quality.Ultra, "/out/video.mp4")
	joined := argString(args)

	for _, want := range []string{
		"-framerate 24",
		"-c:v libx264",
		"-preset slower",
		"-crf 17",
		"-pix_fmt yuv420p",
		"-movflags +faststart",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("encode args missing %q: %s", want, joined)
		}
	}

	low := argString(render.EncodeArgs("/ws/frame_%05d.png", 24, quality.Low, "/out/video.mp4"))
	if !strings.Contains(low, "-crf 28") || !strings.Contains(low, "-preset veryfast") {
		t.Errorf("low quality args wrong: %s", low)
	}
}

func TestMuxArgs(t *testing.T) {
	joined := argString(render.MuxArgs("video.mp4", "track.flac", "final.mp4"))

	for _, want := range []string{
		"-i video.mp4",
		"-i track.flac",
		"-c:v copy",
		"-c:a aac",
		"-shortest",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("mux args missing %q: %s", want, joined)
		}
	}
}

func TestCaptureArgs(t *testing.T) {
	joined := argString(render.CaptureArgs("pulse", "default", 10, 44100, 2, "/tmp/live.wav"))

	for _, want := range []string{
		"-f pulse",
		"-i default",
		"-t 10",
		"-ar 44100",
		"-ac 2",
		"/tmp/live.wav",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("capture args missing %q: %s", want, joined)
		}
	}
}
