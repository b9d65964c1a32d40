package render

import (
	"fmt"

	"asciisymphony/internal/quality"
)

// ExtractArgs builds the ffmpeg invocation that renders a visualization
// filter graph into numbered PNG frames. inputFlags are extra input options
// some graphs depend on (codecview needs `-flags2 +export_mvs` before -i).
func ExtractArgs(input string, inputFlags []string, filterGraph string, fps int, framePattern string) []string {
	args := []string{"-hide_banner", "-y"}
	args = append(args, inputFlags...)
	return append(args,
		"-i", input,
		"-filter_complex", filterGraph,
		"-r", fmt.Sprintf("%d", fps),
		framePattern,
	)
}

// EncodeArgs builds the ffmpeg invocation that assembles numbered frames into
// a silent H.264 video. CRF and speed preset follow the quality level.
func EncodeArgs(framePattern string, fps int, level quality.Level, output string) []string {
	return []string{
		"-hide_banner",
		"-y",
		"-framerate", fmt.Sprintf("%d", fps),
		"-i", framePattern,
		"-c:v", "libx264",
		"-preset", level.SpeedPreset(),
		"-crf", fmt.Sprintf("%d", level.CRF()),
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		output,
	}
}

// MuxArgs builds the ffmpeg invocation that marries the rendered video with
// the original audio. -shortest trims whichever stream runs long.
func MuxArgs(video, audio, output string) []string {
	return []string{
		"-hide_banner",
		"-y",
		"-i", video,
		"-i", audio,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		"-movflags", "+faststart",
		output,
	}
}

// OptimizeArgs builds the ffmpeg remux pass that relocates the moov atom for
// streaming playback.
func OptimizeArgs(input, output string) []string {
	return []string{
		"-hide_banner",
		"-y",
		"-i", input,
		"-c", "copy",
		"-movflags", "+faststart",
		output,
	}
}

// CaptureArgs builds the ffmpeg invocation that records audio from a capture
// device into a WAV file for the live path.
func CaptureArgs(backend, device string, durationSeconds, sampleRate, channels int, output string) []string {
	return []string{
		"-hide_banner",
		"-y",
		"-f", backend,
		"-i", device,
		"-t", fmt.Sprintf("%d", durationSeconds),
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		output,
	}
}
