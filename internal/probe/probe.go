package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"asciisymphony/internal/services"
)

// Media is the parsed result of a single ffprobe JSON call, reduced to the
// fields the visualization pipeline plans with.
type Media struct {
	Path       string
	FormatName string
	Duration   float64
	BitRate    int64
	SampleRate int
	Channels   int
	AudioCodec string
	HasVideo   bool
	VideoCodec string
	Width      int
	Height     int
}

// TotalFrames returns the number of visualization frames a render at the
// given frame rate would produce.
func (m *Media) TotalFrames(fps int) int {
	if m == nil || m.Duration <= 0 || fps <= 0 {
		return 0
	}
	return int(m.Duration * float64(fps))
}

// Prober wraps ffprobe invocation with a configurable binary.
type Prober struct {
	binary string
}

// New returns a Prober driving the given ffprobe binary (PATH name or
// absolute path).
func New(binary string) *Prober {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	return &Prober{binary: binary}
}

// Probe runs one ffprobe JSON call against path and returns the parsed
// result. Inputs without an audio stream are rejected; everything the
// visualizer renders is driven by audio.
func (p *Prober) Probe(ctx context.Context, path string) (*Media, error) {
	cmd := exec.CommandContext(ctx, p.binary,
		"-v", "error",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "probe", "ffprobe", fmt.Sprintf("inspect %q", path), err)
	}

	media, err := ParseJSON(out)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "probe", "ffprobe", "decode output", err)
	}
	media.Path = path

	if media.SampleRate == 0 {
		return nil, services.Wrap(services.ErrValidation, "probe", "streams", fmt.Sprintf("%q has no audio stream", path), nil)
	}
	return media, nil
}

// ParseJSON converts raw ffprobe JSON output into a Media. Exported for
// testing without a real ffprobe binary.
func ParseJSON(data []byte) (*Media, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildMedia(&raw), nil
}

// ffprobe JSON wire types.

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	BitRate    string `json:"bit_rate"`
}

type ffprobeStream struct {
	CodecName   string         `json:"codec_name"`
	CodecType   string         `json:"codec_type"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	Channels    int            `json:"channels"`
	SampleRate  string         `json:"sample_rate"`
	Disposition map[string]int `json:"disposition"`
}

func buildMedia(raw *ffprobeOutput) *Media {
	media := &Media{
		FormatName: raw.Format.FormatName,
		Duration:   parseFloat(raw.Format.Duration),
		BitRate:    parseInt(raw.Format.BitRate),
	}

	for i := range raw.Streams {
		s := &raw.Streams[i]
		switch s.CodecType {
		case "audio":
			if media.SampleRate != 0 {
				continue
			}
			media.AudioCodec = s.CodecName
			media.SampleRate = int(parseInt(s.SampleRate))
			media.Channels = s.Channels
		case "video":
			// Embedded cover art shows up as an attached-pic video stream;
			// it is not a renderable video track.
			if s.Disposition["attached_pic"] == 1 {
				continue
			}
			if media.HasVideo {
				continue
			}
			media.HasVideo = true
			media.VideoCodec = s.CodecName
			media.Width = s.Width
			media.Height = s.Height
		}
	}

	return media
}

func parseFloat(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(value string) int64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
