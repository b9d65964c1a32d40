package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"asciisymphony/internal/config"
)

// Requirement defines an external dependency asciisym relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Default returns the requirement list for the configured tool binaries.
// ffmpeg and ffprobe are mandatory; the ASCII converters and compositor are
// optional because the filter-graph render path works without them.
func Default(cfg *config.Config) []Requirement {
	tools := config.Default().Tools
	if cfg != nil {
		tools = cfg.Tools
	}
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     tools.FFmpeg,
			Description: "Required for visualization rendering and encoding",
		},
		{
			Name:        "FFprobe",
			Command:     tools.FFprobe,
			Description: "Required for media inspection",
		},
		{
			Name:        "chafa",
			Command:     tools.Chafa,
			Description: "Preferred raster-to-ASCII converter",
			Optional:    true,
		},
		{
			Name:        "img2txt",
			Command:     tools.Img2txt,
			Description: "Fallback raster-to-ASCII converter (libcaca)",
			Optional:    true,
		},
		{
			Name:        "ImageMagick",
			Command:     tools.Magick,
			Description: "Renders ASCII text back into raster frames",
			Optional:    true,
		},
		{
			Name:        "pactl",
			Command:     tools.Pactl,
			Description: "Enumerates PulseAudio capture devices for live mode",
			Optional:    true,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the names of unavailable non-optional dependencies.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, status := range statuses {
		if !status.Optional && !status.Available {
			missing = append(missing, status.Name)
		}
	}
	return missing
}
