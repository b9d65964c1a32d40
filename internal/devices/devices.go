// Package devices enumerates audio capture sources and records short clips
// from them for the live render path.
package devices

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"asciisymphony/internal/config"
	"asciisymphony/internal/logging"
	"asciisymphony/internal/render"
	"asciisymphony/internal/services"
	"asciisymphony/internal/workspace"
)

// Device is one audio capture source.
type Device struct {
	ID        string
	Name      string
	System    string
	Channels  int
	IsDefault bool
}

// outputRunner executes a tool and returns its stdout. Injected in tests.
type outputRunner interface {
	Output(ctx context.Context, binary string, args []string) ([]byte, error)
}

type commandRunner struct{}

func (commandRunner) Output(ctx context.Context, binary string, args []string) ([]byte, error) {
	return exec.CommandContext(ctx, binary, args...).Output() //nolint:gosec
}

// Manager enumerates capture devices and records from them.
type Manager struct {
	pactl  string
	ffmpeg string
	cfg    *config.Config
	logger *slog.Logger
	run    outputRunner
}

// NewManager builds a device manager from resolved tool paths.
func NewManager(cfg *config.Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		pactl:  cfg.Tools.Pactl,
		ffmpeg: cfg.Tools.FFmpeg,
		cfg:    cfg,
		logger: logger,
		run:    commandRunner{},
	}
}

// List enumerates capture sources. The "default" device always leads so
// capture works even when enumeration does not.
func (m *Manager) List(ctx context.Context) []Device {
	devices := []Device{{ID: "default", Name: "System default source", System: "pulse", Channels: 2, IsDefault: true}}

	if m.pactl == "" {
		return devices
	}
	out, err := m.run.Output(ctx, m.pactl, []string{"list", "sources"})
	if err != nil {
		m.logger.Warn("pactl enumeration failed, using default device only", logging.Error(err))
		return devices
	}
	return append(devices, parsePulseSources(string(out))...)
}

var channelCountPattern = regexp.MustCompile(`(\d+)`)

// parsePulseSources walks `pactl list sources` output. Each source block
// starts with "Source #N" followed by indented properties.
func parsePulseSources(output string) []Device {
	var devices []Device
	var current *Device

	flush := func() {
		if current != nil && current.Name != "" {
			devices = append(devices, *current)
		}
		current = nil
	}

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "Source #"):
			flush()
			current = &Device{ID: strings.TrimPrefix(line, "Source #"), System: "pulse", Channels: 2}
		case current == nil:
			continue
		case strings.HasPrefix(line, "Name:"):
			current.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
		case strings.HasPrefix(line, "Channels:"):
			current.Channels = parseChannels(strings.TrimPrefix(line, "Channels:"))
		}
	}
	flush()
	return devices
}

func parseChannels(value string) int {
	value = strings.ToLower(strings.TrimSpace(value))
	switch {
	case strings.Contains(value, "mono"):
		return 1
	case strings.Contains(value, "stereo"):
		return 2
	case strings.Contains(value, "surround"):
		return 6
	}
	if match := channelCountPattern.FindString(value); match != "" {
		if n, err := strconv.Atoi(match); err == nil && n > 0 {
			return n
		}
	}
	return 2
}

// Capture records durationSeconds of audio from the device into a WAV file.
// The device's pulse source name feeds ffmpeg's pulse input directly.
func (m *Manager) Capture(ctx context.Context, device Device, durationSeconds int, outPath string) error {
	if durationSeconds <= 0 {
		return services.Wrap(services.ErrValidation, "capture", "record", "duration must be positive", nil)
	}
	source := device.Name
	if device.IsDefault || source == "" {
		source = "default"
	}
	m.logger.Info("recording from capture device",
		logging.String("device", source),
		logging.Int("seconds", durationSeconds))

	runner := render.NewRunner(m.ffmpeg, m.logger)
	args := render.CaptureArgs("pulse", source,
		durationSeconds, m.cfg.Capture.SampleRate, m.cfg.Capture.Channels, outPath)
	if err := runner.Run(ctx, "capture audio", args, nil); err != nil {
		return err
	}
	return workspace.ValidateOutput(outPath)
}

// Resolve finds a device by ID or name, falling back to the default when the
// requested name is "default" or empty.
func (m *Manager) Resolve(ctx context.Context, nameOrID string) (Device, error) {
	nameOrID = strings.TrimSpace(nameOrID)
	devices := m.List(ctx)
	if nameOrID == "" || nameOrID == "default" {
		return devices[0], nil
	}
	for _, device := range devices {
		if device.ID == nameOrID || device.Name == nameOrID {
			return device, nil
		}
	}
	return Device{}, services.Wrap(services.ErrNotFound, "capture", "resolve",
		fmt.Sprintf("no capture device matches %q", nameOrID), nil)
}
