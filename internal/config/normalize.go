package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeRender()
	c.normalizeMonitor()
	c.normalizeCapture()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkspaceDir) == "" {
		c.Paths.WorkspaceDir = defaultWorkspaceDir
	}
	if c.Paths.WorkspaceDir, err = ExpandPath(c.Paths.WorkspaceDir); err != nil {
		return fmt.Errorf("paths.workspace_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.PresetDir) == "" {
		c.Paths.PresetDir = defaultPresetDir
	}
	if c.Paths.PresetDir, err = ExpandPath(c.Paths.PresetDir); err != nil {
		return fmt.Errorf("paths.preset_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = ExpandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	if strings.TrimSpace(c.Tools.FFmpeg) == "" {
		c.Tools.FFmpeg = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Tools.FFprobe) == "" {
		c.Tools.FFprobe = defaultFFprobeBinary
	}
	if strings.TrimSpace(c.Tools.Chafa) == "" {
		c.Tools.Chafa = defaultChafaBinary
	}
	if strings.TrimSpace(c.Tools.Img2txt) == "" {
		c.Tools.Img2txt = defaultImg2txtBinary
	}
	if strings.TrimSpace(c.Tools.Magick) == "" {
		c.Tools.Magick = defaultMagickBinary
	}
	if strings.TrimSpace(c.Tools.Pactl) == "" {
		c.Tools.Pactl = defaultPactlBinary
	}
}

func (c *Config) normalizeRender() {
	c.Render.Mode = strings.ToLower(strings.TrimSpace(c.Render.Mode))
	if c.Render.Mode == "" {
		c.Render.Mode = defaultRenderMode
	}
	c.Render.Quality = strings.ToLower(strings.TrimSpace(c.Render.Quality))
	if c.Render.Quality == "" {
		c.Render.Quality = defaultQuality
	}
	c.Render.ColorScheme = strings.ToLower(strings.TrimSpace(c.Render.ColorScheme))
	if c.Render.ColorScheme == "" {
		c.Render.ColorScheme = defaultColorScheme
	}
	c.Render.Charset = strings.ToLower(strings.TrimSpace(c.Render.Charset))
	if c.Render.Charset == "" {
		c.Render.Charset = defaultCharset
	}
	if c.Render.Width == 0 {
		c.Render.Width = defaultRenderWidth
	}
	if c.Render.Height == 0 {
		c.Render.Height = defaultRenderHeight
	}
	if c.Render.FPS == 0 {
		c.Render.FPS = defaultRenderFPS
	}
	if c.Render.ASCIIWidth == 0 {
		c.Render.ASCIIWidth = defaultASCIIWidth
	}
	if c.Render.MinFreeMiB == 0 {
		c.Render.MinFreeMiB = defaultMinFreeMiB
	}
}

func (c *Config) normalizeMonitor() {
	if c.Monitor.IntervalSeconds == 0 {
		c.Monitor.IntervalSeconds = defaultMonitorInterval
	}
	if c.Monitor.TargetFPS == 0 {
		c.Monitor.TargetFPS = defaultMonitorTarget
	}
	c.Monitor.MinQuality = strings.ToLower(strings.TrimSpace(c.Monitor.MinQuality))
	if c.Monitor.MinQuality == "" {
		c.Monitor.MinQuality = "low"
	}
	c.Monitor.MaxQuality = strings.ToLower(strings.TrimSpace(c.Monitor.MaxQuality))
	if c.Monitor.MaxQuality == "" {
		c.Monitor.MaxQuality = "ultra"
	}
}

func (c *Config) normalizeCapture() {
	c.Capture.Device = strings.TrimSpace(c.Capture.Device)
	if c.Capture.Device == "" {
		c.Capture.Device = defaultCaptureDevice
	}
	if c.Capture.DurationSeconds == 0 {
		c.Capture.DurationSeconds = defaultCaptureDuration
	}
	if c.Capture.SampleRate == 0 {
		c.Capture.SampleRate = defaultCaptureSampleRate
	}
	if c.Capture.Channels == 0 {
		c.Capture.Channels = defaultCaptureChannels
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
