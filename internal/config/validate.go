package config

import (
	"errors"
	"fmt"
)

var knownQualities = map[string]struct{}{
	"low":      {},
	"balanced": {},
	"high":     {},
	"ultra":    {},
}

var knownCharsets = map[string]struct{}{
	"ansi":  {},
	"ascii": {},
	"utf8":  {},
}

var knownLogFormats = map[string]struct{}{
	"console": {},
	"json":    {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateMonitor(); err != nil {
		return err
	}
	if err := c.validateCapture(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.Width < 64 || c.Render.Width > 7680 {
		return fmt.Errorf("render.width must be between 64 and 7680, got %d", c.Render.Width)
	}
	if c.Render.Height < 64 || c.Render.Height > 4320 {
		return fmt.Errorf("render.height must be between 64 and 4320, got %d", c.Render.Height)
	}
	if c.Render.FPS < 1 || c.Render.FPS > 120 {
		return fmt.Errorf("render.fps must be between 1 and 120, got %d", c.Render.FPS)
	}
	if c.Render.ASCIIWidth < 20 || c.Render.ASCIIWidth > 400 {
		return fmt.Errorf("render.ascii_width must be between 20 and 400, got %d", c.Render.ASCIIWidth)
	}
	if _, ok := knownQualities[c.Render.Quality]; !ok {
		return fmt.Errorf("render.quality must be one of low, balanced, high, ultra; got %q", c.Render.Quality)
	}
	if _, ok := knownCharsets[c.Render.Charset]; !ok {
		return fmt.Errorf("render.charset must be one of ansi, ascii, utf8; got %q", c.Render.Charset)
	}
	if c.Render.MinFreeMiB < 0 {
		return errors.New("render.min_free_mib must not be negative")
	}
	return nil
}

func (c *Config) validateMonitor() error {
	if c.Monitor.IntervalSeconds < 1 {
		return errors.New("monitor.interval_seconds must be at least 1")
	}
	if c.Monitor.TargetFPS < 1 {
		return errors.New("monitor.target_fps must be at least 1")
	}
	if _, ok := knownQualities[c.Monitor.MinQuality]; !ok {
		return fmt.Errorf("monitor.min_quality must be one of low, balanced, high, ultra; got %q", c.Monitor.MinQuality)
	}
	if _, ok := knownQualities[c.Monitor.MaxQuality]; !ok {
		return fmt.Errorf("monitor.max_quality must be one of low, balanced, high, ultra; got %q", c.Monitor.MaxQuality)
	}
	return nil
}

func (c *Config) validateCapture() error {
	if c.Capture.DurationSeconds < 1 {
		return errors.New("capture.duration_seconds must be at least 1")
	}
	if c.Capture.SampleRate < 8000 {
		return fmt.Errorf("capture.sample_rate must be at least 8000, got %d", c.Capture.SampleRate)
	}
	if c.Capture.Channels < 1 || c.Capture.Channels > 8 {
		return fmt.Errorf("capture.channels must be between 1 and 8, got %d", c.Capture.Channels)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, ok := knownLogFormats[c.Logging.Format]; !ok {
		return fmt.Errorf("logging.format must be console or json; got %q", c.Logging.Format)
	}
	return nil
}
