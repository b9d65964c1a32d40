package ascii

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"asciisymphony/internal/config"
	"asciisymphony/internal/logging"
	"asciisymphony/internal/services"
	"asciisymphony/internal/workspace"
)

// Options tunes the post-processing chain.
type Options struct {
	Glitch   bool
	HueShift bool

	// Canvas size and text color for the rendered frames.
	Width     int
	Height    int
	FillColor string
}

// Chain runs the full frame post-processing sequence inside a workspace.
type Chain struct {
	converter *Converter
	magick    string
	ffmpeg    string
	opts      Options
	logger    *slog.Logger
	run       runner
}

// NewChain assembles the post-processing chain from resolved tool paths.
func NewChain(cfg *config.Config, converter *Converter, opts Options, logger *slog.Logger) (*Chain, error) {
	if converter == nil {
		return nil, services.Wrap(services.ErrConfiguration, "ascii", "chain", "no converter available", nil)
	}
	if cfg.Tools.Magick == "" {
		return nil, services.Wrap(services.ErrConfiguration, "ascii", "chain",
			"imagemagick is required to render character art frames", nil)
	}
	if opts.Width <= 0 {
		opts.Width = cfg.Render.Width
	}
	if opts.Height <= 0 {
		opts.Height = cfg.Render.Height
	}
	if opts.FillColor == "" {
		opts.FillColor = "#66ccff"
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Chain{
		converter: converter,
		magick:    cfg.Tools.Magick,
		ffmpeg:    cfg.Tools.FFmpeg,
		opts:      opts,
		logger:    logger,
		run:       commandRunner{},
	}, nil
}

// Process converts every raw frame in the workspace through the chain,
// leaving encoder-ready PNGs in the colorized directory. onFrame reports
// completed frames.
func (c *Chain) Process(ctx context.Context, ws *workspace.Workspace, onFrame func(done, total int)) error {
	frames, err := workspace.ListFrames(ws.FramesRaw)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return services.Wrap(services.ErrValidation, "ascii", "process", "no raw frames to convert", nil)
	}
	c.logger.Info("converting frames to character art",
		logging.Int("frames", len(frames)),
		logging.String("converter", string(c.converter.Flavor())),
		logging.Bool("glitch", c.opts.Glitch),
		logging.Bool("hue_shift", c.opts.HueShift))

	for i, frame := range frames {
		if err := ctx.Err(); err != nil {
			return services.Wrap(services.ErrTimeout, "ascii", "process", "interrupted", err)
		}

		text, err := c.converter.ToText(ctx, frame)
		if err != nil {
			return err
		}
		base := strings.TrimSuffix(filepath.Base(frame), filepath.Ext(frame))
		if err := os.WriteFile(filepath.Join(ws.FramesTxt, base+".txt"), []byte(text), 0o644); err != nil {
			return fmt.Errorf("write text frame: %w", err)
		}

		if c.opts.Glitch {
			text = Glitch(text)
		}
		if err := os.WriteFile(filepath.Join(ws.FramesASCII, base+".txt"), []byte(text), 0o644); err != nil {
			return fmt.Errorf("write glitched frame: %w", err)
		}

		rendered := filepath.Join(ws.FramesColorized, base+".png")
		if err := c.renderText(ctx, text, rendered); err != nil {
			return err
		}
		if c.opts.HueShift {
			if err := c.hueShift(ctx, i, rendered); err != nil {
				return err
			}
		}
		if onFrame != nil {
			onFrame(i+1, len(frames))
		}
	}
	return nil
}

// renderText draws character art onto a black canvas with a monospace font.
func (c *Chain) renderText(ctx context.Context, text, outPath string) error {
	args := []string{
		"-size", fmt.Sprintf("%dx%d", c.opts.Width, c.opts.Height),
		"xc:black",
		"-font", "Courier",
		"-pointsize", "12",
		"-fill", c.opts.FillColor,
		"-gravity", "northwest",
		"-annotate", "+20+20", text,
		outPath,
	}
	if _, err := c.run.Output(ctx, c.magick, args); err != nil {
		return wrapToolError("render character art", c.magick, err)
	}
	return nil
}

// hueShift rotates the frame's hue through a slow -30..+30 degree cycle.
// ffmpeg refuses an output path equal to its input, so the pass writes a
// sibling temp file that replaces the frame on success.
func (c *Chain) hueShift(ctx context.Context, index int, framePath string) error {
	angle := (index % 60) - 30
	shifted := filepath.Join(filepath.Dir(framePath), ".hue-"+filepath.Base(framePath))
	args := []string{
		"-hide_banner",
		"-y",
		"-i", framePath,
		"-vf", fmt.Sprintf("hue=h=%d:s=1.15:b=1.1", angle),
		"-frames:v", "1",
		"-update", "1",
		shifted,
	}
	if _, err := c.run.Output(ctx, c.ffmpeg, args); err != nil {
		return wrapToolError("hue shift", c.ffmpeg, err)
	}
	if err := os.Rename(shifted, framePath); err != nil {
		return fmt.Errorf("replace hue-shifted frame: %w", err)
	}
	return nil
}
