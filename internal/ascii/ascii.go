// Package ascii post-processes raw visualization frames: rasterized PNGs
// become character art via chafa or img2txt, optionally corrupted with glyph
// substitutions, then rendered back to PNG frames with ImageMagick and a
// gentle hue drift.
package ascii

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"asciisymphony/internal/config"
	"asciisymphony/internal/services"
)

// Flavor names which converter binary produces the character art.
type Flavor string

const (
	FlavorChafa   Flavor = "chafa"
	FlavorImg2txt Flavor = "img2txt"
)

// runner executes a tool and returns its stdout. Separate from the render
// runner because character art must arrive byte-exact, not line-scanned.
type runner interface {
	Output(ctx context.Context, binary string, args []string) ([]byte, error)
}

type commandRunner struct{}

func (commandRunner) Output(ctx context.Context, binary string, args []string) ([]byte, error) {
	return exec.CommandContext(ctx, binary, args...).Output() //nolint:gosec
}

func wrapToolError(stage, binary string, err error) error {
	detail := fmt.Sprintf("%s failed", binary)
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		detail = fmt.Sprintf("%s exited with code %d", binary, exitErr.ExitCode())
		if tail := strings.TrimSpace(string(exitErr.Stderr)); tail != "" {
			if len(tail) > 300 {
				tail = tail[len(tail)-300:]
			}
			detail = detail + ": " + tail
		}
	}
	return services.Wrap(services.ErrExternalTool, stage, "run", detail, err)
}

// Converter turns a rasterized frame into character art text.
type Converter struct {
	binary  string
	flavor  Flavor
	width   int
	charset string
	run     runner
}

// NewConverter picks the best available converter, preferring chafa.
func NewConverter(cfg *config.Config) (*Converter, error) {
	candidates := []struct {
		binary string
		flavor Flavor
	}{
		{cfg.Tools.Chafa, FlavorChafa},
		{cfg.Tools.Img2txt, FlavorImg2txt},
	}
	for _, candidate := range candidates {
		if candidate.binary == "" {
			continue
		}
		if resolved, err := exec.LookPath(candidate.binary); err == nil {
			return &Converter{
				binary:  resolved,
				flavor:  candidate.flavor,
				width:   cfg.Render.ASCIIWidth,
				charset: cfg.Render.Charset,
				run:     commandRunner{},
			}, nil
		}
	}
	return nil, services.Wrap(services.ErrConfiguration, "ascii", "converter",
		"neither chafa nor img2txt is installed", nil)
}

// Flavor reports which converter was selected.
func (c *Converter) Flavor() Flavor { return c.flavor }

// ToText converts one frame image into character art.
func (c *Converter) ToText(ctx context.Context, framePath string) (string, error) {
	out, err := c.run.Output(ctx, c.binary, c.args(framePath))
	if err != nil {
		return "", wrapToolError("convert frame", c.binary, err)
	}
	if len(strings.TrimSpace(string(out))) == 0 {
		return "", services.Wrap(services.ErrExternalTool, "convert frame", c.binary,
			fmt.Sprintf("empty conversion for %s", framePath), nil)
	}
	return string(out), nil
}

func (c *Converter) args(framePath string) []string {
	// Character cells are roughly twice as tall as wide.
	height := c.width / 2
	switch c.flavor {
	case FlavorChafa:
		return []string{
			"--format", "symbols",
			"--size", fmt.Sprintf("%dx%d", c.width, height),
			framePath,
		}
	default:
		return []string{
			"--width", fmt.Sprintf("%d", c.width),
			"--height", fmt.Sprintf("%d", height),
			"--format", c.charset,
			framePath,
		}
	}
}

// glitchReplacer applies the corruption pass. Percent doubles first so later
// passes never produce accidental format directives in annotate text.
var glitchReplacer = strings.NewReplacer(
	"%", "%%",
	"O", "@", "o", "@", "0", "@",
	"I", "|", "l", "|", "1", "|",
	"A", "#", "H", "#", "M", "#",
)

// Glitch corrupts character art with the ritual glyph substitutions.
func Glitch(content string) string {
	return glitchReplacer.Replace(content)
}
