package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"asciisymphony/internal/config"
	"asciisymphony/internal/pipeline"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Render an audio file into an ASCII-art visualization video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve input path: %w", err)
			}
			return runRender(cmd, ctx, flags, input)
		},
	}

	flags.register(cmd)
	return cmd
}

type renderFlags struct {
	output        string
	mode          string
	qualityName   string
	colorScheme   string
	presetName    string
	width         int
	height        int
	fps           int
	asciiChain    bool
	glitch        bool
	hueShift      bool
	noMonitor     bool
	keepWorkspace bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output video path")
	cmd.Flags().StringVar(&f.mode, "mode", "", "Visualization mode")
	cmd.Flags().StringVar(&f.qualityName, "quality", "", "Quality level (low, balanced, high, ultra)")
	cmd.Flags().StringVar(&f.colorScheme, "scheme", "", "Color scheme")
	cmd.Flags().StringVar(&f.presetName, "preset", "", "Preset to apply before flag overrides")
	cmd.Flags().IntVar(&f.width, "width", 0, "Frame width in pixels")
	cmd.Flags().IntVar(&f.height, "height", 0, "Frame height in pixels")
	cmd.Flags().IntVar(&f.fps, "fps", 0, "Frames per second")
	cmd.Flags().BoolVar(&f.asciiChain, "ascii", false, "Post-process frames into character art")
	cmd.Flags().BoolVar(&f.glitch, "glitch", false, "Corrupt character art with glyph substitutions (implies --ascii)")
	cmd.Flags().BoolVar(&f.hueShift, "hue-shift", false, "Drift frame hues over time (implies --ascii)")
	cmd.Flags().BoolVar(&f.noMonitor, "no-monitor", false, "Disable the adaptive quality monitor")
	cmd.Flags().BoolVar(&f.keepWorkspace, "keep-workspace", false, "Keep the staging directory after the render")
}

func (f *renderFlags) request(input string) pipeline.Request {
	return pipeline.Request{
		Input:          input,
		Output:         f.output,
		Mode:           f.mode,
		Quality:        f.qualityName,
		ColorScheme:    f.colorScheme,
		Width:          f.width,
		Height:         f.height,
		FPS:            f.fps,
		ASCII:          f.asciiChain || f.glitch || f.hueShift,
		Glitch:         f.glitch,
		HueShift:       f.hueShift,
		DisableMonitor: f.noMonitor,
		KeepWorkspace:  f.keepWorkspace,
	}
}

func runRender(cmd *cobra.Command, ctx *commandContext, flags renderFlags, input string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if flags.presetName != "" {
		manager, err := ctx.presetManager()
		if err != nil {
			return err
		}
		settings, err := manager.Load(flags.presetName)
		if err != nil {
			return err
		}
		settings.Apply(cfg)
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	store, err := ctx.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := pipeline.New(cfg, store, logger).Render(runCtx, flags.request(input))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rendered %s\n", summary.Output)
	fmt.Fprintf(out, "  job %s: %d frames, %s, quality %s in %s\n",
		summary.JobID,
		summary.Frames,
		humanize.Bytes(uint64(summary.OutputBytes)),
		summary.FinalQuality,
		summary.Duration.Round(timeRound))
	if summary.FallbackUsed {
		fmt.Fprintln(out, "  note: the filter graph failed once; the fallback filter was used")
	}
	return nil
}
