package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"asciisymphony/internal/devices"
)

func newLiveCommand(ctx *commandContext) *cobra.Command {
	var flags renderFlags
	var deviceName string
	var durationSeconds int

	cmd := &cobra.Command{
		Use:   "live",
		Short: "Capture audio from a device, then render it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if deviceName == "" {
				deviceName = cfg.Capture.Device
			}
			if durationSeconds <= 0 {
				durationSeconds = cfg.Capture.DurationSeconds
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			manager := devices.NewManager(cfg, logger)
			device, err := manager.Resolve(runCtx, deviceName)
			if err != nil {
				return err
			}

			captureDir, err := os.MkdirTemp(cfg.Paths.WorkspaceDir, "capture-")
			if err != nil {
				return fmt.Errorf("create capture dir: %w", err)
			}
			defer os.RemoveAll(captureDir)

			wavPath := filepath.Join(captureDir, "live.wav")
			fmt.Fprintf(cmd.OutOrStdout(), "Recording %d seconds from %s...\n", durationSeconds, device.Name)
			if err := manager.Capture(runCtx, device, durationSeconds, wavPath); err != nil {
				return err
			}

			return runRender(cmd, ctx, flags, wavPath)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&deviceName, "device", "", "Capture device ID or name")
	cmd.Flags().IntVar(&durationSeconds, "duration", 0, "Capture duration in seconds")
	return cmd
}
