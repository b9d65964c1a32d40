package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"asciisymphony/internal/devices"
)

func newDevicesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List audio capture devices",
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

			manager := devices.NewManager(cfg, logger)
			rows := make([][]string, 0)
			for _, device := range manager.List(cmd.Context()) {
				marker := ""
				if device.IsDefault {
					marker = "*"
				}
				rows = append(rows, []string{
					device.ID,
					truncate(device.Name, 60),
					device.System,
					strconv.Itoa(device.Channels),
					marker,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "System", "Channels", "Default"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}
