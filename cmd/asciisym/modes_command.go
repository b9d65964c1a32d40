package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"asciisymphony/internal/visualize"
)

func newModesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "modes",
		Short:       "List visualization modes",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0)
			for _, mode := range visualize.Modes() {
				fallback := mode.Fallback
				if fallback == "" {
					fallback = "waves"
				}
				rows = append(rows, []string{
					mode.Label(),
					mode.Name,
					truncate(mode.Description, 60),
					fallback,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Mode", "Flag value", "Description", "Fallback"},
				rows,
				nil,
			))
			return nil
		},
	}
}
