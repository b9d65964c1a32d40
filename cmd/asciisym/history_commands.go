package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"asciisymphony/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List past render jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			jobs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(jobs))
			for _, job := range jobs {
				rows = append(rows, []string{
					shortID(job.ID),
					truncate(job.InputPath, 40),
					job.Mode,
					job.Quality,
					string(job.Status),
					fmt.Sprintf("%.0f%%", job.ProgressPercent),
					formatTimestamp(job.CreatedAt),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Input", "Mode", "Quality", "Status", "Progress", "Created"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
	historyCmd.Flags().IntVar(&limit, "limit", 20, "Maximum jobs to list")

	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryHealthCommand(ctx))
	return historyCmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show one render job in detail (ID prefixes accepted)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			job, err := store.FindByPrefix(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			pairs := [][2]string{
				{"ID", job.ID},
				{"Input", job.InputPath},
				{"Output", dashIfEmpty(job.OutputPath)},
				{"Mode", job.Mode},
				{"Quality", job.Quality},
				{"Color scheme", dashIfEmpty(job.ColorScheme)},
				{"FPS", strconv.Itoa(job.FPS)},
				{"Status", string(job.Status)},
				{"Stage", dashIfEmpty(job.ProgressStage)},
				{"Progress", fmt.Sprintf("%.1f%% (%d/%d frames)", job.ProgressPercent, job.FramesDone, job.TotalFrames)},
				{"Fallback used", strconv.FormatBool(job.FallbackUsed)},
				{"Created", formatTimestamp(job.CreatedAt)},
				{"Updated", formatTimestamp(job.UpdatedAt)},
				{"Completed", formatTimestamp(job.CompletedAt)},
			}
			if job.ErrorMessage != "" {
				pairs = append(pairs, [2]string{"Error", job.ErrorMessage})
			}
			if duration := job.Duration(); duration > 0 {
				pairs = append(pairs, [2]string{"Duration", duration.Round(timeRound).String()})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderKeyValueTable(pairs))
			return nil
		},
	}
}

func newHistoryHealthCommand(ctx *commandContext) *cobra.Command {
	var resetStuck bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check the render ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if resetStuck {
				changed, err := store.ResetStuck(cmd.Context(), history.StopReason)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Reset %d stuck jobs\n", changed)
			}

			health := store.CheckHealth(cmd.Context())
			fmt.Fprintln(out, renderKeyValueTable([][2]string{
				{"Database", health.DBPath},
				{"Integrity", strconv.FormatBool(health.Integrity)},
				{"Total jobs", strconv.Itoa(health.TotalJobs)},
				{"Completed", strconv.Itoa(health.Completed)},
				{"Failed", strconv.Itoa(health.Failed)},
				{"In flight", strconv.Itoa(health.InFlight)},
			}))
			if health.LastError != "" {
				fmt.Fprintf(out, "Ledger error: %s\n", health.LastError)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&resetStuck, "reset-stuck", false, "Fail jobs left in a processing state by a crashed run")
	return cmd
}
