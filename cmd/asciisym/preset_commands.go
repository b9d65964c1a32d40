package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"asciisymphony/internal/preset"
)

func newPresetCommand(ctx *commandContext) *cobra.Command {
	presetCmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage named render presets",
	}

	presetCmd.AddCommand(newPresetListCommand(ctx))
	presetCmd.AddCommand(newPresetShowCommand(ctx))
	presetCmd.AddCommand(newPresetSaveCommand(ctx))
	presetCmd.AddCommand(newPresetDeleteCommand(ctx))
	presetCmd.AddCommand(newPresetExportCommand(ctx))
	presetCmd.AddCommand(newPresetImportCommand(ctx))

	return presetCmd
}

func newPresetListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.presetManager()
			if err != nil {
				return err
			}
			infos, err := manager.List()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(infos))
			for _, info := range infos {
				rows = append(rows, []string{
					info.Name,
					info.Settings.Mode,
					info.Settings.Quality,
					fmt.Sprintf("%dx%d@%d", info.Settings.Width, info.Settings.Height, info.Settings.FPS),
					formatTimestamp(info.Modified),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Name", "Mode", "Quality", "Size", "Modified"},
				rows,
				nil,
			))
			return nil
		},
	}
}

func newPresetShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show one preset's settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.presetManager()
			if err != nil {
				return err
			}
			settings, err := manager.Load(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderKeyValueTable([][2]string{
				{"Mode", settings.Mode},
				{"Quality", settings.Quality},
				{"Color scheme", settings.ColorScheme},
				{"Width", strconv.Itoa(settings.Width)},
				{"Height", strconv.Itoa(settings.Height)},
				{"FPS", strconv.Itoa(settings.FPS)},
				{"ASCII width", strconv.Itoa(settings.ASCIIWidth)},
				{"Charset", settings.Charset},
			}))
			return nil
		},
	}
}

func newPresetSaveCommand(ctx *commandContext) *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save current settings (plus flag overrides) as a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			manager, err := ctx.presetManager()
			if err != nil {
				return err
			}

			settings := preset.FromConfig(cfg)
			if flags.mode != "" {
				settings.Mode = flags.mode
			}
			if flags.qualityName != "" {
				settings.Quality = flags.qualityName
			}
			if flags.colorScheme != "" {
				settings.ColorScheme = flags.colorScheme
			}
			if flags.width > 0 {
				settings.Width = flags.width
			}
			if flags.height > 0 {
				settings.Height = flags.height
			}
			if flags.fps > 0 {
				settings.FPS = flags.fps
			}

			if err := manager.Save(args[0], settings); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved preset %q\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.mode, "mode", "", "Visualization mode")
	cmd.Flags().StringVar(&flags.qualityName, "quality", "", "Quality level")
	cmd.Flags().StringVar(&flags.colorScheme, "scheme", "", "Color scheme")
	cmd.Flags().IntVar(&flags.width, "width", 0, "Frame width in pixels")
	cmd.Flags().IntVar(&flags.height, "height", 0, "Frame height in pixels")
	cmd.Flags().IntVar(&flags.fps, "fps", 0, "Frames per second")
	return cmd
}

func newPresetDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.presetManager()
			if err != nil {
				return err
			}
			if err := manager.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted preset %q\n", args[0])
			return nil
		},
	}
}

func newPresetExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export <name>",
		Short: "Print a preset as portable text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.presetManager()
			if err != nil {
				return err
			}
			text, err := manager.Export(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newPresetImportCommand(ctx *commandContext) *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "import [text]",
		Short: "Import a preset from exported text (argument, --file, or stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.presetManager()
			if err != nil {
				return err
			}

			var text string
			switch {
			case len(args) == 1:
				text = args[0]
			case fromFile != "":
				data, err := os.ReadFile(fromFile)
				if err != nil {
					return fmt.Errorf("read preset file: %w", err)
				}
				text = string(data)
			default:
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(data)
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("no preset text provided")
			}

			name, err := manager.Import(text)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported preset %q\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFile, "file", "", "Read the exported preset from a file")
	return cmd
}
