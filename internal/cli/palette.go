package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amassoud-ap34/rack-designer/internal/importer"
	"github.com/amassoud-ap34/rack-designer/internal/model"
	"github.com/amassoud-ap34/rack-designer/internal/project"
)

func newPaletteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Manage the custom device and shelf palette",
	}
	cmd.AddCommand(newPaletteShowCmd())
	cmd.AddCommand(newPaletteImportCmd())
	cmd.AddCommand(newPaletteExportCmd())
	cmd.AddCommand(newPaletteLoadCmd())
	return cmd
}

func newPaletteShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List palette devices and shelves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := settingsFromContext(cmd.Context())
			pal, err := project.LoadPalette(s.palettePath())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for units := 1; units <= 4; units++ {
				fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("%dU devices", units)))
				if len(pal.Devices[units]) == 0 {
					printDetail(w, "(none)")
				}
				for _, e := range pal.Devices[units] {
					printDetail(w, "%s %s", e.Name, e.Color)
				}
			}
			for _, group := range []string{model.ShelfGroup3U, model.ShelfGroup6U} {
				fmt.Fprintln(w, StyleTitle.Render(group))
				for _, it := range pal.ShelfItems(group, model.DefaultShelfItems(group)) {
					printDetail(w, "%s [%s]", it.Name, it.ShelfType)
				}
			}
			return nil
		},
	}
}

func newPaletteImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv|file.xlsx>",
		Short: "Add devices and shelves from a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			s := settingsFromContext(cmd.Context())
			logger := loggerFromContext(cmd.Context())

			result := importer.ImportFile(args[0])
			for _, warn := range result.Warnings {
				printWarning(w, "%s", warn)
			}
			for _, e := range result.Errors {
				printError(w, "%s", e)
			}
			if len(result.Devices) == 0 && len(result.Shelves) == 0 {
				return fmt.Errorf("nothing imported from %s", args[0])
			}

			pal, err := project.LoadPalette(s.palettePath())
			if err != nil {
				return err
			}
			n := result.Apply(&pal)
			if err := project.SavePalette(s.palettePath(), pal); err != nil {
				return err
			}
			logger.Debug("palette saved", "path", s.palettePath(), "added", n)
			printSuccess(w, "Imported %d palette entries", n)
			return nil
		},
	}
}

func newPaletteExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <profile.json>",
		Short: "Write the palette as a shareable toolbar profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := settingsFromContext(cmd.Context())
			pal, err := project.LoadPalette(s.palettePath())
			if err != nil {
				return err
			}
			if err := project.ExportProfile(args[0], pal); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Exported palette")
			printFile(cmd.OutOrStdout(), args[0])
			return nil
		},
	}
}

func newPaletteLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <profile.json>",
		Short: "Replace the palette with a toolbar profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := settingsFromContext(cmd.Context())
			pal, err := project.ImportProfile(args[0])
			if err != nil {
				return err
			}
			if err := project.SavePalette(s.palettePath(), pal); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Palette replaced from %s", args[0])
			return nil
		},
	}
}

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up or restore settings and palette",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "export <backup.json>",
		Short: "Write settings and palette to one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := settingsFromContext(cmd.Context())
			pal, err := project.LoadPalette(s.palettePath())
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], s.config, pal); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Backup written")
			printFile(cmd.OutOrStdout(), args[0])
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "import <backup.json>",
		Short: "Restore settings and palette from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := settingsFromContext(cmd.Context())
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			if err := project.SaveAppConfig(s.configPath, backup.Config); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			if err := project.SavePalette(s.palettePath(), backup.Palette.Palette()); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Restored backup from %s", backup.CreatedAt)
			return nil
		},
	})
	return cmd
}
