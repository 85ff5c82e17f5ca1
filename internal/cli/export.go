package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amassoud-ap34/rack-designer/internal/export"
	"github.com/amassoud-ap34/rack-designer/internal/model"
	"github.com/amassoud-ap34/rack-designer/internal/project"
)

type exporter struct {
	use    string
	short  string
	suffix string
	write  func(path string, p *model.Project) error
}

var exporters = []exporter{
	{"pdf", "Rack elevations and device tables as PDF", ".pdf", export.ExportPDF},
	{"labels", "QR asset labels (Avery 5160) as PDF", "-labels.pdf", export.ExportLabels},
	{"xlsx", "Inventory workbook", ".xlsx", export.ExportInventory},
	{"dxf", "Front elevations as a DXF drawing", ".dxf", export.ExportDXF},
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a project to PDF, labels, spreadsheet or DXF",
	}
	for _, e := range exporters {
		cmd.AddCommand(newExporterCmd(e))
	}
	return cmd
}

func newExporterCmd(e exporter) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   e.use + " <project.json>",
		Short: e.short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			p, err := project.Load(args[0])
			if err != nil {
				return err
			}
			out := output
			if out == "" {
				out = defaultOutput(args[0], e.suffix)
			}

			prog := newProgress(logger)
			if err := e.write(out, p); err != nil {
				return err
			}
			prog.done("Exported " + e.use)
			printSuccess(cmd.OutOrStdout(), "Exported %d rack(s)", len(p.Racks))
			printFile(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: next to the project)")
	return cmd
}

// defaultOutput swaps the project file's extension for suffix.
func defaultOutput(projectPath, suffix string) string {
	return strings.TrimSuffix(projectPath, filepath.Ext(projectPath)) + suffix
}
