// Rack Designer: plan 42U server-rack elevations.
//
// Without a subcommand the desktop editor opens, optionally with a project
// file. Subcommands edit, validate and export projects headlessly.
//
// Build:
//   go build -o rackdesigner ./cmd/rackdesigner
//
// Using fyne-cross for packaging:
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"os"

	"github.com/amassoud-ap34/rack-designer/internal/cli"
	"github.com/amassoud-ap34/rack-designer/internal/ui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersion(version, commit, date)
	cli.SetGUI(func(l cli.Launch) error {
		return ui.Run(ui.Options{
			Logger:     l.Logger,
			ConfigDir:  l.ConfigDir,
			ConfigPath: l.ConfigPath,
			Config:     l.Config,
			Project:    l.Project,
		})
	})
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
