package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/amassoud-ap34/rack-designer/internal/config"
	"github.com/amassoud-ap34/rack-designer/internal/model"
	"github.com/amassoud-ap34/rack-designer/internal/project"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// It is called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Launch carries what the desktop designer needs from the command line.
type Launch struct {
	Logger     *charmlog.Logger
	ConfigDir  string
	ConfigPath string
	Config     model.AppConfig

	// Project is opened on start when non-empty.
	Project string
}

// ErrNoGUI is returned by the gui command when no desktop front end was
// registered with SetGUI.
var ErrNoGUI = errors.New("desktop interface not available in this build")

var guiFunc func(Launch) error

// SetGUI registers the desktop front end started by the gui command and by
// running rackdesigner without arguments.
func SetGUI(fn func(Launch) error) {
	guiFunc = fn
}

// settings is the resolved configuration shared by all commands.
type settings struct {
	configDir  string
	configPath string
	config     model.AppConfig
}

func (s *settings) palettePath() string {
	return project.DefaultPalettePath(s.configDir)
}

func withSettings(ctx context.Context, s *settings) context.Context {
	return context.WithValue(ctx, settingsKey, s)
}

// settingsFromContext returns the settings resolved by the root command, or
// defaults when none were attached.
func settingsFromContext(ctx context.Context) *settings {
	if s, ok := ctx.Value(settingsKey).(*settings); ok {
		return s
	}
	dir := project.DefaultConfigDir()
	return &settings{
		configDir:  dir,
		configPath: filepath.Join(dir, "config.toml"),
		config:     model.DefaultAppConfig(),
	}
}

// loadSettings resolves the config directory and file, applying .env and
// process environment overrides on top of the file.
func loadSettings(configPath string) (*settings, error) {
	env, err := config.Load()
	if err != nil {
		return nil, err
	}
	dir := env.ConfigDir(project.DefaultConfigDir())
	if configPath == "" {
		configPath = filepath.Join(dir, "config.toml")
	}
	cfg, err := project.LoadAppConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", configPath, err)
	}
	env.Apply(&cfg)
	return &settings{configDir: dir, configPath: configPath, config: cfg}, nil
}

// Execute runs the rackdesigner CLI and returns an error if any command fails.
//
// Logging:
//   - Default: the configured log level (info unless overridden)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "rackdesigner [project.json]",
		Short:        "Rack Designer lays out server racks, shelves and devices",
		Long:         `Rack Designer is a desktop tool for planning 42U rack elevations. Without a subcommand it opens the designer; the subcommands inspect, edit and export project files from the terminal.`,
		Version:      version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(configPath)
			if err != nil {
				return err
			}
			level := parseLevel(s.config.LogLevel)
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(withSettings(ctx, s))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cmd, args)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("rackdesigner %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $RACKDESIGNER_HOME/config.toml)")

	root.AddCommand(newGUICmd())
	root.AddCommand(newNewCmd())
	root.AddCommand(newInfoCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newAddRackCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newPaletteCmd())
	root.AddCommand(newBackupCmd())

	return root
}

func newGUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui [project.json]",
		Short: "Open the desktop designer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
}

func runGUI(cmd *cobra.Command, args []string) error {
	if guiFunc == nil {
		return ErrNoGUI
	}
	s := settingsFromContext(cmd.Context())
	l := Launch{
		Logger:     loggerFromContext(cmd.Context()),
		ConfigDir:  s.configDir,
		ConfigPath: s.configPath,
		Config:     s.config,
	}
	if len(args) == 1 {
		l.Project = args[0]
	}
	return guiFunc(l)
}
