// Package main provides the entry point for the TagDraw annotation editor.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"tagdraw/internal/app"
	"tagdraw/internal/config"
	"tagdraw/internal/project"
	"tagdraw/internal/version"
	"tagdraw/ui/mainwindow"
	"tagdraw/ui/prefs"
)

const appID = "io.tagdraw.editor"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCommand() *cobra.Command {
	var flags globalFlags
	var watch bool

	rootCmd := &cobra.Command{
		Use:   "tagdraw [image|project]",
		Short: "Draw and label annotations over images",
		Long: `TagDraw is an interactive editor for rectangle and polygon annotations
drawn over a background image. Pass an image to start annotating it, or a
` + project.Extension + ` file to continue a saved project.`,
		Version:      version.Version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEditor(flags, watch, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", defaultConfigPath(), "Configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override the configured log level")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "Override the configured log format (text or json)")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the configuration file when it changes")

	rootCmd.AddCommand(newRenderCommand(&flags))
	rootCmd.AddCommand(newConfigCommand(&flags))

	return rootCmd
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "tagdraw", "config.yaml")
}

// loadConfig reads the configuration and applies flag overrides. A broken
// file is reported and replaced by defaults.
func loadConfig(flags globalFlags) (*config.Config, *slog.Logger, error) {
	cfg, loadErr := config.Load(flags.configPath)
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.LogFormat = flags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := cfg.NewLogger(os.Stderr)
	if loadErr != nil {
		logger.Warn("using default configuration", "path", flags.configPath, "error", loadErr)
	}
	return cfg, logger, nil
}

func runEditor(flags globalFlags, watch bool, args []string) error {
	cfg, logger, err := loadConfig(flags)
	if err != nil {
		return err
	}
	logger.Info("starting", "version", version.String())

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.Theme{})

	appPrefs := prefs.Load()
	win := mainwindow.New(fyneApp, cfg, appPrefs, logger)

	if len(args) == 1 {
		path := args[0]
		if strings.EqualFold(filepath.Ext(path), project.Extension) {
			err = win.OpenProject(path)
		} else {
			err = win.OpenImage(path)
		}
		if err != nil {
			logger.Error("open failed", "path", path, "error", err)
		}
	}

	if watch {
		w := config.NewWatcher(flags.configPath, logger)
		w.OnChange(win.ApplyConfig)
		if err := w.Start(); err != nil {
			logger.Warn("config watch disabled", "path", flags.configPath, "error", err)
		} else {
			defer w.Stop()
		}
	}

	win.ShowAndRun()
	return nil
}
