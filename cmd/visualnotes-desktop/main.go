package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/visualnotes/visualnotes/internal/desktop"
	"github.com/visualnotes/visualnotes/pkg/buildinfo"
	"github.com/visualnotes/visualnotes/pkg/config"
	vnerrors "github.com/visualnotes/visualnotes/pkg/errors"
	vnio "github.com/visualnotes/visualnotes/pkg/io"
	"github.com/visualnotes/visualnotes/pkg/whiteboard"
	"github.com/visualnotes/visualnotes/pkg/whiteboard/display"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", vnerrors.UserMessage(err))
		os.Exit(vnerrors.ExitCode(err))
	}
}

func rootCommand() *cobra.Command {
	var (
		configPath string
		theme      string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:           "visualnotes-desktop [scene.json]",
		Short:         "Open a board in the desktop editor",
		Version:       buildinfo.Get().Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, TimeFormat: "15:04:05.00"})
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if theme == "" {
				theme = cfg.Render.Theme
			}
			t, err := display.ThemeByName(theme)
			if err != nil {
				return err
			}

			opts := desktop.Options{
				Theme:  t,
				Logger: logger,
				Saver:  whiteboard.SimulatedSaver{Delay: cfg.Save.Delay},
			}
			if len(args) == 1 {
				path := args[0]
				opts.Saver = vnio.FileSaver{Path: path}
				if _, err := os.Stat(path); err == nil {
					scene, err := vnio.ImportJSON(path)
					if err != nil {
						return err
					}
					opts.Scene = &scene
				}
			}

			editor := desktop.NewEditor(app.NewWithID("io.visualnotes.desktop"), opts)
			editor.Window.ShowAndRun()
			return nil
		},
	}

	cmd.SetVersionTemplate(buildinfo.Template())
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/visualnotes/config.toml)")
	cmd.Flags().StringVar(&theme, "theme", "", "palette: light, dark")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	return cmd
}
