package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"sortable-list/internal/config"
	"sortable-list/internal/format"
	"sortable-list/internal/logging"
	"sortable-list/internal/store"
	"sortable-list/internal/tui"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	ConfigPath string
	PrettyJSON bool
	Format     string
	LogFile    string
	Debug      bool

	cfg       *config.Config
	log       zerolog.Logger
	logCloser io.Closer
}

func NewRootCmd() *cobra.Command {
	app := &App{log: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:          "sortable",
		Short:        "A drag-to-reorder list (TUI + CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  sortable

  # Fill the list with 300 numbered rows
  sortable items seed --count 300

  # Move the first row to the fourth slot
  sortable items move 0 3
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup()
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.close()
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "db", "", "Data directory holding the SQLite file (default: $XDG_DATA_HOME/sortable)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("SORTABLE_CONFIG", ""), "Config file (default: $XDG_CONFIG_HOME/sortable/config.toml)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("SORTABLE_FORMAT", "json"), "Output format (json|edn|text)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", "", "Write logs to this file")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Debug logging (to --log-file, or the default log file)")

	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// setup resolves settings with flags over SORTABLE_* variables over the config file.
func (app *App) setup() error {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return err
	}
	if app.Dir != "" {
		cfg.DB = app.Dir
	}
	if app.LogFile != "" {
		cfg.LogFile = app.LogFile
	}
	if app.Debug {
		cfg.Debug = true
	}
	if cfg.DB == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return err
		}
		cfg.DB = d
	}
	app.Dir = cfg.DB
	app.cfg = cfg

	l, closer, err := logging.New(logging.Options{File: cfg.LogFile, Debug: cfg.Debug})
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	app.log, app.logCloser = l, closer
	app.log.Debug().Str("db", cfg.DB).Msg("start")
	return nil
}

func (app *App) close() error {
	if app.logCloser == nil {
		return nil
	}
	err := app.logCloser.Close()
	app.logCloser = nil
	return err
}

func (app *App) store() store.Store {
	return store.Store{Dir: app.Dir}
}

func runTUI(app *App) error {
	err := tui.Run(tui.Options{
		Store:      app.store(),
		Properties: app.cfg.Properties(),
		Glyphs:     app.cfg.TUI.Glyphs,
		Log:        app.log,
	})
	if err != nil {
		app.log.Error().Err(err).Msg("tui")
	}
	return err
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func textFormat(app *App) bool {
	return strings.EqualFold(strings.TrimSpace(app.Format), "text")
}

// writeData writes v in a {"data": v} envelope, or bare in text format.
func writeData(cmd *cobra.Command, app *App, v any) error {
	if textFormat(app) {
		return writeOut(cmd, app, v)
	}
	return writeOut(cmd, app, map[string]any{"data": v})
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, app *App, err error) error {
	app.log.Error().Err(err).Str("cmd", cmd.CommandPath()).Msg("command failed")
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
