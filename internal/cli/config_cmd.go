package cli

import (
	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect settings",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings (TOML in text format)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if textFormat(app) {
				return toml.NewEncoder(cmd.OutOrStdout()).Encode(app.cfg)
			}
			return writeData(cmd, app, app.cfg)
		},
	})
	return cmd
}
