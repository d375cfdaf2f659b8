package cmd

import (
	"fmt"
	"log/slog"

	"github.com/noise-planet/noisecapture-go/cmd/export"
	"github.com/noise-planet/noisecapture-go/cmd/list"
	"github.com/noise-planet/noisecapture-go/cmd/remove"
	"github.com/noise-planet/noisecapture-go/cmd/show"
	"github.com/noise-planet/noisecapture-go/cmd/tags"
	"github.com/noise-planet/noisecapture-go/internal/conf"
	"github.com/noise-planet/noisecapture-go/internal/datastore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings, metrics *datastore.Metrics) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "noisecapture",
		Short: "NoiseCapture measurement store CLI",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Flags are parsed by now, the debug flag can take effect
			if settings.Debug {
				datastore.SetLogLevel(slog.LevelDebug)
			}
		},
	}

	setupFlags(rootCmd, settings)

	subcommands := []*cobra.Command{
		list.Command(settings, metrics),
		show.Command(settings, metrics),
		tags.Command(settings),
		export.Command(settings, metrics),
		remove.Command(settings, metrics),
	}

	rootCmd.AddCommand(subcommands...)

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Output.SQLite.Path, "database", viper.GetString("output.sqlite.path"), "Path to the SQLite database file")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}
