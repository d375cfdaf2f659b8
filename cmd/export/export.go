// Package export implements the command writing a record's GeoJSON trace.
package export

import (
	"fmt"
	"os"
	"strconv"

	"github.com/noise-planet/noisecapture-go/internal/conf"
	"github.com/noise-planet/noisecapture-go/internal/datastore"
	"github.com/noise-planet/noisecapture-go/internal/export"
	"github.com/noise-planet/noisecapture-go/internal/measurement"
	"github.com/spf13/cobra"
)

// Command creates the export sub-command.
func Command(settings *conf.Settings, metrics *datastore.Metrics) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export [record id]",
		Short: "Export a record's located measurements as GeoJSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recordID, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid record id %q: %w", args[0], err)
			}

			manager, closeStore, err := measurement.Open(settings, metrics)
			if err != nil {
				return err
			}
			defer closeStore() //nolint:errcheck // read-only command

			out := os.Stdout
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			return export.WriteRecordTrace(manager, uint(recordID), out)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default stdout)")

	return cmd
}
