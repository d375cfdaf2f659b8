// Package remove implements the command deleting a record and its data.
package remove

import (
	"fmt"
	"strconv"

	"github.com/noise-planet/noisecapture-go/internal/conf"
	"github.com/noise-planet/noisecapture-go/internal/datastore"
	"github.com/noise-planet/noisecapture-go/internal/measurement"
	"github.com/spf13/cobra"
)

// Command creates the remove sub-command.
func Command(settings *conf.Settings, metrics *datastore.Metrics) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove [record id]",
		Short: "Delete a measurement record and all its data",
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
			defer closeStore() //nolint:errcheck // deletion already committed

			if err := manager.DeleteRecord(uint(recordID)); err != nil {
				return err
			}

			fmt.Printf("record %d deleted\n", recordID)
			return nil
		},
	}

	return cmd
}
