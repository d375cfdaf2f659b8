// Package list implements the command listing stored measurement records.
package list

import (
	"fmt"

	"github.com/noise-planet/noisecapture-go/internal/conf"
	"github.com/noise-planet/noisecapture-go/internal/datastore"
	"github.com/noise-planet/noisecapture-go/internal/measurement"
	"github.com/spf13/cobra"
)

// Command creates the list sub-command.
func Command(settings *conf.Settings, metrics *datastore.Metrics) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored measurement records",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, closeStore, err := measurement.Open(settings, metrics)
			if err != nil {
				return err
			}
			defer closeStore() //nolint:errcheck // read-only command

			records, err := manager.Records()
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Println("no records stored")
				return nil
			}

			for i := range records {
				r := &records[i]
				state := "in progress"
				if r.Finalized {
					state = fmt.Sprintf("%.1f dB(A), %s", r.LeqMean, r.Duration)
				}
				fmt.Printf("%6d  %s  %s\n", r.ID, r.UTC.Format("2006-01-02 15:04:05"), state)
			}
			return nil
		},
	}

	return cmd
}
