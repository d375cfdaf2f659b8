// Package show implements the command printing one record with its metadata.
package show

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/noise-planet/noisecapture-go/internal/conf"
	"github.com/noise-planet/noisecapture-go/internal/datastore"
	"github.com/noise-planet/noisecapture-go/internal/measurement"
	"github.com/spf13/cobra"
)

// Command creates the show sub-command.
func Command(settings *conf.Settings, metrics *datastore.Metrics) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [record id]",
		Short: "Show one measurement record",
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

			record, err := manager.GetRecord(uint(recordID), true)
			if err != nil {
				return err
			}

			tagLabels, err := manager.GetTags(uint(recordID))
			if err != nil {
				return err
			}

			batches, err := manager.GetRecordMeasurements(uint(recordID), true)
			if err != nil {
				return err
			}

			fmt.Printf("Record %d\n", record.ID)
			fmt.Printf("  started:   %s\n", record.UTC.Format("2006-01-02 15:04:05 MST"))
			fmt.Printf("  duration:  %s\n", record.Duration)
			fmt.Printf("  leq mean:  %.1f dB(A)\n", record.LeqMean)
			fmt.Printf("  finalized: %v\n", record.Finalized)
			fmt.Printf("  epochs:    %d\n", len(batches))
			if record.Description != "" {
				fmt.Printf("  description: %s\n", record.Description)
			}
			if record.Pleasantness >= 0 {
				fmt.Printf("  pleasantness: %d\n", record.Pleasantness)
			}
			if len(tagLabels) > 0 {
				fmt.Printf("  tags: %s\n", strings.Join(tagLabels, ", "))
			}
			if record.PhotoURI != "" {
				fmt.Printf("  photo: %s\n", record.PhotoURI)
			}
			return nil
		},
	}

	return cmd
}
