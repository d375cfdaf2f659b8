// Package tags implements the command printing the fixed tag vocabulary.
package tags

import (
	"fmt"

	"github.com/noise-planet/noisecapture-go/internal/conf"
	"github.com/noise-planet/noisecapture-go/internal/measurement"
	"github.com/spf13/cobra"
)

// Command creates the tags sub-command.
func Command(_ *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Print the fixed tag vocabulary",
		Run: func(cmd *cobra.Command, args []string) {
			for ordinal, label := range measurement.Tags() {
				fmt.Printf("%3d  %s\n", ordinal, label)
			}
		},
	}

	return cmd
}
