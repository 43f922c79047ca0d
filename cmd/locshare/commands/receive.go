package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// receive: pull and decrypt readings addressed to this device.
func receiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "receive",
		Short: "Fetch and decrypt locations shared with this device",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ensureIdentity(); err != nil {
				return err
			}
			readings, ok := wire.Location.Receive(cmd.Context())
			if !ok {
				return fmt.Errorf("receive failed")
			}
			if len(readings) == 0 {
				fmt.Println("no locations")
				return nil
			}
			for _, r := range readings {
				ts := time.UnixMilli(r.TimestampMS).Format(time.RFC3339)
				fmt.Printf("%d  %.6f,%.6f  ±%.0fm  battery %.0f%%  %s\n",
					r.PeerID, r.Coordinate.Latitude, r.Coordinate.Longitude,
					r.Accuracy, r.Battery*100, ts)
			}
			return nil
		},
	}
}
