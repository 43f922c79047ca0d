package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"locshare/internal/domain"
)

// publish <peer> <lat> <lon>: encrypt one reading for <peer> and push it.
func publishCmd() *cobra.Command {
	var (
		speed    float64
		accuracy float64
		battery  float64
		asleep   bool
	)
	cmd := &cobra.Command{
		Use:   "publish <peer> <lat> <lon>",
		Short: "Encrypt and publish the current location to a peer",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ensureIdentity(); err != nil {
				return err
			}
			peer, err := parsePeerID(args[0])
			if err != nil {
				return err
			}
			lat, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("bad latitude %q", args[1])
			}
			lon, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("bad longitude %q", args[2])
			}

			id, err := wire.Identity.Current()
			if err != nil {
				return err
			}
			reading := domain.LocationReading{
				ID:          uuid.NewString(),
				PeerID:      id.ID,
				Coordinate:  domain.Coordinate{Latitude: lat, Longitude: lon},
				Speed:       speed,
				Accuracy:    accuracy,
				TimestampMS: time.Now().UnixMilli(),
				Battery:     battery,
				Stationary:  asleep,
			}
			if !wire.Location.Publish(cmd.Context(), reading, peer) {
				return fmt.Errorf("publish to %d failed", peer)
			}
			fmt.Println("published")
			return nil
		},
	}
	cmd.Flags().Float64Var(&speed, "speed", 0, "speed in m/s")
	cmd.Flags().Float64Var(&accuracy, "accuracy", 0, "accuracy in meters")
	cmd.Flags().Float64Var(&battery, "battery", 1, "battery level 0..1")
	cmd.Flags().BoolVar(&asleep, "stationary", false, "mark the reading stationary")
	return cmd
}

func parsePeerID(s string) (domain.PeerID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad peer identifier %q", s)
	}
	return domain.PeerID(n), nil
}
