package commands

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

func peersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peers",
		Short: "Inspect the peer working set",
	}
	cmd.AddCommand(peersListCmd(), peersRemoveCmd(), peersPruneCmd())
	return cmd
}

func peersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known peers",
		RunE: func(cmd *cobra.Command, args []string) error {
			records := wire.Peers.All()
			sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
			for _, rec := range records {
				line := fmt.Sprintf("%d", rec.ID)
				if rec.Name != "" {
					line += "  " + rec.Name
				}
				if rec.Coordinate != nil {
					line += fmt.Sprintf("  %.6f,%.6f", rec.Coordinate.Latitude, rec.Coordinate.Longitude)
				}
				if rec.EncryptionKey != "" {
					line += "  [key cached]"
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}

func peersRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <peer>",
		Short: "Forget a peer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			peer, err := parsePeerID(args[0])
			if err != nil {
				return err
			}
			wire.Peers.Delete(peer)
			return nil
		},
	}
}

func peersPruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Drop peers whose expiry has lapsed",
		RunE: func(cmd *cobra.Command, args []string) error {
			removed := wire.Peers.PruneExpired(time.Now().UnixMilli())
			fmt.Printf("pruned %d\n", removed)
			return nil
		},
	}
}
