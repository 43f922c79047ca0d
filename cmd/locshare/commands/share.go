package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func shareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Manage mutual-sharing requests",
	}
	cmd.AddCommand(shareSendCmd(), sharePendingCmd())
	return cmd
}

func shareSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <peer>",
		Short: "Ask a peer to share locations with you",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ensureIdentity(); err != nil {
				return err
			}
			peer, err := parsePeerID(args[0])
			if err != nil {
				return err
			}
			if !wire.Sharing.SendRequest(cmd.Context(), peer) {
				return fmt.Errorf("request to %d failed", peer)
			}
			fmt.Println("request sent")
			return nil
		},
	}
}

func sharePendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List peers waiting on your response",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ensureIdentity(); err != nil {
				return err
			}
			pending, ok := wire.Sharing.PendingRequests(cmd.Context())
			if !ok {
				return fmt.Errorf("retrieve failed")
			}
			if len(pending) == 0 {
				fmt.Println("no pending requests")
				return nil
			}
			for _, id := range pending {
				fmt.Println(id)
			}
			return nil
		},
	}
}
