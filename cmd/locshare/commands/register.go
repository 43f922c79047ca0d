package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Make sure the relay knows this device's public key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ensureIdentity(); err != nil {
				return err
			}
			if !wire.Directory.EnsureSelfRegistered(cmd.Context()) {
				return fmt.Errorf("registration failed")
			}
			fmt.Println("registered")
			return nil
		},
	}
}
