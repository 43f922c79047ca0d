package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"locshare/internal/crypto"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the device identity and store it securely",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ensureIdentity(); err != nil {
				return err
			}
			id, err := wire.Identity.Current()
			if err != nil {
				return err
			}
			fmt.Printf("Identity ready.\nIdentifier:  %d\nFingerprint: %s\n",
				id.ID, crypto.Fingerprint(id.PublicKey))
			return nil
		},
	}
}
