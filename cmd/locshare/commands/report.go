package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// report <text>: file a free-text diagnostic with the relay.
func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <text>",
		Short: "Send a diagnostic report to the relay",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.Relay.ReportProblem(cmd.Context(), strings.Join(args, " ")); err != nil {
				return fmt.Errorf("report failed: %w", err)
			}
			fmt.Println("reported")
			return nil
		},
	}
}
