package commands

import (
	"github.com/spf13/cobra"

	"github.com/wanderlist/wanderlist/internal/tools/grantkey"
)

func keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate an invitation grant signing keypair",
		Long:  "Generates an ed25519 keypair and prints shell exports for the grant signing environment variables.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return grantkey.Run(cmd.OutOrStdout(), nil)
		},
	}
}
