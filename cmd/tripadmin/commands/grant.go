package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wanderlist/wanderlist/internal/trip/invite"
)

func grantCmd() *cobra.Command {
	var tripID, memberID, userID string

	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Issue an invitation grant token",
		Long:  "Signs an invitation grant for a pending membership using the signer configured via WANDERLIST_INVITE_GRANT_* environment variables.",
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := invite.LoadSignerConfigFromEnv(nil)
			if err != nil {
				return err
			}
			grant, err := invite.IssueGrant(signer, invite.GrantExpectation{
				TripID:   tripID,
				MemberID: memberID,
				UserID:   userID,
			}, memberID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), grant)
			return nil
		},
	}

	cmd.Flags().StringVar(&tripID, "trip", "", "trip ID the grant binds")
	cmd.Flags().StringVar(&memberID, "member", "", "pending membership ID the grant binds")
	cmd.Flags().StringVar(&userID, "user", "", "invited user ID the grant binds")
	_ = cmd.MarkFlagRequired("trip")
	_ = cmd.MarkFlagRequired("member")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
