package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func recomputeCmd() *cobra.Command {
	var tripID string

	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Rebuild a trip's derived member and expense counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			projection, err := store.RecomputeTripProjection(cmd.Context(), tripID, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "trip %s: member_count=%d total_expenses=%d\n",
				projection.TripID, projection.MemberCount, projection.TotalExpenses)
			return nil
		},
	}

	cmd.Flags().StringVar(&tripID, "trip", "", "trip ID to recompute")
	_ = cmd.MarkFlagRequired("trip")
	return cmd
}
