package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	var since time.Duration

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print aggregate trip, member, user, and expense counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var cutoff *time.Time
			if since > 0 {
				t := time.Now().UTC().Add(-since)
				cutoff = &t
			}
			stats, err := store.GetTripStatistics(cmd.Context(), cutoff)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "trips:    %d\n", stats.TripCount)
			fmt.Fprintf(out, "members:  %d\n", stats.MemberCount)
			fmt.Fprintf(out, "users:    %d\n", stats.UserCount)
			fmt.Fprintf(out, "expenses: %d\n", stats.ExpenseCount)
			return nil
		},
	}

	cmd.Flags().DurationVar(&since, "since", 0, "limit counts to rows created within this duration (0 = all time)")
	return cmd
}
