package commands

import (
	"github.com/spf13/cobra"

	"github.com/wanderlist/wanderlist/internal/trip/event"
)

func eventsCmd() *cobra.Command {
	var tripID string
	var afterSeq uint64
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Export a trip's event journal in human-readable form",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			events, err := store.ListEvents(cmd.Context(), tripID, afterSeq, limit)
			if err != nil {
				return err
			}
			return event.ExportHumanReadable(events, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&tripID, "trip", "", "trip ID to export")
	cmd.Flags().Uint64Var(&afterSeq, "after", 0, "start after this sequence number")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum events to export (0 = store default)")
	_ = cmd.MarkFlagRequired("trip")
	return cmd
}
