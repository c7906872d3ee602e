package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// ExportHumanReadable writes events to w in a human-readable text format,
// one block per event. Payloads are pretty-printed when they hold valid
// JSON and emitted raw otherwise.
func ExportHumanReadable(events []Event, w io.Writer) error {
	for _, evt := range events {
		header := fmt.Sprintf("[%s] %s\n", evt.Timestamp.UTC().Format("2006-01-02T15:04:05Z"), evt.Type)
		if _, err := io.WriteString(w, header); err != nil {
			return err
		}

		lines := []string{
			fmt.Sprintf("  trip: %s", evt.TripID),
			fmt.Sprintf("  seq: %d", evt.Seq),
			formatActor(evt),
		}
		if evt.EntityType != "" {
			lines = append(lines, fmt.Sprintf("  entity: %s/%s", evt.EntityType, evt.EntityID))
		}
		for _, line := range lines {
			if _, err := io.WriteString(w, line+"\n"); err != nil {
				return err
			}
		}

		if len(evt.PayloadJSON) > 0 {
			if _, err := io.WriteString(w, "  payload:\n"); err != nil {
				return err
			}
			if err := writePayload(w, evt.PayloadJSON); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func formatActor(evt Event) string {
	if evt.ActorID != "" {
		return fmt.Sprintf("  actor: %s/%s", evt.ActorType, evt.ActorID)
	}
	return fmt.Sprintf("  actor: %s", evt.ActorType)
}

func writePayload(w io.Writer, raw []byte) error {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "    ", "  "); err != nil {
		// Fall back to the raw payload.
		_, werr := fmt.Fprintf(w, "    %s\n", raw)
		return werr
	}
	_, err := fmt.Fprintf(w, "    %s\n", pretty.String())
	return err
}
