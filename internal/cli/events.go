package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/obsw/internal/root"
	"github.com/roach88/obsw/internal/store"
)

// EventsOptions holds flags for the events command.
type EventsOptions struct {
	*RootOptions
	Database   string
	Originator int // -1 lists every originator
}

// EventRecord is a single stored event.
type EventRecord struct {
	ID         string `json:"id"`
	Seq        int64  `json:"seq"`
	Originator int    `json:"originator"`
	ClassID    int    `json:"class_id"`
	Type       int    `json:"type"`
}

// EventsResult holds the events output.
type EventsResult struct {
	Events []EventRecord `json:"events"`
	Total  int           `json:"total"`
}

// NewEventsCommand creates the events command.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EventsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List recorded events",
		Long: `List the events raised through the event repository, in the order
they were created.

Examples:
  obsw events --db ./obsw.db
  obsw events --db ./obsw.db --originator 0
  obsw events --db ./obsw.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvents(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().IntVar(&opts.Originator, "originator", -1, "only list events raised by this instance id")

	return cmd
}

func runEvents(opts *EventsOptions, cmd *cobra.Command) error {
	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	var events []store.Event
	if opts.Originator >= 0 {
		events, err = st.ReadEventsByOriginator(ctx, root.InstanceID(opts.Originator))
	} else {
		events, err = st.ReadEvents(ctx)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read events", err)
	}

	result := EventsResult{Events: make([]EventRecord, 0, len(events)), Total: len(events)}
	for _, ev := range events {
		result.Events = append(result.Events, EventRecord{
			ID:         ev.ID,
			Seq:        ev.Seq,
			Originator: int(ev.Originator),
			ClassID:    int(ev.ClassID),
			Type:       int(ev.Type),
		})
	}
	opts.logger().Debug("events read", "db", opts.Database, "count", result.Total)

	if opts.Format == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{Status: "ok", Data: result})
	}

	w := cmd.OutOrStdout()
	if result.Total == 0 {
		fmt.Fprintln(w, "No events recorded.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tORIGINATOR\tCLASS\tTYPE\tID")
	for _, ev := range result.Events {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s\n", ev.Seq, ev.Originator, ev.ClassID, ev.Type, ev.ID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d event(s)\n", result.Total)
	return nil
}
