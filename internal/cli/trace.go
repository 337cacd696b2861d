package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/obsw/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Kind     string // optional - synch or packet
}

// TraceRecord is a single trace in the timeline.
type TraceRecord struct {
	Seq     int64  `json:"seq"`
	Kind    string `json:"kind"`
	TraceID int    `json:"trace_id"`
	Items   []int  `json:"items"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Timeline []TraceRecord `json:"timeline"`
	Stats    TraceStats    `json:"stats"`
}

// TraceStats holds summary statistics for the timeline.
type TraceStats struct {
	Total  int `json:"total"`
	Synch  int `json:"synch"`
	Packet int `json:"packet"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "List recorded traces",
		Long: `List the synch and packet traces recorded by the store tracer, in
submission order.

Examples:
  obsw trace --db ./obsw.db
  obsw trace --db ./obsw.db --kind packet
  obsw trace --db ./obsw.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "filter by trace kind (synch, packet)")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	kind := store.TraceKind(opts.Kind)
	if kind != "" && kind != store.TraceSynch && kind != store.TracePacket {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid trace kind %q (must be synch or packet)", opts.Kind))
	}

	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	traces, err := st.ReadTraces(context.Background(), kind)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read traces", err)
	}

	result := buildTraceResult(traces)
	opts.logger().Debug("traces read", "db", opts.Database, "count", result.Stats.Total)

	if opts.Format == "json" {
		return outputTraceJSON(cmd, result)
	}
	return outputTraceText(cmd, result)
}

// openExisting opens a store that must already exist. store.Open would
// otherwise create an empty database at a mistyped path.
func openExisting(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, "database not found", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func buildTraceResult(traces []store.Trace) TraceResult {
	result := TraceResult{Timeline: make([]TraceRecord, 0, len(traces))}
	for _, tr := range traces {
		items := make([]int, len(tr.Items))
		for i, it := range tr.Items {
			items[i] = int(it)
		}
		result.Timeline = append(result.Timeline, TraceRecord{
			Seq:     tr.Seq,
			Kind:    string(tr.Kind),
			TraceID: int(tr.TraceID),
			Items:   items,
		})
		switch tr.Kind {
		case store.TraceSynch:
			result.Stats.Synch++
		case store.TracePacket:
			result.Stats.Packet++
		}
	}
	result.Stats.Total = len(result.Timeline)
	return result
}

// outputTraceJSON outputs the trace result as JSON.
func outputTraceJSON(cmd *cobra.Command, result TraceResult) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(CLIResponse{Status: "ok", Data: result})
}

// outputTraceText outputs the trace result as human-readable text.
func outputTraceText(cmd *cobra.Command, result TraceResult) error {
	w := cmd.OutOrStdout()

	if result.Stats.Total == 0 {
		fmt.Fprintln(w, "No traces recorded.")
		return nil
	}

	fmt.Fprintln(w, "Timeline:")
	for _, tr := range result.Timeline {
		switch tr.Kind {
		case string(store.TraceSynch):
			fmt.Fprintf(w, "  [%d] synch  id=%d\n", tr.Seq, tr.TraceID)
		default:
			fmt.Fprintf(w, "  [%d] packet items=%v\n", tr.Seq, tr.Items)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Stats: %d trace(s), %d synch, %d packet\n",
		result.Stats.Total, result.Stats.Synch, result.Stats.Packet)
	return nil
}
