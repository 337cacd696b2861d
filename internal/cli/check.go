package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/obsw/internal/boot"
	"github.com/roach88/obsw/internal/config"
	"github.com/roach88/obsw/internal/root"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Cycles int // operational cycles to run after a successful start
}

// ObjectStatus describes one constructed object.
type ObjectStatus struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	InstanceID int    `json:"instance_id"`
	ClassID    int    `json:"class_id"`
	Registered bool   `json:"registered"`
	Configured bool   `json:"configured"`
}

// PoolItem is one data pool value at the end of the check.
type PoolItem struct {
	ID    int     `json:"id"`
	Name  string  `json:"name,omitempty"`
	Value float64 `json:"value"`
}

// CheckResult is the readiness report printed by the check command.
type CheckResult struct {
	System            string             `json:"system"`
	Configured        bool               `json:"configured"`
	Capacity          int                `json:"capacity"`
	Registered        int                `json:"registered"`
	Checked           int                `json:"checked"`
	Overflow          []int              `json:"overflow"`
	FirstUnconfigured string             `json:"first_unconfigured,omitempty"`
	Objects           []ObjectStatus     `json:"objects"`
	Cycles            []boot.CycleResult `json:"cycles,omitempty"`
	DataPool          []PoolItem         `json:"data_pool,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <system-dir>",
		Short: "Boot a system description and report readiness",
		Long: `Load the CUE system description in <system-dir>, construct its
objects, install the services and run the readiness scan.

Exit codes:
  0 - System configured
  1 - System not configured
  2 - Command error (invalid description, unreadable files, etc.)

Examples:
  obsw check ./system
  obsw check ./system --cycles 10
  obsw check ./system --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Cycles, "cycles", 0, "operational cycles to run after a successful start")

	return cmd
}

func runCheck(ctx context.Context, opts *CheckOptions, dir string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	cfg, err := config.Load(dir)
	if err != nil {
		_ = out.Error(errorCode(err, config.ErrCodeGeneric), err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load system description", err)
	}

	sys, err := boot.Start(ctx, cfg, boot.WithLogger(opts.logger()))
	if sys != nil {
		defer sys.Close()
	}
	if err != nil && !errors.Is(err, boot.ErrNotConfigured) {
		_ = out.Error(ErrCodeStartFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to start system", err)
	}

	result := buildCheckResult(dir, sys)
	if err != nil {
		if opts.Format == "json" {
			_ = out.Error(ErrCodeNotConfigured, err.Error(), result)
		} else {
			writeCheckText(cmd.OutOrStdout(), result)
			fmt.Fprintf(cmd.OutOrStdout(), "✗ %v\n", err)
		}
		return WrapExitError(ExitFailure, "system not configured", err)
	}

	for iter := 0; iter < opts.Cycles; iter++ {
		res, err := sys.Cycle(ctx)
		if err != nil {
			_ = out.Error(ErrCodeStartFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "cycle failed", err)
		}
		result.Cycles = append(result.Cycles, res)
	}
	result.DataPool = poolItems(sys)

	if opts.Format == "json" {
		return out.Success(result)
	}
	writeCheckText(cmd.OutOrStdout(), result)
	fmt.Fprintln(cmd.OutOrStdout(), "✓ System configured")
	return nil
}

func buildCheckResult(dir string, sys *boot.System) CheckResult {
	rep := sys.Report
	result := CheckResult{
		System:     dir,
		Configured: rep.Configured,
		Capacity:   sys.Registry.SystemListSize(),
		Registered: rep.Registered,
		Checked:    rep.Checked,
		Overflow:   []int{},
		Objects:    []ObjectStatus{},
	}
	for _, id := range rep.Overflow {
		result.Overflow = append(result.Overflow, int(id))
	}

	for i, obj := range sys.Objects() {
		decl := sys.Config.Objects[i]
		registered := isRegistered(sys.Registry, obj)
		result.Objects = append(result.Objects, ObjectStatus{
			Name:       decl.Name,
			Kind:       string(decl.Kind),
			InstanceID: int(obj.InstanceID()),
			ClassID:    int(obj.ClassID()),
			Registered: registered,
			Configured: obj.IsObjectConfigured(),
		})
		if rep.FirstUnconfigured != nil && rep.FirstUnconfigured.InstanceID() == obj.InstanceID() {
			result.FirstUnconfigured = decl.Name
		}
	}
	return result
}

func poolItems(sys *boot.System) []PoolItem {
	if sys.Pool == nil {
		return nil
	}
	items := make([]PoolItem, 0, sys.Pool.Size())
	for i, v := range sys.Pool.Snapshot() {
		id := root.DataPoolID(i)
		items = append(items, PoolItem{ID: i, Name: sys.Pool.Name(id), Value: v})
	}
	return items
}

func isRegistered(reg *root.Registry, obj root.Configurable) bool {
	_, ok := reg.Lookup(obj.InstanceID())
	return ok
}

func writeCheckText(w io.Writer, r CheckResult) {
	fmt.Fprintf(w, "System: %s\n", r.System)
	fmt.Fprintf(w, "Capacity: %d (registered %d, overflow %d)\n", r.Capacity, r.Registered, len(r.Overflow))
	fmt.Fprintln(w)
	for _, obj := range r.Objects {
		state := "ready"
		switch {
		case !obj.Registered:
			state = "overflow"
		case !obj.Configured:
			state = "NOT CONFIGURED"
		}
		fmt.Fprintf(w, "  [%d] %-20s %-8s class=%-4d %s\n", obj.InstanceID, obj.Name, obj.Kind, obj.ClassID, state)
	}
	for _, c := range r.Cycles {
		fmt.Fprintf(w, "  cycle %d: %d samples, %d violations\n", c.Cycle, c.Samples, c.Violations)
	}
	for _, it := range r.DataPool {
		name := it.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "  pool[%d] %-16s %g\n", it.ID, name, it.Value)
	}
	fmt.Fprintln(w)
}
