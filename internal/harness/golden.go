package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/obsw/internal/canonical"
)

// Snapshot captures a scenario run for golden comparison.
type Snapshot struct {
	ScenarioName string
	Result       *Result
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON
// serialization.
func (s *Snapshot) toCanonicalMap() map[string]any {
	steps := make([]any, len(s.Result.Steps))
	for i, ev := range s.Result.Steps {
		m := map[string]any{
			"step": ev.Step,
			"type": ev.Type,
		}
		if ev.Object != "" {
			m["object"] = ev.Object
		}
		if len(ev.Fields) > 0 {
			m["fields"] = ev.Fields
		}
		steps[i] = m
	}

	traces := make([]any, len(s.Result.Traces))
	for i, tr := range s.Result.Traces {
		items := make([]int, len(tr.Items))
		for j, it := range tr.Items {
			items[j] = int(it)
		}
		traces[i] = map[string]any{
			"seq":      tr.Seq,
			"kind":     string(tr.Kind),
			"trace_id": int(tr.TraceID),
			"items":    items,
		}
	}

	events := make([]any, len(s.Result.Events))
	for i, ev := range s.Result.Events {
		events[i] = map[string]any{
			"id":         ev.ID,
			"seq":        ev.Seq,
			"originator": int(ev.Originator),
			"class_id":   int(ev.ClassID),
			"event_type": int(ev.Type),
		}
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"steps":         steps,
		"traces":        traces,
		"events":        events,
	}
}

// MarshalSnapshot renders a result as canonical JSON.
func MarshalSnapshot(scenarioName string, result *Result) ([]byte, error) {
	snap := Snapshot{ScenarioName: scenarioName, Result: result}
	return canonical.Marshal(snap.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the snapshot against a
// golden file in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
