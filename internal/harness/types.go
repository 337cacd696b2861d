package harness

import (
	"github.com/roach88/obsw/internal/store"
)

// Step event types recorded in Result.Steps.
const (
	StepCreate       = "create"
	StepSetService   = "set_service"
	StepSetClassID   = "set_class_id"
	StepCheckObject  = "check_object"
	StepCheckSystem  = "check_system"
	StepCycle        = "cycle"
	StepPrecondition = "precondition"
)

// TraceEvent records one executed step.
type TraceEvent struct {
	Step   int            `json:"step"`
	Type   string         `json:"type"`
	Object string         `json:"object,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every step expectation and assertion held.
	Pass bool `json:"pass"`

	// Steps holds one event per executed step, one per cycle for cycle
	// steps.
	Steps []TraceEvent `json:"steps"`

	// Traces and Events are the store contents after the last step.
	Traces []store.Trace `json:"traces"`
	Events []store.Event `json:"events"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []TraceEvent{},
		Traces: []store.Trace{},
		Events: []store.Event{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// addStep appends a step event.
func (r *Result) addStep(step int, typ, object string, fields map[string]any) {
	r.Steps = append(r.Steps, TraceEvent{
		Step:   step,
		Type:   typ,
		Object: object,
		Fields: fields,
	})
}
