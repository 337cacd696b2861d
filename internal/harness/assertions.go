package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/obsw/internal/root"
	"github.com/roach88/obsw/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Steps    []TraceEvent // Executed steps for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Steps) > 0 {
		fmt.Fprintf(&buf, "\nSteps:\n")
		for _, ev := range e.Steps {
			if ev.Object != "" {
				fmt.Fprintf(&buf, "  [%d] %s %s %v\n", ev.Step, ev.Type, ev.Object, ev.Fields)
			} else {
				fmt.Fprintf(&buf, "  [%d] %s %v\n", ev.Step, ev.Type, ev.Fields)
			}
		}
	}
	return buf.String()
}

// EvaluateAssertions evaluates all assertions against the result and the
// registry state. Returns one message per failed assertion.
func EvaluateAssertions(result *Result, assertions []Assertion, reg *root.Registry) []string {
	var errs []string
	for _, a := range assertions {
		var err error
		switch a.Type {
		case AssertSystemConfigured:
			err = assertSystemConfigured(result, reg, a)
		case AssertOverflowCount:
			err = assertOverflowCount(result, reg, a)
		case AssertInstanceIDs:
			err = assertInstanceIDs(result, reg, a)
		case AssertTraceCount:
			err = assertTraceCount(result, a)
		case AssertEventCount:
			err = assertEventCount(result, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func assertSystemConfigured(result *Result, reg *root.Registry, a Assertion) error {
	got := reg.IsSystemConfigured()
	if a.Expect == nil || got == *a.Expect {
		return nil
	}
	return &AssertionError{
		Type:     AssertSystemConfigured,
		Expected: fmt.Sprintf("%t", *a.Expect),
		Actual:   fmt.Sprintf("%t", got),
		Steps:    result.Steps,
	}
}

func assertOverflowCount(result *Result, reg *root.Registry, a Assertion) error {
	if got := reg.Overflow(); got != a.Count {
		return &AssertionError{
			Type:     AssertOverflowCount,
			Expected: fmt.Sprintf("%d overflowed objects", a.Count),
			Actual:   fmt.Sprintf("%d (ids %v)", got, reg.OverflowIDs()),
			Steps:    result.Steps,
		}
	}
	return nil
}

func assertInstanceIDs(result *Result, reg *root.Registry, a Assertion) error {
	got := []int{}
	for _, obj := range reg.Objects() {
		got = append(got, int(obj.InstanceID()))
	}
	want := a.IDs
	if want == nil {
		want = []int{}
	}
	if !slices.Equal(got, want) {
		return &AssertionError{
			Type:     AssertInstanceIDs,
			Expected: fmt.Sprintf("%v", want),
			Actual:   fmt.Sprintf("%v", got),
			Steps:    result.Steps,
		}
	}
	return nil
}

func assertTraceCount(result *Result, a Assertion) error {
	count := 0
	for _, tr := range result.Traces {
		if a.Kind == "" || tr.Kind == store.TraceKind(a.Kind) {
			count++
		}
	}
	if count != a.Count {
		kind := a.Kind
		if kind == "" {
			kind = "any"
		}
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d traces of kind %s", a.Count, kind),
			Actual:   fmt.Sprintf("%d", count),
			Steps:    result.Steps,
		}
	}
	return nil
}

func assertEventCount(result *Result, a Assertion) error {
	if got := len(result.Events); got != a.Count {
		return &AssertionError{
			Type:     AssertEventCount,
			Expected: fmt.Sprintf("%d events", a.Count),
			Actual:   fmt.Sprintf("%d", got),
			Steps:    result.Steps,
		}
	}
	return nil
}
