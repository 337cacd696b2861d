package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/obsw/internal/paramdb"
)

// Scenario is a start-up scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Capacity is the system list size.
	Capacity int `yaml:"capacity"`

	// DataPool sizes and seeds the data pool. Size defaults to 4.
	DataPool DataPoolSpec `yaml:"datapool,omitempty"`

	// Parameters populate the parameter database.
	Parameters []paramdb.Parameter `yaml:"parameters,omitempty"`

	// Steps run in order.
	Steps []Step `yaml:"steps"`

	// Assertions are evaluated after the last step.
	Assertions []Assertion `yaml:"assertions"`
}

// DataPoolSpec describes the scenario data pool.
type DataPoolSpec struct {
	Size   int             `yaml:"size,omitempty"`
	Values map[int]float64 `yaml:"values,omitempty"`
}

// DefaultDataPoolSize is used when a scenario leaves datapool.size unset.
const DefaultDataPoolSize = 4

// Step is one scenario step. Exactly one action field must be set.
type Step struct {
	Create      *CreateStep      `yaml:"create,omitempty"`
	SetService  string           `yaml:"set_service,omitempty"`
	SetClassID  *ClassIDStep     `yaml:"set_class_id,omitempty"`
	CheckObject *CheckObjectStep `yaml:"check_object,omitempty"`
	CheckSystem *CheckSystemStep `yaml:"check_system,omitempty"`
	Cycle       int              `yaml:"cycle,omitempty"`

	// ExpectPanic names the operation whose precondition the step must
	// violate. Empty means the step must not panic.
	ExpectPanic string `yaml:"expect_panic,omitempty"`
}

// CreateStep constructs a framework object.
type CreateStep struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`

	// monitor
	Item  int     `yaml:"item"`
	Lower float64 `yaml:"lower,omitempty"`
	Upper float64 `yaml:"upper,omitempty"`
	Event int     `yaml:"event,omitempty"`

	// sampler
	Parameter int `yaml:"parameter,omitempty"`
	Period    int `yaml:"period,omitempty"`
}

// ClassIDStep assigns a class id to a created object.
type ClassIDStep struct {
	Object  string `yaml:"object"`
	ClassID int    `yaml:"class_id"`
}

// CheckObjectStep queries one object's readiness.
type CheckObjectStep struct {
	Object string `yaml:"object"`
	Expect bool   `yaml:"expect"`
}

// CheckSystemStep queries system readiness.
type CheckSystemStep struct {
	Expect bool `yaml:"expect"`
}

// Object kinds accepted by create steps.
const (
	KindMonitor = "monitor"
	KindSampler = "sampler"
)

// Services accepted by set_service steps.
const (
	ServiceEventRepository   = "event_repository"
	ServiceTracer            = "tracer"
	ServiceDataPool          = "data_pool"
	ServiceParameterDatabase = "parameter_database"
	ServiceAll               = "all"
)

// Assertion validates the end state of a run.
type Assertion struct {
	// Type specifies the assertion type:
	// - "system_configured": IsSystemConfigured equals Expect
	// - "overflow_count": number of overflowed objects equals Count
	// - "instance_ids": instance ids in the system list equal IDs
	// - "trace_count": stored traces of Kind ("" for all) equal Count
	// - "event_count": stored events equal Count
	Type string `yaml:"type"`

	Expect *bool  `yaml:"expect,omitempty"`
	Count  int    `yaml:"count,omitempty"`
	IDs    []int  `yaml:"ids,omitempty"`
	Kind   string `yaml:"kind,omitempty"`
}

// Assertion type constants.
const (
	AssertSystemConfigured = "system_configured"
	AssertOverflowCount    = "overflow_count"
	AssertInstanceIDs      = "instance_ids"
	AssertTraceCount       = "trace_count"
	AssertEventCount       = "event_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", s.Capacity)
	}
	if s.DataPool.Size < 0 {
		return fmt.Errorf("datapool.size must not be negative")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	names := make(map[string]bool)
	for i, step := range s.Steps {
		if err := validateStep(i, step, names); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step Step, names map[string]bool) error {
	set := 0
	if step.Create != nil {
		set++
	}
	if step.SetService != "" {
		set++
	}
	if step.SetClassID != nil {
		set++
	}
	if step.CheckObject != nil {
		set++
	}
	if step.CheckSystem != nil {
		set++
	}
	if step.Cycle != 0 {
		set++
	}
	if set != 1 {
		return fmt.Errorf("steps[%d]: exactly one action is required, got %d", index, set)
	}

	switch {
	case step.Create != nil:
		c := step.Create
		if c.Name == "" {
			return fmt.Errorf("steps[%d].create: name is required", index)
		}
		if names[c.Name] {
			return fmt.Errorf("steps[%d].create: duplicate name %q", index, c.Name)
		}
		if c.Kind != KindMonitor && c.Kind != KindSampler {
			return fmt.Errorf("steps[%d].create: unknown kind %q", index, c.Kind)
		}
		names[c.Name] = true
	case step.SetService != "":
		switch step.SetService {
		case ServiceEventRepository, ServiceTracer, ServiceDataPool, ServiceParameterDatabase, ServiceAll:
		default:
			return fmt.Errorf("steps[%d]: unknown service %q", index, step.SetService)
		}
	case step.SetClassID != nil:
		if !names[step.SetClassID.Object] {
			return fmt.Errorf("steps[%d].set_class_id: unknown object %q", index, step.SetClassID.Object)
		}
	case step.CheckObject != nil:
		if !names[step.CheckObject.Object] {
			return fmt.Errorf("steps[%d].check_object: unknown object %q", index, step.CheckObject.Object)
		}
	case step.Cycle < 0:
		return fmt.Errorf("steps[%d]: cycle count must be positive", index)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertSystemConfigured:
		if a.Expect == nil {
			return fmt.Errorf("assertions[%d]: expect is required for system_configured", index)
		}
	case AssertOverflowCount, AssertEventCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertInstanceIDs:
		if a.IDs == nil {
			a.IDs = []int{}
		}
	case AssertTraceCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
		if a.Kind != "" && a.Kind != "synch" && a.Kind != "packet" {
			return fmt.Errorf("assertions[%d]: unknown trace kind %q", index, a.Kind)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
