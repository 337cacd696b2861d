package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/obsw/internal/component"
	"github.com/roach88/obsw/internal/datapool"
	"github.com/roach88/obsw/internal/eventrepo"
	"github.com/roach88/obsw/internal/paramdb"
	"github.com/roach88/obsw/internal/root"
	"github.com/roach88/obsw/internal/store"
	"github.com/roach88/obsw/internal/testutil"
	"github.com/roach88/obsw/internal/tracer"
)

// Harness is the scenario execution engine.
type Harness struct {
	store    *store.Store
	registry *root.Registry
	clock    *testutil.DeterministicClock

	events root.EventRepository
	tracer root.Tracer
	pool   *datapool.Pool
	params *paramdb.Database

	objects  map[string]root.Configurable
	monitors []*component.DataMonitor
	samplers []*component.Sampler
	cycle    int
}

// Option configures Run.
type Option func(*runOptions)

type runOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger passed to the registry and services.
// Default: logs are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(o *runOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh registry backed by an in-memory store.
// Step failures and assertion failures are reported in the Result; the
// error return is reserved for infrastructure failures.
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	o := runOptions{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h, err := newHarness(st, scenario, o.logger)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, i, step, result); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}

	if result.Traces, err = st.ReadTraces(ctx, ""); err != nil {
		return nil, err
	}
	if result.Events, err = st.ReadEvents(ctx); err != nil {
		return nil, err
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions, h.registry) {
		result.AddError(msg)
	}
	return result, nil
}

func newHarness(st *store.Store, scenario *Scenario, logger *slog.Logger) (*Harness, error) {
	size := scenario.DataPool.Size
	if size == 0 {
		size = DefaultDataPoolSize
	}
	pool := datapool.New(size)
	for id, value := range scenario.DataPool.Values {
		if err := pool.SetValue(root.DataPoolID(id), value); err != nil {
			return nil, fmt.Errorf("datapool.values: %w", err)
		}
	}

	params, err := paramdb.New(scenario.Parameters)
	if err != nil {
		return nil, fmt.Errorf("parameters: %w", err)
	}

	clock := testutil.NewDeterministicClock()
	reg := root.New(root.WithLogger(logger))
	reg.SetSystemListSize(scenario.Capacity)

	return &Harness{
		store:    st,
		registry: reg,
		clock:    clock,
		events: eventrepo.New(st,
			eventrepo.WithClock(clock),
			eventrepo.WithIDGenerator(testutil.NewSequentialIDGenerator("evt")),
			eventrepo.WithLogger(logger),
		),
		tracer:  tracer.NewStoreTracer(st, clock, logger),
		pool:    pool,
		params:  params,
		objects: make(map[string]root.Configurable),
	}, nil
}

// executeStep runs one step, turning an expected precondition panic into
// a recorded event.
func (h *Harness) executeStep(ctx context.Context, i int, step Step, result *Result) (err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			if step.ExpectPanic != "" {
				result.AddError(fmt.Sprintf("step %d: expected precondition violation in %s, step succeeded", i, step.ExpectPanic))
			}
			return
		}
		var pe *root.PreconditionError
		recErr, ok := rec.(error)
		if !ok || !errors.As(recErr, &pe) {
			panic(rec)
		}
		result.addStep(i, StepPrecondition, "", map[string]any{"op": pe.Op})
		if pe.Op != step.ExpectPanic {
			result.AddError(fmt.Sprintf("step %d: unexpected precondition violation: %v", i, pe))
		}
	}()

	switch {
	case step.Create != nil:
		h.create(i, step.Create, result)
	case step.SetService != "":
		h.setService(step.SetService)
		result.addStep(i, StepSetService, "", map[string]any{"service": step.SetService})
	case step.SetClassID != nil:
		obj, ok := h.objects[step.SetClassID.Object]
		if !ok {
			result.AddError(fmt.Sprintf("step %d: object %s was never constructed", i, step.SetClassID.Object))
			return nil
		}
		obj.(classSetter).SetClassID(root.ClassID(step.SetClassID.ClassID))
		result.addStep(i, StepSetClassID, step.SetClassID.Object, map[string]any{"class_id": step.SetClassID.ClassID})
	case step.CheckObject != nil:
		obj, ok := h.objects[step.CheckObject.Object]
		if !ok {
			result.AddError(fmt.Sprintf("step %d: object %s was never constructed", i, step.CheckObject.Object))
			return nil
		}
		got := obj.IsObjectConfigured()
		result.addStep(i, StepCheckObject, step.CheckObject.Object, map[string]any{"configured": got})
		if got != step.CheckObject.Expect {
			result.AddError(fmt.Sprintf("step %d: check_object %s: expected %t, got %t", i, step.CheckObject.Object, step.CheckObject.Expect, got))
		}
	case step.CheckSystem != nil:
		got := h.registry.IsSystemConfigured()
		result.addStep(i, StepCheckSystem, "", map[string]any{"configured": got})
		if got != step.CheckSystem.Expect {
			result.AddError(fmt.Sprintf("step %d: check_system: expected %t, got %t", i, step.CheckSystem.Expect, got))
		}
	case step.Cycle > 0:
		return h.runCycles(ctx, i, step.Cycle, result)
	}
	return nil
}

type classSetter interface {
	SetClassID(root.ClassID)
}

func (h *Harness) create(i int, c *CreateStep, result *Result) {
	var obj root.Configurable
	switch c.Kind {
	case KindMonitor:
		m := component.NewDataMonitor(h.registry, component.MonitorConfig{
			Item:  root.DataPoolID(c.Item),
			Lower: c.Lower,
			Upper: c.Upper,
			Event: root.EventType(c.Event),
		})
		h.monitors = append(h.monitors, m)
		obj = m
	case KindSampler:
		s := component.NewSampler(h.registry, component.SamplerConfig{
			Parameter: root.ParameterID(c.Parameter),
			Item:      root.DataPoolID(c.Item),
			Period:    c.Period,
		})
		h.samplers = append(h.samplers, s)
		obj = s
	}
	h.objects[c.Name] = obj

	_, registered := h.registry.Lookup(obj.InstanceID())
	result.addStep(i, StepCreate, c.Name, map[string]any{
		"instance_id": int(obj.InstanceID()),
		"class_id":    int(obj.ClassID()),
		"registered":  registered,
	})
}

func (h *Harness) setService(name string) {
	all := name == ServiceAll
	if all || name == ServiceEventRepository {
		h.registry.SetEventRepository(h.events)
	}
	if all || name == ServiceTracer {
		h.registry.SetTracer(h.tracer)
	}
	if all || name == ServiceDataPool {
		h.registry.SetDataPool(h.pool)
	}
	if all || name == ServiceParameterDatabase {
		h.registry.SetParameterDatabase(h.params)
	}
}

// runCycles seals the registry on first use, then runs n cycles of
// samplers followed by monitors. Objects outside the system list never
// run.
func (h *Harness) runCycles(ctx context.Context, i, n int, result *Result) error {
	if !h.registry.Sealed() {
		if !h.registry.IsSystemConfigured() {
			result.AddError(fmt.Sprintf("step %d: cycle: system not configured", i))
			return nil
		}
		h.registry.Seal()
	}

	for iter := 0; iter < n; iter++ {
		h.cycle++
		samples, violations := 0, 0
		for _, s := range h.samplers {
			if !s.Registered() {
				continue
			}
			sampled, err := s.Activate(ctx, h.cycle)
			if err != nil {
				return err
			}
			if sampled {
				samples++
			}
		}
		for _, m := range h.monitors {
			if !m.Registered() {
				continue
			}
			violated, err := m.Check(ctx)
			if err != nil {
				return err
			}
			if violated {
				violations++
			}
		}
		result.addStep(i, StepCycle, "", map[string]any{
			"cycle":      h.cycle,
			"samples":    samples,
			"violations": violations,
		})
	}
	return nil
}
