// Package boot drives obsw start-up from a loaded system description.
//
// Start follows the registry lifecycle: set the capacity, construct every
// object in declaration order, install the plug-in services, assign class
// ids, run the readiness scan and seal the registry. A system that fails
// the scan is returned unsealed together with ErrNotConfigured so the
// caller can report where the scan stopped.
package boot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/obsw/internal/clock"
	"github.com/roach88/obsw/internal/component"
	"github.com/roach88/obsw/internal/config"
	"github.com/roach88/obsw/internal/datapool"
	"github.com/roach88/obsw/internal/eventrepo"
	"github.com/roach88/obsw/internal/paramdb"
	"github.com/roach88/obsw/internal/root"
	"github.com/roach88/obsw/internal/store"
	"github.com/roach88/obsw/internal/tracer"
)

// Sentinel errors for the start-up driver.
var (
	ErrNotConfigured = errors.New("system not configured")
	ErrNotStarted    = errors.New("system not started")
)

// Option configures Start.
type Option func(*options)

type options struct {
	logger *slog.Logger
	clock  clock.Sequencer
	ids    eventrepo.IDGenerator
	extra  root.Tracer
}

// WithLogger sets the logger used by the registry and the services.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the seq source shared by the store-backed services.
// By default the clock resumes after the highest seq in the store.
func WithClock(c clock.Sequencer) Option {
	return func(o *options) { o.clock = c }
}

// WithIDGenerator overrides the event id generator.
func WithIDGenerator(g eventrepo.IDGenerator) Option {
	return func(o *options) { o.ids = g }
}

// WithTracer adds a tracer that receives every trace alongside the
// configured one.
func WithTracer(t root.Tracer) Option {
	return func(o *options) { o.extra = t }
}

// System is a started obsw system.
type System struct {
	Config   *config.System
	Registry *root.Registry
	Report   root.Report

	// Store is nil when no service is store-backed.
	Store  *store.Store
	Pool   *datapool.Pool
	Params *paramdb.Database

	monitors []*component.DataMonitor
	samplers []*component.Sampler
	objects  []root.Configurable
	cycle    int
	logger   *slog.Logger
}

// Start builds and verifies the system described by cfg.
//
// On ErrNotConfigured the returned System is non-nil and unsealed; its
// Report says which object failed. Other errors return a nil System. In
// both cases a non-nil System must be closed.
func Start(ctx context.Context, cfg *config.System, opts ...Option) (*System, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	reg := root.New(root.WithLogger(o.logger))
	reg.SetSystemListSize(cfg.Capacity)

	sys := &System{
		Config:   cfg,
		Registry: reg,
		logger:   o.logger,
	}
	sys.construct()

	if err := sys.installServices(ctx, o); err != nil {
		sys.Close()
		return nil, err
	}
	sys.assignClassIDs()

	sys.Report = reg.Verify()
	check := sys.Report.Err
	if cfg.StrictCapacity {
		check = sys.Report.StrictErr
	}
	if err := check(); err != nil {
		return sys, fmt.Errorf("%w: %w", ErrNotConfigured, err)
	}

	reg.Seal()
	if n := reg.Overflow(); n > 0 {
		o.logger.Warn("objects outside the system list will not run",
			"overflow", n,
			"capacity", cfg.Capacity,
		)
	}
	o.logger.Info("system started",
		"objects", reg.Created(),
		"registered", reg.Len(),
	)
	return sys, nil
}

// construct creates the objects in declaration order. Each registers
// itself with the registry.
func (s *System) construct() {
	for _, obj := range s.Config.Objects {
		switch obj.Kind {
		case config.KindMonitor:
			m := component.NewDataMonitor(s.Registry, component.MonitorConfig{
				Item:  obj.Item,
				Lower: obj.Lower,
				Upper: obj.Upper,
				Event: obj.Event,
			})
			s.monitors = append(s.monitors, m)
			s.objects = append(s.objects, m)
		case config.KindSampler:
			sm := component.NewSampler(s.Registry, component.SamplerConfig{
				Parameter: obj.Parameter,
				Item:      obj.Item,
				Period:    obj.Period,
			})
			s.samplers = append(s.samplers, sm)
			s.objects = append(s.objects, sm)
		}
	}
}

// assignClassIDs applies class id overrides from the description.
func (s *System) assignClassIDs() {
	for i, obj := range s.Config.Objects {
		if obj.ClassID == root.ClassIDIllegal {
			continue
		}
		s.objects[i].(classSetter).SetClassID(obj.ClassID)
	}
}

type classSetter interface {
	SetClassID(root.ClassID)
}

func (s *System) installServices(ctx context.Context, o options) error {
	svc := s.Config.Services

	if svc.Tracer == config.ModeStore || svc.EventRepository == config.ModeStore {
		st, err := store.Open(s.Config.Store)
		if err != nil {
			return fmt.Errorf("open store %s: %w", s.Config.Store, err)
		}
		s.Store = st

		if o.clock == nil {
			last, err := st.LastSeq(ctx)
			if err != nil {
				return err
			}
			o.clock = clock.NewAt(last)
		}
	}

	if svc.EventRepository == config.ModeStore {
		repoOpts := []eventrepo.Option{
			eventrepo.WithClock(o.clock),
			eventrepo.WithLogger(o.logger),
		}
		if o.ids != nil {
			repoOpts = append(repoOpts, eventrepo.WithIDGenerator(o.ids))
		}
		s.Registry.SetEventRepository(eventrepo.New(s.Store, repoOpts...))
	}

	var configured root.Tracer
	switch svc.Tracer {
	case config.ModeStore:
		configured = tracer.NewStoreTracer(s.Store, o.clock, o.logger)
	case config.ModeSlog:
		configured = tracer.NewSlogTracer(o.logger, slog.LevelInfo)
	}
	switch {
	case configured != nil && o.extra != nil:
		s.Registry.SetTracer(tracer.NewMulti(configured, o.extra))
	case configured != nil:
		s.Registry.SetTracer(configured)
	}

	if svc.DataPool == config.ModeMemory {
		s.Pool = datapool.New(s.Config.DataPool.Size)
		for _, it := range s.Config.DataPool.Items {
			if err := s.Pool.Define(it.ID, it.Name, it.Value); err != nil {
				return fmt.Errorf("define data pool item %s: %w", it.Name, err)
			}
		}
		s.Registry.SetDataPool(s.Pool)
	}

	if svc.ParameterDatabase == config.ModeFile {
		var err error
		if s.Config.Parameters == "" {
			s.Params, err = paramdb.New(nil)
		} else {
			s.Params, err = paramdb.Load(s.Config.Parameters)
		}
		if err != nil {
			return fmt.Errorf("load parameters: %w", err)
		}
		s.Registry.SetParameterDatabase(s.Params)
	}
	return nil
}

// Objects returns the constructed objects in declaration order, including
// any that overflowed the system list.
func (s *System) Objects() []root.Configurable {
	return s.objects
}

// CycleResult summarizes one operational cycle.
type CycleResult struct {
	Cycle      int `json:"cycle"`
	Samples    int `json:"samples"`
	Violations int `json:"violations"`
}

// Cycle runs one operational cycle: every registered sampler, then every
// registered monitor, each in declaration order. Objects outside the
// system list never run.
func (s *System) Cycle(ctx context.Context) (CycleResult, error) {
	if !s.Registry.Sealed() {
		return CycleResult{}, ErrNotStarted
	}

	s.cycle++
	res := CycleResult{Cycle: s.cycle}
	for _, sm := range s.samplers {
		if !sm.Registered() {
			continue
		}
		sampled, err := sm.Activate(ctx, s.cycle)
		if err != nil {
			return res, fmt.Errorf("cycle %d: %w", s.cycle, err)
		}
		if sampled {
			res.Samples++
		}
	}
	for _, m := range s.monitors {
		if !m.Registered() {
			continue
		}
		violated, err := m.Check(ctx)
		if err != nil {
			return res, fmt.Errorf("cycle %d: %w", s.cycle, err)
		}
		if violated {
			res.Violations++
		}
	}

	s.logger.Debug("cycle complete",
		"cycle", res.Cycle,
		"samples", res.Samples,
		"violations", res.Violations,
	)
	return res, nil
}

// Close releases the store, if any.
func (s *System) Close() error {
	if s.Store == nil {
		return nil
	}
	return s.Store.Close()
}
