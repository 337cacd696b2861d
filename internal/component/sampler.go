package component

import (
	"context"
	"fmt"

	"github.com/roach88/obsw/internal/root"
)

// SamplerConfig configures a Sampler.
type SamplerConfig struct {
	Parameter root.ParameterID
	Item      root.DataPoolID
	Period    int
}

// Sampler copies a parameter into a data pool item every Period cycles.
type Sampler struct {
	root.Object

	cfg     SamplerConfig
	samples int
}

// NewSampler registers a sampler in reg and assigns the default class id.
func NewSampler(reg *root.Registry, cfg SamplerConfig) *Sampler {
	s := &Sampler{}
	reg.Register(&s.Object, s)
	s.cfg = cfg
	s.SetClassID(ClassIDSampler)
	return s
}

// IsObjectConfigured reports whether the base services are set, the period
// is positive and both the parameter and the item resolve.
func (s *Sampler) IsObjectConfigured() bool {
	if !s.Object.IsObjectConfigured() {
		return false
	}
	if s.cfg.Period <= 0 {
		return false
	}
	if _, err := s.ParameterDatabase().Parameter(s.cfg.Parameter); err != nil {
		return false
	}
	_, err := s.DataPool().Value(s.cfg.Item)
	return err == nil
}

// Config returns the sampler configuration.
func (s *Sampler) Config() SamplerConfig {
	return s.cfg
}

// Activate runs the sampler for cycle. On cycles that are a multiple of
// the period it copies the parameter into the item and emits the packet
// trace [instance id, cycle]. Reports whether a sample was taken.
func (s *Sampler) Activate(_ context.Context, cycle int) (bool, error) {
	if s.cfg.Period <= 0 || cycle%s.cfg.Period != 0 {
		return false, nil
	}

	value, err := s.ParameterDatabase().Parameter(s.cfg.Parameter)
	if err != nil {
		return false, fmt.Errorf("sampler %d: %w", s.InstanceID(), err)
	}
	if err := s.DataPool().SetValue(s.cfg.Item, value); err != nil {
		return false, fmt.Errorf("sampler %d: %w", s.InstanceID(), err)
	}

	s.samples++
	s.PacketTrace([]root.TraceItem{
		root.TraceItem(s.InstanceID()),
		root.TraceItem(cycle),
	})
	return true, nil
}

// Samples returns the number of samples taken so far.
func (s *Sampler) Samples() int {
	return s.samples
}
