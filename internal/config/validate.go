package config

import (
	"fmt"
	"slices"
)

// Validate checks the semantic rules the schema cannot express. Readiness
// properties (band ordering, sampler period, parameter ids) are left to the
// objects themselves so that a description can describe a system that
// fails its readiness check.
func (s *System) Validate() error {
	if s.Capacity <= 0 {
		return &LoadError{
			Code:    ErrCodeCapacity,
			Field:   "system.capacity",
			Message: fmt.Sprintf("must be positive, got %d", s.Capacity),
		}
	}
	if s.DataPool.Size < 0 {
		return &LoadError{
			Code:    ErrCodeDataPoolSize,
			Field:   "system.datapool.size",
			Message: fmt.Sprintf("must not be negative, got %d", s.DataPool.Size),
		}
	}

	seen := make(map[int]string, len(s.DataPool.Items))
	for _, it := range s.DataPool.Items {
		field := "system.datapool.items." + it.Name + ".id"
		if int(it.ID) < 0 || int(it.ID) >= s.DataPool.Size {
			return &LoadError{
				Code:    ErrCodeItemRange,
				Field:   field,
				Message: fmt.Sprintf("id %d outside data pool of size %d", it.ID, s.DataPool.Size),
			}
		}
		if other, ok := seen[int(it.ID)]; ok {
			return &LoadError{
				Code:    ErrCodeDuplicateItem,
				Field:   field,
				Message: fmt.Sprintf("id %d already used by %s", it.ID, other),
			}
		}
		seen[int(it.ID)] = it.Name
	}

	if err := s.Services.validate(); err != nil {
		return err
	}

	for _, obj := range s.Objects {
		if int(obj.Item) < 0 || int(obj.Item) >= s.DataPool.Size {
			return &LoadError{
				Code:    ErrCodeItemRange,
				Field:   "objects." + obj.Name + ".item",
				Message: fmt.Sprintf("item %d outside data pool of size %d", obj.Item, s.DataPool.Size),
			}
		}
		if obj.Parameter < 0 || obj.Event < 0 {
			return &LoadError{
				Code:    ErrCodeNegativeID,
				Field:   "objects." + obj.Name,
				Message: "parameter and event ids must not be negative",
			}
		}
	}
	return nil
}

func (s Services) validate() error {
	checks := []struct {
		field   string
		mode    ServiceMode
		allowed []ServiceMode
	}{
		{"tracer", s.Tracer, []ServiceMode{ModeStore, ModeSlog, ModeNone}},
		{"event_repository", s.EventRepository, []ServiceMode{ModeStore, ModeNone}},
		{"data_pool", s.DataPool, []ServiceMode{ModeMemory, ModeNone}},
		{"parameter_database", s.ParameterDatabase, []ServiceMode{ModeFile, ModeNone}},
	}
	for _, c := range checks {
		if !slices.Contains(c.allowed, c.mode) {
			return &LoadError{
				Code:    ErrCodeInvalidService,
				Field:   "system.services." + c.field,
				Message: fmt.Sprintf("unknown mode %q", c.mode),
			}
		}
	}
	return nil
}

func sortItems(items []Item) {
	slices.SortFunc(items, func(a, b Item) int { return int(a.ID) - int(b.ID) })
}
