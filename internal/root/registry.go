package root

import (
	"log/slog"
)

// Registry is the process-wide context for framework objects: the system
// list, the instance-id allocator and the four plug-in service slots.
//
// A Registry is created once by the start-up driver and passed to every
// framework constructor. It has no locks; see the package documentation
// for the two-phase lifecycle.
//
// INVARIANTS:
//   - capacity is set exactly once, before the first Register
//   - table only grows; slot i holds the object with id FirstInstanceID+i
//   - ids are never reused
type Registry struct {
	capacity int
	table    []Configurable
	inserted int
	ids      allocator
	overflow []InstanceID
	sealed   bool

	eventRepository   EventRepository
	tracer            Tracer
	dataPool          DataPool
	parameterDatabase ParameterDatabase

	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for registration and overflow reports.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates an empty registry. SetSystemListSize must be called before
// any object is registered.
func New(opts ...Option) *Registry {
	r := &Registry{
		ids:    newAllocator(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetSystemListSize sets the capacity of the system list.
//
// Panics if size is not positive, if the capacity was already set, or if
// any object has already been registered.
func (r *Registry) SetSystemListSize(size int) {
	const op = "SetSystemListSize"
	r.mutating(op)
	if size <= 0 {
		fatal(op, "size must be positive, got %d", size)
	}
	if r.table != nil {
		fatal(op, "capacity already set to %d", r.capacity)
	}
	if r.ids.Issued() > 0 {
		fatal(op, "%d object(s) already exist", r.ids.Issued())
	}

	r.capacity = size
	r.table = make([]Configurable, size)
}

// SystemListSize returns the capacity of the system list, or 0 if unset.
func (r *Registry) SystemListSize() int {
	return r.capacity
}

// Register is the base construction path of every framework object. It
// must be the first thing a derived constructor does:
//
//	m := &Monitor{}
//	reg.Register(&m.Object, m)
//
// obj is the Object embedded in self. self is what the readiness scan
// calls, so derived overrides of IsObjectConfigured take effect.
//
// If the system list is full the object still receives an id but is not
// inserted; the overflow is logged and counted.
//
// Panics if the capacity is unset, if obj is already registered, or if
// self does not embed obj.
func (r *Registry) Register(obj *Object, self Configurable) InstanceID {
	const op = "Register"
	r.mutating(op)
	if r.table == nil {
		fatal(op, "system list size not set")
	}
	if obj == nil || self == nil {
		fatal(op, "nil object")
	}
	if obj.addr != nil {
		fatal(op, "object already registered as instance %d", obj.instanceID)
	}
	if self.rootObject() != obj {
		fatal(op, "self does not embed the registered object")
	}

	id := r.ids.Next()
	obj.addr = obj
	obj.registry = r
	obj.instanceID = id
	obj.classID = ClassIDIllegal

	slot := int(id - FirstInstanceID)
	if slot < r.capacity {
		r.table[slot] = self
		r.inserted++
		obj.registered = true
		r.logger.Debug("object registered", "instance_id", int(id), "slot", slot)
		return id
	}

	r.overflow = append(r.overflow, id)
	r.logger.Warn("system list full, object not registered",
		"instance_id", int(id),
		"capacity", r.capacity,
		"overflow", len(r.overflow),
	)
	return id
}

// Len returns the number of objects held in the system list.
func (r *Registry) Len() int {
	return r.inserted
}

// Created returns the number of objects constructed, including overflow.
func (r *Registry) Created() int {
	return r.ids.Issued()
}

// Overflow returns how many objects were constructed after the system list
// was full.
func (r *Registry) Overflow() int {
	return len(r.overflow)
}

// OverflowIDs returns the ids of objects left out of the system list.
func (r *Registry) OverflowIDs() []InstanceID {
	ids := make([]InstanceID, len(r.overflow))
	copy(ids, r.overflow)
	return ids
}

// Lookup returns the registered object with the given id.
// Overflow objects are not found.
func (r *Registry) Lookup(id InstanceID) (Configurable, bool) {
	slot := int(id - FirstInstanceID)
	if slot < 0 || slot >= r.inserted {
		return nil, false
	}
	return r.table[slot], true
}

// Objects returns the registered objects in ascending id order.
func (r *Registry) Objects() []Configurable {
	objs := make([]Configurable, r.inserted)
	copy(objs, r.table[:r.inserted])
	return objs
}

// IsSystemConfigured reports whether every object in the system list is
// configured. The scan runs in ascending id order and stops at the first
// object that is not ready. Overflow objects are not visited.
func (r *Registry) IsSystemConfigured() bool {
	for _, obj := range r.table[:r.inserted] {
		if !obj.IsObjectConfigured() {
			return false
		}
	}
	return true
}

// Seal ends the initialization phase. Afterwards every mutating operation
// panics. Sealing twice is a no-op.
func (r *Registry) Seal() {
	if !r.sealed {
		r.logger.Info("registry sealed",
			"registered", r.inserted,
			"capacity", r.capacity,
			"overflow", len(r.overflow),
		)
	}
	r.sealed = true
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	return r.sealed
}

// mutating panics if the registry has left the initialization phase.
func (r *Registry) mutating(op string) {
	if r.sealed {
		fatal(op, "registry is sealed")
	}
}
