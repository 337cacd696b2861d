package root

import "context"

// EventRepository records events raised by framework objects.
type EventRepository interface {
	Create(ctx context.Context, originator Configurable, kind EventType) error
}

// Tracer accepts the two kinds of trace submission. Payload semantics
// belong to the tracer.
type Tracer interface {
	SendSynchTrace(id TraceItem)
	SendPacketTrace(items []TraceItem)
}

// DataPool holds the values exchanged between framework objects.
type DataPool interface {
	Value(id DataPoolID) (float64, error)
	SetValue(id DataPoolID, value float64) error
	Size() int
}

// ParameterDatabase holds configuration parameters.
type ParameterDatabase interface {
	Parameter(id ParameterID) (float64, error)
	Size() int
}

// SetEventRepository sets the shared event repository. Repeated calls
// overwrite. Panics on nil.
func (r *Registry) SetEventRepository(repo EventRepository) {
	r.mutating("SetEventRepository")
	if repo == nil {
		fatal("SetEventRepository", "nil event repository")
	}
	r.eventRepository = repo
}

// EventRepository returns the shared event repository. Panics if unset.
func (r *Registry) EventRepository() EventRepository {
	if r.eventRepository == nil {
		fatal("EventRepository", "event repository not set")
	}
	return r.eventRepository
}

// SetTracer sets the shared tracer. Repeated calls overwrite. Panics on nil.
func (r *Registry) SetTracer(t Tracer) {
	r.mutating("SetTracer")
	if t == nil {
		fatal("SetTracer", "nil tracer")
	}
	r.tracer = t
}

// Tracer returns the shared tracer. Panics if unset.
func (r *Registry) Tracer() Tracer {
	if r.tracer == nil {
		fatal("Tracer", "tracer not set")
	}
	return r.tracer
}

// SetDataPool sets the shared data pool. Repeated calls overwrite. Panics
// on nil.
func (r *Registry) SetDataPool(pool DataPool) {
	r.mutating("SetDataPool")
	if pool == nil {
		fatal("SetDataPool", "nil data pool")
	}
	r.dataPool = pool
}

// DataPool returns the shared data pool. Panics if unset.
func (r *Registry) DataPool() DataPool {
	if r.dataPool == nil {
		fatal("DataPool", "data pool not set")
	}
	return r.dataPool
}

// SetParameterDatabase sets the shared parameter database. Repeated calls
// overwrite. Panics on nil.
func (r *Registry) SetParameterDatabase(db ParameterDatabase) {
	r.mutating("SetParameterDatabase")
	if db == nil {
		fatal("SetParameterDatabase", "nil parameter database")
	}
	r.parameterDatabase = db
}

// ParameterDatabase returns the shared parameter database. Panics if unset.
func (r *Registry) ParameterDatabase() ParameterDatabase {
	if r.parameterDatabase == nil {
		fatal("ParameterDatabase", "parameter database not set")
	}
	return r.parameterDatabase
}

// servicesConfigured reports whether all four services are set.
func (r *Registry) servicesConfigured() bool {
	return r.eventRepository != nil &&
		r.tracer != nil &&
		r.parameterDatabase != nil &&
		r.dataPool != nil
}

// EventRepository returns the event repository shared by all objects.
func (o *Object) EventRepository() EventRepository {
	o.check("EventRepository")
	return o.registry.EventRepository()
}

// Tracer returns the tracer shared by all objects.
func (o *Object) Tracer() Tracer {
	o.check("Tracer")
	return o.registry.Tracer()
}

// DataPool returns the data pool shared by all objects.
func (o *Object) DataPool() DataPool {
	o.check("DataPool")
	return o.registry.DataPool()
}

// ParameterDatabase returns the parameter database shared by all objects.
func (o *Object) ParameterDatabase() ParameterDatabase {
	o.check("ParameterDatabase")
	return o.registry.ParameterDatabase()
}
