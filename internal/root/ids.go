package root

// InstanceID identifies a framework object for the lifetime of the process.
// Ids reflect creation order.
type InstanceID int

// ClassID tags the concrete type of a framework object.
type ClassID int

// TraceItem is one element of a trace submission. Its meaning belongs to
// the tracer.
type TraceItem int

// EventType identifies the kind of event handed to the event repository.
type EventType int

// DataPoolID indexes an item in the data pool.
type DataPoolID int

// ParameterID indexes a parameter in the parameter database.
type ParameterID int

// FirstInstanceID is the id given to the first registered object.
const FirstInstanceID InstanceID = 0

const (
	// ClassIDIllegal marks an object whose class id has not been set.
	ClassIDIllegal ClassID = 0

	// ClassIDRootObject is the class id of a bare Object.
	ClassIDRootObject ClassID = 1
)

// allocator hands out instance ids in strictly increasing order.
// Ids are never reused, including ids of objects that overflowed the
// system list.
type allocator struct {
	next InstanceID
}

func newAllocator() allocator {
	return allocator{next: FirstInstanceID}
}

// Next returns the next id and advances the allocator.
func (a *allocator) Next() InstanceID {
	id := a.next
	a.next++
	return id
}

// Issued returns how many ids have been handed out.
func (a *allocator) Issued() int {
	return int(a.next - FirstInstanceID)
}
