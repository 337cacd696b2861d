package store

import "github.com/roach88/obsw/internal/root"

// Event is a stored event-repository record.
type Event struct {
	ID         string
	Seq        int64
	Originator root.InstanceID
	ClassID    root.ClassID
	Type       root.EventType
}

// TraceKind distinguishes the two trace submissions.
type TraceKind string

const (
	TraceSynch  TraceKind = "synch"
	TracePacket TraceKind = "packet"
)

// Trace is a stored trace record. TraceID is set for synch traces, Items
// for packet traces.
type Trace struct {
	Seq     int64
	Kind    TraceKind
	TraceID root.TraceItem
	Items   []root.TraceItem
}
