package tracer

import (
	"slices"
	"sync"

	"github.com/roach88/obsw/internal/root"
	"github.com/roach88/obsw/internal/store"
)

// Record is one trace captured by a Recorder.
type Record struct {
	Kind  store.TraceKind
	ID    root.TraceItem
	Items []root.TraceItem
}

// Recorder keeps traces in memory. Used by the harness and tests.
type Recorder struct {
	mu      sync.Mutex
	records []Record
}

var _ root.Tracer = (*Recorder)(nil)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) SendSynchTrace(id root.TraceItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, Record{Kind: store.TraceSynch, ID: id})
}

func (r *Recorder) SendPacketTrace(items []root.TraceItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var head root.TraceItem
	if len(items) > 0 {
		head = items[0]
	}
	r.records = append(r.records, Record{
		Kind:  store.TracePacket,
		ID:    head,
		Items: slices.Clone(items),
	})
}

// Records returns a copy of the captured traces in submission order.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.records)
}

// Len returns the number of captured traces.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Reset discards all captured traces.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
}
