package tracer

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/roach88/obsw/internal/clock"
	"github.com/roach88/obsw/internal/root"
	"github.com/roach88/obsw/internal/store"
)

// StoreTracer appends traces to the store's traces table.
//
// Synch traces are stored with their id in trace_id and no items. Packet
// traces are stored with trace_id set to the first item (0 when empty) and
// the full item list.
type StoreTracer struct {
	store    *store.Store
	clock    clock.Sequencer
	logger   *slog.Logger
	failures atomic.Int64
}

var _ root.Tracer = (*StoreTracer)(nil)

// NewStoreTracer creates a tracer writing to st. A nil logger uses
// slog.Default().
func NewStoreTracer(st *store.Store, seq clock.Sequencer, logger *slog.Logger) *StoreTracer {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoreTracer{store: st, clock: seq, logger: logger}
}

func (t *StoreTracer) SendSynchTrace(id root.TraceItem) {
	t.write(store.Trace{
		Seq:     t.clock.Next(),
		Kind:    store.TraceSynch,
		TraceID: id,
		Items:   []root.TraceItem{},
	})
}

func (t *StoreTracer) SendPacketTrace(items []root.TraceItem) {
	var head root.TraceItem
	if len(items) > 0 {
		head = items[0]
	}
	t.write(store.Trace{
		Seq:     t.clock.Next(),
		Kind:    store.TracePacket,
		TraceID: head,
		Items:   items,
	})
}

// Failures returns the number of traces that could not be written.
func (t *StoreTracer) Failures() int64 {
	return t.failures.Load()
}

func (t *StoreTracer) write(tr store.Trace) {
	if err := t.store.WriteTrace(context.Background(), tr); err != nil {
		t.failures.Add(1)
		t.logger.Error("trace write failed",
			"kind", string(tr.Kind),
			"seq", tr.Seq,
			"error", err,
		)
	}
}
