package tracer

import "github.com/roach88/obsw/internal/root"

// Multi fans out traces to several tracers.
type Multi struct {
	tracers []root.Tracer
}

var _ root.Tracer = (*Multi)(nil)

// NewMulti creates a Multi forwarding to all non-nil tracers.
func NewMulti(tracers ...root.Tracer) *Multi {
	filtered := make([]root.Tracer, 0, len(tracers))
	for _, t := range tracers {
		if t != nil {
			filtered = append(filtered, t)
		}
	}
	return &Multi{tracers: filtered}
}

func (m *Multi) SendSynchTrace(id root.TraceItem) {
	for _, t := range m.tracers {
		t.SendSynchTrace(id)
	}
}

func (m *Multi) SendPacketTrace(items []root.TraceItem) {
	for _, t := range m.tracers {
		t.SendPacketTrace(items)
	}
}
