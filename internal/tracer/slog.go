package tracer

import (
	"context"
	"log/slog"

	"github.com/roach88/obsw/internal/root"
)

// SlogTracer writes every trace as a structured log record.
type SlogTracer struct {
	logger *slog.Logger
	level  slog.Level
}

var _ root.Tracer = (*SlogTracer)(nil)

// NewSlogTracer creates a tracer logging at level. A nil logger uses
// slog.Default().
func NewSlogTracer(logger *slog.Logger, level slog.Level) *SlogTracer {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogTracer{logger: logger, level: level}
}

func (t *SlogTracer) SendSynchTrace(id root.TraceItem) {
	t.logger.Log(context.Background(), t.level, "synch trace", "trace_id", int(id))
}

func (t *SlogTracer) SendPacketTrace(items []root.TraceItem) {
	values := make([]int, len(items))
	for i, item := range items {
		values[i] = int(item)
	}
	t.logger.Log(context.Background(), t.level, "packet trace", "items", values)
}
