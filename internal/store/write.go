package store

import (
	"context"
	"fmt"

	"github.com/roach88/obsw/internal/canonical"
	"github.com/roach88/obsw/internal/root"
)

// WriteEvent inserts an event record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are
// silently ignored. A duplicate seq is an error.
func (s *Store) WriteEvent(ctx context.Context, ev Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events
		(id, seq, originator, class_id, event_type)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		ev.ID,
		ev.Seq,
		int64(ev.Originator),
		int64(ev.ClassID),
		int64(ev.Type),
	)
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

// WriteTrace inserts a trace record. Packet items are stored as canonical
// JSON.
func (s *Store) WriteTrace(ctx context.Context, tr Trace) error {
	if tr.Kind != TraceSynch && tr.Kind != TracePacket {
		return fmt.Errorf("write trace: unknown kind %q", tr.Kind)
	}

	items, err := marshalItems(tr.Items)
	if err != nil {
		return fmt.Errorf("write trace: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO traces
		(seq, kind, trace_id, items)
		VALUES (?, ?, ?, ?)
	`,
		tr.Seq,
		string(tr.Kind),
		int64(tr.TraceID),
		items,
	)
	if err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	return nil
}

func marshalItems(items []root.TraceItem) (string, error) {
	ints := make([]int, len(items))
	for i, it := range items {
		ints[i] = int(it)
	}
	data, err := canonical.Marshal(ints)
	if err != nil {
		return "", fmt.Errorf("marshal items: %w", err)
	}
	return string(data), nil
}
