package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/obsw/internal/root"
)

// ReadEvents returns all events ordered by seq.
// Returns an empty slice (not nil) if there are none.
func (s *Store) ReadEvents(ctx context.Context) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, originator, class_id, event_type
		FROM events
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	return collectEvents(rows)
}

// ReadEventsByOriginator returns the events raised by one object, ordered
// by seq.
func (s *Store) ReadEventsByOriginator(ctx context.Context, originator root.InstanceID) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, originator, class_id, event_type
		FROM events
		WHERE originator = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, int64(originator))
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	return collectEvents(rows)
}

// CountEvents returns the number of stored events.
func (s *Store) CountEvents(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// ReadTraces returns traces ordered by seq. An empty kind returns both
// kinds.
func (s *Store) ReadTraces(ctx context.Context, kind TraceKind) ([]Trace, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if kind == "" {
		rows, err = s.db.QueryContext(ctx, `
			SELECT seq, kind, trace_id, items
			FROM traces
			ORDER BY seq ASC
		`)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT seq, kind, trace_id, items
			FROM traces
			WHERE kind = ?
			ORDER BY seq ASC
		`, string(kind))
	}
	if err != nil {
		return nil, fmt.Errorf("query traces: %w", err)
	}
	defer rows.Close()

	traces := []Trace{}
	for rows.Next() {
		var (
			tr      Trace
			kindStr string
			traceID int64
			items   string
		)
		if err := rows.Scan(&tr.Seq, &kindStr, &traceID, &items); err != nil {
			return nil, fmt.Errorf("scan trace: %w", err)
		}
		tr.Kind = TraceKind(kindStr)
		tr.TraceID = root.TraceItem(traceID)

		var ints []int
		if err := json.Unmarshal([]byte(items), &ints); err != nil {
			return nil, fmt.Errorf("unmarshal trace items (seq=%d): %w", tr.Seq, err)
		}
		tr.Items = make([]root.TraceItem, len(ints))
		for i, n := range ints {
			tr.Items[i] = root.TraceItem(n)
		}
		traces = append(traces, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate traces: %w", err)
	}
	return traces, nil
}

func collectEvents(rows *sql.Rows) ([]Event, error) {
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var (
			ev                        Event
			originator, class, evType int64
		)
		if err := rows.Scan(&ev.ID, &ev.Seq, &originator, &class, &evType); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Originator = root.InstanceID(originator)
		ev.ClassID = root.ClassID(class)
		ev.Type = root.EventType(evType)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
