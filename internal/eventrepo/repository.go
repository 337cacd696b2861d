// Package eventrepo provides the store-backed event repository plug-in.
//
// Each Create appends one record to the store, stamped with the next seq
// of a logical clock and a unique id. The originator's instance and class
// ids are copied into the record so the log stays readable without the
// registry, which is never persisted.
package eventrepo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/obsw/internal/clock"
	"github.com/roach88/obsw/internal/root"
	"github.com/roach88/obsw/internal/store"
)

// Repository implements root.EventRepository on top of a Store.
type Repository struct {
	store  *store.Store
	clock  clock.Sequencer
	ids    IDGenerator
	logger *slog.Logger
}

var _ root.EventRepository = (*Repository)(nil)

// Option configures a Repository.
type Option func(*Repository)

// WithClock sets the seq source. Share one clock with the store tracer to
// order events and traces in a single sequence.
func WithClock(c clock.Sequencer) Option {
	return func(r *Repository) { r.clock = c }
}

// WithIDGenerator overrides the default UUIDv7 generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(r *Repository) { r.ids = g }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) { r.logger = logger }
}

// New creates a repository writing to st.
func New(st *store.Store, opts ...Option) *Repository {
	r := &Repository{
		store:  st,
		clock:  clock.New(),
		ids:    UUIDv7Generator{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create records an event raised by originator.
func (r *Repository) Create(ctx context.Context, originator root.Configurable, kind root.EventType) error {
	ev := store.Event{
		ID:         r.ids.Generate(),
		Seq:        r.clock.Next(),
		Originator: originator.InstanceID(),
		ClassID:    originator.ClassID(),
		Type:       kind,
	}
	if err := r.store.WriteEvent(ctx, ev); err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	r.logger.Debug("event created",
		"id", ev.ID,
		"seq", ev.Seq,
		"originator", int(ev.Originator),
		"event_type", int(ev.Type),
	)
	return nil
}

// List returns all stored events in seq order.
func (r *Repository) List(ctx context.Context) ([]store.Event, error) {
	return r.store.ReadEvents(ctx)
}
