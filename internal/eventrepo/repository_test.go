package eventrepo

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/obsw/internal/root"
	"github.com/roach88/obsw/internal/store"
	"github.com/roach88/obsw/internal/testutil"
)

type originator struct {
	root.Object
}

func setup(t *testing.T) (*store.Store, *root.Registry) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	reg := root.New(root.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	reg.SetSystemListSize(2)
	return st, reg
}

func newOriginator(reg *root.Registry, class root.ClassID) *originator {
	o := &originator{}
	reg.Register(&o.Object, o)
	o.SetClassID(class)
	return o
}

func TestCreate_WritesEvent(t *testing.T) {
	st, reg := setup(t)
	a := newOriginator(reg, 11)
	b := newOriginator(reg, 12)

	repo := New(st,
		WithClock(testutil.NewDeterministicClock()),
		WithIDGenerator(testutil.NewSequentialIDGenerator("evt")),
	)

	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, a, 3))
	require.NoError(t, repo.Create(ctx, b, 4))

	events, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []store.Event{
		{ID: "evt-0001", Seq: 1, Originator: 0, ClassID: 11, Type: 3},
		{ID: "evt-0002", Seq: 2, Originator: 1, ClassID: 12, Type: 4},
	}, events)
}

func TestCreate_DefaultGeneratorIsUUIDv7(t *testing.T) {
	st, reg := setup(t)
	a := newOriginator(reg, 11)
	repo := New(st)

	require.NoError(t, repo.Create(context.Background(), a, 1))

	events, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)

	id, err := uuid.Parse(events[0].ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestCreate_StoreErrorWrapped(t *testing.T) {
	st, reg := setup(t)
	a := newOriginator(reg, 11)
	repo := New(st, WithClock(testutil.NewDeterministicClock()))
	require.NoError(t, st.Close())

	err := repo.Create(context.Background(), a, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create event")
}

func TestUUIDv7Generator_Unique(t *testing.T) {
	g := UUIDv7Generator{}
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := g.Generate()
		assert.False(t, seen[id])
		seen[id] = true
	}
}
