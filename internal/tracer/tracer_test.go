package tracer

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/obsw/internal/root"
	"github.com/roach88/obsw/internal/store"
	"github.com/roach88/obsw/internal/testutil"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "traces.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSlogTracer(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tr := NewSlogTracer(logger, slog.LevelInfo)

	tr.SendSynchTrace(7)
	tr.SendPacketTrace([]root.TraceItem{3, 42})

	out := buf.String()
	assert.Contains(t, out, "msg=\"synch trace\" trace_id=7")
	assert.Contains(t, out, "msg=\"packet trace\" items=\"[3 42]\"")
}

func TestSlogTracer_BelowLevelDiscarded(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	tr := NewSlogTracer(logger, slog.LevelDebug)

	tr.SendSynchTrace(1)
	assert.Empty(t, buf.String())
}

func TestStoreTracer_WritesInSeqOrder(t *testing.T) {
	st := openStore(t)
	tr := NewStoreTracer(st, testutil.NewDeterministicClock(), nil)

	tr.SendSynchTrace(5)
	tr.SendPacketTrace([]root.TraceItem{2, 9})
	tr.SendPacketTrace([]root.TraceItem{})

	traces, err := st.ReadTraces(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []store.Trace{
		{Seq: 1, Kind: store.TraceSynch, TraceID: 5, Items: []root.TraceItem{}},
		{Seq: 2, Kind: store.TracePacket, TraceID: 2, Items: []root.TraceItem{2, 9}},
		{Seq: 3, Kind: store.TracePacket, TraceID: 0, Items: []root.TraceItem{}},
	}, traces)
	assert.Zero(t, tr.Failures())
}

func TestStoreTracer_FailureLoggedAndCounted(t *testing.T) {
	st := openStore(t)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	tr := NewStoreTracer(st, testutil.NewDeterministicClock(), logger)
	require.NoError(t, st.Close())

	tr.SendSynchTrace(1)

	assert.Equal(t, int64(1), tr.Failures())
	assert.Contains(t, buf.String(), "trace write failed")
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()
	items := []root.TraceItem{4, 8}

	rec.SendSynchTrace(3)
	rec.SendPacketTrace(items)
	items[0] = 99

	assert.Equal(t, []Record{
		{Kind: store.TraceSynch, ID: 3},
		{Kind: store.TracePacket, ID: 4, Items: []root.TraceItem{4, 8}},
	}, rec.Records())
	assert.Equal(t, 2, rec.Len())

	rec.Reset()
	assert.Zero(t, rec.Len())
}

func TestMulti_FansOutSkippingNil(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	m := NewMulti(a, nil, b)

	m.SendSynchTrace(1)
	m.SendPacketTrace([]root.TraceItem{1, 2})

	assert.Equal(t, a.Records(), b.Records())
	assert.Equal(t, 2, a.Len())
}

func TestTracers_ThroughRegistry(t *testing.T) {
	rec := NewRecorder()
	reg := root.New(root.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	reg.SetSystemListSize(1)
	reg.SetTracer(rec)

	reg.SynchTrace(12)
	reg.PacketTrace([]root.TraceItem{0, 1})

	require.Equal(t, 2, rec.Len())
	assert.Equal(t, store.TracePacket, rec.Records()[1].Kind)
}
