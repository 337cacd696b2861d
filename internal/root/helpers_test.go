package root

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

// probe is a derived framework object that chains to the base check.
type probe struct {
	Object
	ready bool
}

func newProbe(r *Registry, ready bool) *probe {
	p := &probe{}
	r.Register(&p.Object, p)
	p.ready = ready
	return p
}

func (p *probe) IsObjectConfigured() bool {
	if !p.Object.IsObjectConfigured() {
		return false
	}
	return p.ready
}

// countingProbe records how often it was checked.
type countingProbe struct {
	Object
	ready  bool
	checks int
}

func newCountingProbe(r *Registry, ready bool) *countingProbe {
	p := &countingProbe{ready: ready}
	r.Register(&p.Object, p)
	return p
}

func (p *countingProbe) IsObjectConfigured() bool {
	p.checks++
	if !p.Object.IsObjectConfigured() {
		return false
	}
	return p.ready
}

// skipsBase breaks the composition contract: it never consults the base
// check.
type skipsBase struct {
	Object
}

func (s *skipsBase) IsObjectConfigured() bool {
	return true
}

type fakeEventRepository struct {
	events []EventType
}

func (f *fakeEventRepository) Create(_ context.Context, _ Configurable, kind EventType) error {
	f.events = append(f.events, kind)
	return nil
}

type fakeTracer struct {
	synch   []TraceItem
	packets [][]TraceItem
}

func (f *fakeTracer) SendSynchTrace(id TraceItem) {
	f.synch = append(f.synch, id)
}

func (f *fakeTracer) SendPacketTrace(items []TraceItem) {
	f.packets = append(f.packets, items)
}

type fakeDataPool struct{}

func (fakeDataPool) Value(DataPoolID) (float64, error)  { return 0, nil }
func (fakeDataPool) SetValue(DataPoolID, float64) error { return nil }
func (fakeDataPool) Size() int                          { return 1 }

type fakeParameterDatabase struct{}

func (fakeParameterDatabase) Parameter(ParameterID) (float64, error) { return 0, errors.New("none") }
func (fakeParameterDatabase) Size() int                              { return 0 }

// newTestRegistry returns a registry with the given capacity and a silent
// logger.
func newTestRegistry(t *testing.T, capacity int) *Registry {
	t.Helper()
	r := New(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	r.SetSystemListSize(capacity)
	return r
}

// setAllServices installs fakes for the four services and returns the
// tracer.
func setAllServices(r *Registry) *fakeTracer {
	tr := &fakeTracer{}
	r.SetEventRepository(&fakeEventRepository{})
	r.SetTracer(tr)
	r.SetDataPool(fakeDataPool{})
	r.SetParameterDatabase(fakeParameterDatabase{})
	return tr
}

// requirePrecondition asserts that fn panics with a PreconditionError
// raised by op.
func requirePrecondition(t *testing.T, op string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		v := recover()
		require.NotNil(t, v, "expected panic from %s", op)
		pe, ok := v.(*PreconditionError)
		require.True(t, ok, "panic value %T is not *PreconditionError", v)
		require.Equal(t, op, pe.Op)
	}()
	fn()
}
