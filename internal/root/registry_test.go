package root

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_AssignsIncreasingIDs(t *testing.T) {
	r := newTestRegistry(t, 5)

	var got []InstanceID
	for i := 0; i < 5; i++ {
		p := newProbe(r, true)
		got = append(got, p.InstanceID())
		assert.True(t, p.Registered())
	}

	want := []InstanceID{0, 1, 2, 3, 4}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("instance ids mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 5, r.Len())
	assert.Equal(t, 5, r.Created())
	assert.Equal(t, 0, r.Overflow())
}

func TestRegister_FirstIDIsBase(t *testing.T) {
	r := newTestRegistry(t, 1)
	p := newProbe(r, true)
	assert.Equal(t, FirstInstanceID, p.InstanceID())
}

func TestRegister_StoresSelfInSlot(t *testing.T) {
	r := newTestRegistry(t, 2)
	a := newProbe(r, true)
	b := newProbe(r, false)

	got, ok := r.Lookup(b.InstanceID())
	require.True(t, ok)
	assert.Same(t, b, got)

	objs := r.Objects()
	require.Len(t, objs, 2)
	assert.Same(t, a, objs[0])
	assert.Same(t, b, objs[1])
}

func TestRegister_ClassIDStartsIllegal(t *testing.T) {
	r := newTestRegistry(t, 1)
	p := newProbe(r, true)
	assert.Equal(t, ClassIDIllegal, p.ClassID())
}

func TestRegister_Overflow(t *testing.T) {
	r := newTestRegistry(t, 2)
	newProbe(r, true)
	newProbe(r, true)

	extra := newProbe(r, false)

	assert.Equal(t, InstanceID(2), extra.InstanceID(), "overflow object still gets an id")
	assert.False(t, extra.Registered())
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 3, r.Created())
	assert.Equal(t, 1, r.Overflow())
	assert.Equal(t, []InstanceID{2}, r.OverflowIDs())

	_, ok := r.Lookup(extra.InstanceID())
	assert.False(t, ok, "overflow object is not in the system list")
}

func TestRegister_OverflowIDsAreNeverReused(t *testing.T) {
	r := newTestRegistry(t, 1)
	newProbe(r, true)
	b := newProbe(r, true)
	c := newProbe(r, true)

	assert.Equal(t, InstanceID(1), b.InstanceID())
	assert.Equal(t, InstanceID(2), c.InstanceID())
	assert.Equal(t, []InstanceID{1, 2}, r.OverflowIDs())
}

func TestRegister_BeforeCapacityPanics(t *testing.T) {
	r := New()
	p := &probe{}
	requirePrecondition(t, "Register", func() {
		r.Register(&p.Object, p)
	})
}

func TestRegister_TwicePanics(t *testing.T) {
	r := newTestRegistry(t, 2)
	p := newProbe(r, true)
	requirePrecondition(t, "Register", func() {
		r.Register(&p.Object, p)
	})
	assert.Equal(t, 1, r.Created())
}

func TestRegister_SelfMustEmbedObject(t *testing.T) {
	r := newTestRegistry(t, 2)
	a := &probe{}
	b := &probe{}
	requirePrecondition(t, "Register", func() {
		r.Register(&a.Object, b)
	})
}

func TestSetSystemListSize(t *testing.T) {
	r := New()
	assert.Equal(t, 0, r.SystemListSize())

	r.SetSystemListSize(4)
	assert.Equal(t, 4, r.SystemListSize())
}

func TestSetSystemListSize_TwicePanics(t *testing.T) {
	r := newTestRegistry(t, 3)
	requirePrecondition(t, "SetSystemListSize", func() {
		r.SetSystemListSize(5)
	})
	assert.Equal(t, 3, r.SystemListSize())
}

func TestSetSystemListSize_NonPositivePanics(t *testing.T) {
	for _, size := range []int{0, -1} {
		r := New()
		requirePrecondition(t, "SetSystemListSize", func() {
			r.SetSystemListSize(size)
		})
	}
}

func TestIsSystemConfigured_Empty(t *testing.T) {
	r := newTestRegistry(t, 3)
	assert.True(t, r.IsSystemConfigured(), "no objects means nothing is unconfigured")
}

func TestIsSystemConfigured_ThreeObjects(t *testing.T) {
	r := newTestRegistry(t, 3)
	a := newProbe(r, true)
	b := newProbe(r, true)
	c := newProbe(r, true)

	assert.Equal(t, []InstanceID{0, 1, 2},
		[]InstanceID{a.InstanceID(), b.InstanceID(), c.InstanceID()})
	assert.False(t, r.IsSystemConfigured(), "services not set yet")

	setAllServices(r)
	assert.True(t, r.IsSystemConfigured())
}

func TestIsSystemConfigured_TracerNeverSet(t *testing.T) {
	r := newTestRegistry(t, 3)
	newProbe(r, true)
	newProbe(r, true)
	newProbe(r, true)

	r.SetEventRepository(&fakeEventRepository{})
	r.SetDataPool(fakeDataPool{})
	r.SetParameterDatabase(fakeParameterDatabase{})

	assert.False(t, r.IsSystemConfigured())
}

func TestIsSystemConfigured_ShortCircuits(t *testing.T) {
	r := newTestRegistry(t, 3)
	a := newCountingProbe(r, true)
	b := newCountingProbe(r, false)
	c := newCountingProbe(r, true)
	setAllServices(r)

	assert.False(t, r.IsSystemConfigured())
	assert.Equal(t, 1, a.checks)
	assert.Equal(t, 1, b.checks)
	assert.Equal(t, 0, c.checks, "scan stops at the first unconfigured object")
}

func TestIsSystemConfigured_DerivedCheckCounts(t *testing.T) {
	r := newTestRegistry(t, 2)
	newProbe(r, true)
	newProbe(r, false)
	setAllServices(r)

	assert.False(t, r.IsSystemConfigured(), "derived check reports not ready")
}

func TestIsSystemConfigured_OverflowEscapesCheck(t *testing.T) {
	r := newTestRegistry(t, 2)
	newProbe(r, true)
	newProbe(r, true)
	unready := newProbe(r, false)
	setAllServices(r)

	assert.False(t, unready.IsObjectConfigured())
	assert.True(t, r.IsSystemConfigured(), "overflow objects are not visited")
	assert.Equal(t, 1, r.Overflow())
}

func TestSkippingBaseCheckWeakensGate(t *testing.T) {
	r := newTestRegistry(t, 2)
	chained := newProbe(r, true)
	broken := &skipsBase{}
	r.Register(&broken.Object, broken)

	// No services are set, so the base check fails.
	assert.False(t, chained.IsObjectConfigured())
	assert.False(t, broken.Object.IsObjectConfigured())

	// The broken override still reports ready: a composition-contract
	// violation the registry cannot detect.
	assert.True(t, broken.IsObjectConfigured())

	// Only the correctly chained object keeps the gate closed.
	assert.False(t, r.IsSystemConfigured())
}

func TestSeal(t *testing.T) {
	r := newTestRegistry(t, 2)
	p := newProbe(r, true)
	setAllServices(r)

	r.Seal()
	r.Seal()
	assert.True(t, r.Sealed())

	requirePrecondition(t, "Register", func() { newProbe(r, true) })
	requirePrecondition(t, "SetTracer", func() { r.SetTracer(&fakeTracer{}) })
	requirePrecondition(t, "SetClassID", func() { p.SetClassID(7) })

	assert.True(t, r.IsSystemConfigured(), "reads remain available after seal")
}
