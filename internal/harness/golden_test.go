package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/obsw/internal/root"
	"github.com/roach88/obsw/internal/store"
)

func TestMarshalSnapshot_Canonical(t *testing.T) {
	result := NewResult()
	result.addStep(0, StepCreate, "m1", map[string]any{"instance_id": 0, "class_id": 11})
	result.addStep(1, StepCheckSystem, "", map[string]any{"configured": true})
	result.Traces = []store.Trace{{Seq: 1, Kind: store.TraceSynch, TraceID: 0, Items: []root.TraceItem{}}}
	result.Events = []store.Event{{ID: "evt-0001", Seq: 2, Originator: 0, ClassID: 11, Type: 3}}

	data, err := MarshalSnapshot("tiny", result)
	require.NoError(t, err)

	want := `{"events":[{"class_id":11,"event_type":3,"id":"evt-0001","originator":0,"seq":2}],` +
		`"scenario_name":"tiny",` +
		`"steps":[{"fields":{"class_id":11,"instance_id":0},"object":"m1","step":0,"type":"create"},` +
		`{"fields":{"configured":true},"step":1,"type":"check_system"}],` +
		`"traces":[{"items":[],"kind":"synch","seq":1,"trace_id":0}]}`
	assert.Equal(t, want, string(data))
}

func TestMarshalSnapshot_EmptyResult(t *testing.T) {
	data, err := MarshalSnapshot("empty", NewResult())
	require.NoError(t, err)
	assert.Equal(t, `{"events":[],"scenario_name":"empty","steps":[],"traces":[]}`, string(data))
}
