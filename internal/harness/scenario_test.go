package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "seal_blocks_mutation.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "seal_blocks_mutation", s.Name)
	assert.Equal(t, 1, s.Capacity)
	require.Len(t, s.Steps, 6)
	assert.Equal(t, KindMonitor, s.Steps[0].Create.Kind)
	assert.Equal(t, ServiceAll, s.Steps[1].SetService)
	assert.Equal(t, 1, s.Steps[2].Cycle)
	assert.Equal(t, "SetClassID", s.Steps[3].ExpectPanic)
	assert.Equal(t, 40, s.Steps[3].SetClassID.ClassID)
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: typo
description: misspelled assertions key
capacity: 1
steps:
  - check_system: {expect: false}
assertion:
  - {type: event_count, count: 0}
`), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Invalid(t *testing.T) {
	const header = "name: bad\ndescription: invalid\n"
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing name",
			yaml: "description: x\ncapacity: 1\nsteps: [{cycle: 1}]\nassertions: [{type: event_count}]\n",
			want: "name is required",
		},
		{
			name: "zero capacity",
			yaml: header + "capacity: 0\nsteps: [{cycle: 1}]\nassertions: [{type: event_count}]\n",
			want: "capacity must be positive",
		},
		{
			name: "no steps",
			yaml: header + "capacity: 1\nassertions: [{type: event_count}]\n",
			want: "steps list is required",
		},
		{
			name: "two actions in one step",
			yaml: header + "capacity: 1\nsteps: [{cycle: 1, set_service: all}]\nassertions: [{type: event_count}]\n",
			want: "exactly one action is required, got 2",
		},
		{
			name: "unknown kind",
			yaml: header + "capacity: 1\nsteps: [{create: {name: x, kind: heater}}]\nassertions: [{type: event_count}]\n",
			want: `unknown kind "heater"`,
		},
		{
			name: "duplicate name",
			yaml: header + "capacity: 1\nsteps: [{create: {name: x, kind: monitor}}, {create: {name: x, kind: monitor}}]\nassertions: [{type: event_count}]\n",
			want: `duplicate name "x"`,
		},
		{
			name: "unknown object",
			yaml: header + "capacity: 1\nsteps: [{check_object: {object: ghost, expect: true}}]\nassertions: [{type: event_count}]\n",
			want: `unknown object "ghost"`,
		},
		{
			name: "unknown service",
			yaml: header + "capacity: 1\nsteps: [{set_service: clock}]\nassertions: [{type: event_count}]\n",
			want: `unknown service "clock"`,
		},
		{
			name: "system_configured without expect",
			yaml: header + "capacity: 1\nsteps: [{cycle: 1}]\nassertions: [{type: system_configured}]\n",
			want: "expect is required for system_configured",
		},
		{
			name: "unknown trace kind",
			yaml: header + "capacity: 1\nsteps: [{cycle: 1}]\nassertions: [{type: trace_count, kind: async}]\n",
			want: `unknown trace kind "async"`,
		},
		{
			name: "unknown assertion",
			yaml: header + "capacity: 1\nsteps: [{cycle: 1}]\nassertions: [{type: final_state}]\n",
			want: `unknown assertion type "final_state"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
