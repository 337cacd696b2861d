// Package harness runs start-up scenarios against a fresh registry.
//
// A scenario replays the initialization phase step by step (construct
// objects, install services, assign class ids, query readiness) and can
// then run operational cycles. Every step is recorded, together with the
// traces and events the objects produced, so the whole run can be
// compared against a golden snapshot.
//
// # Scenario Format
//
//	name: monitor_violation
//	description: "Out-of-band value raises an event every cycle"
//	capacity: 2
//	datapool:
//	  size: 2
//	  values: { 0: 99.0 }
//	parameters:
//	  - { id: 0, name: setpoint, value: 22.5 }
//	steps:
//	  - create: { name: m1, kind: monitor, item: 0, lower: 0, upper: 50, event: 3 }
//	  - set_service: all
//	  - set_class_id: { object: m1, class_id: 40 }
//	  - check_object: { object: m1, expect: true }
//	  - check_system: { expect: true }
//	  - cycle: 2
//	  - set_class_id: { object: m1, class_id: 41 }
//	    expect_panic: SetClassID
//	assertions:
//	  - { type: system_configured, expect: true }
//	  - { type: overflow_count, count: 0 }
//	  - { type: instance_ids, ids: [0] }
//	  - { type: trace_count, kind: synch, count: 2 }
//	  - { type: event_count, count: 2 }
//
// A cycle step seals the registry the first time it runs, after a
// successful readiness scan. Later mutating steps therefore panic; a step
// with expect_panic asserts that it fails with a precondition violation
// for the named operation.
//
// # Deterministic Testing
//
// Every run uses an in-memory store, a testutil.DeterministicClock and a
// testutil.SequentialIDGenerator, so identical scenarios produce
// byte-identical snapshots.
package harness
