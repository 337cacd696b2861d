// Package store provides SQLite-backed durable storage for the events and
// traces produced by obsw framework objects during the operational phase.
//
// The store is an append-only log with two tables:
//   - events: records created through the event repository plug-in
//   - traces: synch and packet trace submissions from the store tracer
//
// The registry itself is never persisted; only what objects emit.
//
// # Ordering
//
// Every record carries a seq from the logical clock (internal/clock).
// All reads are ORDER BY seq ASC, so logs read back in emission order
// regardless of wall time. Events and traces share one seq space when they
// share a clock.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON
//
// Packet trace payloads are stored as canonical JSON (internal/canonical).
package store
