// Package root implements the root-of-hierarchy object pattern for obsw
// framework objects.
//
// Every framework object embeds an Object and registers itself in a
// Registry as the first step of its constructor. The registry assigns an
// immutable instance id, stores the object in a fixed-capacity system list,
// and holds the four plug-in services (event repository, tracer, data pool,
// parameter database) shared by every registered object.
//
// # Two-Phase Lifecycle
//
// Initialization phase (single goroutine):
//  1. Registry.SetSystemListSize sets the capacity exactly once.
//  2. Framework objects are constructed; each calls Registry.Register.
//  3. The four services are set.
//  4. Class ids are assigned with Object.SetClassID.
//  5. The start-up driver calls Registry.IsSystemConfigured (or Verify).
//  6. Registry.Seal ends the phase.
//
// Operational phase: read-only registry and service access, plus trace
// delegation through SynchTrace and PacketTrace. Any mutation after Seal
// is a precondition violation.
//
// The registry performs no locking. All mutation belongs to the
// initializing goroutine; reads are safe to share once the registry is
// sealed.
//
// # Readiness Composition
//
// Object.IsObjectConfigured is the base contribution to readiness. A
// derived type that overrides it MUST call the embedded check first and
// return false if it fails:
//
//	func (m *Monitor) IsObjectConfigured() bool {
//		if !m.Object.IsObjectConfigured() {
//			return false
//		}
//		return m.lower < m.upper
//	}
//
// Go does not enforce this; skipping the base call silently weakens the
// system-wide gate.
//
// # Failure Model
//
// Precondition violations (capacity unset at construction, capacity set
// twice, nil or unset services, copied objects, mutation after Seal) panic
// with a *PreconditionError. Registry overflow is not fatal: the object is
// constructed and keeps its id, but it is left out of the system list and
// therefore out of IsSystemConfigured. Overflow is reported through
// Registry.Overflow, Object.Registered, a warning log and Verify.
package root
