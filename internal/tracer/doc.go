// Package tracer provides implementations of root.Tracer.
//
// A tracer has no error channel back to the object that emitted the trace,
// so implementations that can fail (StoreTracer) log the failure and count
// it instead of returning it.
package tracer
