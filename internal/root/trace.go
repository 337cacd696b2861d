package root

// SynchTrace forwards a synchronization trace to the tracer.
// Panics if the tracer is unset.
func (r *Registry) SynchTrace(id TraceItem) {
	r.Tracer().SendSynchTrace(id)
}

// PacketTrace forwards a packet trace to the tracer.
// Panics if the tracer is unset or items is nil.
func (r *Registry) PacketTrace(items []TraceItem) {
	t := r.Tracer()
	if items == nil {
		fatal("PacketTrace", "nil trace data")
	}
	t.SendPacketTrace(items)
}

// SynchTrace forwards a synchronization trace to the shared tracer.
func (o *Object) SynchTrace(id TraceItem) {
	o.check("SynchTrace")
	o.registry.SynchTrace(id)
}

// PacketTrace forwards a packet trace to the shared tracer.
func (o *Object) PacketTrace(items []TraceItem) {
	o.check("PacketTrace")
	o.registry.PacketTrace(items)
}
