package root

// Configurable is implemented by every framework object. The unexported
// method restricts implementations to types that embed Object.
type Configurable interface {
	// IsObjectConfigured reports whether the object is ready for the
	// operational phase. Overrides must chain to the embedded Object.
	IsObjectConfigured() bool

	InstanceID() InstanceID
	ClassID() ClassID

	rootObject() *Object
}

// noCopy may be embedded into structs which must not be copied after first
// use. See sync.noCopy; `go vet` copylocks reports copies.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Object is the base embedded by every framework object.
//
// An Object is bound to its registry by Registry.Register and lives for the
// rest of the process. It must not be copied: the registry holds its
// address, and a copy would duplicate an instance id. Methods called on a
// copy panic.
type Object struct {
	_ noCopy

	addr       *Object // self-pointer to detect copies
	registry   *Registry
	instanceID InstanceID
	classID    ClassID
	registered bool
}

func (o *Object) rootObject() *Object {
	return o
}

// check panics unless o is the registered original.
func (o *Object) check(op string) {
	if o.addr == nil {
		fatal(op, "object used before Registry.Register")
	}
	if o.addr != o {
		fatal(op, "illegal copy of instance %d", o.addr.instanceID)
	}
}

// IsObjectConfigured is the base readiness check: true iff the event
// repository, tracer, parameter database and data pool are all set.
func (o *Object) IsObjectConfigured() bool {
	o.check("IsObjectConfigured")
	return o.registry.servicesConfigured()
}

// InstanceID returns the id assigned at registration.
func (o *Object) InstanceID() InstanceID {
	o.check("InstanceID")
	return o.instanceID
}

// ClassID returns the class id, or ClassIDIllegal if it was never set.
func (o *Object) ClassID() ClassID {
	o.check("ClassID")
	return o.classID
}

// SetClassID sets the class id. By convention it is called once, during
// configuration.
func (o *Object) SetClassID(id ClassID) {
	o.check("SetClassID")
	o.registry.mutating("SetClassID")
	o.classID = id
}

// Registered reports whether the object is in the system list. False means
// it was constructed after the list was full.
func (o *Object) Registered() bool {
	o.check("Registered")
	return o.registered
}

// Registry returns the registry the object belongs to.
func (o *Object) Registry() *Registry {
	o.check("Registry")
	return o.registry
}
