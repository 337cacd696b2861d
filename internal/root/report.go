package root

// Report is the outcome of Verify.
type Report struct {
	// Configured is the IsSystemConfigured result.
	Configured bool

	// Registered is the number of objects in the system list.
	Registered int

	// Checked is the number of objects visited before the scan stopped.
	Checked int

	// FirstUnconfigured is the first object that reported not ready.
	// Nil when Configured is true.
	FirstUnconfigured Configurable

	// Overflow lists objects constructed after the system list was full.
	// They were not checked.
	Overflow []InstanceID
}

// Verify runs the system readiness scan and reports where it stopped.
// It visits objects exactly as IsSystemConfigured does.
func (r *Registry) Verify() Report {
	rep := Report{
		Configured: true,
		Registered: r.inserted,
		Overflow:   r.OverflowIDs(),
	}
	for _, obj := range r.table[:r.inserted] {
		rep.Checked++
		if !obj.IsObjectConfigured() {
			rep.Configured = false
			rep.FirstUnconfigured = obj
			break
		}
	}

	if rep.Configured {
		r.logger.Info("system configured", "checked", rep.Checked, "overflow", len(rep.Overflow))
	} else {
		r.logger.Warn("system not configured",
			"instance_id", int(rep.FirstUnconfigured.InstanceID()),
			"class_id", int(rep.FirstUnconfigured.ClassID()),
			"checked", rep.Checked,
		)
	}
	return rep
}

// Err returns a NOT_CONFIGURED ConfigurationError if the system is not
// configured. Overflow is ignored.
func (rep Report) Err() error {
	if rep.Configured {
		return nil
	}
	return &ConfigurationError{
		Code:       ErrCodeNotConfigured,
		Message:    "object is not configured",
		InstanceID: rep.FirstUnconfigured.InstanceID(),
		ClassID:    rep.FirstUnconfigured.ClassID(),
	}
}

// StrictErr is Err, but also fails with REGISTRY_OVERFLOW when objects
// escaped the system list.
func (rep Report) StrictErr() error {
	if err := rep.Err(); err != nil {
		return err
	}
	if len(rep.Overflow) > 0 {
		return &ConfigurationError{
			Code:     ErrCodeRegistryOverflow,
			Message:  "objects constructed beyond system list capacity",
			Overflow: rep.Overflow,
		}
	}
	return nil
}
