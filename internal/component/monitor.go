package component

import (
	"context"
	"fmt"

	"github.com/roach88/obsw/internal/root"
)

// MonitorConfig configures a DataMonitor.
type MonitorConfig struct {
	Item  root.DataPoolID
	Lower float64
	Upper float64
	Event root.EventType
}

// DataMonitor watches one data pool item against the band [Lower, Upper].
type DataMonitor struct {
	root.Object

	cfg        MonitorConfig
	violations int
}

// NewDataMonitor registers a monitor in reg and assigns the default class id.
func NewDataMonitor(reg *root.Registry, cfg MonitorConfig) *DataMonitor {
	m := &DataMonitor{}
	reg.Register(&m.Object, m)
	m.cfg = cfg
	m.SetClassID(ClassIDDataMonitor)
	return m
}

// IsObjectConfigured reports whether the base services are set, the item
// exists in the data pool and the band is non-empty.
func (m *DataMonitor) IsObjectConfigured() bool {
	if !m.Object.IsObjectConfigured() {
		return false
	}
	if _, err := m.DataPool().Value(m.cfg.Item); err != nil {
		return false
	}
	return m.cfg.Lower < m.cfg.Upper
}

// Config returns the monitor configuration.
func (m *DataMonitor) Config() MonitorConfig {
	return m.cfg
}

// Check reads the monitored item. When the value is outside the band it
// records the configured event and emits a synch trace carrying the
// instance id. Reports whether a violation was found.
func (m *DataMonitor) Check(ctx context.Context) (bool, error) {
	value, err := m.DataPool().Value(m.cfg.Item)
	if err != nil {
		return false, fmt.Errorf("monitor %d: %w", m.InstanceID(), err)
	}
	if value >= m.cfg.Lower && value <= m.cfg.Upper {
		return false, nil
	}

	m.violations++
	if err := m.EventRepository().Create(ctx, m, m.cfg.Event); err != nil {
		return true, fmt.Errorf("monitor %d: %w", m.InstanceID(), err)
	}
	m.SynchTrace(root.TraceItem(m.InstanceID()))
	return true, nil
}

// Violations returns the number of out-of-band checks so far.
func (m *DataMonitor) Violations() int {
	return m.violations
}
