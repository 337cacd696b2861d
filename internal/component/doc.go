// Package component holds the concrete framework objects built on
// root.Object.
//
// Each constructor registers the new object before doing anything else, and
// each IsObjectConfigured override consults the embedded base check first.
package component

import "github.com/roach88/obsw/internal/root"

// Default class ids. Configuration may override them.
const (
	ClassIDDataMonitor root.ClassID = 11
	ClassIDSampler     root.ClassID = 12
)
