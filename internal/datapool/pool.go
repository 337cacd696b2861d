// Package datapool provides the in-memory data pool plug-in shared by
// framework objects.
//
// A Pool is a fixed-size arena of named float items addressed by
// root.DataPoolID. The size is set at construction and never changes.
package datapool

import (
	"errors"
	"fmt"

	"github.com/roach88/obsw/internal/root"
)

// ErrUnknownItem is returned for ids outside the pool.
var ErrUnknownItem = errors.New("unknown data pool item")

type item struct {
	name  string
	value float64
}

// Pool implements root.DataPool.
type Pool struct {
	items []item
}

var _ root.DataPool = (*Pool)(nil)

// New creates a pool with size items, all zero and unnamed.
// Panics if size is negative.
func New(size int) *Pool {
	if size < 0 {
		panic(fmt.Sprintf("datapool: negative size %d", size))
	}
	return &Pool{items: make([]item, size)}
}

// Define names an item and sets its initial value.
func (p *Pool) Define(id root.DataPoolID, name string, value float64) error {
	if !p.contains(id) {
		return fmt.Errorf("%w: %d", ErrUnknownItem, id)
	}
	p.items[id] = item{name: name, value: value}
	return nil
}

// Value returns the current value of an item.
func (p *Pool) Value(id root.DataPoolID) (float64, error) {
	if !p.contains(id) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownItem, id)
	}
	return p.items[id].value, nil
}

// SetValue overwrites the value of an item.
func (p *Pool) SetValue(id root.DataPoolID, value float64) error {
	if !p.contains(id) {
		return fmt.Errorf("%w: %d", ErrUnknownItem, id)
	}
	p.items[id].value = value
	return nil
}

// Name returns the name given by Define, or "" if none.
func (p *Pool) Name(id root.DataPoolID) string {
	if !p.contains(id) {
		return ""
	}
	return p.items[id].name
}

// Size returns the number of items.
func (p *Pool) Size() int {
	return len(p.items)
}

// Contains reports whether id addresses an item of the pool.
func (p *Pool) Contains(id root.DataPoolID) bool {
	return p.contains(id)
}

// Snapshot returns a copy of all values in id order.
func (p *Pool) Snapshot() []float64 {
	values := make([]float64, len(p.items))
	for i, it := range p.items {
		values[i] = it.value
	}
	return values
}

func (p *Pool) contains(id root.DataPoolID) bool {
	return id >= 0 && int(id) < len(p.items)
}
