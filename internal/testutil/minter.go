// Package testutil holds deterministic stand-ins used by tests and the
// scenario harness.
package testutil

import (
	"sync"

	"github.com/roach88/autodual/dual"
)

// DeterministicMinter hands out variable IDs #0.1, #0.2, ... in order.
//
// Unlike dual.Counter, every DeterministicMinter starts from the same ID, so
// the same scenario evaluated twice with fresh minters prints identical
// sparse payloads. It uses tag 0, which no production minter produces.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicMinter struct {
	mu  sync.Mutex
	seq uint64
}

// NewDeterministicMinter creates a minter whose first ID is #0.1.
func NewDeterministicMinter() *DeterministicMinter {
	return &DeterministicMinter{}
}

// Next returns the next ID.
func (m *DeterministicMinter) Next() dual.ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return dual.MakeID(0, m.seq)
}
