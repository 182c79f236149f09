package dual

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// ID identifies an independent variable of a sparse computation. IDs are
// only compared for equality; Compare exists to print maps in a stable
// order.
type ID struct {
	hi, lo uint64
}

// MakeID builds an ID from its two words. Tag 0 is never used by Counter or
// UUIDMinter, so deterministic minters in tests should use it.
func MakeID(tag, seq uint64) ID {
	return ID{hi: tag, lo: seq}
}

// IsZero reports whether id is the zero ID, which no minter produces.
func (id ID) IsZero() bool {
	return id == ID{}
}

// Compare orders IDs by tag, then sequence.
func (id ID) Compare(o ID) int {
	if c := cmp.Compare(id.hi, o.hi); c != 0 {
		return c
	}
	return cmp.Compare(id.lo, o.lo)
}

func (id ID) String() string {
	if id.lo>>63 == 0 && id.hi>>32 == 0 {
		return fmt.Sprintf("#%d.%d", id.hi, id.lo)
	}
	var u uuid.UUID
	binary.BigEndian.PutUint64(u[:8], id.hi)
	binary.BigEndian.PutUint64(u[8:], id.lo)
	return u.String()
}

// Minter hands out variable identities. Next must never return the same ID
// twice for the lifetime of the computations that use it.
type Minter interface {
	Next() ID
}

// counterTags distinguishes Counter instances from each other.
var counterTags atomic.Uint64

// Counter mints sequential IDs under a tag unique to the process.
//
// Thread-safety: Counter is safe for concurrent use; Next is a single
// atomic increment.
type Counter struct {
	tag uint64
	seq atomic.Uint64
}

// NewCounter creates a counter with a fresh tag.
func NewCounter() *Counter {
	return &Counter{tag: counterTags.Add(1)}
}

// Next returns the next ID. It panics if the sequence space is exhausted.
func (c *Counter) Next() ID {
	n := c.seq.Add(1)
	if n == 0 || n>>63 != 0 {
		panic("dual: variable identity space exhausted")
	}
	return ID{hi: c.tag, lo: n}
}

// UUIDMinter mints IDs from random version 4 UUIDs. The version and variant
// bits keep them disjoint from Counter IDs.
//
// Thread-safety: UUIDMinter is stateless and safe for concurrent use.
type UUIDMinter struct{}

// Next returns a new random ID. It panics if the random source fails.
func (UUIDMinter) Next() ID {
	u := uuid.New()
	return ID{
		hi: binary.BigEndian.Uint64(u[:8]),
		lo: binary.BigEndian.Uint64(u[8:]),
	}
}

// DefaultMinter is used by SparseVar and SparseVars when no minter is given.
var DefaultMinter Minter = NewCounter()
