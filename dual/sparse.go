package dual

import (
	"maps"
	"slices"
	"strings"
)

// Map is the derivative payload of a sparse dual number: a mapping from
// variable ID to partial derivative. Zero partials are never stored.
type Map[T Scalar] struct {
	m map[ID]T
}

// NewMap returns a map payload holding the nonzero entries of partials.
func NewMap[T Scalar](partials map[ID]T) Map[T] {
	var out map[ID]T
	for id, d := range partials {
		if d == 0 {
			continue
		}
		if out == nil {
			out = make(map[ID]T, len(partials))
		}
		out[id] = d
	}
	return Map[T]{m: out}
}

// Len returns the number of stored (nonzero) partials.
func (g Map[T]) Len() int {
	return len(g.m)
}

// Partial returns the partial derivative with respect to id, 0 if absent.
func (g Map[T]) Partial(id ID) T {
	return g.m[id]
}

// Has reports whether a partial for id is stored.
func (g Map[T]) Has(id ID) bool {
	_, ok := g.m[id]
	return ok
}

// Keys returns the stored IDs in ascending order.
func (g Map[T]) Keys() []ID {
	return slices.SortedFunc(maps.Keys(g.m), ID.Compare)
}

// Entries returns a copy of the stored partials.
func (g Map[T]) Entries() map[ID]T {
	return maps.Clone(g.m)
}

// Scale returns k·g, dropping entries that become zero.
func (g Map[T]) Scale(k T) Map[T] {
	if len(g.m) == 0 || k == 1 {
		return g
	}
	var out map[ID]T
	for id, d := range g.m {
		s := d * k
		if s == 0 {
			continue
		}
		if out == nil {
			out = make(map[ID]T, len(g.m))
		}
		out[id] = s
	}
	return Map[T]{m: out}
}

// Combine returns a·g ⊕ b·o: the union of both ID sets, summed where they
// coincide, with zero results dropped.
func (g Map[T]) Combine(a T, o Map[T], b T) Map[T] {
	switch {
	case len(o.m) == 0:
		return g.Scale(a)
	case len(g.m) == 0:
		return o.Scale(b)
	}
	out := make(map[ID]T, max(len(g.m), len(o.m)))
	for id, d := range g.m {
		s := a * d
		if od, ok := o.m[id]; ok {
			s += b * od
		}
		if s != 0 {
			out[id] = s
		}
	}
	for id, od := range o.m {
		if _, ok := g.m[id]; ok {
			continue
		}
		if s := b * od; s != 0 {
			out[id] = s
		}
	}
	if len(out) == 0 {
		return Map[T]{}
	}
	return Map[T]{m: out}
}

func (g Map[T]) String() string {
	return g.formatEntries('v', -1)
}

func (g Map[T]) formatEntries(verb byte, prec int) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, id := range g.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(id.String())
		b.WriteString(": ")
		if verb == 'v' {
			b.WriteString(formatEntry(g.m[id]))
		} else {
			b.WriteString(formatVerb(g.m[id], verb, prec))
		}
	}
	b.WriteByte('}')
	return b.String()
}

// Sparse is a dual number whose partials are keyed by variable ID.
type Sparse[T Scalar] = Number[T, Map[T]]

// SparseVar returns x as a new independent variable with a fresh ID from m,
// or from DefaultMinter when m is nil.
func SparseVar[T Scalar](m Minter, x T) Sparse[T] {
	if m == nil {
		m = DefaultMinter
	}
	return Sparse[T]{value: x, grad: Map[T]{m: map[ID]T{m.Next(): 1}}}
}

// SparseVars returns one independent variable per value, each with its own
// fresh ID.
func SparseVars[T Scalar](m Minter, values []T) []Sparse[T] {
	out := make([]Sparse[T], len(values))
	for i, x := range values {
		out[i] = SparseVar(m, x)
	}
	return out
}

// VarID returns the ID of an independent sparse variable created by
// SparseVar. The second result is false if n does not depend on exactly one
// variable.
func VarID[T Scalar](n Sparse[T]) (ID, bool) {
	if len(n.grad.m) != 1 {
		return ID{}, false
	}
	for id := range n.grad.m {
		return id, true
	}
	return ID{}, false
}
