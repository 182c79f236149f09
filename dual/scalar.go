package dual

import (
	"strconv"
	"strings"
)

// Scalar is the real-number type carried by a dual number.
// Transcendental functions are evaluated in float64 and converted back.
type Scalar interface {
	~float32 | ~float64
}

// mul returns k·d, except that a zero partial stays zero under any factor.
// Dense payloads use it so that entries the sparse payload would not store
// keep agreeing with it when k is infinite or NaN.
func mul[T Scalar](k, d T) T {
	if d == 0 {
		return 0
	}
	return k * d
}

// bitSize reports 32 for float32-backed scalars and 64 otherwise.
func bitSize[T Scalar]() int {
	if one := T(1); one+T(1e-10) == one {
		return 32
	}
	return 64
}

// formatScalar renders x the way %v does.
func formatScalar[T Scalar](x T) string {
	return strconv.FormatFloat(float64(x), 'g', -1, bitSize[T]())
}

// formatEntry renders a payload entry, keeping a trailing ".0" on integral
// values so that dense payloads read as lists of reals.
func formatEntry[T Scalar](x T) string {
	s := formatScalar(x)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// formatVerb renders x with an explicit verb and precision (-1 for shortest).
func formatVerb[T Scalar](x T, verb byte, prec int) string {
	return strconv.FormatFloat(float64(x), verb, prec, bitSize[T]())
}

// joinEntries renders a dense payload as "[a, b, c]".
func joinEntries[T Scalar](n int, at func(int) T, verb byte, prec int) string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		if verb == 'v' {
			b.WriteString(formatEntry(at(i)))
		} else {
			b.WriteString(formatVerb(at(i), verb, prec))
		}
	}
	b.WriteByte(']')
	return b.String()
}
