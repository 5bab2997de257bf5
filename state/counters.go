package state

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// Counters packs up to MaxFields bounded counters into one 128-bit value.
// Field i occupies bits [FieldWidth*i, FieldWidth*i+FieldWidth) of the
// value hi<<64 | lo. The zero value is the all-zero counter vector.
//
// Counters is comparable; two values are equal iff every field is equal.
type Counters struct {
	hi, lo uint64
}

// PackCounters places values[i] into field i. A value outside [0, FieldMax]
// yields ErrFieldOverflow; more than MaxFields values yield ErrTooManyFields.
func PackCounters(values ...int) (Counters, error) {
	if len(values) > MaxFields {
		return Counters{}, fmt.Errorf("%w: %d (max %d)", ErrTooManyFields, len(values), MaxFields)
	}
	var c Counters
	for i, v := range values {
		if v < 0 || v > FieldMax {
			return Counters{}, fmt.Errorf("%w: field %d = %d (max %d)", ErrFieldOverflow, i, v, FieldMax)
		}
		c = c.or(i, uint64(v))
	}

	return c, nil
}

// or merges v into field i. The field must currently be zero.
func (c Counters) or(i int, v uint64) Counters {
	off := uint(i * FieldWidth)
	switch {
	case off >= 64:
		c.hi |= v << (off - 64)
	case off+FieldWidth <= 64:
		c.lo |= v << off
	default:
		// field straddles the word boundary
		c.lo |= v << off
		c.hi |= v >> (64 - off)
	}

	return c
}

// Field returns the value of counter i. The index must be in [0, MaxFields).
func (c Counters) Field(i int) int {
	off := uint(i * FieldWidth)
	switch {
	case off >= 64:
		return int((c.hi >> (off - 64)) & fieldMask)
	case off+FieldWidth <= 64:
		return int((c.lo >> off) & fieldMask)
	default:
		return int((c.lo>>off | c.hi<<(64-off)) & fieldMask)
	}
}

// Increment adds one to counter i by adding the field's base weight to the
// packed value. The caller guarantees Field(i) < FieldMax; otherwise the
// carry spills into counter i+1.
func (c Counters) Increment(i int) Counters {
	off := uint(i * FieldWidth)
	if off >= 64 {
		c.hi += 1 << (off - 64)
		return c
	}
	var carry uint64
	c.lo, carry = bits.Add64(c.lo, 1<<off, 0)
	c.hi += carry

	return c
}

// Compare orders counters by their packed 128-bit value and returns
// -1, 0 or +1.
func (c Counters) Compare(o Counters) int {
	switch {
	case c.hi < o.hi:
		return -1
	case c.hi > o.hi:
		return 1
	case c.lo < o.lo:
		return -1
	case c.lo > o.lo:
		return 1
	}

	return 0
}

// IsZero reports whether every counter is zero.
func (c Counters) IsZero() bool { return c.hi == 0 && c.lo == 0 }

// Values unpacks the first n counters.
func (c Counters) Values(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = c.Field(i)
	}

	return out
}

// Format renders the first n counters in puzzle notation, e.g. "{3,5,4,7}".
func (c Counters) Format(n int) string {
	var b strings.Builder
	b.WriteByte('{')
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(c.Field(i)))
	}
	b.WriteByte('}')

	return b.String()
}

// String prints the raw packed value in hex.
func (c Counters) String() string {
	if c.hi == 0 {
		return fmt.Sprintf("0x%x", c.lo)
	}

	return fmt.Sprintf("0x%x%016x", c.hi, c.lo)
}
