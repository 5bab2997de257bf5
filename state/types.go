package state

import "errors"

const (
	// LightsWidth is the number of lights a Lights value can hold.
	LightsWidth = 32

	// FieldWidth is the number of bits reserved for one counter.
	FieldWidth = 9

	// FieldMax is the largest value a single counter may hold.
	FieldMax = 1<<FieldWidth - 1

	// MaxFields is the number of counters that fit in a Counters value.
	MaxFields = 128 / FieldWidth

	fieldMask = uint64(FieldMax)
)

// Sentinel errors for packing.
var (
	// ErrBitPosition is returned when a light position does not fit in Lights.
	ErrBitPosition = errors.New("state: bit position out of range")

	// ErrFieldOverflow is returned when a counter value does not fit its field.
	ErrFieldOverflow = errors.New("state: counter value exceeds field width")

	// ErrTooManyFields is returned when more than MaxFields counters are packed.
	ErrTooManyFields = errors.New("state: too many counter fields")
)
