// Package state packs puzzle configurations into flat integer values so that
// search frontiers and visited sets can hash, compare and copy them for free.
//
// What:
//
//   - Lights: a bit-vector of up to 32 indicator lights (bit i = light i).
//   - Counters: up to 14 bounded counters, each a 9-bit field inside a single
//     128-bit value. Field i occupies bits [9i, 9i+9).
//   - PackBits / PackCounters build these values from parsed positions and values.
//   - Field / Increment read and bump a single counter without unpacking.
//
// Why:
//
//   - A packed value is comparable, so it is a valid map key and equality
//     is a single word comparison.
//   - No heap allocation per state: cloning a state is a value copy.
//
// Arithmetic is exact. Increment adds 1<<(9i) across the 128-bit value and
// relies on the caller keeping the field below FieldMax; Field masks on read.
//
// Errors:
//
//   - ErrBitPosition:   a light position outside [0, LightsWidth).
//   - ErrFieldOverflow: a counter value outside [0, FieldMax].
//   - ErrTooManyFields: more than MaxFields counters.
package state
