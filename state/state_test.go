package state_test

import (
	"testing"

	"github.com/katalvlaran/unlock/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackBits(t *testing.T) {
	l, err := state.PackBits(0, 2)
	require.NoError(t, err)
	assert.Equal(t, state.Lights(0b101), l)

	// duplicates are idempotent
	l, err = state.PackBits(1, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, state.Lights(0b1010), l)

	l, err = state.PackBits()
	require.NoError(t, err)
	assert.Equal(t, state.Lights(0), l)

	_, err = state.PackBits(state.LightsWidth)
	require.ErrorIs(t, err, state.ErrBitPosition)
	_, err = state.PackBits(-1)
	require.ErrorIs(t, err, state.ErrBitPosition)
}

func TestLights_ToggleAndFormat(t *testing.T) {
	var l state.Lights
	l = l.Toggle([]int{0, 2})
	assert.Equal(t, "[#.#.]", l.Format(4))
	// toggling twice restores the original value
	assert.Equal(t, state.Lights(0), l.Toggle([]int{0, 2}))
	assert.Equal(t, l, state.Mask([]int{2, 0}))
	assert.True(t, l.On(2))
	assert.False(t, l.On(1))
	assert.False(t, l.On(-1))
}

func TestPackCounters_RoundTripEveryField(t *testing.T) {
	values := make([]int, state.MaxFields)
	for i := range values {
		// distinct values that exercise the high bit of each field
		values[i] = state.FieldMax - i*7
	}
	c, err := state.PackCounters(values...)
	require.NoError(t, err)
	assert.Equal(t, values, c.Values(state.MaxFields))
}

func TestPackCounters_Errors(t *testing.T) {
	_, err := state.PackCounters(1, state.FieldMax+1)
	require.ErrorIs(t, err, state.ErrFieldOverflow)

	_, err = state.PackCounters(-1)
	require.ErrorIs(t, err, state.ErrFieldOverflow)

	_, err = state.PackCounters(make([]int, state.MaxFields+1)...)
	require.ErrorIs(t, err, state.ErrTooManyFields)
}

func TestCounters_IncrementAcrossWordBoundary(t *testing.T) {
	// field 7 spans bits 63..71, the lo/hi boundary
	var c state.Counters
	for n := 1; n <= state.FieldMax; n++ {
		c = c.Increment(7)
		require.Equal(t, n, c.Field(7))
		require.Equal(t, 0, c.Field(6))
		require.Equal(t, 0, c.Field(8))
	}

	want, err := state.PackCounters(0, 0, 0, 0, 0, 0, 0, state.FieldMax)
	require.NoError(t, err)
	assert.Equal(t, want, c)
}

func TestCounters_IncrementMatchesPack(t *testing.T) {
	target := []int{3, 5, 4, 7, 0, 12, 1, 2, 9, 10}
	var c state.Counters
	for i, v := range target {
		for k := 0; k < v; k++ {
			c = c.Increment(i)
		}
	}
	want, err := state.PackCounters(target...)
	require.NoError(t, err)
	assert.Equal(t, want, c)
	assert.Equal(t, "{3,5,4,7,0,12,1,2,9,10}", c.Format(len(target)))
}

func TestCounters_Compare(t *testing.T) {
	a, _ := state.PackCounters(1, 0)
	b, _ := state.PackCounters(0, 1)
	hi, _ := state.PackCounters(0, 0, 0, 0, 0, 0, 0, 0, 1)

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, 1, hi.Compare(b))
	assert.True(t, state.Counters{}.IsZero())
	assert.False(t, a.IsZero())
}

func TestCounters_String(t *testing.T) {
	c, _ := state.PackCounters(1, 1)
	assert.Equal(t, "0x201", c.String())
}
