package toggle_test

import (
	"context"
	"errors"
	"math/bits"
	"math/rand"
	"testing"

	"github.com/katalvlaran/unlock/machine"
	"github.com/katalvlaran/unlock/state"
	"github.com/katalvlaran/unlock/toggle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSolve_Errors verifies that invalid inputs and options are rejected.
func TestSolve_Errors(t *testing.T) {
	_, err := toggle.Solve(nil)
	require.ErrorIs(t, err, toggle.ErrNilMachine)

	m := machine.NewToggle(2, 0b01, machine.Button{0})
	_, err = toggle.Solve(m, toggle.WithMaxStates(-1))
	require.ErrorIs(t, err, toggle.ErrOptionViolation)

	_, err = toggle.Solve(machine.NewToggle(2, 0b01))
	require.ErrorIs(t, err, machine.ErrNoButtons)

	_, err = toggle.Solve(machine.NewToggle(2, 0b01, machine.Button{2}))
	require.ErrorIs(t, err, machine.ErrButtonIndex)

	_, err = toggle.Solve(&machine.Machine{Width: -1, Buttons: []machine.Button{{}}})
	require.ErrorIs(t, err, machine.ErrDimension)
}

// TestSolve_SingleButtonOnTarget covers target 101 with buttons {0},{0,2},{1}.
func TestSolve_SingleButtonOnTarget(t *testing.T) {
	m := machine.NewToggle(3, 0b101, machine.Button{0}, machine.Button{0, 2}, machine.Button{1})
	res, err := toggle.Solve(m, toggle.WithReturnPath())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Presses)
	assert.Equal(t, []int{1}, res.Sequence)
}

// TestSolve_ZeroTarget returns 0 without expanding anything.
func TestSolve_ZeroTarget(t *testing.T) {
	m := machine.NewToggle(4, 0, machine.Button{0, 1}, machine.Button{3})
	res, err := toggle.Solve(m)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Presses)
	assert.Equal(t, 1, res.Explored)
}

// TestSolve_ParityUnreachable: every button flips two lights, so only
// even-parity diagrams are reachable.
func TestSolve_ParityUnreachable(t *testing.T) {
	m := machine.NewToggle(4, 0b0111,
		machine.Button{0, 1}, machine.Button{1, 2}, machine.Button{2, 3})
	_, err := toggle.Solve(m)
	require.ErrorIs(t, err, machine.ErrUnreachable)
}

// TestSolve_Sample checks the three sample machines (2 + 3 + 2 presses).
func TestSolve_Sample(t *testing.T) {
	lines := []struct {
		in   string
		want int
	}{
		{"[.##.] (3) (1,3) (2) (2,3) (0,2) (0,1) {3,5,4,7}", 2},
		{"[...#.] (0,2,3,4) (2,3) (0,4) (0,1,2) (1,2,3,4) {7,5,12,7,2}", 3},
		{"[.###.#] (0,1,2,3,4) (0,3,4) (0,1,2,4,5) (1,2) {10,11,11,5,10,5}", 2},
	}
	for _, tc := range lines {
		m, err := machine.ParseLine(tc.in)
		require.NoError(t, err)
		res, err := toggle.Solve(m, toggle.WithReturnPath())
		require.NoError(t, err)
		assert.Equal(t, tc.want, res.Presses, tc.in)
		assertSequenceLights(t, m, res.Sequence)
	}
}

// TestSolve_MatchesBruteForce compares BFS with exhaustive subset search on
// random machines. Pressing a button twice cancels out, so the optimum is
// the smallest subset of buttons whose XOR equals the target.
func TestSolve_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	for iter := 0; iter < 200; iter++ {
		width := 2 + rng.Intn(7)
		nb := 1 + rng.Intn(7)
		buttons := make([]machine.Button, nb)
		for i := range buttons {
			perm := rng.Perm(width)
			buttons[i] = machine.Button(perm[:1+rng.Intn(width)])
		}
		target := state.Lights(rng.Intn(1 << width))
		m := machine.NewToggle(width, target, buttons...)

		want, ok := bruteForce(m)
		res, err := toggle.Solve(m, toggle.WithReturnPath())
		if !ok {
			require.ErrorIs(t, err, machine.ErrUnreachable, "iter %d: %s", iter, m)
			continue
		}
		require.NoError(t, err, "iter %d: %s", iter, m)
		require.Equal(t, want, res.Presses, "iter %d: %s", iter, m)
		require.Equal(t, want == 0, target == 0)
		assertSequenceLights(t, m, res.Sequence)
	}
}

// TestSolve_Deterministic runs the same machine twice.
func TestSolve_Deterministic(t *testing.T) {
	m, err := machine.ParseLine("[...#.] (0,2,3,4) (2,3) (0,4) (0,1,2) (1,2,3,4)")
	require.NoError(t, err)
	a, err := toggle.Solve(m, toggle.WithReturnPath())
	require.NoError(t, err)
	b, err := toggle.Solve(m, toggle.WithReturnPath())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// TestSolve_MaxStates stops before the target is found.
func TestSolve_MaxStates(t *testing.T) {
	m := machine.NewToggle(4, 0b1111,
		machine.Button{0}, machine.Button{1}, machine.Button{2}, machine.Button{3})
	_, err := toggle.Solve(m, toggle.WithMaxStates(3))
	require.ErrorIs(t, err, machine.ErrSearchLimit)

	res, err := toggle.Solve(m, toggle.WithMaxStates(0))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Presses)
}

// TestSolve_Hooks checks hook ordering and OnVisit abort.
func TestSolve_Hooks(t *testing.T) {
	m := machine.NewToggle(2, 0b11, machine.Button{0}, machine.Button{1})

	var enq, deq []int
	res, err := toggle.Solve(m,
		toggle.WithOnEnqueue(func(_ state.Lights, d int) { enq = append(enq, d) }),
		toggle.WithOnDequeue(func(_ state.Lights, d int) { deq = append(deq, d) }),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Presses)
	assert.Equal(t, []int{0, 1, 1, 2}, enq)
	// depths are dequeued in non-decreasing order
	assert.IsNonDecreasing(t, deq)

	boom := errors.New("boom")
	_, err = toggle.Solve(m, toggle.WithOnVisit(func(l state.Lights, _ int) error {
		if l != 0 {
			return boom
		}
		return nil
	}))
	require.ErrorIs(t, err, boom)
}

// TestSolve_ContextCancelled returns the context error.
func TestSolve_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := machine.NewToggle(2, 0b11, machine.Button{0}, machine.Button{1})
	_, err := toggle.Solve(m, toggle.WithContext(ctx))
	require.ErrorIs(t, err, context.Canceled)
}

func bruteForce(m *machine.Machine) (int, bool) {
	best, found := 0, false
	for subset := 0; subset < 1<<len(m.Buttons); subset++ {
		var l state.Lights
		for i, b := range m.Buttons {
			if subset&(1<<i) != 0 {
				l = l.Toggle(b)
			}
		}
		if l != m.Lights {
			continue
		}
		n := bits.OnesCount(uint(subset))
		if !found || n < best {
			best, found = n, true
		}
	}

	return best, found
}

func assertSequenceLights(t *testing.T, m *machine.Machine, seq []int) {
	t.Helper()
	var l state.Lights
	for _, bi := range seq {
		l = l.Toggle(m.Buttons[bi])
	}
	assert.Equal(t, m.Lights, l, "sequence %v does not produce the target", seq)
}
