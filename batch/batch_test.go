package batch_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/katalvlaran/unlock/accumulate"
	"github.com/katalvlaran/unlock/batch"
	"github.com/katalvlaran/unlock/machine"
	"github.com/katalvlaran/unlock/toggle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSample(t *testing.T) []*machine.Machine {
	t.Helper()
	f, err := os.Open("../machine/testdata/sample.txt")
	require.NoError(t, err)
	defer f.Close()
	ms, err := machine.Parse(f)
	require.NoError(t, err)
	return ms
}

// recorder is a goroutine-safe Observer that remembers event order.
type recorder struct {
	mu      sync.Mutex
	started []int
	solved  map[int]int
	failed  map[int]error
}

func newRecorder() *recorder {
	return &recorder{solved: map[int]int{}, failed: map[int]error{}}
}

func (r *recorder) MachineStarted(_ batch.Kind, i int, _ *machine.Machine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, i)
}

func (r *recorder) MachineSolved(_ batch.Kind, i, presses int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.solved[i] = presses
}

func (r *recorder) MachineFailed(_ batch.Kind, i int, err error, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed[i] = err
}

func TestToggle_Sample(t *testing.T) {
	rec := newRecorder()
	sum, err := batch.Toggle(context.Background(), loadSample(t), batch.WithObserver(rec))
	require.NoError(t, err)
	assert.Equal(t, 7, sum.Total)
	assert.Equal(t, 3, sum.Solved)
	assert.Equal(t, batch.KindToggle, sum.Kind)
	assert.Equal(t, map[int]int{0: 2, 1: 3, 2: 2}, rec.solved)
	assert.Empty(t, sum.Failed())
	for i, o := range sum.Outcomes {
		assert.Equal(t, i, o.Index)
	}
}

func TestAccumulate_Sample(t *testing.T) {
	sum, err := batch.Accumulate(context.Background(), loadSample(t), batch.WithWorkers(2))
	require.NoError(t, err)
	assert.Equal(t, 33, sum.Total)
	assert.Equal(t, []int{10, 12, 11}, []int{
		sum.Outcomes[0].Presses, sum.Outcomes[1].Presses, sum.Outcomes[2].Presses,
	})
}

// TestAccumulate_DispatchOrder runs one worker so start order equals
// dispatch order: fewest buttons first, input order on ties.
func TestAccumulate_DispatchOrder(t *testing.T) {
	ms := loadSample(t) // 6, 5 and 4 buttons
	rec := newRecorder()
	_, err := batch.Accumulate(context.Background(), ms,
		batch.WithWorkers(1), batch.WithObserver(rec))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 0}, rec.started)
}

func TestByButtonCount_Stable(t *testing.T) {
	mk := func(n int) *machine.Machine {
		bs := make([]machine.Button, n)
		for i := range bs {
			bs[i] = machine.Button{0}
		}
		return machine.NewToggle(1, 1, bs...)
	}
	ms := []*machine.Machine{mk(3), mk(1), mk(3), mk(2), mk(1)}
	assert.Equal(t, []int{1, 4, 3, 0, 2}, batch.ByButtonCount(ms))
}

// TestToggle_PartialFailure keeps the results of healthy machines when one
// machine is unreachable.
func TestToggle_PartialFailure(t *testing.T) {
	ms := loadSample(t)
	odd := machine.NewToggle(3, 0b001, machine.Button{0, 1}, machine.Button{1, 2})
	ms = append(ms[:1], append([]*machine.Machine{odd}, ms[1:]...)...)

	rec := newRecorder()
	sum, err := batch.Toggle(context.Background(), ms, batch.WithObserver(rec))
	require.Error(t, err)
	require.ErrorIs(t, err, machine.ErrUnreachable)

	var me *batch.MachineError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, 1, me.Index)
	assert.Equal(t, batch.KindToggle, me.Kind)

	assert.Equal(t, 7, sum.Total)
	assert.Equal(t, 3, sum.Solved)
	require.Len(t, sum.Failed(), 1)
	assert.Equal(t, 1, sum.Failed()[0].Index)
	assert.Contains(t, rec.failed, 1)
}

func TestToggle_FailFast(t *testing.T) {
	odd := machine.NewToggle(3, 0b001, machine.Button{0, 1}, machine.Button{1, 2})
	ms := append([]*machine.Machine{odd}, loadSample(t)...)

	sum, err := batch.Toggle(context.Background(), ms,
		batch.WithWorkers(1), batch.WithFailFast())
	require.ErrorIs(t, err, machine.ErrUnreachable)
	assert.Equal(t, 0, sum.Solved)
	assert.Len(t, sum.Failed(), len(ms))
}

func TestAccumulate_ForwardsSearchOptions(t *testing.T) {
	sum, err := batch.Accumulate(context.Background(), loadSample(t),
		batch.WithAccumulateOptions(accumulate.WithMaxExpansions(1)))
	require.ErrorIs(t, err, machine.ErrSearchLimit)
	assert.Equal(t, 0, sum.Solved)
}

func TestToggle_ForwardsSearchOptions(t *testing.T) {
	_, err := batch.Toggle(context.Background(), loadSample(t),
		batch.WithToggleOptions(toggle.WithMaxStates(1)))
	require.ErrorIs(t, err, machine.ErrSearchLimit)
}

func TestBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sum, err := batch.Toggle(ctx, loadSample(t))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, sum.Solved)
}

// TestBatch_CancelledFailFast checks that a batch stopped before dispatch
// reports every machine as failed instead of solved with zero presses.
func TestBatch_CancelledFailFast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ms := loadSample(t)

	sum, err := batch.Toggle(ctx, ms, batch.WithFailFast())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, sum.Total)
	assert.Equal(t, 0, sum.Solved)
	assert.Len(t, sum.Failed(), len(ms))

	sum, err = batch.Accumulate(ctx, ms, batch.WithFailFast(), batch.WithWorkers(1))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, sum.Solved)
	assert.Len(t, sum.Failed(), len(ms))
}

func TestBatch_Options(t *testing.T) {
	_, err := batch.Toggle(context.Background(), nil, batch.WithWorkers(-1))
	require.ErrorIs(t, err, batch.ErrOptionViolation)

	sum, err := batch.Accumulate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Total)
	assert.Empty(t, sum.Outcomes)
}

func TestObservers_FanOut(t *testing.T) {
	a, b := newRecorder(), newRecorder()
	obs := batch.Observers(a, nil, b)
	obs.MachineStarted(batch.KindToggle, 4, nil)
	obs.MachineSolved(batch.KindToggle, 4, 9, time.Millisecond)
	obs.MachineFailed(batch.KindToggle, 5, machine.ErrUnreachable, time.Millisecond)
	for _, r := range []*recorder{a, b} {
		assert.Equal(t, []int{4}, r.started)
		assert.Equal(t, map[int]int{4: 9}, r.solved)
		assert.ErrorIs(t, r.failed[5], machine.ErrUnreachable)
	}
}
