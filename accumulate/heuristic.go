package accumulate

import "github.com/katalvlaran/unlock/state"

// Heuristic returns an admissible lower bound on the presses needed to take
// the first dim counters of s to t:
//
//	max( max_i (t_i - s_i), ceil(Σ_i (t_i - s_i) / maxButtonSize) )
//
// s must not exceed t in any field and maxButtonSize must be positive.
func Heuristic(s, t state.Counters, dim, maxButtonSize int) int {
	remainingMax, remainingSum := 0, 0
	for i := 0; i < dim; i++ {
		diff := t.Field(i) - s.Field(i)
		remainingSum += diff
		if diff > remainingMax {
			remainingMax = diff
		}
	}
	minPresses := (remainingSum + maxButtonSize - 1) / maxButtonSize

	return max(remainingMax, minPresses)
}
