// Package unlock finds the minimum number of button presses that bring a
// machine to its target state, for whole batches of machines at once.
//
// 🚀 What is unlock?
//
//	A small search engine over implicit state spaces. Every machine has a
//	set of buttons; each button lists the indices it touches. Two targets
//	are solved per machine:
//		• Lights (part 1): a button toggles its lights; breadth-first search
//		  over packed bit-vectors finds the shortest press sequence.
//		• Counters (part 2): a button adds one to its counters; A* over
//		  packed 9-bit counters with an admissible heuristic finds the
//		  cheapest sequence that never overshoots a target.
//
// ✨ Guarantees
//
//   - Minimal answers: BFS depth and A* cost with a consistent heuristic.
//   - No panics for impossible targets: machine.ErrUnreachable is returned.
//   - Deterministic: repeated runs return identical results.
//   - Parallel batches: machines are independent and share no state.
//
// Under the hood:
//
//	state/        packed Lights (uint32) and Counters (14 × 9 bits) values
//	machine/      Machine model, validation and the puzzle text parser
//	toggle/       BFS over lights with hooks and limits
//	accumulate/   A* over counters, heuristic and no-overshoot rule
//	batch/        bounded worker pool, summaries, Observer interface
//	observe/      slog, Prometheus and OpenTelemetry observers
//	config/       YAML + environment configuration
//	cmd/unlock/   the command-line front end
//
// Quick example:
//
//	[.##.] (3) (1,3) (2) (2,3) (0,2) (0,1) {3,5,4,7}
//
//	lights .##. need 2 presses; counters {3,5,4,7} need 10.
//
//	go install github.com/katalvlaran/unlock/cmd/unlock@latest
package unlock
