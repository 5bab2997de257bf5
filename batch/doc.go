// Package batch solves many machines independently and sums the results.
//
// What:
//
//   - Toggle runs toggle.Solve for every machine on a bounded worker pool.
//   - Accumulate runs accumulate.SolveMachine for every machine, dispatching
//     them in ascending button-count order so cheap searches finish first.
//   - Both return a Summary with the total and one Outcome per machine,
//     indexed by the machine's input position.
//
// Failure policy:
//
//	By default every machine runs to completion; failures are recorded on
//	their Outcome and returned together as errors.Join of *MachineError.
//	The Summary still carries every successful result. WithFailFast cancels
//	outstanding searches on the first failure and returns that error.
//
// Concurrency:
//
//	Each search owns its frontier and visited set. Workers share only the
//	read-only machine slice and write to distinct Outcome slots, so no
//	locking is needed. Observers are called from worker goroutines and must
//	be safe for concurrent use.
//
// Tracing:
//
//	Each batch run is wrapped in an OpenTelemetry span named
//	"batch.Toggle" or "batch.Accumulate" on the global tracer provider.
package batch
