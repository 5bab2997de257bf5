// Package observe provides batch.Observer implementations for logging and
// metrics.
//
//   - LogObserver writes one Debug record per machine through log/slog and a
//     throttled Info progress line.
//   - PromObserver maintains Prometheus counters, an in-flight gauge and
//     duration/press histograms on a caller-supplied Registerer.
//   - MeterObserver records the same signals through an OpenTelemetry
//     metric.Meter.
//
// Every observer is safe for concurrent use. Combine several with
// batch.Observers.
package observe
