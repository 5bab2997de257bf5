package observe

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/unlock/batch"
	"github.com/katalvlaran/unlock/machine"
)

// ErrRegister is returned when a collector cannot be registered.
var ErrRegister = errors.New("observe: metric registration failed")

const namespace = "unlock"

// PromObserver exports batch progress as Prometheus metrics:
//
//	unlock_machines_solved_total{kind}
//	unlock_machines_failed_total{kind,reason}
//	unlock_machines_in_flight{kind}
//	unlock_machine_duration_seconds{kind}
//	unlock_machine_presses{kind}
type PromObserver struct {
	solved   *prometheus.CounterVec
	failed   *prometheus.CounterVec
	inFlight *prometheus.GaugeVec
	duration *prometheus.HistogramVec
	presses  *prometheus.HistogramVec
}

var _ batch.Observer = (*PromObserver)(nil)

// NewPromObserver creates the collectors and registers them on reg
// (prometheus.DefaultRegisterer when nil).
func NewPromObserver(reg prometheus.Registerer) (*PromObserver, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o := &PromObserver{
		solved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "machines_solved_total",
			Help:      "Machines whose search returned a press count.",
		}, []string{"kind"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "machines_failed_total",
			Help:      "Machines whose search returned an error.",
		}, []string{"kind", "reason"}),
		inFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "machines_in_flight",
			Help:      "Searches currently running.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "machine_duration_seconds",
			Help:      "Wall time of one machine search.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"kind"}),
		presses: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "machine_presses",
			Help:      "Minimum press count per solved machine.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{o.solved, o.failed, o.inFlight, o.duration, o.presses} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRegister, err)
		}
	}

	return o, nil
}

// MachineStarted increments the in-flight gauge.
func (o *PromObserver) MachineStarted(kind batch.Kind, _ int, _ *machine.Machine) {
	o.inFlight.WithLabelValues(string(kind)).Inc()
}

// MachineSolved counts the machine and observes its duration and presses.
func (o *PromObserver) MachineSolved(kind batch.Kind, _ int, presses int, elapsed time.Duration) {
	k := string(kind)
	o.inFlight.WithLabelValues(k).Dec()
	o.solved.WithLabelValues(k).Inc()
	o.duration.WithLabelValues(k).Observe(elapsed.Seconds())
	o.presses.WithLabelValues(k).Observe(float64(presses))
}

// MachineFailed counts the failure by reason and observes its duration.
func (o *PromObserver) MachineFailed(kind batch.Kind, _ int, err error, elapsed time.Duration) {
	k := string(kind)
	o.inFlight.WithLabelValues(k).Dec()
	o.failed.WithLabelValues(k, Reason(err)).Inc()
	o.duration.WithLabelValues(k).Observe(elapsed.Seconds())
}
