package observe

import (
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/katalvlaran/unlock/batch"
	"github.com/katalvlaran/unlock/machine"
)

// LogObserver logs batch progress. Per-machine events go to Debug; a
// progress summary goes to Info at most once per interval.
type LogObserver struct {
	log      *slog.Logger
	progress *rate.Sometimes

	solved atomic.Int64
	failed atomic.Int64
}

var _ batch.Observer = (*LogObserver)(nil)

// NewLogObserver returns an observer writing to l (slog.Default when nil).
// A non-positive interval logs progress after every machine.
func NewLogObserver(l *slog.Logger, interval time.Duration) *LogObserver {
	if l == nil {
		l = slog.Default()
	}
	s := &rate.Sometimes{Every: 1}
	if interval > 0 {
		s = &rate.Sometimes{First: 1, Interval: interval}
	}

	return &LogObserver{log: l, progress: s}
}

// MachineStarted logs the machine at Debug.
func (o *LogObserver) MachineStarted(kind batch.Kind, index int, m *machine.Machine) {
	if m == nil {
		return
	}
	o.log.Debug("machine started",
		slog.String("kind", string(kind)),
		slog.Int("index", index),
		slog.Int("buttons", len(m.Buttons)),
	)
}

// MachineSolved logs the result at Debug and may emit a progress line.
func (o *LogObserver) MachineSolved(kind batch.Kind, index, presses int, elapsed time.Duration) {
	o.solved.Add(1)
	o.log.Debug("machine solved",
		slog.String("kind", string(kind)),
		slog.Int("index", index),
		slog.Int("presses", presses),
		slog.Duration("elapsed", elapsed),
	)
	o.report(kind)
}

// MachineFailed logs the error at Warn and may emit a progress line.
func (o *LogObserver) MachineFailed(kind batch.Kind, index int, err error, elapsed time.Duration) {
	o.failed.Add(1)
	o.log.Warn("machine failed",
		slog.String("kind", string(kind)),
		slog.Int("index", index),
		slog.String("reason", Reason(err)),
		slog.Any("error", err),
		slog.Duration("elapsed", elapsed),
	)
	o.report(kind)
}

// Counts returns the number of solved and failed machines seen so far.
func (o *LogObserver) Counts() (solved, failed int64) {
	return o.solved.Load(), o.failed.Load()
}

func (o *LogObserver) report(kind batch.Kind) {
	o.progress.Do(func() {
		solved, failed := o.Counts()
		o.log.Info("progress",
			slog.String("kind", string(kind)),
			slog.Int64("solved", solved),
			slog.Int64("failed", failed),
		)
	})
}
