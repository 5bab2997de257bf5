package observe

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/katalvlaran/unlock/batch"
	"github.com/katalvlaran/unlock/machine"
)

const scope = "github.com/katalvlaran/unlock/observe"

// MeterObserver records batch progress through OpenTelemetry instruments.
type MeterObserver struct {
	machines metric.Int64Counter
	inFlight metric.Int64UpDownCounter
	duration metric.Float64Histogram
	presses  metric.Int64Histogram
}

var _ batch.Observer = (*MeterObserver)(nil)

// NewMeterObserver creates instruments on meter, or on the global meter
// provider when meter is nil.
func NewMeterObserver(meter metric.Meter) (*MeterObserver, error) {
	if meter == nil {
		meter = otel.Meter(scope)
	}
	var (
		o   MeterObserver
		err error
	)
	if o.machines, err = meter.Int64Counter("unlock.machines",
		metric.WithDescription("Machines finished, by kind and outcome"),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegister, err)
	}
	if o.inFlight, err = meter.Int64UpDownCounter("unlock.machines.in_flight",
		metric.WithDescription("Searches currently running"),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegister, err)
	}
	if o.duration, err = meter.Float64Histogram("unlock.machine.duration",
		metric.WithDescription("Wall time of one machine search"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegister, err)
	}
	if o.presses, err = meter.Int64Histogram("unlock.machine.presses",
		metric.WithDescription("Minimum press count per solved machine"),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegister, err)
	}

	return &o, nil
}

// MachineStarted adds one to the in-flight counter.
func (o *MeterObserver) MachineStarted(kind batch.Kind, _ int, _ *machine.Machine) {
	o.inFlight.Add(context.Background(), 1, kindAttr(kind))
}

// MachineSolved records a solved outcome, duration and presses.
func (o *MeterObserver) MachineSolved(kind batch.Kind, _ int, presses int, elapsed time.Duration) {
	ctx := context.Background()
	o.inFlight.Add(ctx, -1, kindAttr(kind))
	o.machines.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.String("outcome", "solved"),
	))
	o.duration.Record(ctx, elapsed.Seconds(), kindAttr(kind))
	o.presses.Record(ctx, int64(presses), kindAttr(kind))
}

// MachineFailed records the failure reason and duration.
func (o *MeterObserver) MachineFailed(kind batch.Kind, _ int, err error, elapsed time.Duration) {
	ctx := context.Background()
	o.inFlight.Add(ctx, -1, kindAttr(kind))
	o.machines.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.String("outcome", Reason(err)),
	))
	o.duration.Record(ctx, elapsed.Seconds(), kindAttr(kind))
}

func kindAttr(kind batch.Kind) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("kind", string(kind)))
}
