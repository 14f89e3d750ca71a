package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/lixenwraith/kartcore/telemetry"

// Instruments holds the race metric instruments
type Instruments struct {
	laps        metric.Int64Counter
	turbos      metric.Int64Counter
	drifts      metric.Int64Counter
	resets      metric.Int64Counter
	checkpoints metric.Int64Counter
	finishes    metric.Int64Counter
	lapTime     metric.Float64Histogram
}

// Option configures New
type Option func(*options)

type options struct {
	provider metric.MeterProvider
	enabled  bool
}

// WithMeterProvider overrides the global provider
func WithMeterProvider(p metric.MeterProvider) Option {
	return func(o *options) { o.provider = p }
}

// WithEnabled turns recording off without changing call sites
func WithEnabled(on bool) Option {
	return func(o *options) { o.enabled = on }
}

// New creates the instruments on the configured meter
// Disabled telemetry records into a no-op provider
func New(opts ...Option) (*Instruments, error) {
	o := options{enabled: true}
	for _, opt := range opts {
		opt(&o)
	}
	switch {
	case !o.enabled:
		o.provider = noop.NewMeterProvider()
	case o.provider == nil:
		o.provider = otel.GetMeterProvider()
	}
	m := o.provider.Meter(instrumentationName)

	var ins Instruments
	var err error
	counter := func(dst *metric.Int64Counter, name, desc string) {
		if err != nil {
			return
		}
		*dst, err = m.Int64Counter(name, metric.WithDescription(desc))
	}
	counter(&ins.laps, "kart.laps", "Completed laps")
	counter(&ins.turbos, "kart.turbos", "Turbo activations by kind")
	counter(&ins.drifts, "kart.drifts", "Drifts started")
	counter(&ins.resets, "kart.resets", "Car resets by reason")
	counter(&ins.checkpoints, "kart.checkpoints", "Accepted checkpoint crossings")
	counter(&ins.finishes, "kart.finishes", "Finished races")
	if err != nil {
		return nil, fmt.Errorf("create counter: %w", err)
	}

	ins.lapTime, err = m.Float64Histogram("kart.lap_time",
		metric.WithDescription("Lap duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create histogram: %w", err)
	}
	return &ins, nil
}

func carAttr(car string) attribute.KeyValue { return attribute.String("car", car) }

func (i *Instruments) Lap(ctx context.Context, car string, seconds float64) {
	attrs := metric.WithAttributes(carAttr(car))
	i.laps.Add(ctx, 1, attrs)
	i.lapTime.Record(ctx, seconds, attrs)
}

func (i *Instruments) Finish(ctx context.Context, car string) {
	i.finishes.Add(ctx, 1, metric.WithAttributes(carAttr(car)))
}

func (i *Instruments) Turbo(ctx context.Context, car, kind string) {
	i.turbos.Add(ctx, 1, metric.WithAttributes(carAttr(car), attribute.String("kind", kind)))
}

func (i *Instruments) Drift(ctx context.Context, car string) {
	i.drifts.Add(ctx, 1, metric.WithAttributes(carAttr(car)))
}

func (i *Instruments) Reset(ctx context.Context, car, reason string) {
	i.resets.Add(ctx, 1, metric.WithAttributes(carAttr(car), attribute.String("reason", reason)))
}

func (i *Instruments) Checkpoint(ctx context.Context, car string) {
	i.checkpoints.Add(ctx, 1, metric.WithAttributes(carAttr(car)))
}
