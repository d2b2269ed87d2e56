package observability

import (
	"context"
	"errors"
)

// Setup initializes tracing and metrics when cfg.Enabled is set and returns
// the metric instruments together with a shutdown func. When disabled, it
// returns instruments bound to the global (no-op) meter.
func Setup(ctx context.Context, cfg Config) (*Metrics, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Enabled {
		m, err := NewMetrics(Meter(defaultTracerName))
		return m, noop, err
	}
	cfg.ApplyDefaults()

	tp, err := InitTracer(ctx, cfg)
	if err != nil {
		return nil, noop, err
	}
	mp, err := InitMeter(ctx, cfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, noop, err
	}

	m, err := NewMetrics(mp.Meter(defaultTracerName))
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, noop, err
	}

	shutdown := func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}
	return m, shutdown, nil
}
