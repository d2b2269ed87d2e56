package provider

import (
	"context"
	"time"

	"github.com/kbukum/whispering/observability"
)

// WithMetrics returns a Middleware that records the operation count,
// duration and, on failure, the canonical error code. A nil metrics set
// yields a passthrough.
func WithMetrics[I, O any](metrics *observability.Metrics, component string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		if metrics == nil {
			return inner
		}
		return &metricsRR[I, O]{inner: inner, metrics: metrics, component: component}
	}
}

type metricsRR[I, O any] struct {
	inner     RequestResponse[I, O]
	metrics   *observability.Metrics
	component string
}

func (m *metricsRR[I, O]) Name() string                         { return m.inner.Name() }
func (m *metricsRR[I, O]) IsAvailable(ctx context.Context) bool { return m.inner.IsAvailable(ctx) }

func (m *metricsRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	output, err := m.inner.Execute(ctx, input)

	status := "ok"
	if err != nil {
		status = "error"
		m.metrics.RecordError(ctx, errorCode(err), m.component)
	}
	m.metrics.RecordOperation(ctx, m.inner.Name(), m.component, status, time.Since(start))
	return output, err
}
