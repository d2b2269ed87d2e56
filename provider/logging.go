package provider

import (
	"context"
	"time"

	apperrors "github.com/kbukum/whispering/errors"
	"github.com/kbukum/whispering/logger"
)

// WithLogging returns a Middleware that logs each Execute call with the
// provider name and duration. Cancellations log at info, other failures at
// error with the canonical code and stage.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &loggingRR[I, O]{inner: inner, log: log}
	}
}

type loggingRR[I, O any] struct {
	inner RequestResponse[I, O]
	log   *logger.Logger
}

func (l *loggingRR[I, O]) Name() string                         { return l.inner.Name() }
func (l *loggingRR[I, O]) IsAvailable(ctx context.Context) bool { return l.inner.IsAvailable(ctx) }

func (l *loggingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	output, err := l.inner.Execute(ctx, input)

	fields := map[string]interface{}{
		logger.FieldProvider: l.inner.Name(),
		logger.FieldDuration: time.Since(start).Milliseconds(),
	}
	log := l.log.WithContext(ctx)
	switch {
	case err == nil:
		log.Debug("provider execute ok", fields)
	case apperrors.IsCode(err, apperrors.ErrCodeCancelled):
		log.WithError(err).Info("provider execute cancelled", fields)
	default:
		log.WithError(err).Error("provider execute failed", fields)
	}
	return output, err
}
