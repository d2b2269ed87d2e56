package provider

import (
	"context"
	"errors"

	apperrors "github.com/kbukum/whispering/errors"
	"github.com/kbukum/whispering/resilience"
)

// Middleware transforms a RequestResponse provider by wrapping it.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain composes middlewares. The first middleware is outermost:
// Chain(a, b, c)(p) is equivalent to a(b(c(p))).
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		for i := len(middlewares) - 1; i >= 0; i-- {
			if middlewares[i] != nil {
				inner = middlewares[i](inner)
			}
		}
		return inner
	}
}

// WithRetry retries Execute according to cfg. A nil RetryIf retries only
// canonical errors marked retryable. A context ending between attempts is
// reported as a canonical error rather than the bare context error.
func WithRetry[I, O any](cfg resilience.RetryConfig) Middleware[I, O] {
	if cfg.RetryIf == nil {
		cfg.RetryIf = RetryableAppError
	}
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &retryRR[I, O]{inner: inner, cfg: cfg}
	}
}

// RetryableAppError is a RetryIf predicate honoring AppError.Retryable.
func RetryableAppError(err error) bool {
	appErr, ok := apperrors.AsAppError(err)
	return ok && appErr.Retryable
}

type retryRR[I, O any] struct {
	inner RequestResponse[I, O]
	cfg   resilience.RetryConfig
}

func (r *retryRR[I, O]) Name() string                         { return r.inner.Name() }
func (r *retryRR[I, O]) IsAvailable(ctx context.Context) bool { return r.inner.IsAvailable(ctx) }

func (r *retryRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	out, err := resilience.Retry(ctx, r.cfg, func() (O, error) {
		return r.inner.Execute(ctx, input)
	})
	if err == nil || apperrors.IsAppError(err) {
		return out, err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return out, apperrors.Cancelled()
	case errors.Is(err, context.DeadlineExceeded):
		return out, apperrors.Network(r.inner.Name(), err)
	}
	return out, err
}

// errorCode extracts the canonical code of err, or "UNCLASSIFIED".
func errorCode(err error) string {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return string(appErr.Code)
	}
	return "UNCLASSIFIED"
}
