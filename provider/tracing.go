package provider

import (
	"context"

	apperrors "github.com/kbukum/whispering/errors"
	"github.com/kbukum/whispering/observability"
)

// WithTracing returns a Middleware that opens a span named
// "{serviceName}.{providerName}" around each Execute call.
func WithTracing[I, O any](serviceName string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &tracingRR[I, O]{inner: inner, serviceName: serviceName}
	}
}

type tracingRR[I, O any] struct {
	inner       RequestResponse[I, O]
	serviceName string
}

func (t *tracingRR[I, O]) Name() string                         { return t.inner.Name() }
func (t *tracingRR[I, O]) IsAvailable(ctx context.Context) bool { return t.inner.IsAvailable(ctx) }

func (t *tracingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	ctx, span := observability.StartSpan(ctx, t.serviceName+"."+t.inner.Name())
	defer span.End()

	observability.SetSpanAttribute(ctx, observability.AttrServiceName, t.serviceName)
	observability.SetSpanAttribute(ctx, observability.AttrProvider, t.inner.Name())

	output, err := t.inner.Execute(ctx, input)
	if err != nil {
		observability.SetSpanAttribute(ctx, observability.AttrErrorCode, errorCode(err))
		if appErr, ok := apperrors.AsAppError(err); ok && appErr.Stage != "" {
			observability.SetSpanAttribute(ctx, observability.AttrStage, string(appErr.Stage))
		}
		observability.SetSpanError(ctx, err)
	}
	return output, err
}
