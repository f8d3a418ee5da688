// Package service holds the careers use cases. Handlers call services;
// services validate input, talk to the store, cache and event publisher, and
// return domain errors.
package service

import (
	"context"
	stderrors "errors"

	"abletech/common/errors"
	"abletech/common/events"
	"abletech/common/telemetry"
	"abletech/services/careers/internal/store"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("abletech/careers/service")

// storeError translates store sentinels into domain errors.
func storeError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, store.ErrNotFound):
		return errors.NotFound(what+" not found", err)
	case stderrors.Is(err, store.ErrNotAuthor):
		return errors.Unauthorized("only the author can delete this post", err)
	default:
		return errors.Internal("failed to access "+what, err)
	}
}

// fail records err on the span and returns it.
func fail(span trace.Span, err error) error {
	telemetry.RecordError(span, err)
	return err
}

// publish sends an event without failing the caller; the write it describes
// has already happened.
func publish(ctx context.Context, p events.Publisher, logger *zap.Logger, e *events.Event) {
	if err := p.Publish(ctx, e); err != nil {
		logger.Warn("failed to publish event",
			zap.String("type", string(e.Type)),
			zap.String("item_id", e.ItemID),
			zap.Error(err))
	}
}
