package processor

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"abletech/common/events"
	"abletech/common/telemetry"
	"abletech/services/analytics/internal/config"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrMalformed marks a payload that can never be stored. Callers drop it
// instead of redelivering.
var ErrMalformed = stderrors.New("malformed engagement event")

// Execer is the part of clickhouse.Conn the processor writes through.
type Execer interface {
	Exec(ctx context.Context, query string, args ...any) error
}

type EngagementProcessor struct {
	logger *zap.Logger
	db     Execer
	tracer trace.Tracer
	config *config.Config
}

func NewEngagementProcessor(logger *zap.Logger, db Execer, config *config.Config) *EngagementProcessor {
	return &EngagementProcessor{
		logger: logger,
		db:     db,
		tracer: telemetry.GetTracer("abletech/analytics/processor"),
		config: config,
	}
}

// ProcessEvent decodes a published event and records it in
// engagement_events, retrying transient write failures with exponential
// backoff.
func (p *EngagementProcessor) ProcessEvent(ctx context.Context, rawData []byte) error {
	ctx, span := p.tracer.Start(ctx, "ProcessEvent")
	defer span.End()

	event, err := events.Decode(rawData)
	if err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	span.SetAttributes(
		telemetry.String("event.type", string(event.Type)),
		telemetry.String("event.id", event.ID),
	)

	attempts := 0
	err = backoff.Retry(func() error {
		attempts++
		return p.storeEvent(ctx, event, string(rawData))
	}, backoff.WithContext(p.retryPolicy(), ctx))
	span.SetAttributes(telemetry.Int("attempts", attempts))
	if err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("store event %s after %d attempts: %w", event.ID, attempts, err)
	}

	if attempts > 1 {
		p.logger.Info("stored event after retries",
			zap.String("id", event.ID),
			zap.Int("attempts", attempts))
	}
	return nil
}

func (p *EngagementProcessor) retryPolicy() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.config.RetryDelay
	if p.config.MaxRetryDelay > 0 {
		b.MaxInterval = p.config.MaxRetryDelay
	}
	b.MaxElapsedTime = 0

	retries := p.config.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithMaxRetries(b, uint64(retries))
}

func (p *EngagementProcessor) storeEvent(ctx context.Context, e *events.Event, payload string) error {
	query := `
		INSERT INTO engagement_events (
			id, type, actor, item_id, item_type, action, job_id, occurred_at, payload
		) VALUES (
			?, ?, ?, ?, ?, ?, ?, ?, ?
		)
	`

	if err := p.db.Exec(ctx, query,
		e.ID,
		string(e.Type),
		e.Actor,
		e.ItemID,
		e.ItemType,
		e.Action,
		e.JobID,
		e.OccurredAt.UTC().Truncate(time.Second),
		payload,
	); err != nil {
		p.logger.Warn("failed to insert engagement event", zap.String("id", e.ID), zap.Error(err))
		return fmt.Errorf("insert engagement event: %w", err)
	}

	return nil
}
