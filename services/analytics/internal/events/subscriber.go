package events

import (
	"context"
	"errors"
	"fmt"

	"abletech/common/events"
	"abletech/services/analytics/internal/config"
	"abletech/services/analytics/internal/processor"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// EventProcessor stores one raw event payload.
type EventProcessor interface {
	ProcessEvent(ctx context.Context, rawData []byte) error
}

type Handler struct {
	logger    *zap.Logger
	nc        *nats.Conn
	tracer    trace.Tracer
	processor EventProcessor
	config    *config.Config
	sub       *nats.Subscription
}

func NewHandler(logger *zap.Logger, nc *nats.Conn, tracer trace.Tracer, p *processor.EngagementProcessor, config *config.Config) *Handler {
	return &Handler{
		logger:    logger,
		nc:        nc,
		tracer:    tracer,
		processor: p,
		config:    config,
	}
}

func (h *Handler) RegisterSubscriptions(lc fx.Lifecycle) error {
	sub, err := h.nc.QueueSubscribe(events.AllSubjects, h.config.NATSQueue, h.handleEvent)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", events.AllSubjects, err)
	}

	h.sub = sub
	h.logger.Info("Registered NATS subscriptions",
		zap.String("subject", events.AllSubjects),
		zap.String("queue", h.config.NATSQueue))

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return h.sub.Drain()
		},
	})

	return nil
}

func (h *Handler) handleEvent(msg *nats.Msg) {
	h.handle(msg.Subject, msg.Data)
}

func (h *Handler) handle(subject string, data []byte) {
	ctx := context.Background()
	if h.config.ProcessingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.ProcessingTimeout)
		defer cancel()
	}
	ctx, span := h.tracer.Start(ctx, "handleEvent")
	defer span.End()

	if err := h.processor.ProcessEvent(ctx, data); err != nil {
		if errors.Is(err, processor.ErrMalformed) {
			h.logger.Warn("Dropping malformed event",
				zap.String("subject", subject),
				zap.Error(err))
			return
		}
		h.logger.Error("Failed to process event",
			zap.Error(err),
			zap.String("subject", subject),
		)
		return
	}

	h.logger.Debug("Processed event", zap.String("subject", subject))
}
