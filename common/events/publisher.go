package events

import (
	"context"
	"errors"
	"time"

	"abletech/common/telemetry"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("abletech/common/events")

var errMalformed = errors.New("malformed event: id and type are required")

type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	Close()
}

type Options struct {
	URL         string
	Name        string
	ConnTimeout time.Duration
}

type natsPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

func NewPublisher(logger *zap.Logger, opts Options) (Publisher, error) {
	natsOpts := []nats.Option{
		nats.Name(opts.Name),
		nats.Timeout(opts.ConnTimeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
		nats.RetryOnFailedConnect(true),
	}

	conn, err := nats.Connect(opts.URL, natsOpts...)
	if err != nil {
		return nil, err
	}

	return &natsPublisher{
		conn:   conn,
		logger: logger,
	}, nil
}

func (p *natsPublisher) Publish(ctx context.Context, event *Event) error {
	_, span := tracer.Start(ctx, "Publish")
	defer span.End()

	data, err := event.MarshalBinary()
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	span.SetAttributes(
		telemetry.String("nats.subject", event.Subject()),
		telemetry.Int("message.size", len(data)),
	)

	if err := p.conn.Publish(event.Subject(), data); err != nil {
		telemetry.RecordError(span, err)
		p.logger.Error("failed to publish event",
			zap.String("id", event.ID),
			zap.String("type", string(event.Type)),
			zap.Error(err))
		return err
	}

	p.logger.Debug("published event",
		zap.String("id", event.ID),
		zap.String("subject", event.Subject()))
	return nil
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

// NopPublisher drops every event. It stands in when NATS is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *Event) error { return nil }

func (NopPublisher) Close() {}
