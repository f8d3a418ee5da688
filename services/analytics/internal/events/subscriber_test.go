package events

import (
	"context"
	"fmt"
	"testing"

	"abletech/common/telemetry"
	"abletech/services/analytics/internal/config"
	"abletech/services/analytics/internal/processor"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeProcessor struct {
	received [][]byte
	err      error
}

func (f *fakeProcessor) ProcessEvent(_ context.Context, raw []byte) error {
	f.received = append(f.received, raw)
	return f.err
}

func newTestHandler(p EventProcessor) (*Handler, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &Handler{
		logger:    zap.New(core),
		tracer:    telemetry.GetTracer("test"),
		processor: p,
		config:    &config.Config{},
	}, logs
}

func TestHandleProcessesPayload(t *testing.T) {
	p := &fakeProcessor{}
	h, logs := newTestHandler(p)

	h.handle("abletech.events.job.created", []byte(`{"id":"1"}`))

	assert.Equal(t, [][]byte{[]byte(`{"id":"1"}`)}, p.received)
	assert.Equal(t, 1, logs.FilterMessage("Processed event").Len())
}

func TestHandleDropsMalformedPayload(t *testing.T) {
	p := &fakeProcessor{err: fmt.Errorf("%w: bad json", processor.ErrMalformed)}
	h, logs := newTestHandler(p)

	h.handle("abletech.events.job.created", []byte(`nope`))

	assert.Equal(t, 1, logs.FilterMessage("Dropping malformed event").Len())
	assert.Zero(t, logs.FilterMessage("Failed to process event").Len())
}

func TestHandleLogsStoreFailure(t *testing.T) {
	p := &fakeProcessor{err: fmt.Errorf("store event: timeout")}
	h, logs := newTestHandler(p)

	h.handle("abletech.events.post.liked", []byte(`{}`))

	assert.Equal(t, 1, logs.FilterMessage("Failed to process event").Len())
}
