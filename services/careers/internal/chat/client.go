package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"abletech/common/errors"
	"abletech/common/telemetry"

	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("abletech/careers/chat")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer produces the assistant's answer to a conversation.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

type ClientOptions struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// completionClient talks to an OpenAI-compatible /chat/completions endpoint.
type completionClient struct {
	client *http.Client
	logger *zap.Logger
	opts   ClientOptions
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	User     string    `json:"user,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func NewClient(logger *zap.Logger, opts ClientOptions) Completer {
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &completionClient{
		client: &http.Client{Timeout: opts.Timeout},
		logger: logger,
		opts:   opts,
	}
}

func (c *completionClient) Complete(ctx context.Context, messages []Message) (string, error) {
	ctx, span := tracer.Start(ctx, "Complete")
	defer span.End()

	url := c.opts.BaseURL + "/chat/completions"
	span.SetAttributes(
		telemetry.String("http.url", url),
		telemetry.String("chat.model", c.opts.Model),
		telemetry.Int("chat.messages", len(messages)),
	)

	body, err := json.Marshal(completionRequest{Model: c.opts.Model, Messages: messages})
	if err != nil {
		return "", errors.Internal("encoding completion request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		telemetry.RecordError(span, err)
		return "", errors.Internal("creating request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		telemetry.RecordError(span, err)
		c.logger.Error("failed to execute completion request", zap.Error(err))
		return "", errors.Unavailable("executing request", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("failed to close response body", zap.Error(cerr))
		}
	}()

	span.SetAttributes(telemetry.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("unexpected status code", zap.Int("status_code", resp.StatusCode))
		err := errors.Unavailable(fmt.Sprintf("unexpected status code: %d", resp.StatusCode), nil)
		telemetry.RecordError(span, err)
		return "", err
	}

	var cr completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		telemetry.RecordError(span, err)
		c.logger.Error("failed to decode completion response", zap.Error(err))
		return "", errors.Internal("decoding response", err)
	}
	if len(cr.Choices) == 0 || strings.TrimSpace(cr.Choices[0].Message.Content) == "" {
		err := errors.Unavailable("no choices in completion response", nil)
		telemetry.RecordError(span, err)
		return "", err
	}

	return cr.Choices[0].Message.Content, nil
}
