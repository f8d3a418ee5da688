// Package chat answers the platform's help widget through an
// OpenAI-compatible completion API. Upstream failures never surface to the
// user: they get a fixed apology marked as a fallback.
package chat

import (
	"context"
	"strings"
	"unicode/utf8"

	"abletech/common/errors"
	"abletech/common/telemetry"

	"go.uber.org/zap"
)

const (
	Apology = "Sorry, I'm having trouble connecting right now. Please try again later."

	maxMessageLength = 2000
)

const systemPrompt = `You are the AbleTech assistant, a friendly helper on an accessibility-focused careers platform.
Recruiters post jobs, review applications and message candidates. Job seekers browse and filter jobs,
apply, get job and assistive technology recommendations based on their profile, join motivational
sessions and training programs, and talk in the community forum.
Answer briefly and clearly. Use **bold** for key terms. Never ask for medical details.`

type Reply struct {
	Reply    string    `json:"reply"`
	Segments []Segment `json:"segments"`
	Fallback bool      `json:"fallback"`
}

type Service struct {
	completer Completer
	limiter   *Limiter
	logger    *zap.Logger
}

// NewService builds the chat service. A nil completer makes every reply the
// apology.
func NewService(logger *zap.Logger, completer Completer, limiter *Limiter) *Service {
	if limiter == nil {
		limiter = NewLimiter(0, 0)
	}
	return &Service{completer: completer, limiter: limiter, logger: logger}
}

func (s *Service) Reply(ctx context.Context, userID, message string) (*Reply, error) {
	ctx, span := tracer.Start(ctx, "Reply")
	defer span.End()

	userID = strings.TrimSpace(userID)
	message = strings.TrimSpace(message)
	if userID == "" {
		userID = "anonymous"
	}
	span.SetAttributes(telemetry.String("chat.user", userID))

	if message == "" {
		return nil, errors.InvalidInput("message is required", nil)
	}
	if utf8.RuneCountInString(message) > maxMessageLength {
		return nil, errors.InvalidInput("message is too long", nil)
	}
	if !s.limiter.Allow(userID) {
		s.logger.Warn("chat rate limit exceeded", zap.String("user_id", userID))
		return nil, errors.RateLimit("too many messages, please slow down", nil)
	}

	if s.completer == nil {
		return fallback(), nil
	}

	text, err := s.completer.Complete(ctx, []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: message},
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("chat upstream failed, replying with apology",
			zap.String("user_id", userID),
			zap.Error(err))
		return fallback(), nil
	}

	text = strings.TrimSpace(text)
	span.SetAttributes(telemetry.Int("chat.reply_length", len(text)))
	return &Reply{Reply: text, Segments: Format(text)}, nil
}

func fallback() *Reply {
	return &Reply{Reply: Apology, Segments: Format(Apology), Fallback: true}
}
