package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"abletech/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func upstream(t *testing.T, handler http.HandlerFunc) Completer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(zaptest.NewLogger(t), ClientOptions{BaseURL: srv.URL + "/v1/", APIKey: "test-key", Model: "test-model"})
}

func TestReplyFormatsUpstreamAnswer(t *testing.T) {
	completer := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "How do I apply?", req.Messages[1].Content)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Open a job and press **Apply**."}}]}`))
	})

	svc := NewService(zaptest.NewLogger(t), completer, nil)
	reply, err := svc.Reply(context.Background(), "sam@example.com", "  How do I apply?  ")
	require.NoError(t, err)
	assert.False(t, reply.Fallback)
	assert.Equal(t, "Open a job and press **Apply**.", reply.Reply)
	assert.Equal(t, []Segment{
		{Text: "Open a job and press "},
		{Text: "Apply", Bold: true},
		{Text: "."},
	}, reply.Segments)
}

func TestReplyFallsBackOnUpstreamFailure(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"bad json": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"choices":`))
		},
		"no choices": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		},
	}
	for name, handler := range tests {
		t.Run(name, func(t *testing.T) {
			svc := NewService(zaptest.NewLogger(t), upstream(t, handler), nil)
			reply, err := svc.Reply(context.Background(), "sam", "hello")
			require.NoError(t, err)
			assert.True(t, reply.Fallback)
			assert.Equal(t, Apology, reply.Reply)
		})
	}
}

func TestReplyFallsBackWhenUpstreamUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	completer := NewClient(zaptest.NewLogger(t), ClientOptions{BaseURL: url, APIKey: "k"})
	reply, err := NewService(zaptest.NewLogger(t), completer, nil).Reply(context.Background(), "sam", "hello")
	require.NoError(t, err)
	assert.True(t, reply.Fallback)
}

func TestReplyWithoutCompleter(t *testing.T) {
	reply, err := NewService(zaptest.NewLogger(t), nil, nil).Reply(context.Background(), "", "hi")
	require.NoError(t, err)
	assert.True(t, reply.Fallback)
	assert.Equal(t, []Segment{{Text: Apology}}, reply.Segments)
}

func TestReplyValidatesMessage(t *testing.T) {
	svc := NewService(zaptest.NewLogger(t), nil, nil)
	_, err := svc.Reply(context.Background(), "sam", "   ")
	assert.True(t, errors.Is(err, errors.ErrTypeInvalidInput))
}

func TestReplyRateLimitsPerUser(t *testing.T) {
	svc := NewService(zaptest.NewLogger(t), nil, NewLimiter(1, 2))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Reply(ctx, "sam", "hi")
		require.NoError(t, err)
	}
	_, err := svc.Reply(ctx, "sam", "hi")
	assert.True(t, errors.Is(err, errors.ErrTypeRateLimit))

	_, err = svc.Reply(ctx, "kim", "hi")
	assert.NoError(t, err)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want []Segment
	}{
		{"plain text", []Segment{{Text: "plain text"}}},
		{"", []Segment{}},
		{"**bold** and *italic*", []Segment{{Text: "bold", Bold: true}, {Text: " and "}, {Text: "italic", Italic: true}}},
		{"2 * 3 = 6", []Segment{{Text: "2 * 3 = 6"}}},
		{"unclosed **bold", []Segment{{Text: "unclosed **bold"}}},
		{"line one\n*two*", []Segment{{Text: "line one\n"}, {Text: "two", Italic: true}}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.in))
		})
	}
}
