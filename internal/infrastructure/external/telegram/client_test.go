package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultClientConfig("TOKEN")
	cfg.BaseURL = srv.URL
	cfg.ReadyPollInterval = 5 * time.Millisecond
	cfg.Logger = zaptest.NewLogger(t)
	c, err := NewClient(cfg)
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresToken(t *testing.T) {
	_, err := NewClient(ClientConfig{})
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestSendMessage(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &got))
		_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":7,"chat":{"id":-1001,"type":"supergroup"},"date":1,"text":"hi"}}`)
	})

	msg, err := c.SendMessage(context.Background(), SendMessageParams{ChatID: "-1001", Text: "hi", ParseMode: "Markdown"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), msg.MessageID)
	assert.Equal(t, int64(-1001), msg.Chat.ID)
	assert.Equal(t, "-1001", got["chat_id"])
	assert.Equal(t, "Markdown", got["parse_mode"])
}

func TestSendMessage_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
	})

	_, err := c.SendMessage(context.Background(), SendMessageParams{ChatID: "x", Text: "hi"})
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Code)
	assert.Contains(t, apiErr.Description, "chat not found")
}

func TestWaitUntilReady_PollsUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, `bad gateway`)
			return
		}
		_, _ = io.WriteString(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Warden","username":"warden_bot"}}`)
	})

	assert.False(t, c.IsReady())
	require.NoError(t, c.WaitUntilReady(context.Background()))
	assert.True(t, c.IsReady())
	assert.Equal(t, int32(3), calls.Load())

	self, ok := c.Self()
	require.True(t, ok)
	assert.Equal(t, "warden_bot", self.Username)
}

func TestWaitUntilReady_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"ok":false,"error_code":401,"description":"Unauthorized"}`)
	})

	err := c.WaitUntilReady(context.Background())
	require.Error(t, err)
	assert.False(t, c.IsReady())
}

func TestWaitUntilReady_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.WaitUntilReady(ctx), context.DeadlineExceeded)
}
