package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macrofeed/appctx"
)

type capturedAlerts struct {
	mu       sync.Mutex
	messages []*slack.WebhookMessage
	received chan struct{}
}

func newTestAlertMiddleware(webhookURL string) (*ErrorAlertMiddleware, *capturedAlerts) {
	captured := &capturedAlerts{received: make(chan struct{}, 16)}
	m := NewErrorAlertMiddleware(SlackAlertConfig{
		WebhookURL:  webhookURL,
		Environment: "dev",
		AppName:     "macrofeed",
		LogsURL:     "https://logs.example.com",
	})
	m.postWebhook = func(ctx context.Context, url string, msg *slack.WebhookMessage) error {
		captured.mu.Lock()
		captured.messages = append(captured.messages, msg)
		captured.mu.Unlock()
		captured.received <- struct{}{}
		return nil
	}
	return m, captured
}

func waitForAlert(t *testing.T, captured *capturedAlerts) {
	t.Helper()
	select {
	case <-captured.received:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a Slack alert to be sent")
	}
}

func TestWithRequestLogging(t *testing.T) {
	t.Run("generates a request id", func(t *testing.T) {
		var seen string
		handler := WithRequestLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = appctx.GetRequestID(r.Context())
			w.WriteHeader(http.StatusTeapot)
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusTeapot, rr.Code)
		assert.True(t, strings.HasPrefix(seen, "req_"), seen)
		assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))
	})

	t.Run("reuses incoming request id", func(t *testing.T) {
		var seen string
		handler := WithRequestLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = appctx.GetRequestID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(RequestIDHeader, "from-bot-1")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, "from-bot-1", seen)
		assert.Equal(t, "from-bot-1", rr.Header().Get(RequestIDHeader))
	})
}

func TestErrorAlertMiddleware_HTTPMiddleware(t *testing.T) {
	t.Run("panic becomes 500 and alert", func(t *testing.T) {
		m, captured := newTestAlertMiddleware("https://hooks.slack.com/services/T/B/X")
		handler := m.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("store exploded")
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/webhook/macro", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, rr.Body.String())

		waitForAlert(t, captured)
		captured.mu.Lock()
		defer captured.mu.Unlock()
		require.Len(t, captured.messages, 1)
		assert.Contains(t, captured.messages[0].Text, "store exploded")
		require.NotNil(t, captured.messages[0].Blocks)
		assert.Len(t, captured.messages[0].Blocks.BlockSet, 4)
	})

	t.Run("no panic passes through", func(t *testing.T) {
		m, captured := newTestAlertMiddleware("https://hooks.slack.com/services/T/B/X")
		handler := m.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, captured.messages)
	})

	t.Run("alerts disabled without webhook url", func(t *testing.T) {
		m, captured := newTestAlertMiddleware("")
		handler := m.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Empty(t, captured.messages)
	})
}

func TestErrorAlertMiddleware_Deduplicates(t *testing.T) {
	m, captured := newTestAlertMiddleware("https://hooks.slack.com/services/T/B/X")

	m.AlertOnError(errors.New("discord session closed"), "Discord relay")
	waitForAlert(t, captured)
	m.AlertOnError(errors.New("discord session closed"), "Discord relay")
	m.AlertOnError(errors.New("something else"), "Discord relay")
	waitForAlert(t, captured)

	captured.mu.Lock()
	defer captured.mu.Unlock()
	assert.Len(t, captured.messages, 2)
}

func TestErrorAlertMiddleware_WrapBackgroundTask(t *testing.T) {
	m, captured := newTestAlertMiddleware("https://hooks.slack.com/services/T/B/X")

	assert.NoError(t, m.WrapBackgroundTask("ok", func() error { return nil })())
	assert.Error(t, m.WrapBackgroundTask("fails", func() error { return errors.New("nope") })())
	waitForAlert(t, captured)
	assert.Error(t, m.WrapBackgroundTask("panics", func() error { panic("bad") })())
	waitForAlert(t, captured)

	captured.mu.Lock()
	defer captured.mu.Unlock()
	assert.Len(t, captured.messages, 2)
}
