package alert

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSender(baseURL string, attempts int) *TelegramSender {
	s := NewTelegramSender("test-token", "12345", attempts, time.Millisecond)
	s.baseURL = baseURL
	return s
}

func TestTelegramSend_PostsMessage(t *testing.T) {
	var gotPath string
	var gotPayload map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newTestSender(srv.URL, 3).Send(context.Background(), testAlert())
	require.NoError(t, err)

	assert.Equal(t, "/bottest-token/sendMessage", gotPath)
	assert.Equal(t, "12345", gotPayload["chat_id"])
	assert.Contains(t, gotPayload["text"], "NIFTY")
	assert.Contains(t, gotPayload["text"], "BULLISH")
}

func TestTelegramSend_RetriesTransientFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newTestSender(srv.URL, 3).Send(context.Background(), testAlert())
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestTelegramSend_ExhaustsRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := newTestSender(srv.URL, 2).Send(context.Background(), testAlert())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestTelegramSend_RequiresConfiguration(t *testing.T) {
	s := NewTelegramSender("", "", 3, time.Millisecond)
	err := s.Send(context.Background(), testAlert())
	assert.Error(t, err)
}

func TestFormatMessage(t *testing.T) {
	msg := FormatMessage(testAlert())
	assert.Contains(t, msg, "*NIFTY*")
	assert.Contains(t, msg, "NEUTRAL → BULLISH")
	assert.Contains(t, msg, "confidence +8")
	assert.Contains(t, msg, "22150.00")
}
