// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/jarvis-tui/internal/model"
)

const okBody = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1,
	"model": "m",
	"choices": [{
		"index": 0,
		"finish_reason": "stop",
		"message": {"role": "assistant", "content": "Hi there"}
	}]
}`

type capturedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string          `json:"role"`
			Content json.RawMessage `json:"content"`
		} `json:"messages"`
	}
}

// newServer returns a test endpoint that replies with status/body and
// records every request it sees.
func newServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32, *capturedRequest) {
	t.Helper()
	var hits atomic.Int32
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		captured.Method = r.Method
		captured.Path = r.URL.Path
		captured.Auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&captured.Body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits, captured
}

func contentString(t *testing.T, raw json.RawMessage) string {
	t.Helper()
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func TestComplete_Success(t *testing.T) {
	srv, hits, req := newServer(t, http.StatusOK, okBody)
	client := NewClient("sk-test").WithBaseURL(srv.URL + "/api/v1").WithModel("test-model")

	history := []model.Message{
		model.NewUserMessage("earlier question"),
		model.NewAssistantMessage("earlier answer"),
	}
	reply, err := client.Complete(context.Background(), "Hello", history)

	require.NoError(t, err)
	assert.Equal(t, "Hi there", reply)
	assert.EqualValues(t, 1, hits.Load())

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/v1/chat/completions", req.Path)
	assert.Equal(t, "Bearer sk-test", req.Auth)
	assert.Equal(t, "test-model", req.Body.Model)

	require.Len(t, req.Body.Messages, 2, "prior turns must be folded into the system entry")
	assert.Equal(t, "system", req.Body.Messages[0].Role)
	assert.Equal(t, "user", req.Body.Messages[1].Role)

	system := contentString(t, req.Body.Messages[0].Content)
	assert.Contains(t, system, "Human: earlier question")
	assert.Contains(t, system, "Assistant: earlier answer")
	assert.Equal(t, "Hello", contentString(t, req.Body.Messages[1].Content))
}

func TestComplete_TruncatesHistory(t *testing.T) {
	srv, _, req := newServer(t, http.StatusOK, okBody)
	client := NewClient("k").WithBaseURL(srv.URL)

	var history []model.Message
	for i := 0; i < 15; i++ {
		history = append(history, model.NewUserMessage(string(rune('a'+i))+"-msg"))
	}
	_, err := client.Complete(context.Background(), "now", history)
	require.NoError(t, err)

	system := contentString(t, req.Body.Messages[0].Content)
	assert.NotContains(t, system, "Human: e-msg")
	assert.Contains(t, system, "Human: f-msg")
	assert.Contains(t, system, "Human: o-msg")
}

func TestComplete_StatusErrorNoRetry(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusInternalServerError} {
		srv, hits, _ := newServer(t, status, `{"error":{"message":"nope","type":"x"}}`)
		client := NewClient("k").WithBaseURL(srv.URL)

		_, err := client.Complete(context.Background(), "Hello", nil)

		var rerr *RemoteCallError
		require.True(t, errors.As(err, &rerr), "status %d", status)
		assert.Equal(t, KindStatus, rerr.Kind)
		assert.Equal(t, status, rerr.StatusCode)
		assert.ErrorIs(t, err, ErrStatus)
		assert.EqualValues(t, 1, hits.Load(), "status %d must not be retried", status)
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	srv, _, _ := newServer(t, http.StatusOK,
		`{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`)
	client := NewClient("k").WithBaseURL(srv.URL)

	_, err := client.Complete(context.Background(), "Hello", nil)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestComplete_MalformedBody(t *testing.T) {
	srv, _, _ := newServer(t, http.StatusOK, `{"choices": [`)
	client := NewClient("k").WithBaseURL(srv.URL)

	_, err := client.Complete(context.Background(), "Hello", nil)

	var rerr *RemoteCallError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, KindMalformed, rerr.Kind)
}

func TestComplete_NetworkError(t *testing.T) {
	srv, _, _ := newServer(t, http.StatusOK, okBody)
	url := srv.URL
	srv.Close()

	_, err := NewClient("k").WithBaseURL(url).Complete(context.Background(), "Hello", nil)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestComplete_EmptyContentIsNotAnError(t *testing.T) {
	srv, _, _ := newServer(t, http.StatusOK, `{
		"id":"x","object":"chat.completion","created":1,"model":"m",
		"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":""}}]
	}`)

	reply, err := NewClient("k").WithBaseURL(srv.URL).Complete(context.Background(), "Hello", nil)
	require.NoError(t, err)
	assert.Empty(t, reply)
}

func TestComplete_LogsWithoutSecrets(t *testing.T) {
	srv, _, _ := newServer(t, http.StatusOK, okBody)
	logger, hook := test.NewNullLogger()

	client := NewClient("sk-very-secret").WithBaseURL(srv.URL).WithLogger(logger)
	_, err := client.Complete(context.Background(), "private question", nil)
	require.NoError(t, err)

	require.NotEmpty(t, hook.AllEntries())
	for _, entry := range hook.AllEntries() {
		line, ferr := entry.String()
		require.NoError(t, ferr)
		assert.NotContains(t, line, "sk-very-secret")
		assert.NotContains(t, line, "private question")
	}

	last := hook.LastEntry()
	assert.Equal(t, logrus.InfoLevel, last.Level)
	assert.Equal(t, http.MethodPost, last.Data["method"])
	assert.Equal(t, "/chat/completions", last.Data["path"])
	assert.Equal(t, http.StatusOK, last.Data["status"])
}

func TestClient_Builders(t *testing.T) {
	c := NewClient("  key  ")
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, DefaultModel, c.Model())
	assert.True(t, c.IsConfigured())

	c.WithBaseURL("https://example.com/v1/").WithModel("")
	assert.Equal(t, "https://example.com/v1", c.BaseURL())
	assert.Equal(t, DefaultModel, c.Model())

	assert.False(t, NewClient("").IsConfigured())
	assert.Equal(t, "none", NewClient("").KeyFingerprint())
	assert.Len(t, c.KeyFingerprint(), 8)
	assert.NotContains(t, c.KeyFingerprint(), "key")
}

func TestRemoteCallError(t *testing.T) {
	cause := errors.New("boom")
	err := &RemoteCallError{Kind: KindStatus, StatusCode: 502, Err: cause}

	assert.Contains(t, err.Error(), "502")
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrStatus)
	assert.NotErrorIs(t, err, ErrNetwork)
	assert.Contains(t, (&RemoteCallError{Kind: KindEmpty}).Error(), "empty")
}
