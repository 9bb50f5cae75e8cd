// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sirupsen/logrus"

	"github.com/jeranaias/jarvis-tui/internal/logging"
	"github.com/jeranaias/jarvis-tui/internal/model"
	"github.com/jeranaias/jarvis-tui/internal/prompt"
)

// Configuration defaults for the hosted endpoint.
const (
	// DefaultBaseURL is the chat API root.
	DefaultBaseURL = "https://chatapi.akash.network/api/v1"

	// DefaultModel is the hosted model identifier.
	DefaultModel = "nvidia-Llama-3-1-Nemotron-70B-Instruct-HF"

	dialTimeout         = 30 * time.Second
	tlsHandshakeTimeout = 10 * time.Second
)

// newHTTPClient returns a client with transport-level timeouts only. The
// request itself has no deadline; callers bound it through ctx if they want.
func newHTTPClient(log logrus.FieldLogger) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: tlsHandshakeTimeout,
		TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
	}
	return &http.Client{Transport: &loggingTransport{next: transport, log: log}}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client calls the chat-completions endpoint. A Client is safe for
// concurrent use once configured.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewClient creates a client for the default endpoint and model.
func NewClient(apiKey string) *Client {
	log := logging.Discard()
	return &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
		httpClient: newHTTPClient(log),
		log:        log,
	}
}

// WithBaseURL sets the API root. Empty keeps the current value.
func (c *Client) WithBaseURL(url string) *Client {
	if url = strings.TrimSpace(url); url != "" {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
	return c
}

// WithModel sets the model identifier. Empty keeps the current value.
func (c *Client) WithModel(model string) *Client {
	if model = strings.TrimSpace(model); model != "" {
		c.model = model
	}
	return c
}

// WithHTTPClient replaces the HTTP client. Request logging is only done by
// the default client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// WithLogger sets the logger used for request logging.
func (c *Client) WithLogger(log logrus.FieldLogger) *Client {
	if log == nil {
		return c
	}
	c.log = log
	if lt, ok := c.httpClient.Transport.(*loggingTransport); ok {
		c.httpClient = &http.Client{Transport: &loggingTransport{next: lt.next, log: log}}
	}
	return c
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// IsConfigured reports whether an API key is set.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// KeyFingerprint identifies the API key in logs without exposing it.
func (c *Client) KeyFingerprint() string {
	if c.apiKey == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(c.apiKey))
	return hex.EncodeToString(h[:4])
}

// =============================================================================
// COMPLETION
// =============================================================================

// Complete sends userText with the last prompt.ContextLimit messages of
// history folded into the system instruction, and returns the first choice's
// text. Every failure is a *RemoteCallError. There is one attempt only.
func (c *Client) Complete(ctx context.Context, userText string, history []model.Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.SystemPrompt(history)),
			openai.UserMessage(userText),
		},
	}

	api := openai.NewClient(c.requestOptions()...)
	res, err := api.Chat.Completions.New(ctx, params)
	if err != nil {
		rerr := classify(err)
		c.log.WithFields(logrus.Fields{
			"kind":   rerr.Kind,
			"status": rerr.StatusCode,
			"key":    c.KeyFingerprint(),
		}).Warn("completion failed")
		return "", rerr
	}

	if res == nil || len(res.Choices) == 0 {
		c.log.Warn("completion returned no choices")
		return "", &RemoteCallError{Kind: KindEmpty, Err: fmt.Errorf("model %s returned no choices", c.model)}
	}
	return res.Choices[0].Message.Content, nil
}

func (c *Client) requestOptions() []option.RequestOption {
	return []option.RequestOption{
		// The SDK joins paths onto the base URL, so it must end in "/".
		option.WithBaseURL(c.baseURL + "/"),
		option.WithAPIKey(c.apiKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(c.httpClient),
	}
}

// =============================================================================
// REQUEST LOGGING
// =============================================================================

// loggingTransport logs method, path, status and duration of each request.
type loggingTransport struct {
	next http.RoundTripper
	log  logrus.FieldLogger
}

// RoundTrip implements http.RoundTripper.
func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	fields := logrus.Fields{
		"method":   req.Method,
		"path":     req.URL.Path,
		"duration": time.Since(start).Round(time.Millisecond),
	}
	if err != nil {
		t.log.WithFields(fields).WithError(err).Warn("API request failed")
		return nil, err
	}
	fields["status"] = resp.StatusCode
	t.log.WithFields(fields).Info("API request")
	return resp, nil
}
