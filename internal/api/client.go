// Copyright (c) 2025 Atium Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the backend's project directory:
// the /chats collection plus the one-shot /agent/chat endpoint. Each call is
// a single round trip with no retries and no caching.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/atiumresearch/atui/internal/model"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeHTTP
	ErrTypeInvalidResponse
)

// ClientError is an error from the directory client. For HTTP failures the
// message carries the response body text, or an "<op> failed: <status>"
// fallback when the body was empty.
type ClientError struct {
	Type       ErrorType
	StatusCode int
	Message    string
	Cause      error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// httpError builds the failure for a non-2xx response.
func httpError(op string, status int, body []byte) *ClientError {
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = fmt.Sprintf("%s failed: %d", op, status)
	}
	return &ClientError{Type: ErrTypeHTTP, StatusCode: status, Message: msg}
}

// =============================================================================
// CLIENT
// =============================================================================

// DefaultTimeout bounds directory requests. The one-shot agent chat endpoint
// runs a full agent turn server-side, so it gets a longer budget.
const (
	DefaultTimeout   = 15 * time.Second
	AgentChatTimeout = 120 * time.Second
)

// Client talks to the backend REST collection. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	agentHTTP  *http.Client
}

// NewClient creates a directory client. baseURL is the backend origin plus
// API prefix, no trailing slash (config.APIBase()).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		agentHTTP:  &http.Client{Timeout: AgentChatTimeout},
	}
}

// ListChats returns every chat in the collection.
func (c *Client) ListChats(ctx context.Context) ([]model.Chat, error) {
	var chats []model.Chat
	if err := c.do(ctx, c.httpClient, http.MethodGet, "/chats", nil, &chats, "List chats"); err != nil {
		return nil, err
	}
	return chats, nil
}

// CreateChat creates a chat. An empty title lets the backend pick one; the
// title field is omitted from the request body in that case.
func (c *Client) CreateChat(ctx context.Context, title string) (*model.Chat, error) {
	body := map[string]string{}
	if title != "" {
		body["title"] = title
	}
	var chat model.Chat
	if err := c.do(ctx, c.httpClient, http.MethodPost, "/chats", body, &chat, "Create chat"); err != nil {
		return nil, err
	}
	return &chat, nil
}

// GetChat fetches one chat by ID.
func (c *Client) GetChat(ctx context.Context, id string) (*model.Chat, error) {
	var chat model.Chat
	if err := c.do(ctx, c.httpClient, http.MethodGet, "/chats/"+url.PathEscape(id), nil, &chat, "Get chat"); err != nil {
		return nil, err
	}
	return &chat, nil
}

// GetChatMessages fetches the stored message history of a chat.
func (c *Client) GetChatMessages(ctx context.Context, id string) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	path := "/chats/" + url.PathEscape(id) + "/messages"
	if err := c.do(ctx, c.httpClient, http.MethodGet, path, nil, &msgs, "Get messages"); err != nil {
		return nil, err
	}
	return msgs, nil
}

// DeleteChat deletes a chat by ID.
func (c *Client) DeleteChat(ctx context.Context, id string) error {
	return c.do(ctx, c.httpClient, http.MethodDelete, "/chats/"+url.PathEscape(id), nil, nil, "Delete chat")
}

// AgentChat sends one message through the synchronous agent endpoint and
// returns the full reply. This is the dashboard's quick-ask path; streamed
// sessions go through the session controller instead.
func (c *Client) AgentChat(ctx context.Context, message string) (string, error) {
	var out struct {
		Response string `json:"response"`
	}
	body := map[string]string{"message": message}
	if err := c.do(ctx, c.agentHTTP, http.MethodPost, "/agent/chat", body, &out, "Agent chat"); err != nil {
		return "", err
	}
	return out.Response, nil
}

// do runs one request. reqBody (when non-nil) is JSON-encoded; a non-2xx
// status becomes a ClientError carrying the response body; out (when non-nil)
// receives the decoded JSON response.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, reqBody, out any, op string) error {
	var reader io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return &ClientError{Type: ErrTypeUnknown, Message: op + " failed to encode request", Cause: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &ClientError{Type: ErrTypeUnknown, Message: op + " failed to build request", Cause: err}
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: op + " failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return httpError(op, resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: op + " returned an invalid response", Cause: err}
	}
	return nil
}
