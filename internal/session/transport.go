// Copyright (c) 2025 Atium Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
)

// Conn is the minimal surface the controller needs from a stream connection.
// The production implementation wraps a gorilla/websocket connection; tests
// substitute an in-process fake.
type Conn interface {
	// WriteJSON transmits one message as a single JSON object.
	WriteJSON(v any) error
	// ReadMessage blocks for the next inbound payload.
	ReadMessage() ([]byte, error)
	// Close tears the connection down. Safe to call more than once.
	Close() error
}

// Dialer opens a stream connection to the given ws:// or wss:// URL.
type Dialer func(ctx context.Context, url string) (Conn, error)

// wsConn adapts *websocket.Conn to the Conn interface.
type wsConn struct {
	conn *websocket.Conn
}

func (w *wsConn) WriteJSON(v any) error {
	return w.conn.WriteJSON(v)
}

func (w *wsConn) ReadMessage() ([]byte, error) {
	_, data, err := w.conn.ReadMessage()
	return data, err
}

func (w *wsConn) Close() error {
	return w.conn.Close()
}

// DefaultDialer dials with gorilla's default WebSocket dialer.
func DefaultDialer(ctx context.Context, url string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return &wsConn{conn: conn}, nil
}

// Canonical closure diagnostics. The exact wording is presentation, not
// protocol; it lives here so every surface reports closures the same way.
const (
	diagUnreachable = "Server unreachable: the connection dropped without a close frame. The backend may be down or restarting."
	diagPolicy      = "Connection rejected by server policy. Check that this client is allowed by the backend."
	diagDialFailed  = "Could not connect to the backend"
)

// classifyClose maps a read-loop error to (normal, diagnostic). Only the
// protocol's normal-closure and no-status codes count as normal; every other
// closure, and any non-close transport error, is abnormal.
func classifyClose(err error) (normal bool, diagnostic string) {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		switch closeErr.Code {
		case websocket.CloseNormalClosure, websocket.CloseNoStatusReceived:
			return true, ""
		case websocket.CloseAbnormalClosure:
			return false, diagUnreachable
		case websocket.ClosePolicyViolation:
			return false, diagPolicy
		default:
			if closeErr.Text != "" {
				return false, fmt.Sprintf("Connection closed with code %d: %s", closeErr.Code, closeErr.Text)
			}
			return false, fmt.Sprintf("Connection closed with code %d", closeErr.Code)
		}
	}
	return false, "Connection error: " + err.Error()
}
