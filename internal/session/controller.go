// Copyright (c) 2025 Atium Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns one logical chat session: the binding between a
// project (chat) identifier and a live stream connection. The controller
// drives the connection lifecycle, performs the subscribe handshake, reduces
// server-pushed messages into one ordered transcript, and classifies
// disconnects. The UI only reads snapshots and issues operations; it never
// mutates session state directly.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/atiumresearch/atui/internal/config"
	"github.com/atiumresearch/atui/internal/model"
	"github.com/atiumresearch/atui/internal/protocol"
)

// =============================================================================
// STATUS
// =============================================================================

// Status is the connection state of the current session instance.
// Transitions are monotonic within one connection instance:
// idle → connecting → (open | error) → closed. Reopening creates a new
// instance and starts over at connecting.
type Status int

const (
	StatusIdle Status = iota
	StatusConnecting
	StatusOpen
	StatusClosed
	StatusError
)

// String returns a display label for the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusConnecting:
		return "connecting"
	case StatusOpen:
		return "open"
	case StatusClosed:
		return "closed"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Operation preconditions surfaced to callers.
var (
	ErrEmptyMessage     = errors.New("message is empty")
	ErrBusy             = errors.New("still waiting for the previous reply")
	ErrNotOpen          = errors.New("session is not open")
	ErrStartAlreadySent = errors.New("research start already sent on this connection")
)

// startHint replaces the backend's generic invalid-format error when it
// arrives while a research start is in flight.
const startHint = "The research request was not accepted. Check the topic and repository name, then reopen the session to retry."

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is a point-in-time copy of the observable session state. The
// transcript is cloned; readers may hold it across further updates.
type Snapshot struct {
	ChatID        string
	Status        Status
	Transcript    model.Transcript
	StatusMessage string
	ErrorMessage  string
	Waiting       bool
	StartSent     bool
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Options customizes a Controller.
type Options struct {
	// Dialer opens stream connections. Defaults to DefaultDialer.
	Dialer Dialer
	// MaxToolSummaryLen caps unknown tool-input rendering (default 80).
	MaxToolSummaryLen int
	// OnStartDispatched fires after a research start message went out, so
	// the caller can clear any pending request state and avoid resubmission.
	OnStartDispatched func()
	// LogDropped logs payloads rejected by the lenient decoder. Off by
	// default to keep the hot path quiet.
	LogDropped bool
}

// Controller owns one session. All methods are safe for concurrent use,
// though the expected caller is a single UI loop.
type Controller struct {
	cfg  *config.Config
	opts Options

	mu         sync.Mutex
	gen        int // connection instance counter; stale callbacks check it
	chatID     string
	status     Status
	transcript model.Transcript
	statusMsg  string
	errMsg     string
	waiting    bool
	startSent  bool
	conn       Conn

	changed chan struct{}
}

// New creates a controller using the production WebSocket dialer.
func New(cfg *config.Config) *Controller {
	return NewWithOptions(cfg, Options{})
}

// NewWithOptions creates a controller with explicit options.
func NewWithOptions(cfg *config.Config, opts Options) *Controller {
	if opts.Dialer == nil {
		opts.Dialer = DefaultDialer
	}
	if opts.MaxToolSummaryLen <= 0 {
		opts.MaxToolSummaryLen = cfg.UI.MaxToolSummaryLen
	}
	if opts.MaxToolSummaryLen <= 0 {
		opts.MaxToolSummaryLen = protocol.DefaultSummaryLen
	}
	return &Controller{
		cfg:     cfg,
		opts:    opts,
		status:  StatusIdle,
		changed: make(chan struct{}, 1),
	}
}

// Changed returns a coalesced notification channel: it receives after any
// state change. Consumers re-read Snapshot on each receive.
func (c *Controller) Changed() <-chan struct{} {
	return c.changed
}

func (c *Controller) notify() {
	select {
	case c.changed <- struct{}{}:
	default:
	}
}

// Snapshot returns a copy of the observable state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		ChatID:        c.chatID,
		Status:        c.status,
		Transcript:    c.transcript.Clone(),
		StatusMessage: c.statusMsg,
		ErrorMessage:  c.errMsg,
		Waiting:       c.waiting,
		StartSent:     c.startSent,
	}
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Open binds the controller to chatID and establishes a fresh connection.
// Any previous connection is closed first; its in-flight callbacks become
// stale and are ignored. On transport open the subscribe handshake for
// chatID is the first and only message sent.
func (c *Controller) Open(ctx context.Context, chatID string) error {
	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.gen++
	gen := c.gen
	c.chatID = chatID
	c.transcript = nil
	c.statusMsg = ""
	c.errMsg = ""
	c.waiting = false
	c.startSent = false
	c.status = StatusConnecting

	wsURL, err := c.cfg.WebSocketURL()
	if err != nil {
		// Configuration error: never attempt to connect.
		c.status = StatusError
		c.errMsg = err.Error()
		c.mu.Unlock()
		c.notify()
		return err
	}
	dial := c.opts.Dialer
	c.mu.Unlock()
	c.notify()

	conn, err := dial(ctx, wsURL)

	c.mu.Lock()
	if gen != c.gen {
		// Superseded while dialing: another Open or Close won.
		c.mu.Unlock()
		if err == nil {
			conn.Close()
		}
		return nil
	}
	if err != nil {
		c.status = StatusError
		c.errMsg = fmt.Sprintf("%s: %v", diagDialFailed, err)
		c.mu.Unlock()
		c.notify()
		return err
	}

	c.conn = conn
	c.status = StatusOpen
	if err := conn.WriteJSON(protocol.Subscribe(chatID)); err != nil {
		c.status = StatusError
		c.errMsg = "Handshake failed: " + err.Error()
		conn.Close()
		c.conn = nil
		c.mu.Unlock()
		c.notify()
		return err
	}
	c.mu.Unlock()
	c.notify()

	go c.readLoop(gen, conn)
	return nil
}

// SendUserMessage appends an optimistic user entry and transmits the chat
// message. There is no retry: a later server error message or an abnormal
// close surfaces the failure.
func (c *Controller) SendUserMessage(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	if c.status != StatusOpen || c.conn == nil {
		c.mu.Unlock()
		return ErrNotOpen
	}
	if c.waiting {
		c.mu.Unlock()
		return ErrBusy
	}
	c.transcript = append(c.transcript, model.NewUserEntry(text))
	c.waiting = true
	c.errMsg = ""
	err := c.conn.WriteJSON(protocol.Chat(c.chatID, text))
	c.mu.Unlock()
	c.notify()
	return err
}

// SendStart transmits the research start message at most once per connection
// instance. It appends a synthetic user entry describing the request and
// invokes OnStartDispatched so the caller can drop any pending request.
func (c *Controller) SendStart(topic, repoName string) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	if c.status != StatusOpen || c.conn == nil {
		c.mu.Unlock()
		return ErrNotOpen
	}
	if c.startSent {
		c.mu.Unlock()
		return ErrStartAlreadySent
	}

	desc := "Start research: " + topic
	if repoName != "" {
		desc += " (repo: " + repoName + ")"
	}
	c.transcript = append(c.transcript, model.NewUserEntry(desc))
	c.waiting = true
	c.errMsg = ""
	c.startSent = true
	err := c.conn.WriteJSON(protocol.Research(c.chatID, topic, repoName))
	cb := c.opts.OnStartDispatched
	c.mu.Unlock()
	c.notify()
	if cb != nil {
		cb()
	}
	return err
}

// Close tears down the current connection and marks the session closed.
// Idempotent. Any messages still in flight from the old connection are
// ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.gen++
	c.status = StatusClosed
	c.waiting = false
	c.statusMsg = ""
	c.mu.Unlock()
	c.notify()
}

// =============================================================================
// INBOUND
// =============================================================================

// readLoop pumps one connection instance. It exits on the first read error,
// classifying the closure. gen pins the loop to its connection instance.
func (c *Controller) readLoop(gen int, conn Conn) {
	for {
		data, err := conn.ReadMessage()
		if err != nil {
			c.handleDisconnect(gen, err)
			return
		}
		msg, err := protocol.Decode(data)
		if err != nil {
			// Lenient parsing: drop the payload, leave all state alone.
			if c.opts.LogDropped {
				log.Printf("session: dropped inbound payload: %v", err)
			}
			continue
		}
		c.receive(gen, msg)
	}
}

func (c *Controller) handleDisconnect(gen int, err error) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.waiting = false
	c.statusMsg = ""
	if normal, diagnostic := classifyClose(err); normal {
		c.status = StatusClosed
	} else {
		c.status = StatusError
		c.errMsg = diagnostic
	}
	c.mu.Unlock()
	c.notify()
}

// receive reduces one inbound message into the transcript and indicators.
// Messages from superseded connection instances are discarded.
func (c *Controller) receive(gen int, msg protocol.Inbound) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}

	switch m := msg.(type) {
	case *protocol.History:
		// Full snapshot: replaces any speculative local transcript.
		transcript := make(model.Transcript, 0, len(m.Messages))
		for _, hm := range m.Messages {
			role := model.RoleUser
			if hm.Role == "assistant" {
				role = model.RoleAgent
			}
			transcript = append(transcript, model.NewEntry(role, hm.Content))
		}
		c.transcript = transcript

	case *protocol.AssistantMessage:
		// Streaming merge: contiguous deltas extend the last agent entry.
		if last, ok := c.transcript.Last(); ok && last.Role == model.RoleAgent {
			c.transcript[len(c.transcript)-1].Content += m.Content
		} else {
			c.transcript = append(c.transcript, model.NewAgentEntry(m.Content))
		}
		c.waiting = false

	case *protocol.AgentStatus:
		c.statusMsg = m.Message

	case *protocol.ToolUse:
		c.transcript = append(c.transcript, model.NewToolEventEntry(m.Summary(c.opts.MaxToolSummaryLen)))

	case *protocol.Result:
		c.waiting = false
		c.statusMsg = ""
		c.transcript = append(c.transcript, model.NewToolEventEntry(m.Summary()))

	case *protocol.ErrorMessage:
		errText := m.Error
		if c.startSent && c.waiting && strings.Contains(strings.ToLower(errText), "invalid message format") {
			errText = startHint
		}
		c.waiting = false
		c.statusMsg = ""
		c.errMsg = errText
		c.transcript = append(c.transcript, model.NewToolEventEntry("Error: "+errText))

	case *protocol.UserMessage, *protocol.Connected:
		// user_message echoes what we already appended optimistically;
		// connected carries no payload worth surfacing.

	default:
	}

	c.mu.Unlock()
	c.notify()
}
