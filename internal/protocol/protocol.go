// Copyright (c) 2025 Atium Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package protocol defines the wire shape of every message exchanged with the
// backend over the /ws stream, and builds outbound messages.
//
// Every outbound message is one self-contained JSON object per transmission;
// callers never concatenate multiple objects into one send. Inbound messages
// are tagged by a "type" field and decoded into a closed set of variants.
// Payloads that are not JSON, or whose type is missing or unrecognized, are
// rejected with ErrUnknownMessage so the caller can drop them silently.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atiumresearch/atui/internal/util"
)

// Outbound message types.
const (
	TypeSubscribe = "subscribe"
	TypeChat      = "chat"
	TypeResearch  = "research"
)

// Inbound message types.
const (
	TypeConnected        = "connected"
	TypeHistory          = "history"
	TypeUserMessage      = "user_message"
	TypeAssistantMessage = "assistant_message"
	TypeAgentStatus      = "agent_status"
	TypeToolUse          = "tool_use"
	TypeResult           = "result"
	TypeError            = "error"
)

// ErrUnknownMessage reports an inbound payload that is not JSON or carries no
// recognized type tag. The lenient-parsing policy is to drop such payloads
// without touching transcript or connection state.
var ErrUnknownMessage = errors.New("unknown protocol message")

// =============================================================================
// OUTBOUND MESSAGES
// =============================================================================

// SubscribeMessage binds the connection to one chat. It must be the first
// message sent on a connection, exactly once, immediately after open.
type SubscribeMessage struct {
	Type   string `json:"type"`
	ChatID string `json:"chatId"`
}

// Subscribe builds the handshake message for a chat.
func Subscribe(chatID string) SubscribeMessage {
	return SubscribeMessage{Type: TypeSubscribe, ChatID: chatID}
}

// ChatSendMessage carries one user message to the agent. The caller must
// ensure the content is non-empty after trimming and the connection is open.
type ChatSendMessage struct {
	Type    string `json:"type"`
	ChatID  string `json:"chatId"`
	Content string `json:"content"`
}

// Chat builds a user chat message.
func Chat(chatID, content string) ChatSendMessage {
	return ChatSendMessage{Type: TypeChat, ChatID: chatID, Content: content}
}

// ResearchMessage kicks off the long-running research agent for a chat.
// Sent at most once per connection, only after the subscribe went out.
// RepoName marshals as JSON null when no repository was given.
type ResearchMessage struct {
	Type     string  `json:"type"`
	ChatID   string  `json:"chatId"`
	Topic    string  `json:"topic"`
	RepoName *string `json:"repo_name"`
}

// Research builds the start message. An empty repoName becomes null.
func Research(chatID, topic, repoName string) ResearchMessage {
	msg := ResearchMessage{Type: TypeResearch, ChatID: chatID, Topic: topic}
	if repoName != "" {
		msg.RepoName = &repoName
	}
	return msg
}

// =============================================================================
// INBOUND MESSAGES
// =============================================================================

// Inbound is one server-pushed message. The concrete type is one of the
// variants below; dispatch with a type switch.
type Inbound interface {
	// MessageType returns the wire type tag.
	MessageType() string
}

// Connected acknowledges the connection. No payload.
type Connected struct {
	ChatID string `json:"chatId"`
}

// HistoryMessage is one stored entry inside a history snapshot.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// History is a full snapshot of the chat's stored transcript. It replaces any
// speculative local transcript wholesale.
type History struct {
	ChatID   string           `json:"chatId"`
	Messages []HistoryMessage `json:"messages"`
}

// UserMessage echoes a user message the backend accepted. Informational: the
// client already appended the entry optimistically.
type UserMessage struct {
	ChatID  string `json:"chatId"`
	Content string `json:"content"`
}

// AssistantMessage is an incremental text delta of the running agent reply.
type AssistantMessage struct {
	ChatID  string `json:"chatId"`
	Content string `json:"content"`
}

// AgentStatus is a transient status line, not part of the transcript.
type AgentStatus struct {
	ChatID  string `json:"chatId"`
	Message string `json:"message"`
}

// ToolUse describes a tool invocation by the agent.
type ToolUse struct {
	ChatID    string          `json:"chatId"`
	ToolName  string          `json:"toolName"`
	ToolID    string          `json:"toolId"`
	ToolInput json.RawMessage `json:"toolInput"`
}

// Result is the terminal notice for one agent turn.
type Result struct {
	ChatID     string   `json:"chatId"`
	Success    bool     `json:"success"`
	Cost       *float64 `json:"cost"`
	DurationMS *int64   `json:"duration_ms"`
}

// ErrorMessage carries a turn- or connection-level error string.
type ErrorMessage struct {
	ChatID string `json:"chatId"`
	Error  string `json:"error"`
}

func (Connected) MessageType() string        { return TypeConnected }
func (History) MessageType() string          { return TypeHistory }
func (UserMessage) MessageType() string      { return TypeUserMessage }
func (AssistantMessage) MessageType() string { return TypeAssistantMessage }
func (AgentStatus) MessageType() string      { return TypeAgentStatus }
func (ToolUse) MessageType() string          { return TypeToolUse }
func (Result) MessageType() string           { return TypeResult }
func (ErrorMessage) MessageType() string     { return TypeError }

// Decode parses one inbound payload. It returns ErrUnknownMessage for
// non-JSON payloads and for JSON without a recognized type tag.
func Decode(data []byte) (Inbound, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownMessage, err)
	}

	var msg Inbound
	switch envelope.Type {
	case TypeConnected:
		msg = &Connected{}
	case TypeHistory:
		msg = &History{}
	case TypeUserMessage:
		msg = &UserMessage{}
	case TypeAssistantMessage:
		msg = &AssistantMessage{}
	case TypeAgentStatus:
		msg = &AgentStatus{}
	case TypeToolUse:
		msg = &ToolUse{}
	case TypeResult:
		msg = &Result{}
	case TypeError:
		msg = &ErrorMessage{}
	default:
		return nil, fmt.Errorf("%w: type %q", ErrUnknownMessage, envelope.Type)
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownMessage, err)
	}
	return msg, nil
}

// =============================================================================
// TRANSCRIPT SUMMARIES
// =============================================================================

// DefaultSummaryLen caps the JSON rendering of unknown tool inputs.
const DefaultSummaryLen = 80

// primaryInputField maps known tools to the input field worth showing.
var primaryInputField = map[string]string{
	"Bash":      "command",
	"Read":      "file_path",
	"Write":     "file_path",
	"Edit":      "file_path",
	"Grep":      "pattern",
	"Glob":      "pattern",
	"WebSearch": "query",
	"WebFetch":  "url",
}

// Summary renders a single human-readable line describing the tool call.
// Known tools show their primary input field; anything else falls back to a
// JSON rendering truncated to maxLen runes with an ellipsis marker.
func (t ToolUse) Summary(maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultSummaryLen
	}
	name := t.ToolName
	if name == "" {
		name = "tool"
	}

	if field, ok := primaryInputField[name]; ok {
		var input map[string]any
		if err := json.Unmarshal(t.ToolInput, &input); err == nil {
			if v, ok := input[field].(string); ok && v != "" {
				return util.TruncateRunes(fmt.Sprintf("%s: %s", name, v), maxLen)
			}
		}
	}

	if len(t.ToolInput) == 0 {
		return name
	}
	return fmt.Sprintf("%s: %s", name, util.TruncateRunes(string(t.ToolInput), maxLen))
}

// Summary renders the turn outcome, e.g. "Completed · $0.0020 · 1500ms".
func (r Result) Summary() string {
	s := "Failed"
	if r.Success {
		s = "Completed"
	}
	if r.Cost != nil {
		s += fmt.Sprintf(" · $%.4f", *r.Cost)
	}
	if r.DurationMS != nil {
		s += fmt.Sprintf(" · %dms", *r.DurationMS)
	}
	return s
}
