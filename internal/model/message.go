// Copyright (c) 2025 Atium Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the project dashboard and
// the chat transcript.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role identifies the origin of a transcript entry.
type Role string

const (
	// RoleUser is a message the user typed (or an optimistic local echo of one).
	RoleUser Role = "user"
	// RoleAgent is agent output, including incrementally streamed replies.
	RoleAgent Role = "agent"
	// RoleToolEvent is a synthesized one-line notice: a tool invocation, a
	// turn result summary, or an error surfaced into the transcript.
	RoleToolEvent Role = "tool-event"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAgent:
		return "Agent"
	case RoleToolEvent:
		return "Event"
	default:
		return string(r)
	}
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// TranscriptEntry is one unit of the rendered conversation.
type TranscriptEntry struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntry creates a transcript entry with a generated ID.
func NewEntry(role Role, content string) TranscriptEntry {
	return TranscriptEntry{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserEntry creates a user transcript entry.
func NewUserEntry(content string) TranscriptEntry {
	return NewEntry(RoleUser, content)
}

// NewAgentEntry creates an agent transcript entry.
func NewAgentEntry(content string) TranscriptEntry {
	return NewEntry(RoleAgent, content)
}

// NewToolEventEntry creates a tool-event transcript entry.
func NewToolEventEntry(content string) TranscriptEntry {
	return NewEntry(RoleToolEvent, content)
}

// Transcript is the ordered, append-only list of entries for one session.
type Transcript []TranscriptEntry

// Clone returns a copy safe to hand to readers while the owner keeps
// appending. Entries are value types, so a shallow copy suffices.
func (t Transcript) Clone() Transcript {
	if t == nil {
		return nil
	}
	out := make(Transcript, len(t))
	copy(out, t)
	return out
}

// Last returns the final entry, or a zero entry and false when empty.
func (t Transcript) Last() (TranscriptEntry, bool) {
	if len(t) == 0 {
		return TranscriptEntry{}, false
	}
	return t[len(t)-1], true
}
