// Copyright (c) 2025 Atium Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Chat is a project ("chat") resource as stored by the backend. The ID is
// opaque and stable; clients never mutate a chat except by appending new
// transcript entries through the stream.
type Chat struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ChatMessage is one stored message from the backend's history collection
// (GET /chats/{id}/messages). Role is either "user" or "assistant".
type ChatMessage struct {
	ID        string `json:"id"`
	ChatID    string `json:"chat_id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// EntryRole maps a stored backend role onto a transcript role. The backend
// writes "assistant" for agent output; anything else renders as the user.
func (m ChatMessage) EntryRole() Role {
	if m.Role == "assistant" {
		return RoleAgent
	}
	return RoleUser
}

// ProjectStatus mirrors the dashboard's project state badge.
type ProjectStatus string

const (
	ProjectActive ProjectStatus = "active"
	ProjectPaused ProjectStatus = "paused"
)

// DisplayName returns the badge label for the status.
func (s ProjectStatus) DisplayName() string {
	switch s {
	case ProjectActive:
		return "Active"
	case ProjectPaused:
		return "Paused"
	default:
		return string(s)
	}
}
