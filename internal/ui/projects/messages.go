// Copyright (c) 2025 Atium Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package projects provides the dashboard view: the project list backed by
// the directory client, the new-project form, and the quick-ask prompt.
package projects

import (
	"github.com/atiumresearch/atui/internal/model"
	"github.com/atiumresearch/atui/internal/ui/chat"
)

// =============================================================================
// DIRECTORY MESSAGES
// =============================================================================

// ChatsLoadedMsg delivers the project list.
type ChatsLoadedMsg struct {
	Chats []model.Chat
}

// ChatCreatedMsg delivers a freshly created project together with the
// research request to kick off once its session opens.
type ChatCreatedMsg struct {
	Chat  model.Chat
	Start *chat.StartRequest
}

// ChatDeletedMsg confirms a deletion.
type ChatDeletedMsg struct {
	ID string
}

// DirectoryErrMsg reports a failed directory call.
type DirectoryErrMsg struct {
	Err error
}

// =============================================================================
// QUICK ASK MESSAGES
// =============================================================================

// AskReplyMsg delivers the one-shot agent answer.
type AskReplyMsg struct {
	Question string
	Reply    string
}

// AskErrMsg reports a failed quick-ask call.
type AskErrMsg struct {
	Err error
}

// =============================================================================
// NAVIGATION MESSAGES
// =============================================================================

// OpenChatMsg asks the root model to open a session for the given project.
type OpenChatMsg struct {
	Req chat.OpenRequest
}
