// Copyright (c) 2025 Atium Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the live session view: the transcript viewport, the
// input line, and the pump that turns session state changes into Bubble Tea
// messages.
package chat

import (
	"github.com/atiumresearch/atui/internal/model"
	"github.com/atiumresearch/atui/internal/session"
)

// =============================================================================
// SESSION MESSAGES
// =============================================================================

// SessionChangedMsg carries a fresh snapshot after the controller signaled a
// state change. The pump command re-arms itself after each delivery.
type SessionChangedMsg struct {
	Snapshot session.Snapshot
}

// SessionOpenErrMsg reports a failed Open call. The snapshot pump still runs;
// this only surfaces the immediate error to the view.
type SessionOpenErrMsg struct {
	Err error
}

// SendFailedMsg reports a failed send operation (empty input, busy, closed).
type SendFailedMsg struct {
	Err error
}

// =============================================================================
// NAVIGATION MESSAGES
// =============================================================================

// BackMsg asks the root model to close the session and return to the
// dashboard.
type BackMsg struct{}

// StartRequest is a pending research kickoff, carried from the dashboard's
// new-project form into the session. It is dispatched once, as soon as the
// connection is open.
type StartRequest struct {
	Topic    string
	RepoName string
}

// OpenRequest describes the session the chat view should drive.
type OpenRequest struct {
	Chat  model.Chat
	Start *StartRequest
}
