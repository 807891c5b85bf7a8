// Copyright (c) 2025 Atium Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/atiumresearch/atui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar renders the single-line footer: connection state on the left,
// the backend endpoint on the right, context hints in the middle.
type StatusBar struct {
	theme *styles.Theme

	width    int
	state    string
	stateTag lipgloss.Style
	hint     string
	endpoint string
}

// NewStatusBar creates a status bar bound to the theme.
func NewStatusBar(theme *styles.Theme) StatusBar {
	return StatusBar{
		theme:    theme,
		state:    "idle",
		stateTag: theme.StatusClosed,
	}
}

// SetWidth sets the render width.
func (b *StatusBar) SetWidth(width int) {
	b.width = width
}

// SetEndpoint sets the backend endpoint shown on the right.
func (b *StatusBar) SetEndpoint(endpoint string) {
	b.endpoint = endpoint
}

// SetState sets the connection label and picks its color.
func (b *StatusBar) SetState(state string, working bool) {
	b.state = state
	switch {
	case working:
		b.stateTag = b.theme.StatusWorking
	case state == "open":
		b.stateTag = b.theme.StatusOpen
	default:
		b.stateTag = b.theme.StatusClosed
	}
}

// SetHint sets the key-hint text.
func (b *StatusBar) SetHint(hint string) {
	b.hint = hint
}

// View renders the bar at the configured width.
func (b StatusBar) View() string {
	if b.width <= 0 {
		return ""
	}

	left := "● " + b.stateTag.Render(b.state)
	right := b.theme.HelpBar.Render(b.endpoint)
	middle := b.theme.HelpBar.Render(b.hint)

	gap := b.width - lipgloss.Width(left) - lipgloss.Width(middle) - lipgloss.Width(right)
	if gap < 1 {
		// Narrow terminal: drop the endpoint first, then the hint.
		right = ""
		gap = b.width - lipgloss.Width(left) - lipgloss.Width(middle)
		if gap < 1 {
			middle = ""
			gap = b.width - lipgloss.Width(left)
		}
	}
	if gap < 0 {
		gap = 0
	}

	half := gap / 2
	line := left + strings.Repeat(" ", half) + middle + strings.Repeat(" ", gap-half) + right
	return b.theme.StatusBar.Width(b.width).Render(line)
}
