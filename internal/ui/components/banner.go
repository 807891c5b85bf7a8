// Copyright (c) 2025 Atium Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/atiumresearch/atui/internal/ui/styles"
)

// =============================================================================
// ERROR BANNER
// =============================================================================

// ErrorBanner shows the session's error diagnostic above the input area.
// It stays visible until the error clears or the user dismisses it.
type ErrorBanner struct {
	theme   *styles.Theme
	width   int
	message string
}

// NewErrorBanner creates a banner bound to the theme.
func NewErrorBanner(theme *styles.Theme) ErrorBanner {
	return ErrorBanner{theme: theme}
}

// SetWidth sets the render width.
func (b *ErrorBanner) SetWidth(width int) {
	b.width = width
}

// Show displays message. An empty message hides the banner.
func (b *ErrorBanner) Show(message string) {
	b.message = message
}

// Dismiss hides the banner.
func (b *ErrorBanner) Dismiss() {
	b.message = ""
}

// Visible reports whether the banner has something to show.
func (b ErrorBanner) Visible() bool {
	return b.message != ""
}

// View renders the banner, wrapping the message to the available width.
func (b ErrorBanner) View() string {
	if b.message == "" || b.width <= 0 {
		return ""
	}
	inner := b.width - 4
	if inner < 10 {
		inner = 10
	}
	body := lipgloss.NewStyle().Width(inner).Render(b.message)
	return b.theme.ErrorBanner.Render(body)
}
