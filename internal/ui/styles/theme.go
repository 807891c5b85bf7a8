// Copyright (c) 2025 Atium Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components shared across views. It detects the
// terminal's color capability once and hands prebuilt styles to the views.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions, updated on resize.
	Width  int
	Height int

	// Chrome
	Header      lipgloss.Style
	HeaderBrand lipgloss.Style
	StatusBar   lipgloss.Style
	HelpBar     lipgloss.Style

	// Transcript
	UserLabel   lipgloss.Style
	AgentLabel  lipgloss.Style
	EventLine   lipgloss.Style
	MessageBody lipgloss.Style

	// Dashboard
	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardTitle    lipgloss.Style
	CardMeta     lipgloss.Style

	// Indicators
	StatusOpen    lipgloss.Style
	StatusClosed  lipgloss.Style
	StatusWorking lipgloss.Style
	ErrorBanner   lipgloss.Style

	// Input
	InputPrompt lipgloss.Style
	InputHint   lipgloss.Style
}

// NewTheme builds the theme for the current terminal.
func NewTheme() *Theme {
	profile := termenv.ColorProfile()
	t := &Theme{
		IsDark:       lipgloss.HasDarkBackground(),
		ColorProfile: profile,
	}

	t.Header = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(BlueDim).
		Padding(0, 1)
	t.HeaderBrand = lipgloss.NewStyle().Foreground(Blue).Bold(true)
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfacePanel).
		Padding(0, 1)
	t.HelpBar = lipgloss.NewStyle().Foreground(TextMuted).Padding(0, 1)

	t.UserLabel = lipgloss.NewStyle().Foreground(Orange).Bold(true)
	t.AgentLabel = lipgloss.NewStyle().Foreground(Blue).Bold(true)
	t.EventLine = lipgloss.NewStyle().Foreground(TextSecondary).Italic(true)
	t.MessageBody = lipgloss.NewStyle().Foreground(TextPrimary)

	t.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.CardSelected = t.Card.BorderForeground(Blue)
	t.CardTitle = lipgloss.NewStyle().Foreground(TextPrimary).Bold(true)
	t.CardMeta = lipgloss.NewStyle().Foreground(TextMuted)

	t.StatusOpen = lipgloss.NewStyle().Foreground(Emerald)
	t.StatusClosed = lipgloss.NewStyle().Foreground(TextMuted)
	t.StatusWorking = lipgloss.NewStyle().Foreground(Orange)
	t.ErrorBanner = lipgloss.NewStyle().
		Foreground(Rose).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().Foreground(Blue).Bold(true)
	t.InputHint = lipgloss.NewStyle().Foreground(TextMuted)

	return t
}

// Resize records the terminal dimensions.
func (t *Theme) Resize(width, height int) {
	t.Width = width
	t.Height = height
}
