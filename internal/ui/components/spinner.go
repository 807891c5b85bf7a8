// Copyright (c) 2025 Atium Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides shared UI components for the atui views.
package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atiumresearch/atui/internal/ui/styles"
)

// =============================================================================
// SPINNER
// =============================================================================

// Spinner is the waiting indicator shown while the agent is working. It wraps
// the bubbles spinner and renders the current agent status line next to it.
type Spinner struct {
	spinner   spinner.Model
	message   string
	startTime time.Time
	active    bool
}

// NewSpinner creates a spinner with ASCII-compatible frames.
func NewSpinner() Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	s.Style = lipgloss.NewStyle().Foreground(styles.Orange)
	return Spinner{spinner: s, message: "Working"}
}

// Start activates the spinner and resets its timer.
func (s *Spinner) Start() tea.Cmd {
	if s.active {
		return nil
	}
	s.active = true
	s.startTime = time.Now()
	return s.spinner.Tick
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.active = false
}

// Active reports whether the spinner is running.
func (s Spinner) Active() bool {
	return s.active
}

// SetMessage updates the status line. An empty message falls back to the
// default label.
func (s *Spinner) SetMessage(message string) {
	if message == "" {
		message = "Working"
	}
	s.message = message
}

// Update advances the animation.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.active {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders "frame message... (elapsed)".
func (s Spinner) View() string {
	if !s.active {
		return ""
	}
	elapsed := time.Since(s.startTime).Round(time.Second)
	label := lipgloss.NewStyle().Foreground(styles.TextSecondary).
		Render(fmt.Sprintf("%s... (%s)", s.message, elapsed))
	return s.spinner.View() + " " + label
}
