// Copyright (c) 2025 Atium Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/atiumresearch/atui/internal/model"
)

// =============================================================================
// VIEW
// =============================================================================

func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.banner.Visible() {
		b.WriteString(m.banner.View())
		b.WriteString("\n")
	} else if m.spinner.Active() {
		b.WriteString(" " + m.spinner.View())
		b.WriteString("\n")
	} else {
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.statusBar.View())
	return b.String()
}

func (m *Model) renderHeader() string {
	title := m.chat.Title
	if title == "" {
		title = m.chat.ID
	}
	brand := m.theme.HeaderBrand.Render("atui")
	return m.theme.Header.Width(m.width).
		Render(brand + "  " + m.theme.CardTitle.Render(title))
}

// renderTranscript renders every entry as a labeled block. Agent output goes
// through the markdown renderer when one is configured; tool events render as
// a single dim line.
func (m *Model) renderTranscript() string {
	entries := m.snapshot.Transcript
	if len(entries) == 0 {
		return m.theme.InputHint.Render("\n  No messages yet. Say something to the agent.")
	}

	blocks := make([]string, 0, len(entries))
	for _, entry := range entries {
		blocks = append(blocks, m.renderEntry(entry))
	}
	return strings.Join(blocks, "\n")
}

func (m *Model) renderEntry(entry model.TranscriptEntry) string {
	switch entry.Role {
	case model.RoleToolEvent:
		return m.theme.EventLine.Render("  · " + entry.Content)

	case model.RoleAgent:
		label := m.theme.AgentLabel.Render(entry.Role.DisplayName())
		body := entry.Content
		if m.markdown != nil {
			if rendered, err := m.markdown.Render(body); err == nil {
				body = strings.TrimRight(rendered, "\n")
			}
		}
		return label + "\n" + m.theme.MessageBody.Render(body)

	default:
		label := m.theme.UserLabel.Render(entry.Role.DisplayName())
		body := lipgloss.NewStyle().
			Width(max(m.width-4, 20)).
			Render(entry.Content)
		return label + "\n" + m.theme.MessageBody.Render(body)
	}
}
