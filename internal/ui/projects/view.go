// Copyright (c) 2025 Atium Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package projects

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/atiumresearch/atui/internal/model"
	"github.com/atiumresearch/atui/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch m.mode {
	case modeCreate:
		b.WriteString(m.renderCreateForm())
	case modeAsk:
		b.WriteString(m.renderAskPrompt())
	default:
		b.WriteString(m.renderList())
	}

	if m.askReply != "" {
		b.WriteString("\n")
		b.WriteString(m.renderAskReply())
	}
	if m.banner.Visible() {
		b.WriteString("\n")
		b.WriteString(m.banner.View())
	} else if m.spinner.Active() {
		b.WriteString("\n " + m.spinner.View())
	}

	b.WriteString("\n")
	b.WriteString(m.statusBar.View())
	return b.String()
}

func (m *Model) renderHeader() string {
	brand := m.theme.HeaderBrand.Render("atui")
	label := "research projects"
	if len(m.chats) > 0 {
		label = fmt.Sprintf("research projects · %d active", len(m.chats))
	}
	return m.theme.Header.Width(m.width).
		Render(brand + "  " + m.theme.CardMeta.Render(label))
}

func (m *Model) renderList() string {
	if m.loading && len(m.chats) == 0 {
		return m.theme.InputHint.Render("\n  Loading projects...")
	}
	if len(m.chats) == 0 {
		return m.theme.InputHint.Render("\n  No projects yet. Press n to start one.")
	}

	cardWidth := m.width - 4
	if cardWidth < 24 {
		cardWidth = 24
	}

	var cards []string
	for i, project := range m.chats {
		style := m.theme.Card
		if i == m.cursor {
			style = m.theme.CardSelected
		}
		title := m.theme.CardTitle.Render(util.TruncateWidth(project.Title, cardWidth-2))
		// Backend-listed projects are live research chats; the paused badge
		// is reserved for archived entries.
		badge := m.theme.StatusOpen.Render(model.ProjectActive.DisplayName())
		meta := badge
		if project.UpdatedAt != "" {
			meta += "  " + m.theme.CardMeta.Render(project.UpdatedAt)
		}
		cards = append(cards, style.Width(cardWidth).Render(title+"\n"+meta))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func (m *Model) renderCreateForm() string {
	title := m.theme.CardTitle.Render("New research project")
	hint := m.theme.InputHint.Render("tab switch field · enter create · esc cancel")
	body := title + "\n\n" + m.topicInput.View() + "\n" + m.repoInput.View() + "\n\n" + hint
	return m.theme.Card.Width(max(m.width-4, 30)).Render(body)
}

func (m *Model) renderAskPrompt() string {
	title := m.theme.CardTitle.Render("Quick ask")
	hint := m.theme.InputHint.Render("enter ask · esc cancel")
	body := title + "\n\n" + m.askInput.View() + "\n\n" + hint
	return m.theme.Card.Width(max(m.width-4, 30)).Render(body)
}

func (m *Model) renderAskReply() string {
	body := lipgloss.NewStyle().Width(max(m.width-8, 20)).Render(m.askReply)
	label := m.theme.AgentLabel.Render("Agent")
	return m.theme.Card.Width(max(m.width-4, 30)).Render(label + "\n" + body)
}
