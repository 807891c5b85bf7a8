// Copyright (c) 2025 Atium Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/atiumresearch/atui/internal/model"
	"github.com/atiumresearch/atui/internal/session"
	"github.com/atiumresearch/atui/internal/ui/components"
	"github.com/atiumresearch/atui/internal/ui/styles"
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the chat view. It owns the input line and viewport; all session
// state lives in the controller and reaches the view as snapshots.
type Model struct {
	theme *styles.Theme
	ctrl  *session.Controller

	chat    model.Chat
	pending *StartRequest

	viewport  viewport.Model
	input     textinput.Model
	spinner   components.Spinner
	statusBar components.StatusBar
	banner    components.ErrorBanner

	markdown *glamour.TermRenderer
	useMD    bool

	snapshot    session.Snapshot
	researching bool
	width       int
	height      int
	ready       bool
}

// New creates a chat view for req, driving ctrl. Markdown rendering of agent
// output is enabled when useMarkdown is set and a renderer can be built.
func New(theme *styles.Theme, ctrl *session.Controller, req OpenRequest, endpoint string, useMarkdown bool) *Model {
	input := textinput.New()
	input.Placeholder = "Message the agent..."
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.CharLimit = 4000
	input.Focus()

	statusBar := components.NewStatusBar(theme)
	statusBar.SetEndpoint(endpoint)
	statusBar.SetHint("enter send · ctrl+r research · esc back · ctrl+c quit")

	m := &Model{
		theme:     theme,
		ctrl:      ctrl,
		chat:      req.Chat,
		pending:   req.Start,
		input:     input,
		spinner:   components.NewSpinner(),
		statusBar: statusBar,
		banner:    components.NewErrorBanner(theme),
		useMD:     useMarkdown,
	}
	m.snapshot = ctrl.Snapshot()
	return m
}

// Init opens the session and arms the snapshot pump.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.openCmd(), m.waitForChange(), textinput.Blink)
}

// openCmd establishes the connection. Errors also arrive through the snapshot
// pump; the message here just keeps the Open error from being silently lost
// if the pump notification was coalesced away.
func (m *Model) openCmd() tea.Cmd {
	ctrl, chatID := m.ctrl, m.chat.ID
	return func() tea.Msg {
		if err := ctrl.Open(context.Background(), chatID); err != nil {
			return SessionOpenErrMsg{Err: err}
		}
		return nil
	}
}

// waitForChange blocks until the controller reports a change, then delivers
// a snapshot. The Update handler re-arms it after every delivery.
func (m *Model) waitForChange() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		<-ctrl.Changed()
		return SessionChangedMsg{Snapshot: ctrl.Snapshot()}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SessionChangedMsg:
		cmds = append(cmds, m.applySnapshot(msg.Snapshot)...)
		cmds = append(cmds, m.waitForChange())

	case SessionOpenErrMsg:
		m.banner.Show(msg.Err.Error())

	case SendFailedMsg:
		m.banner.Show(msg.Err.Error())

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.banner.Visible() {
			m.banner.Dismiss()
			return m, nil
		}
		if m.researching {
			m.setResearching(false)
			return m, nil
		}
		return m, func() tea.Msg { return BackMsg{} }

	case "ctrl+r":
		m.setResearching(!m.researching)
		return m, nil

	case "enter":
		if m.researching {
			return m, m.submitResearch()
		}
		return m, m.submit()

	case "up", "down", "pgup", "pgdown", "home", "end":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// setResearching switches the input line between chat and research-topic
// entry.
func (m *Model) setResearching(on bool) {
	m.researching = on
	m.input.Reset()
	if on {
		m.input.Placeholder = "Research topic..."
		m.input.Prompt = "research> "
	} else {
		m.input.Placeholder = "Message the agent..."
		m.input.Prompt = "> "
	}
}

// submitResearch kicks off a research run on the current topic. The
// controller enforces the once-per-connection rule.
func (m *Model) submitResearch() tea.Cmd {
	topic := strings.TrimSpace(m.input.Value())
	if topic == "" {
		return nil
	}
	ctrl := m.ctrl
	m.setResearching(false)
	return func() tea.Msg {
		if err := ctrl.SendStart(topic, ""); err != nil {
			return SendFailedMsg{Err: err}
		}
		return nil
	}
}

// submit sends the input line through the controller.
func (m *Model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return nil
	}
	ctrl := m.ctrl
	m.input.Reset()
	return func() tea.Msg {
		if err := ctrl.SendUserMessage(text); err != nil {
			return SendFailedMsg{Err: err}
		}
		return nil
	}
}

// applySnapshot reduces a snapshot into the visual components and, when a
// research kickoff is pending and the connection just opened, dispatches it.
func (m *Model) applySnapshot(snap session.Snapshot) []tea.Cmd {
	atBottom := m.viewport.AtBottom()
	m.snapshot = snap

	var cmds []tea.Cmd

	m.statusBar.SetState(snap.Status.String(), snap.Waiting)
	if snap.Waiting {
		m.spinner.SetMessage(snap.StatusMessage)
		if cmd := m.spinner.Start(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	} else {
		m.spinner.Stop()
	}
	m.banner.Show(snap.ErrorMessage)

	if m.ready {
		m.viewport.SetContent(m.renderTranscript())
		if atBottom {
			m.viewport.GotoBottom()
		}
	}

	if m.pending != nil && snap.Status == session.StatusOpen && !snap.StartSent {
		start := *m.pending
		m.pending = nil
		ctrl := m.ctrl
		cmds = append(cmds, func() tea.Msg {
			if err := ctrl.SendStart(start.Topic, start.RepoName); err != nil {
				return SendFailedMsg{Err: err}
			}
			return nil
		})
	}

	return cmds
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.Resize(width, height)
	m.statusBar.SetWidth(width)
	m.banner.SetWidth(width)
	m.input.Width = width - 4

	// Header, status line, input, footer.
	viewportHeight := height - 6
	if viewportHeight < 3 {
		viewportHeight = 3
	}
	if !m.ready {
		m.viewport = viewport.New(width, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = viewportHeight
	}

	if m.useMD {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(min(width-4, 100)),
		)
		if err == nil {
			m.markdown = renderer
		}
	}

	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}
