// Copyright (c) 2025 Atium Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package projects

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atiumresearch/atui/internal/api"
	"github.com/atiumresearch/atui/internal/model"
	"github.com/atiumresearch/atui/internal/ui/chat"
	"github.com/atiumresearch/atui/internal/ui/components"
	"github.com/atiumresearch/atui/internal/ui/styles"
)

// =============================================================================
// MODEL
// =============================================================================

// mode selects which layer of the dashboard has focus.
type mode int

const (
	modeBrowse mode = iota
	modeCreate
	modeAsk
)

// Model is the dashboard view.
type Model struct {
	theme  *styles.Theme
	client *api.Client

	chats   []model.Chat
	cursor  int
	loading bool

	mode       mode
	topicInput textinput.Model
	repoInput  textinput.Model
	focusRepo  bool

	askInput   textinput.Model
	askPending bool
	askReply   string

	spinner   components.Spinner
	statusBar components.StatusBar
	banner    components.ErrorBanner

	width  int
	height int
}

// New creates the dashboard bound to the directory client.
func New(theme *styles.Theme, client *api.Client, endpoint string) *Model {
	topic := textinput.New()
	topic.Placeholder = "Research topic"
	topic.Prompt = "topic> "
	topic.PromptStyle = theme.InputPrompt
	topic.CharLimit = 200

	repo := textinput.New()
	repo.Placeholder = "Repository (optional)"
	repo.Prompt = "repo>  "
	repo.PromptStyle = theme.InputPrompt
	repo.CharLimit = 200

	ask := textinput.New()
	ask.Placeholder = "Ask the agent a one-off question"
	ask.Prompt = "? "
	ask.PromptStyle = theme.InputPrompt
	ask.CharLimit = 1000

	statusBar := components.NewStatusBar(theme)
	statusBar.SetEndpoint(endpoint)
	statusBar.SetHint("n new · enter open · d delete · a ask · r reload · q quit")
	statusBar.SetState("dashboard", false)

	return &Model{
		theme:      theme,
		client:     client,
		topicInput: topic,
		repoInput:  repo,
		askInput:   ask,
		spinner:    components.NewSpinner(),
		statusBar:  statusBar,
		banner:     components.NewErrorBanner(theme),
	}
}

// Init loads the project list.
func (m *Model) Init() tea.Cmd {
	return m.loadChats()
}

// Browsing reports whether the list has focus (no form or prompt open).
func (m *Model) Browsing() bool {
	return m.mode == modeBrowse
}

// Selected returns the project under the cursor.
func (m *Model) Selected() (model.Chat, bool) {
	if m.cursor < 0 || m.cursor >= len(m.chats) {
		return model.Chat{}, false
	}
	return m.chats[m.cursor], true
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m *Model) loadChats() tea.Cmd {
	client := m.client
	m.loading = true
	return func() tea.Msg {
		chats, err := client.ListChats(context.Background())
		if err != nil {
			return DirectoryErrMsg{Err: err}
		}
		return ChatsLoadedMsg{Chats: chats}
	}
}

func (m *Model) createChat(topic, repoName string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		created, err := client.CreateChat(context.Background(), topic)
		if err != nil {
			return DirectoryErrMsg{Err: err}
		}
		return ChatCreatedMsg{
			Chat:  *created,
			Start: &chat.StartRequest{Topic: topic, RepoName: repoName},
		}
	}
}

func (m *Model) deleteChat(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if err := client.DeleteChat(context.Background(), id); err != nil {
			return DirectoryErrMsg{Err: err}
		}
		return ChatDeletedMsg{ID: id}
	}
}

func (m *Model) askAgent(question string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		reply, err := client.AgentChat(context.Background(), question)
		if err != nil {
			return AskErrMsg{Err: err}
		}
		return AskReplyMsg{Question: question, Reply: reply}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ChatsLoadedMsg:
		m.loading = false
		m.spinner.Stop()
		m.chats = msg.Chats
		if m.cursor >= len(m.chats) {
			m.cursor = len(m.chats) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case ChatCreatedMsg:
		// The root model takes over and opens the session.
		return m, func() tea.Msg {
			return OpenChatMsg{Req: chat.OpenRequest{Chat: msg.Chat, Start: msg.Start}}
		}

	case ChatDeletedMsg:
		return m, m.loadChats()

	case DirectoryErrMsg:
		m.loading = false
		m.spinner.Stop()
		m.banner.Show(msg.Err.Error())
		return m, nil

	case AskReplyMsg:
		m.askPending = false
		m.spinner.Stop()
		m.askReply = msg.Reply
		return m, nil

	case AskErrMsg:
		m.askPending = false
		m.spinner.Stop()
		m.banner.Show(msg.Err.Error())
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch m.mode {
	case modeCreate:
		return m.handleCreateKey(msg)
	case modeAsk:
		return m.handleAskKey(msg)
	}
	return m.handleBrowseKey(msg)
}

func (m *Model) handleBrowseKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.banner.Dismiss()
		m.askReply = ""

	case "j", "down":
		if m.cursor < len(m.chats)-1 {
			m.cursor++
		}

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "enter":
		if selected, ok := m.Selected(); ok {
			return m, func() tea.Msg {
				return OpenChatMsg{Req: chat.OpenRequest{Chat: selected}}
			}
		}

	case "n":
		m.mode = modeCreate
		m.focusRepo = false
		m.topicInput.Reset()
		m.repoInput.Reset()
		return m, m.topicInput.Focus()

	case "d":
		if selected, ok := m.Selected(); ok {
			return m, m.deleteChat(selected.ID)
		}

	case "a":
		m.mode = modeAsk
		m.askInput.Reset()
		m.askReply = ""
		return m, m.askInput.Focus()

	case "r":
		m.spinner.SetMessage("Loading projects")
		return m, tea.Batch(m.loadChats(), m.spinner.Start())
	}
	return m, nil
}

func (m *Model) handleCreateKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.topicInput.Blur()
		m.repoInput.Blur()
		return m, nil

	case "tab", "shift+tab":
		m.focusRepo = !m.focusRepo
		if m.focusRepo {
			m.topicInput.Blur()
			return m, m.repoInput.Focus()
		}
		m.repoInput.Blur()
		return m, m.topicInput.Focus()

	case "enter":
		topic := strings.TrimSpace(m.topicInput.Value())
		if topic == "" {
			m.banner.Show("A research topic is required.")
			return m, nil
		}
		repoName := strings.TrimSpace(m.repoInput.Value())
		m.mode = modeBrowse
		m.topicInput.Blur()
		m.repoInput.Blur()
		m.spinner.SetMessage("Creating project")
		return m, tea.Batch(m.createChat(topic, repoName), m.spinner.Start())
	}

	var cmd tea.Cmd
	if m.focusRepo {
		m.repoInput, cmd = m.repoInput.Update(msg)
	} else {
		m.topicInput, cmd = m.topicInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleAskKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.askInput.Blur()
		return m, nil

	case "enter":
		question := strings.TrimSpace(m.askInput.Value())
		if question == "" {
			return m, nil
		}
		m.mode = modeBrowse
		m.askInput.Blur()
		m.askPending = true
		m.spinner.SetMessage("Asking the agent")
		return m, tea.Batch(m.askAgent(question), m.spinner.Start())
	}

	var cmd tea.Cmd
	m.askInput, cmd = m.askInput.Update(msg)
	return m, cmd
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.statusBar.SetWidth(width)
	m.banner.SetWidth(width)
	m.topicInput.Width = width - 12
	m.repoInput.Width = width - 12
	m.askInput.Width = width - 6
}
