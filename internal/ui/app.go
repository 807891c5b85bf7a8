// Copyright (c) 2025 Atium Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui provides the root Bubble Tea model that switches between the
// projects dashboard and the live chat view.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atiumresearch/atui/internal/api"
	"github.com/atiumresearch/atui/internal/config"
	"github.com/atiumresearch/atui/internal/session"
	"github.com/atiumresearch/atui/internal/ui/chat"
	"github.com/atiumresearch/atui/internal/ui/projects"
	"github.com/atiumresearch/atui/internal/ui/styles"
)

// ConfigReloadedMsg delivers a fresh configuration from the file watcher.
// The new backend applies to the dashboard immediately; an open session
// keeps its current connection until reopened.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// view selects the active screen.
type view int

const (
	viewProjects view = iota
	viewChat
)

// App is the root model.
type App struct {
	theme  *styles.Theme
	cfg    *config.Config
	client *api.Client

	view      view
	dashboard *projects.Model
	chat      *chat.Model
	ctrl      *session.Controller

	width  int
	height int
}

// NewApp wires the root model from the loaded configuration.
func NewApp(cfg *config.Config) *App {
	switch cfg.UI.Theme {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}
	theme := styles.NewTheme()
	client := api.NewClient(cfg.APIBase())
	return &App{
		theme:     theme,
		cfg:       cfg,
		client:    client,
		dashboard: projects.New(theme, client, cfg.APIBase()),
	}
}

func (a *App) Init() tea.Cmd {
	return a.dashboard.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			a.closeSession()
			return a, tea.Quit
		case "q":
			// Quit only from the dashboard list; everywhere else "q" is text.
			if a.view == viewProjects && a.dashboard.Browsing() {
				a.closeSession()
				return a, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.dashboard, _ = a.dashboard.Update(msg)
		if a.chat != nil {
			a.chat, _ = a.chat.Update(msg)
		}
		return a, nil

	case ConfigReloadedMsg:
		a.cfg = msg.Config
		a.client = api.NewClient(a.cfg.APIBase())
		a.dashboard = projects.New(a.theme, a.client, a.cfg.APIBase())
		a.dashboard, _ = a.dashboard.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		if a.view == viewProjects {
			return a, a.dashboard.Init()
		}
		return a, nil

	case projects.OpenChatMsg:
		return a, a.openSession(msg.Req)

	case chat.BackMsg:
		a.closeSession()
		a.view = viewProjects
		return a, a.dashboard.Init()
	}

	var cmd tea.Cmd
	switch a.view {
	case viewChat:
		if a.chat != nil {
			a.chat, cmd = a.chat.Update(msg)
		}
	default:
		a.dashboard, cmd = a.dashboard.Update(msg)
	}
	return a, cmd
}

func (a *App) View() string {
	if a.view == viewChat && a.chat != nil {
		return a.chat.View()
	}
	return a.dashboard.View()
}

// openSession builds a controller and chat view for the request and hands
// control to the chat screen.
func (a *App) openSession(req chat.OpenRequest) tea.Cmd {
	a.closeSession()
	a.ctrl = session.New(a.cfg)
	a.chat = chat.New(a.theme, a.ctrl, req, a.cfg.APIBase(), a.cfg.UI.Glamour)
	a.view = viewChat

	var cmds []tea.Cmd
	if a.width > 0 {
		var cmd tea.Cmd
		a.chat, cmd = a.chat.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		cmds = append(cmds, cmd)
	}
	cmds = append(cmds, a.chat.Init())
	return tea.Batch(cmds...)
}

func (a *App) closeSession() {
	if a.ctrl != nil {
		a.ctrl.Close()
		a.ctrl = nil
	}
	a.chat = nil
}
