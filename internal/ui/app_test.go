// Copyright (c) 2025 Atium Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/atiumresearch/atui/internal/config"
	"github.com/atiumresearch/atui/internal/model"
	"github.com/atiumresearch/atui/internal/ui/chat"
	"github.com/atiumresearch/atui/internal/ui/projects"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	app := NewApp(config.Default())
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return app
}

func TestAppSwitchesBetweenViews(t *testing.T) {
	app := newTestApp(t)
	require.Equal(t, viewProjects, app.view)

	open := projects.OpenChatMsg{
		Req: chat.OpenRequest{Chat: model.Chat{ID: "c1", Title: "Momentum Strategy"}},
	}
	_, cmd := app.Update(open)
	require.NotNil(t, cmd)
	require.Equal(t, viewChat, app.view)
	require.NotNil(t, app.ctrl)
	require.Contains(t, app.View(), "Momentum Strategy")

	_, cmd = app.Update(chat.BackMsg{})
	require.Equal(t, viewProjects, app.view)
	require.Nil(t, app.ctrl)
	require.NotNil(t, cmd)
}

func TestAppQuitKeys(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	require.Equal(t, tea.Quit(), cmd())

	app = newTestApp(t)
	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	require.Equal(t, tea.Quit(), cmd())
}

func TestConfigReloadRebuildsDashboard(t *testing.T) {
	app := newTestApp(t)
	before := app.dashboard

	reloaded := config.Default()
	reloaded.Backend.URL = "http://other.example.com"
	_, cmd := app.Update(ConfigReloadedMsg{Config: reloaded})
	require.NotNil(t, cmd)
	require.NotSame(t, before, app.dashboard)
	require.Equal(t, "http://other.example.com", app.cfg.Backend.URL)
}
