// Copyright (c) 2025 Atium Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/atiumresearch/atui/internal/config"
	"github.com/atiumresearch/atui/internal/model"
	"github.com/atiumresearch/atui/internal/session"
	"github.com/atiumresearch/atui/internal/ui/styles"
)

// stubConn implements session.Conn. Reads block until the connection closes.
type stubConn struct {
	mu   sync.Mutex
	sent [][]byte
	done chan struct{}
	once sync.Once
}

func newStubConn() *stubConn {
	return &stubConn{done: make(chan struct{})}
}

func (c *stubConn) WriteJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.sent = append(c.sent, data)
	c.mu.Unlock()
	return nil
}

func (c *stubConn) ReadMessage() ([]byte, error) {
	<-c.done
	return nil, &websocket.CloseError{Code: websocket.CloseNormalClosure}
}

func (c *stubConn) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

func (c *stubConn) sentTypes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	types := make([]string, 0, len(c.sent))
	for _, raw := range c.sent {
		var envelope struct {
			Type string `json:"type"`
		}
		json.Unmarshal(raw, &envelope)
		types = append(types, envelope.Type)
	}
	return types
}

func newTestModel(t *testing.T) (*Model, *session.Controller, *stubConn) {
	t.Helper()
	conn := newStubConn()
	cfg := config.Default()
	ctrl := session.NewWithOptions(cfg, session.Options{
		Dialer: func(ctx context.Context, url string) (session.Conn, error) {
			return conn, nil
		},
	})
	t.Cleanup(ctrl.Close)

	theme := styles.NewTheme()
	m := New(theme, ctrl, OpenRequest{Chat: model.Chat{ID: "c1", Title: "Momentum Strategy"}}, cfg.APIBase(), false)
	m.resize(100, 30)
	return m, ctrl, conn
}

func TestWaitForChangeDeliversSnapshot(t *testing.T) {
	m, ctrl, _ := newTestModel(t)

	cmd := m.waitForChange()
	ctrl.Close()

	done := make(chan SessionChangedMsg, 1)
	go func() {
		msg := cmd()
		done <- msg.(SessionChangedMsg)
	}()

	select {
	case msg := <-done:
		require.Equal(t, session.StatusClosed, msg.Snapshot.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("snapshot pump never delivered")
	}
}

func TestPendingStartDispatchedOnce(t *testing.T) {
	m, ctrl, conn := newTestModel(t)
	m.pending = &StartRequest{Topic: "momentum signals", RepoName: "atium/quant"}

	require.NoError(t, ctrl.Open(context.Background(), "c1"))

	snap := ctrl.Snapshot()
	require.Equal(t, session.StatusOpen, snap.Status)

	cmds := m.applySnapshot(snap)
	require.Nil(t, m.pending)
	for _, cmd := range cmds {
		if cmd != nil {
			cmd()
		}
	}
	require.Equal(t, []string{"subscribe", "research"}, conn.sentTypes())

	// A later snapshot with the start already sent must not dispatch again.
	cmds = m.applySnapshot(ctrl.Snapshot())
	for _, cmd := range cmds {
		if cmd != nil {
			cmd()
		}
	}
	require.Equal(t, []string{"subscribe", "research"}, conn.sentTypes())
}

func TestSubmitWhileClosedSurfacesError(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.input.SetValue("  hello  ")

	cmd := m.submit()
	require.NotNil(t, cmd)
	require.Empty(t, m.input.Value())

	msg := cmd()
	failed, ok := msg.(SendFailedMsg)
	require.True(t, ok)
	require.True(t, errors.Is(failed.Err, session.ErrNotOpen))
}

func TestSubmitEmptyInputIsNoop(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.input.SetValue("   ")
	require.Nil(t, m.submit())
}

func TestResearchPromptSendsStart(t *testing.T) {
	m, ctrl, conn := newTestModel(t)
	require.NoError(t, ctrl.Open(context.Background(), "c1"))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	require.True(t, m.researching)

	m.input.SetValue("liquidity regimes")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, m.researching)
	require.NotNil(t, cmd)
	require.Nil(t, cmd())

	require.Equal(t, []string{"subscribe", "research"}, conn.sentTypes())

	// Second kickoff on the same connection is refused.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m.input.SetValue("another topic")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg := cmd()
	failed, ok := msg.(SendFailedMsg)
	require.True(t, ok)
	require.True(t, errors.Is(failed.Err, session.ErrStartAlreadySent))
}

func TestEscLeavesResearchModeBeforeGoingBack(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, m.researching)
	require.Nil(t, cmd)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, ok := cmd().(BackMsg)
	require.True(t, ok)
}

func TestRenderTranscript(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.snapshot.Transcript = model.Transcript{
		model.NewUserEntry("find momentum factors"),
		model.NewAgentEntry("Looking at the universe now."),
		model.NewToolEventEntry("Read: signals/momentum.py"),
	}
	out := m.renderTranscript()
	require.Contains(t, out, "You")
	require.Contains(t, out, "Agent")
	require.Contains(t, out, "find momentum factors")
	require.Contains(t, out, "Read: signals/momentum.py")
}

func TestRenderTranscriptEmpty(t *testing.T) {
	m, _, _ := newTestModel(t)
	require.Contains(t, m.renderTranscript(), "No messages yet")
}
