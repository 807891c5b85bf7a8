// Copyright (c) 2025 Atium Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atiumresearch/atui/internal/model"
)

// chatDirectory is an in-memory stand-in for the backend's /chats collection.
type chatDirectory struct {
	mu    sync.Mutex
	next  int
	chats map[string]model.Chat
	order []string
}

func newChatDirectory() *chatDirectory {
	return &chatDirectory{chats: make(map[string]model.Chat)}
}

func (d *chatDirectory) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /chats", func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		defer d.mu.Unlock()
		out := make([]model.Chat, 0, len(d.order))
		for _, id := range d.order {
			out = append(out, d.chats[id])
		}
		json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("POST /chats", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Title string `json:"title"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		d.mu.Lock()
		defer d.mu.Unlock()
		d.next++
		id := fmt.Sprintf("chat-%d", d.next)
		title := body.Title
		if title == "" {
			title = "Untitled"
		}
		chat := model.Chat{ID: id, Title: title, CreatedAt: "2026-01-01T00:00:00Z", UpdatedAt: "2026-01-01T00:00:00Z"}
		d.chats[id] = chat
		d.order = append(d.order, id)
		json.NewEncoder(w).Encode(chat)
	})
	mux.HandleFunc("GET /chats/{id}", func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		defer d.mu.Unlock()
		chat, ok := d.chats[r.PathValue("id")]
		if !ok {
			http.Error(w, "chat not found", http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(chat)
	})
	mux.HandleFunc("DELETE /chats/{id}", func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		defer d.mu.Unlock()
		id := r.PathValue("id")
		if _, ok := d.chats[id]; !ok {
			http.Error(w, "chat not found", http.StatusNotFound)
			return
		}
		delete(d.chats, id)
		for i, existing := range d.order {
			if existing == id {
				d.order = append(d.order[:i], d.order[i+1:]...)
				break
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

// TestDirectoryRoundTrip covers create-then-list and delete-then-list.
func TestDirectoryRoundTrip(t *testing.T) {
	server := httptest.NewServer(newChatDirectory().handler())
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	created, err := client.CreateChat(ctx, "Momentum Strategy")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Momentum Strategy", created.Title)

	chats, err := client.ListChats(ctx)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	require.Equal(t, created.ID, chats[0].ID)
	require.Equal(t, created.Title, chats[0].Title)

	fetched, err := client.GetChat(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, fetched.ID)

	require.NoError(t, client.DeleteChat(ctx, created.ID))

	chats, err = client.ListChats(ctx)
	require.NoError(t, err)
	require.Empty(t, chats)
}

func TestCreateChatOmitsEmptyTitle(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		json.NewEncoder(w).Encode(model.Chat{ID: "c1"})
	}))
	defer server.Close()

	_, err := NewClient(server.URL).CreateChat(context.Background(), "")
	require.NoError(t, err)
	require.JSONEq(t, `{}`, gotBody)
}

func TestGetChatMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chats/c1/messages", r.URL.Path)
		json.NewEncoder(w).Encode([]model.ChatMessage{
			{ID: "m1", ChatID: "c1", Role: "user", Content: "hi"},
			{ID: "m2", ChatID: "c1", Role: "assistant", Content: "hello"},
		})
	}))
	defer server.Close()

	msgs, err := NewClient(server.URL).GetChatMessages(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, model.RoleAgent, msgs[1].EntryRole())
}

func TestAgentChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/agent/chat", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		var body struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "what is alpha?", body.Message)
		json.NewEncoder(w).Encode(map[string]string{"response": "excess return"})
	}))
	defer server.Close()

	reply, err := NewClient(server.URL).AgentChat(context.Background(), "what is alpha?")
	require.NoError(t, err)
	require.Equal(t, "excess return", reply)
}

func TestHTTPErrorCarriesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database is on fire", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).ListChats(context.Background())
	require.Error(t, err)

	var clientErr *ClientError
	require.True(t, errors.As(err, &clientErr))
	require.Equal(t, ErrTypeHTTP, clientErr.Type)
	require.Equal(t, http.StatusInternalServerError, clientErr.StatusCode)
	require.Equal(t, "database is on fire", clientErr.Message)
}

func TestHTTPErrorEmptyBodyFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).ListChats(context.Background())
	require.Error(t, err)

	var clientErr *ClientError
	require.True(t, errors.As(err, &clientErr))
	require.Equal(t, "List chats failed: 502", clientErr.Message)
}

func TestConnectionError(t *testing.T) {
	// Closed server: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := NewClient(server.URL).ListChats(context.Background())
	require.Error(t, err)

	var clientErr *ClientError
	require.True(t, errors.As(err, &clientErr))
	require.Equal(t, ErrTypeConnection, clientErr.Type)
}
