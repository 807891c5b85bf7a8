// Copyright (c) 2025 Atium Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"
)

func TestNewEntryGeneratesUniqueIDs(t *testing.T) {
	a := NewUserEntry("hello")
	b := NewUserEntry("hello")

	if a.ID == "" || b.ID == "" {
		t.Fatal("expected non-empty IDs")
	}
	if a.ID == b.ID {
		t.Errorf("expected unique IDs, both were %q", a.ID)
	}
	if a.Role != RoleUser {
		t.Errorf("Role = %q, want %q", a.Role, RoleUser)
	}
	if a.Timestamp.IsZero() {
		t.Error("expected non-zero timestamp")
	}
}

func TestRoleDisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "You"},
		{RoleAgent, "Agent"},
		{RoleToolEvent, "Event"},
		{Role("other"), "other"},
	}
	for _, tt := range tests {
		if got := tt.role.DisplayName(); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestTranscriptClone(t *testing.T) {
	tr := Transcript{NewUserEntry("a"), NewAgentEntry("b")}
	clone := tr.Clone()

	if len(clone) != 2 {
		t.Fatalf("clone length = %d, want 2", len(clone))
	}

	// Appending to the original must not alias into the clone.
	tr[0].Content = "mutated"
	if clone[0].Content != "a" {
		t.Errorf("clone saw mutation: %q", clone[0].Content)
	}

	if Transcript(nil).Clone() != nil {
		t.Error("nil transcript should clone to nil")
	}
}

func TestTranscriptLast(t *testing.T) {
	var tr Transcript
	if _, ok := tr.Last(); ok {
		t.Error("empty transcript should have no last entry")
	}

	tr = append(tr, NewUserEntry("a"), NewAgentEntry("b"))
	last, ok := tr.Last()
	if !ok || last.Content != "b" {
		t.Errorf("Last = %+v, %v; want content %q", last, ok, "b")
	}
}

func TestChatMessageEntryRole(t *testing.T) {
	if got := (ChatMessage{Role: "assistant"}).EntryRole(); got != RoleAgent {
		t.Errorf("assistant maps to %q, want %q", got, RoleAgent)
	}
	if got := (ChatMessage{Role: "user"}).EntryRole(); got != RoleUser {
		t.Errorf("user maps to %q, want %q", got, RoleUser)
	}
	if got := (ChatMessage{Role: "system"}).EntryRole(); got != RoleUser {
		t.Errorf("unknown role maps to %q, want %q", got, RoleUser)
	}
}
