// Copyright (c) 2025 Atium Research
// SPDX-License-Identifier: AGPL-3.0-or-later

package protocol

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubscribeWireShape(t *testing.T) {
	data, err := json.Marshal(Subscribe("chat-1"))
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"subscribe","chatId":"chat-1"}`, string(data))
}

func TestChatWireShape(t *testing.T) {
	data, err := json.Marshal(Chat("chat-1", "hello"))
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"chat","chatId":"chat-1","content":"hello"}`, string(data))
}

func TestResearchWireShape(t *testing.T) {
	data, err := json.Marshal(Research("chat-1", "quant momentum", "my-repo"))
	require.NoError(t, err)
	require.JSONEq(t,
		`{"type":"research","chatId":"chat-1","topic":"quant momentum","repo_name":"my-repo"}`,
		string(data))
}

func TestResearchEmptyRepoMarshalsNull(t *testing.T) {
	data, err := json.Marshal(Research("chat-1", "topic", ""))
	require.NoError(t, err)
	require.JSONEq(t,
		`{"type":"research","chatId":"chat-1","topic":"topic","repo_name":null}`,
		string(data))
}

func TestDecodeVariants(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"connected", `{"type":"connected"}`, TypeConnected},
		{"history", `{"type":"history","chatId":"c","messages":[{"role":"user","content":"hi"}]}`, TypeHistory},
		{"user echo", `{"type":"user_message","chatId":"c","content":"hi"}`, TypeUserMessage},
		{"delta", `{"type":"assistant_message","chatId":"c","content":"Hi"}`, TypeAssistantMessage},
		{"status", `{"type":"agent_status","chatId":"c","message":"thinking"}`, TypeAgentStatus},
		{"tool use", `{"type":"tool_use","chatId":"c","toolName":"Bash","toolInput":{"command":"ls"}}`, TypeToolUse},
		{"result", `{"type":"result","chatId":"c","success":true}`, TypeResult},
		{"error", `{"type":"error","chatId":"c","error":"boom"}`, TypeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Decode([]byte(tt.payload))
			require.NoError(t, err)
			require.Equal(t, tt.want, msg.MessageType())
		})
	}
}

func TestDecodeHistoryFields(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"history","chatId":"c1","messages":[
		{"role":"assistant","content":"A"},
		{"role":"user","content":"B"}]}`))
	require.NoError(t, err)

	hist, ok := msg.(*History)
	require.True(t, ok)
	require.Equal(t, "c1", hist.ChatID)
	require.Len(t, hist.Messages, 2)
	require.Equal(t, "assistant", hist.Messages[0].Role)
	require.Equal(t, "B", hist.Messages[1].Content)
}

func TestDecodeResultOptionalFields(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"result","chatId":"c","success":true,"cost":0.002,"duration_ms":1500}`))
	require.NoError(t, err)

	res := msg.(*Result)
	require.True(t, res.Success)
	require.NotNil(t, res.Cost)
	require.InDelta(t, 0.002, *res.Cost, 1e-9)
	require.NotNil(t, res.DurationMS)
	require.EqualValues(t, 1500, *res.DurationMS)

	msg, err = Decode([]byte(`{"type":"result","chatId":"c","success":false}`))
	require.NoError(t, err)
	res = msg.(*Result)
	require.Nil(t, res.Cost)
	require.Nil(t, res.DurationMS)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	cases := []string{
		"not json at all",
		`{"no_type":"here"}`,
		`{"type":"brand_new_thing"}`,
		`{"type":42}`,
		"",
	}
	for _, payload := range cases {
		_, err := Decode([]byte(payload))
		require.Error(t, err, "payload %q", payload)
		require.True(t, errors.Is(err, ErrUnknownMessage), "payload %q: %v", payload, err)
	}
}

func TestToolUseSummaryKnownTool(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"tool_use","chatId":"c","toolName":"Bash","toolInput":{"command":"ls -la /tmp"}}`))
	require.NoError(t, err)

	tool := msg.(*ToolUse)
	require.Equal(t, "Bash: ls -la /tmp", tool.Summary(80))
}

func TestToolUseSummaryUnknownToolTruncates(t *testing.T) {
	input := `{"giant_field":"` + strings.Repeat("x", 200) + `"}`
	tool := ToolUse{ToolName: "Mystery", ToolInput: json.RawMessage(input)}

	got := tool.Summary(80)
	require.True(t, strings.HasPrefix(got, "Mystery: "))
	require.True(t, strings.HasSuffix(got, "..."))
	require.LessOrEqual(t, len([]rune(got)), len("Mystery: ")+80)
}

func TestToolUseSummaryEmptyInput(t *testing.T) {
	tool := ToolUse{ToolName: "Bash"}
	require.Equal(t, "Bash", tool.Summary(80))

	tool = ToolUse{}
	require.Equal(t, "tool", tool.Summary(80))
}

func TestResultSummary(t *testing.T) {
	cost := 0.002
	dur := int64(1500)

	res := Result{Success: true, Cost: &cost, DurationMS: &dur}
	require.Equal(t, "Completed · $0.0020 · 1500ms", res.Summary())

	require.Equal(t, "Completed", Result{Success: true}.Summary())
	require.Equal(t, "Failed", Result{}.Summary())

	res = Result{Success: false, DurationMS: &dur}
	require.Equal(t, "Failed · 1500ms", res.Summary())
}
