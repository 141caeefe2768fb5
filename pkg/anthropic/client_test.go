package anthropic

import (
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSDKMessages(t *testing.T) {
	t.Parallel()

	msgs := toSDKMessages([]Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
		{Role: "", Content: "defaults to user"},
	})

	require.Len(t, msgs, 3)
	assert.Equal(t, sdk.MessageParamRoleUser, msgs[0].Role)
	assert.Equal(t, sdk.MessageParamRoleAssistant, msgs[1].Role)
	assert.Equal(t, sdk.MessageParamRoleUser, msgs[2].Role)
}

func TestFromSDKMessage(t *testing.T) {
	t.Parallel()

	resp := fromSDKMessage(&sdk.Message{
		ID:    "msg_01",
		Model: "claude-haiku-4-5-20251001",
		Content: []sdk.ContentBlockUnion{
			{Type: "text", Text: "first"},
			{Type: "text", Text: " second"},
		},
		StopReason: "end_turn",
		Usage:      sdk.Usage{InputTokens: 12, OutputTokens: 7},
	})

	assert.Equal(t, "msg_01", resp.ID)
	assert.Equal(t, "end_turn", resp.StopReason)
	assert.Equal(t, int64(12), resp.Usage.InputTokens)
	assert.Equal(t, int64(7), resp.Usage.OutputTokens)
	assert.Equal(t, "first second", resp.Text())
}

func TestResponseTextSkipsNonText(t *testing.T) {
	t.Parallel()

	resp := &MessageResponse{Content: []ContentBlock{
		{Type: "tool_use", Text: "ignored"},
		{Type: "text", Text: "kept"},
	}}
	assert.Equal(t, "kept", resp.Text())
}
