package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageResponseText(t *testing.T) {
	t.Parallel()

	var nilResp *MessageResponse
	assert.Empty(t, nilResp.Text())
	assert.Empty(t, (&MessageResponse{}).Text())

	resp := &MessageResponse{Content: []ContentBlock{
		{Type: "text", Text: "first"},
		{Type: "text", Text: ""},
		{Type: "text", Text: "second"},
	}}
	assert.Equal(t, "first\nsecond", resp.Text())
}

func TestToSDKMessagesRoles(t *testing.T) {
	t.Parallel()

	out := toSDKMessages([]Message{
		{Role: "user", Content: "classify this"},
		{Role: "assistant", Content: "company"},
		{Role: "", Content: "defaults to user"},
	})
	require.Len(t, out, 3)
	assert.Equal(t, "user", string(out[0].Role))
	assert.Equal(t, "assistant", string(out[1].Role))
	assert.Equal(t, "user", string(out[2].Role))
}

func TestNewClientImplementsInterface(t *testing.T) {
	t.Parallel()
	var _ Client = NewClient("test-key")
}
