package mock

import (
	"testing"

	"timecapsule-be/internal/constant"
	"timecapsule-be/internal/entity"
	"timecapsule-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

func TestRespond_EchoOnly(t *testing.T) {
	result := NewResponder().Respond("hello there", "", nil)

	assert.Equal(t, llm.KindDegraded, result.Kind)
	assert.Equal(t, llm.ReasonMock, result.Reason)
	assert.Equal(t, "degraded:mock", result.Tag())
	assert.Equal(t, "Echo: hello there", result.Text)
}

func TestRespond_IncludesHistory(t *testing.T) {
	history := []*entity.ChatMessage{
		{Role: constant.ChatMessageRoleUser, Content: "first question"},
		{Role: constant.ChatMessageRoleAssistant, Content: "first answer"},
	}

	result := NewResponder().Respond("second question", "", history)

	assert.Contains(t, result.Text, "Chat History:")
	assert.Contains(t, result.Text, "You: first question")
	assert.Contains(t, result.Text, "AI: first answer")
}

func TestRespond_PersonalizedClosing(t *testing.T) {
	result := NewResponder().Respond("hi", "Lee", nil)

	assert.Contains(t, result.Text, "By the way, Lee, this is just a mock response.")
}

func TestRespond_NoClosingWithoutName(t *testing.T) {
	result := NewResponder().Respond("hi", "", nil)

	assert.NotContains(t, result.Text, "By the way")
}
