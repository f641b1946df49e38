package mock

import (
	"fmt"
	"strings"

	"timecapsule-be/internal/constant"
	"timecapsule-be/internal/entity"
	"timecapsule-be/pkg/llm"
)

// Responder produces a deterministic stand-in reply when no provider is
// configured or the provider degraded. The reply echoes the message, shows
// the compact filtered history, and closes with a personalized note when
// the profile has a name.
type Responder struct{}

func NewResponder() *Responder {
	return &Responder{}
}

// Respond builds the fallback reply. The history passed in must already be
// filtered (see persona/history.Filter) so tagged turns and duplicates of
// the current message never echo back.
func (r *Responder) Respond(userMessage, userName string, filteredHistory []*entity.ChatMessage) llm.Result {
	var b strings.Builder
	fmt.Fprintf(&b, "Echo: %s", userMessage)

	if len(filteredHistory) > 0 {
		b.WriteString("\n\nChat History:")
		for _, m := range filteredHistory {
			speaker := "AI"
			if m.Role == constant.ChatMessageRoleUser {
				speaker = "You"
			}
			fmt.Fprintf(&b, "\n%s: %s", speaker, m.Content)
		}
	}

	if userName != "" {
		fmt.Fprintf(&b, "\n\nBy the way, %s, this is just a mock response. In the future, we'll connect to a real LLM API.", userName)
	}

	return llm.DegradedText(b.String(), llm.ReasonMock)
}
