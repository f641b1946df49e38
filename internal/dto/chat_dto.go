package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Title string `json:"title" validate:"omitempty,max=200"`
}

type SessionResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=4000"`
}

type MessageResponse struct {
	Id        uuid.UUID `json:"id"`
	SessionId uuid.UUID `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	ResultTag string    `json:"result_tag,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatReplyResponse is the payload for a completed exchange. For redirects
// and provider-terminal outcomes the assistant text is synthesized and
// Persisted is false.
type ChatReplyResponse struct {
	SessionId uuid.UUID        `json:"session_id"`
	Reply     *MessageResponse `json:"reply,omitempty"`
	Content   string           `json:"content"`
	Persisted bool             `json:"persisted"`
}

type SessionMessagesResponse struct {
	Session  SessionResponse    `json:"session"`
	Messages []*MessageResponse `json:"messages"`
}

// SendMessageResult distinguishes a normal reply from a profile redirect.
// Exactly one of Redirect and Reply is set.
type SendMessageResult struct {
	Redirect *RedirectInfo
	Reply    *ChatReplyResponse
}

type RedirectInfo struct {
	Message     string
	RedirectURL string
}

func NewRedirectResult(message, redirectURL string) *SendMessageResult {
	return &SendMessageResult{Redirect: &RedirectInfo{Message: message, RedirectURL: redirectURL}}
}

// PublishSessionTitleMessage is the async work item for titling a session
// after its first exchange.
type PublishSessionTitleMessage struct {
	SessionId    uuid.UUID `json:"session_id"`
	FirstMessage string    `json:"first_message"`
}
