package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeChatMessageSent = "CHAT_MESSAGE_SENT"
	TypeUserReset       = "USER_RESET"
)

// NewChatMessageSent describes a completed chat exchange. resultTag is empty
// for genuine provider content.
func NewChatMessageSent(userId, sessionId uuid.UUID, resultTag string) Event {
	return BaseEvent{
		Type: TypeChatMessageSent,
		Data: map[string]interface{}{
			"user_id":    userId.String(),
			"session_id": sessionId.String(),
			"result_tag": resultTag,
		},
		OccurredAt: time.Now(),
	}
}

// NewUserReset describes a full account wipe.
func NewUserReset(userId uuid.UUID) Event {
	return BaseEvent{
		Type: TypeUserReset,
		Data: map[string]interface{}{
			"user_id": userId.String(),
		},
		OccurredAt: time.Now(),
	}
}
