package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one turn in a session. Seq is the store-assigned insertion
// sequence; retrieval orders by CreatedAt then Seq so sub-second bursts keep
// their insertion order. ResultTag is empty for genuine content and carries
// the degraded/terminal tag otherwise (see pkg/llm.Result.Tag).
type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Role          string
	Content       string
	ResultTag     string
	Seq           int64
	CreatedAt     time.Time
}
