package entity

import (
	"time"

	"github.com/google/uuid"
)

type DiaryEntry struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	Content   string
	Date      string // YYYY-MM-DD as entered by the user
	Mood      string
	Pinned    bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}
