package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDiaryEntryRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Mood    string `json:"mood" validate:"omitempty,max=50"`
	Pinned  bool   `json:"pinned"`
}

type UpdateDiaryEntryRequest struct {
	Title   string `json:"title" validate:"omitempty,max=200"`
	Content string `json:"content" validate:"omitempty"`
	Date    string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Mood    string `json:"mood" validate:"omitempty,max=50"`
	Pinned  *bool  `json:"pinned"`
}

type DiaryEntryResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Date      string    `json:"date"`
	Mood      string    `json:"mood"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
