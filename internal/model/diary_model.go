package model

import (
	"time"

	"github.com/google/uuid"
)

type DiaryEntry struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"type:text;not null"`
	Content   string    `gorm:"type:text;not null"`
	Date      string    `gorm:"type:varchar(20);not null"`
	Mood      string    `gorm:"type:varchar(50);not null;default:'calm'"`
	Pinned    bool      `gorm:"default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (DiaryEntry) TableName() string {
	return "diary_entries"
}
