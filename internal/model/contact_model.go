package model

import (
	"time"

	"github.com/google/uuid"
)

type Contact struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Relation  string    `gorm:"type:varchar(100);not null"`
	Phone     string    `gorm:"type:varchar(50);not null"`
	Address   string    `gorm:"type:text;not null;default:''"`
	Notes     string    `gorm:"type:text;not null;default:''"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Contact) TableName() string {
	return "contacts"
}
