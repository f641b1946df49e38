package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	Id          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string            `gorm:"type:varchar(255);not null;default:''"`
	Age         int               `gorm:"default:0"`
	Language    string            `gorm:"type:varchar(10);not null;default:'zh'"`
	ProfileData datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt   time.Time         `gorm:"autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
