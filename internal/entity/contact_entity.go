package entity

import (
	"time"

	"github.com/google/uuid"
)

type Contact struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Name      string
	Relation  string
	Phone     string
	Address   string
	Notes     string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
