package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateContactRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Relation string `json:"relation" validate:"omitempty,max=100"`
	Phone    string `json:"phone" validate:"omitempty,max=50"`
	Address  string `json:"address" validate:"omitempty,max=500"`
	Notes    string `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateContactRequest struct {
	Name     string `json:"name" validate:"omitempty,max=100"`
	Relation string `json:"relation" validate:"omitempty,max=100"`
	Phone    string `json:"phone" validate:"omitempty,max=50"`
	Address  string `json:"address" validate:"omitempty,max=500"`
	Notes    string `json:"notes" validate:"omitempty,max=2000"`
}

type ContactResponse struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Relation  string    `json:"relation"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
