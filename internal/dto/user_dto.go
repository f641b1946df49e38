package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	Id          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Age         int               `json:"age"`
	Language    string            `json:"language"`
	ProfileData map[string]string `json:"profile_data"`
	CreatedAt   time.Time         `json:"created_at"`
}

type UpdateProfileRequest struct {
	Name        string            `json:"name" validate:"omitempty,max=100"`
	Age         *int              `json:"age" validate:"omitempty,min=1,max=150"`
	Language    string            `json:"language" validate:"omitempty,oneof=zh en"`
	ProfileData map[string]string `json:"profile_data" validate:"omitempty"`
}

type GenerateUUIDResponse struct {
	UserId uuid.UUID `json:"user_id"`
}
