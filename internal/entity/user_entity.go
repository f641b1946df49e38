package entity

import (
	"time"

	"github.com/google/uuid"
)

// User holds the profile the persona prompt is built from. ProfileData keys
// are not fixed in advance; the prompt composer knows the well-known ones and
// ignores the rest.
type User struct {
	Id          uuid.UUID
	Name        string
	Age         int
	Language    string // "zh" or "en"
	ProfileData map[string]string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
