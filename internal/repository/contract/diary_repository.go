package contract

import (
	"context"

	"timecapsule-be/internal/entity"
	"timecapsule-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DiaryRepository interface {
	Create(ctx context.Context, entry *entity.DiaryEntry) error
	Update(ctx context.Context, entry *entity.DiaryEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DiaryEntry, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DiaryEntry, error)
}
