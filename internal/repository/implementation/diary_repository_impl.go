package implementation

import (
	"context"
	"errors"

	"timecapsule-be/internal/entity"
	"timecapsule-be/internal/mapper"
	"timecapsule-be/internal/model"
	"timecapsule-be/internal/repository/contract"
	"timecapsule-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DiaryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DiaryMapper
}

func NewDiaryRepository(db *gorm.DB) contract.DiaryRepository {
	return &DiaryRepositoryImpl{
		db:     db,
		mapper: mapper.NewDiaryMapper(),
	}
}

func (r *DiaryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DiaryRepositoryImpl) Create(ctx context.Context, entry *entity.DiaryEntry) error {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *DiaryRepositoryImpl) Update(ctx context.Context, entry *entity.DiaryEntry) error {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *DiaryRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.DiaryEntry{}, id).Error
}

func (r *DiaryRepositoryImpl) DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.DiaryEntry{}).Error
}

func (r *DiaryRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DiaryEntry, error) {
	var m model.DiaryEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DiaryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DiaryEntry, error) {
	var models []*model.DiaryEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.DiaryEntry, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
