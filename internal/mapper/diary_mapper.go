package mapper

import (
	"time"

	"timecapsule-be/internal/entity"
	"timecapsule-be/internal/model"
)

type DiaryMapper struct{}

func NewDiaryMapper() *DiaryMapper {
	return &DiaryMapper{}
}

func (m *DiaryMapper) ToEntity(d *model.DiaryEntry) *entity.DiaryEntry {
	if d == nil {
		return nil
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.DiaryEntry{
		Id:        d.Id,
		UserId:    d.UserId,
		Title:     d.Title,
		Content:   d.Content,
		Date:      d.Date,
		Mood:      d.Mood,
		Pinned:    d.Pinned,
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *DiaryMapper) ToModel(d *entity.DiaryEntry) *model.DiaryEntry {
	if d == nil {
		return nil
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.DiaryEntry{
		Id:        d.Id,
		UserId:    d.UserId,
		Title:     d.Title,
		Content:   d.Content,
		Date:      d.Date,
		Mood:      d.Mood,
		Pinned:    d.Pinned,
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
	}
}
