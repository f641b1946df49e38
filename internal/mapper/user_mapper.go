package mapper

import (
	"fmt"
	"time"

	"timecapsule-be/internal/entity"
	"timecapsule-be/internal/model"

	"gorm.io/datatypes"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}

	var updatedAt *time.Time
	if !u.UpdatedAt.IsZero() {
		t := u.UpdatedAt
		updatedAt = &t
	}

	profile := make(map[string]string, len(u.ProfileData))
	for k, v := range u.ProfileData {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			profile[k] = s
		} else {
			profile[k] = fmt.Sprintf("%v", v)
		}
	}

	return &entity.User{
		Id:          u.Id,
		Name:        u.Name,
		Age:         u.Age,
		Language:    u.Language,
		ProfileData: profile,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}

	var updatedAt time.Time
	if u.UpdatedAt != nil {
		updatedAt = *u.UpdatedAt
	}

	profile := make(datatypes.JSONMap, len(u.ProfileData))
	for k, v := range u.ProfileData {
		profile[k] = v
	}

	return &model.User{
		Id:          u.Id,
		Name:        u.Name,
		Age:         u.Age,
		Language:    u.Language,
		ProfileData: profile,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}
