package service

import (
	"context"
	"time"

	"timecapsule-be/internal/dto"
	"timecapsule-be/internal/entity"
	"timecapsule-be/internal/pkg/serverutils"
	"timecapsule-be/internal/repository/specification"
	"timecapsule-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IDiaryService interface {
	Create(ctx context.Context, userId uuid.UUID, request *dto.CreateDiaryEntryRequest) (*dto.DiaryEntryResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.DiaryEntryResponse, error)
	GetOne(ctx context.Context, userId uuid.UUID, entryId uuid.UUID) (*dto.DiaryEntryResponse, error)
	Update(ctx context.Context, userId uuid.UUID, entryId uuid.UUID, request *dto.UpdateDiaryEntryRequest) (*dto.DiaryEntryResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, entryId uuid.UUID) error
}

type diaryService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewDiaryService(uowFactory unitofwork.RepositoryFactory) IDiaryService {
	return &diaryService{uowFactory: uowFactory}
}

func (ds *diaryService) Create(ctx context.Context, userId uuid.UUID, request *dto.CreateDiaryEntryRequest) (*dto.DiaryEntryResponse, error) {
	uow := ds.uowFactory.NewUnitOfWork(ctx)

	mood := request.Mood
	if mood == "" {
		mood = "calm"
	}
	entry := entity.DiaryEntry{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     request.Title,
		Content:   request.Content,
		Date:      request.Date,
		Mood:      mood,
		Pinned:    request.Pinned,
		CreatedAt: time.Now(),
	}
	if err := uow.DiaryRepository().Create(ctx, &entry); err != nil {
		return nil, serverutils.StorageError(err)
	}

	return diaryToResponse(&entry), nil
}

func (ds *diaryService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.DiaryEntryResponse, error) {
	uow := ds.uowFactory.NewUnitOfWork(ctx)

	// Pinned entries first, then newest by diary date.
	entries, err := uow.DiaryRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "pinned", Desc: true},
		specification.OrderBy{Field: "date", Desc: true},
	)
	if err != nil {
		return nil, serverutils.StorageError(err)
	}

	response := make([]*dto.DiaryEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, diaryToResponse(e))
	}
	return response, nil
}

func (ds *diaryService) GetOne(ctx context.Context, userId uuid.UUID, entryId uuid.UUID) (*dto.DiaryEntryResponse, error) {
	entry, err := ds.findOwned(ctx, userId, entryId)
	if err != nil {
		return nil, err
	}
	return diaryToResponse(entry), nil
}

func (ds *diaryService) Update(ctx context.Context, userId uuid.UUID, entryId uuid.UUID, request *dto.UpdateDiaryEntryRequest) (*dto.DiaryEntryResponse, error) {
	uow := ds.uowFactory.NewUnitOfWork(ctx)

	entry, err := ds.findOwned(ctx, userId, entryId)
	if err != nil {
		return nil, err
	}

	if request.Title != "" {
		entry.Title = request.Title
	}
	if request.Content != "" {
		entry.Content = request.Content
	}
	if request.Date != "" {
		entry.Date = request.Date
	}
	if request.Mood != "" {
		entry.Mood = request.Mood
	}
	if request.Pinned != nil {
		entry.Pinned = *request.Pinned
	}
	now := time.Now()
	entry.UpdatedAt = &now

	if err := uow.DiaryRepository().Update(ctx, entry); err != nil {
		return nil, serverutils.StorageError(err)
	}
	return diaryToResponse(entry), nil
}

func (ds *diaryService) Delete(ctx context.Context, userId uuid.UUID, entryId uuid.UUID) error {
	uow := ds.uowFactory.NewUnitOfWork(ctx)

	if _, err := ds.findOwned(ctx, userId, entryId); err != nil {
		return err
	}
	if err := uow.DiaryRepository().Delete(ctx, entryId); err != nil {
		return serverutils.StorageError(err)
	}
	return nil
}

func (ds *diaryService) findOwned(ctx context.Context, userId, entryId uuid.UUID) (*entity.DiaryEntry, error) {
	uow := ds.uowFactory.NewUnitOfWork(ctx)

	entry, err := uow.DiaryRepository().FindOne(ctx,
		specification.ByID{ID: entryId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, serverutils.StorageError(err)
	}
	if entry == nil {
		return nil, serverutils.NotFoundError("diary entry not found")
	}
	return entry, nil
}

func diaryToResponse(e *entity.DiaryEntry) *dto.DiaryEntryResponse {
	resp := &dto.DiaryEntryResponse{
		Id:        e.Id,
		Title:     e.Title,
		Content:   e.Content,
		Date:      e.Date,
		Mood:      e.Mood,
		Pinned:    e.Pinned,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.CreatedAt,
	}
	if e.UpdatedAt != nil {
		resp.UpdatedAt = *e.UpdatedAt
	}
	return resp
}
