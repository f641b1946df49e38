package service

import (
	"context"
	"time"

	"timecapsule-be/internal/constant"
	"timecapsule-be/internal/dto"
	"timecapsule-be/internal/entity"
	"timecapsule-be/internal/pkg/logger"
	"timecapsule-be/internal/pkg/serverutils"
	"timecapsule-be/internal/repository/specification"
	"timecapsule-be/internal/repository/unitofwork"
	"timecapsule-be/pkg/events"
	pktNats "timecapsule-be/pkg/nats"
	"timecapsule-be/pkg/persona/history"

	"github.com/google/uuid"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, request *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	GenerateUUID(ctx context.Context) (*dto.GenerateUUIDResponse, error)
	ResetAccount(ctx context.Context, userId uuid.UUID) error
}

type userService struct {
	uowFactory     unitofwork.RepositoryFactory
	historyLoader  *history.Loader
	eventPublisher *pktNats.Publisher // optional
	log            logger.ILogger
}

func NewUserService(
	uowFactory unitofwork.RepositoryFactory,
	historyLoader *history.Loader,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IUserService {
	return &userService{
		uowFactory:     uowFactory,
		historyLoader:  historyLoader,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (us *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := us.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, serverutils.StorageError(err)
	}
	if user == nil {
		return nil, serverutils.NotFoundError("user not found")
	}

	return userToResponse(user), nil
}

// UpdateProfile upserts the profile: the questionnaire flow issues a UUID
// first and fills the record in later.
func (us *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, request *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	uow := us.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, serverutils.StorageError(err)
	}

	isNew := user == nil
	if isNew {
		user = &entity.User{
			Id:          userId,
			Language:    constant.LanguageChinese,
			ProfileData: map[string]string{},
			CreatedAt:   time.Now(),
		}
	}

	if request.Name != "" {
		user.Name = request.Name
	}
	if request.Age != nil {
		user.Age = *request.Age
	}
	if request.Language != "" {
		user.Language = request.Language
	}
	if request.ProfileData != nil {
		if user.ProfileData == nil {
			user.ProfileData = map[string]string{}
		}
		for k, v := range request.ProfileData {
			user.ProfileData[k] = v
		}
	}
	now := time.Now()
	user.UpdatedAt = &now

	if isNew {
		err = uow.UserRepository().Create(ctx, user)
	} else {
		err = uow.UserRepository().Update(ctx, user)
	}
	if err != nil {
		return nil, serverutils.StorageError(err)
	}

	return userToResponse(user), nil
}

// GenerateUUID mints a blank user record. The client stores the id locally
// and sends it back via X-User-UUID until a real login system exists.
func (us *userService) GenerateUUID(ctx context.Context) (*dto.GenerateUUIDResponse, error) {
	uow := us.uowFactory.NewUnitOfWork(ctx)

	user := entity.User{
		Id:          uuid.New(),
		Language:    constant.LanguageChinese,
		ProfileData: map[string]string{},
		CreatedAt:   time.Now(),
	}
	if err := uow.UserRepository().Create(ctx, &user); err != nil {
		return nil, serverutils.StorageError(err)
	}

	return &dto.GenerateUUIDResponse{UserId: user.Id}, nil
}

// ResetAccount wipes everything the user owns: sessions, messages, diary
// entries, contacts, and the profile itself.
func (us *userService) ResetAccount(ctx context.Context, userId uuid.UUID) error {
	uow := us.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return serverutils.StorageError(err)
	}
	sessionIds := make([]uuid.UUID, len(sessions))
	for i, s := range sessions {
		sessionIds[i] = s.Id
	}

	if err := uow.Begin(ctx); err != nil {
		return serverutils.StorageError(err)
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteByChatSessionIds(ctx, sessionIds); err != nil {
		return serverutils.StorageError(err)
	}
	if err := uow.ChatSessionRepository().DeleteAllByUserId(ctx, userId); err != nil {
		return serverutils.StorageError(err)
	}
	if err := uow.DiaryRepository().DeleteAllByUserId(ctx, userId); err != nil {
		return serverutils.StorageError(err)
	}
	if err := uow.ContactRepository().DeleteAllByUserId(ctx, userId); err != nil {
		return serverutils.StorageError(err)
	}
	if err := uow.UserRepository().Delete(ctx, userId); err != nil {
		return serverutils.StorageError(err)
	}

	if err := uow.Commit(); err != nil {
		return serverutils.StorageError(err)
	}

	for _, id := range sessionIds {
		us.historyLoader.Invalidate(id)
	}

	if us.eventPublisher != nil {
		if err := us.eventPublisher.Publish(ctx, events.NewUserReset(userId)); err != nil {
			us.log.Warn("user", "failed to publish reset event", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

func userToResponse(u *entity.User) *dto.UserProfileResponse {
	profile := u.ProfileData
	if profile == nil {
		profile = map[string]string{}
	}
	return &dto.UserProfileResponse{
		Id:          u.Id,
		Name:        u.Name,
		Age:         u.Age,
		Language:    u.Language,
		ProfileData: profile,
		CreatedAt:   u.CreatedAt,
	}
}
