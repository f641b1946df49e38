package unitofwork

import (
	"context"

	"timecapsule-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	DiaryRepository() contract.DiaryRepository
	ContactRepository() contract.ContactRepository
}
