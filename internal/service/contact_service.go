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

type IContactService interface {
	Create(ctx context.Context, userId uuid.UUID, request *dto.CreateContactRequest) (*dto.ContactResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.ContactResponse, error)
	Update(ctx context.Context, userId uuid.UUID, contactId uuid.UUID, request *dto.UpdateContactRequest) (*dto.ContactResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, contactId uuid.UUID) error
}

type contactService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewContactService(uowFactory unitofwork.RepositoryFactory) IContactService {
	return &contactService{uowFactory: uowFactory}
}

func (s *contactService) Create(ctx context.Context, userId uuid.UUID, request *dto.CreateContactRequest) (*dto.ContactResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	contact := entity.Contact{
		Id:        uuid.New(),
		UserId:    userId,
		Name:      request.Name,
		Relation:  request.Relation,
		Phone:     request.Phone,
		Address:   request.Address,
		Notes:     request.Notes,
		CreatedAt: time.Now(),
	}
	if err := uow.ContactRepository().Create(ctx, &contact); err != nil {
		return nil, serverutils.StorageError(err)
	}
	return contactToResponse(&contact), nil
}

func (s *contactService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.ContactResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	contacts, err := uow.ContactRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "name", Desc: false},
	)
	if err != nil {
		return nil, serverutils.StorageError(err)
	}

	response := make([]*dto.ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		response = append(response, contactToResponse(c))
	}
	return response, nil
}

func (s *contactService) Update(ctx context.Context, userId uuid.UUID, contactId uuid.UUID, request *dto.UpdateContactRequest) (*dto.ContactResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	contact, err := s.findOwned(ctx, userId, contactId)
	if err != nil {
		return nil, err
	}

	if request.Name != "" {
		contact.Name = request.Name
	}
	if request.Relation != "" {
		contact.Relation = request.Relation
	}
	if request.Phone != "" {
		contact.Phone = request.Phone
	}
	if request.Address != "" {
		contact.Address = request.Address
	}
	if request.Notes != "" {
		contact.Notes = request.Notes
	}
	now := time.Now()
	contact.UpdatedAt = &now

	if err := uow.ContactRepository().Update(ctx, contact); err != nil {
		return nil, serverutils.StorageError(err)
	}
	return contactToResponse(contact), nil
}

func (s *contactService) Delete(ctx context.Context, userId uuid.UUID, contactId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.findOwned(ctx, userId, contactId); err != nil {
		return err
	}
	if err := uow.ContactRepository().Delete(ctx, contactId); err != nil {
		return serverutils.StorageError(err)
	}
	return nil
}

func (s *contactService) findOwned(ctx context.Context, userId, contactId uuid.UUID) (*entity.Contact, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	contact, err := uow.ContactRepository().FindOne(ctx,
		specification.ByID{ID: contactId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, serverutils.StorageError(err)
	}
	if contact == nil {
		return nil, serverutils.NotFoundError("contact not found")
	}
	return contact, nil
}

func contactToResponse(c *entity.Contact) *dto.ContactResponse {
	resp := &dto.ContactResponse{
		Id:        c.Id,
		Name:      c.Name,
		Relation:  c.Relation,
		Phone:     c.Phone,
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.CreatedAt,
	}
	if c.UpdatedAt != nil {
		resp.UpdatedAt = *c.UpdatedAt
	}
	return resp
}
