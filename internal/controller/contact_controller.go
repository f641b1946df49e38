package controller

import (
	"timecapsule-be/internal/dto"
	"timecapsule-be/internal/pkg/serverutils"
	"timecapsule-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IContactController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type contactController struct {
	service service.IContactService
}

func NewContactController(service service.IContactService) IContactController {
	return &contactController{service: service}
}

func (c *contactController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/contacts")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/", c.Create)
	h.Get("/", c.GetAll)
	h.Put("/:id", c.Update)
	h.Delete("/:id", c.Delete)
}

func (c *contactController) Create(ctx *fiber.Ctx) error {
	userId, err := callerUserId(ctx)
	if err != nil {
		return err
	}

	var request dto.CreateContactRequest
	if err := serverutils.ValidateRequest(ctx, &request); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), userId, &request)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Contact created", res))
}

func (c *contactController) GetAll(ctx *fiber.Ctx) error {
	userId, err := callerUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetAll(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Contacts retrieved", res))
}

func (c *contactController) Update(ctx *fiber.Ctx) error {
	userId, err := callerUserId(ctx)
	if err != nil {
		return err
	}
	contactId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ValidationError("invalid contact id")
	}

	var request dto.UpdateContactRequest
	if err := serverutils.ValidateRequest(ctx, &request); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), userId, contactId, &request)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Contact updated", res))
}

func (c *contactController) Delete(ctx *fiber.Ctx) error {
	userId, err := callerUserId(ctx)
	if err != nil {
		return err
	}
	contactId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ValidationError("invalid contact id")
	}

	if err := c.service.Delete(ctx.UserContext(), userId, contactId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Contact deleted", nil))
}
