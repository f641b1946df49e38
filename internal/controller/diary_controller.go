package controller

import (
	"timecapsule-be/internal/dto"
	"timecapsule-be/internal/pkg/serverutils"
	"timecapsule-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDiaryController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	GetOne(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type diaryController struct {
	service service.IDiaryService
}

func NewDiaryController(service service.IDiaryService) IDiaryController {
	return &diaryController{service: service}
}

func (c *diaryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/diary")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/entries", c.Create)
	h.Get("/entries", c.GetAll)
	h.Get("/entries/:id", c.GetOne)
	h.Put("/entries/:id", c.Update)
	h.Delete("/entries/:id", c.Delete)
}

func (c *diaryController) Create(ctx *fiber.Ctx) error {
	userId, err := callerUserId(ctx)
	if err != nil {
		return err
	}

	var request dto.CreateDiaryEntryRequest
	if err := serverutils.ValidateRequest(ctx, &request); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), userId, &request)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Diary entry created", res))
}

func (c *diaryController) GetAll(ctx *fiber.Ctx) error {
	userId, err := callerUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetAll(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Diary entries retrieved", res))
}

func (c *diaryController) GetOne(ctx *fiber.Ctx) error {
	userId, err := callerUserId(ctx)
	if err != nil {
		return err
	}
	entryId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ValidationError("invalid diary entry id")
	}

	res, err := c.service.GetOne(ctx.UserContext(), userId, entryId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Diary entry retrieved", res))
}

func (c *diaryController) Update(ctx *fiber.Ctx) error {
	userId, err := callerUserId(ctx)
	if err != nil {
		return err
	}
	entryId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ValidationError("invalid diary entry id")
	}

	var request dto.UpdateDiaryEntryRequest
	if err := serverutils.ValidateRequest(ctx, &request); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), userId, entryId, &request)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Diary entry updated", res))
}

func (c *diaryController) Delete(ctx *fiber.Ctx) error {
	userId, err := callerUserId(ctx)
	if err != nil {
		return err
	}
	entryId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ValidationError("invalid diary entry id")
	}

	if err := c.service.Delete(ctx.UserContext(), userId, entryId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Diary entry deleted", nil))
}
