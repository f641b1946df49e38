package controller

import (
	"timecapsule-be/internal/dto"
	"timecapsule-be/internal/pkg/serverutils"
	"timecapsule-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	GetProfile(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
	GenerateUUID(ctx *fiber.Ctx) error
	ResetAccount(ctx *fiber.Ctx) error
}

type userController struct {
	service service.IUserService
}

func NewUserController(service service.IUserService) IUserController {
	return &userController{service: service}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/users")
	// UUID minting happens before any identity exists.
	h.Post("/generate-uuid", c.GenerateUUID)
	h.Get("/profile", serverutils.JwtMiddleware, c.GetProfile)
	h.Put("/profile", serverutils.JwtMiddleware, c.UpdateProfile)
	h.Post("/reset", serverutils.JwtMiddleware, c.ResetAccount)
}

func (c *userController) GetProfile(ctx *fiber.Ctx) error {
	userId, err := callerUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetProfile(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User profile", res))
}

func (c *userController) UpdateProfile(ctx *fiber.Ctx) error {
	userId, err := callerUserId(ctx)
	if err != nil {
		return err
	}

	var request dto.UpdateProfileRequest
	if err := serverutils.ValidateRequest(ctx, &request); err != nil {
		return err
	}

	res, err := c.service.UpdateProfile(ctx.UserContext(), userId, &request)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile updated", res))
}

func (c *userController) GenerateUUID(ctx *fiber.Ctx) error {
	res, err := c.service.GenerateUUID(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("UUID generated", res))
}

func (c *userController) ResetAccount(ctx *fiber.Ctx) error {
	userId, err := callerUserId(ctx)
	if err != nil {
		return err
	}

	if err := c.service.ResetAccount(ctx.UserContext(), userId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Account reset", nil))
}
