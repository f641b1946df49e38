package controller

import (
	"timecapsule-be/internal/dto"
	"timecapsule-be/internal/pkg/serverutils"
	"timecapsule-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	GetAllSessions(ctx *fiber.Ctx) error
	GetSessionMessages(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/sessions", c.CreateSession)
	h.Get("/sessions", c.GetAllSessions)
	h.Get("/sessions/:id", c.GetSessionMessages)
	h.Get("/sessions/:id/messages", c.GetSessionMessages)
	h.Post("/sessions/:id/messages", c.SendMessage)
	h.Delete("/sessions/:id", c.DeleteSession)
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	userId, err := callerUserId(ctx)
	if err != nil {
		return err
	}

	var request dto.CreateSessionRequest
	if len(ctx.Body()) > 0 {
		if err := serverutils.ValidateRequest(ctx, &request); err != nil {
			return err
		}
	}

	res, err := c.service.CreateSession(ctx.UserContext(), userId, &request)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Session created", res))
}

func (c *chatController) GetAllSessions(ctx *fiber.Ctx) error {
	userId, err := callerUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetAllSessions(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Sessions retrieved", res))
}

func (c *chatController) GetSessionMessages(ctx *fiber.Ctx) error {
	userId, err := callerUserId(ctx)
	if err != nil {
		return err
	}
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ValidationError("invalid session id")
	}

	limit := ctx.QueryInt("limit", 0)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.service.GetSessionMessages(ctx.UserContext(), userId, sessionId, limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Messages retrieved", res))
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	userId, err := callerUserId(ctx)
	if err != nil {
		return err
	}
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ValidationError("invalid session id")
	}

	var request dto.SendMessageRequest
	if err := serverutils.ValidateRequest(ctx, &request); err != nil {
		return err
	}

	res, err := c.service.SendMessage(ctx.UserContext(), userId, sessionId, &request)
	if err != nil {
		return err
	}

	if res.Redirect != nil {
		return ctx.JSON(serverutils.RedirectResponse(res.Redirect.Message, res.Redirect.RedirectURL))
	}
	return ctx.JSON(serverutils.SuccessResponse("Reply generated", res.Reply))
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	userId, err := callerUserId(ctx)
	if err != nil {
		return err
	}
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ValidationError("invalid session id")
	}

	if err := c.service.DeleteSession(ctx.UserContext(), userId, sessionId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Session deleted", nil))
}

// callerUserId resolves the identity set by the auth middleware.
func callerUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, serverutils.UnauthorizedError("missing user identity")
	}
	userId, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, serverutils.UnauthorizedError("invalid user identity")
	}
	return userId, nil
}
