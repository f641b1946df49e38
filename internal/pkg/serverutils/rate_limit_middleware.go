package serverutils

import (
	"strings"

	"timecapsule-be/internal/constant"
	"timecapsule-be/pkg/ratelimit"

	"github.com/gofiber/fiber/v2"
)

// RateLimitMiddleware rejects over-limit clients with a 429 envelope before
// any handler work. The client key is the remote IP; the route class comes
// from the path prefix.
func RateLimitMiddleware(limiter ratelimit.Limiter) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		path := ctx.Path()
		if !strings.HasPrefix(path, "/api") {
			return ctx.Next()
		}

		if !limiter.Admit(ctx.UserContext(), ctx.IP(), routeClass(path)) {
			return ctx.Status(fiber.StatusTooManyRequests).
				JSON(ErrorResponse(constant.ErrCodeRateLimited, "Too many requests, please slow down."))
		}
		return ctx.Next()
	}
}

func routeClass(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/auth"):
		return constant.RouteClassAuth
	case strings.HasPrefix(path, "/api/admin"):
		return constant.RouteClassAdmin
	default:
		return constant.RouteClassDefault
	}
}
