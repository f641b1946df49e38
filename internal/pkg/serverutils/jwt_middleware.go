package serverutils

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JwtMiddleware resolves the caller identity. A Bearer token with a user_id
// claim is preferred; the X-User-UUID header is accepted as a fallback for
// clients that manage identity locally (the questionnaire flow issues plain
// UUIDs before any login exists).
func JwtMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) >= 7 && authHeader[:7] == "Bearer " {
		tokenStr := authHeader[7:]

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("UNAUTHORIZED", "Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("UNAUTHORIZED", "Invalid token claims"))
		}

		ctx.Locals("user_id", claims["user_id"])
		return ctx.Next()
	}

	if headerUUID := ctx.Get("X-User-UUID"); headerUUID != "" {
		if _, err := uuid.Parse(headerUUID); err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("UNAUTHORIZED", "Invalid user UUID"))
		}
		ctx.Locals("user_id", headerUUID)
		return ctx.Next()
	}

	return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("UNAUTHORIZED", "Missing or invalid authorization header"))
}
