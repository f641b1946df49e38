package serverutils

import (
	"errors"

	"timecapsule-be/internal/constant"
	"timecapsule-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AppError is the taxonomy carried from services to the HTTP edge. The
// handler middleware renders it into the error envelope; anything else
// becomes an opaque 500 with a correlation id.
type AppError struct {
	HTTPStatus int
	Code       string
	Message    string
	Details    map[string]interface{}
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(httpStatus int, code, message string) *AppError {
	return &AppError{HTTPStatus: httpStatus, Code: code, Message: message}
}

func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// Common constructors

func ValidationError(message string) *AppError {
	return NewAppError(fiber.StatusBadRequest, constant.ErrCodeValidation, message)
}

func NotFoundError(message string) *AppError {
	return NewAppError(fiber.StatusNotFound, constant.ErrCodeNotFound, message)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(fiber.StatusUnauthorized, constant.ErrCodeUnauthorized, message)
}

func StorageError(err error) *AppError {
	return NewAppError(fiber.StatusInternalServerError, constant.ErrCodeStorage, "storage operation failed").WithCause(err)
}

// SessionOwnershipError carries the replacement session so the client can
// recover without another round trip.
func SessionOwnershipError(newSessionId uuid.UUID) *AppError {
	return NewAppError(fiber.StatusForbidden, constant.ErrCodeSessionOwnership, "session belongs to another user").
		WithDetail("new_session_id", newSessionId.String())
}

// ErrorHandlerMiddleware converts errors bubbling out of handlers into the
// uniform envelope. Unknown errors are logged with a correlation id and the
// id is returned to the caller instead of the error text.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *AppError
		if errors.As(err, &appErr) {
			body := ErrorResponse(appErr.Code, appErr.Message)
			body.Details = appErr.Details
			return ctx.Status(appErr.HTTPStatus).JSON(body)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse("", fiberErr.Message))
		}

		correlationId := uuid.NewString()
		if log != nil {
			log.Error("http", "unhandled error", map[string]interface{}{
				"error":          err.Error(),
				"correlation_id": correlationId,
				"path":           ctx.Path(),
				"method":         ctx.Method(),
			})
		}
		body := ErrorResponse("", "internal server error")
		body.Details = map[string]interface{}{"correlation_id": correlationId}
		return ctx.Status(fiber.StatusInternalServerError).JSON(body)
	}
}
