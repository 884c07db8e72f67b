package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"campus-lostfound/internal/domain"
	"campus-lostfound/internal/pkg/imaging"
	"campus-lostfound/internal/service/auth"
	"campus-lostfound/internal/service/media"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

// An empty message means the error text itself is shown.
var errorMappings = []errorMapping{
	{domain.ErrItemNotFound, fiber.StatusNotFound, "NOT_FOUND", ""},
	{domain.ErrClaimNotFound, fiber.StatusNotFound, "NOT_FOUND", ""},
	{domain.ErrCommentNotFound, fiber.StatusNotFound, "NOT_FOUND", ""},
	{domain.ErrMessageNotFound, fiber.StatusNotFound, "NOT_FOUND", ""},
	{domain.ErrNotificationNotFound, fiber.StatusNotFound, "NOT_FOUND", ""},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND", ""},

	{domain.ErrNotItemOwner, fiber.StatusForbidden, "FORBIDDEN", ""},
	{domain.ErrNotCommentAuthor, fiber.StatusForbidden, "FORBIDDEN", ""},
	{domain.ErrNotMessageAuthor, fiber.StatusForbidden, "FORBIDDEN", ""},
	{domain.ErrNotClaimParticipant, fiber.StatusForbidden, "FORBIDDEN", ""},
	{domain.ErrCannotClaimOwnItem, fiber.StatusForbidden, "FORBIDDEN", ""},

	{domain.ErrDuplicateClaim, fiber.StatusConflict, "CONFLICT", ""},
	{domain.ErrApprovedClaimExists, fiber.StatusConflict, "CONFLICT", ""},
	{domain.ErrNoApprovedClaim, fiber.StatusConflict, "CONFLICT", ""},
	{domain.ErrInvalidClaimTransition, fiber.StatusConflict, "CONFLICT", ""},
	{domain.ErrInvalidItemTransition, fiber.StatusConflict, "CONFLICT", ""},
	{domain.ErrItemNotClaimable, fiber.StatusConflict, "CONFLICT", ""},

	{auth.ErrEmailExists, fiber.StatusConflict, "CONFLICT", "Email already registered"},
	{auth.ErrInvalidCredentials, fiber.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password"},
	{auth.ErrInvalidToken, fiber.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token"},
	{auth.ErrTokenExpired, fiber.StatusBadRequest, "BAD_REQUEST", "Reset link has expired"},
	{auth.ErrAccountDisabled, fiber.StatusForbidden, "FORBIDDEN", "Account is disabled"},

	{imaging.ErrUnsupportedFormat, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "Only JPEG and PNG images are accepted"},
	{imaging.ErrTooLarge, fiber.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Image is too large"},
	{media.ErrStorageUnavailable, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Uploads are currently unavailable"},
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusConflict:
		return "CONFLICT"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case fiber.StatusUnprocessableEntity:
		return "VALIDATION_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

// NewErrorHandler renders every error returned by a handler as an
// ErrorResponse. Unexpected errors are logged with their trace ID and shown
// to the client as a generic message.
func NewErrorHandler(log *zap.SugaredLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		traceID := uuid.New().String()[:8]
		resp := ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Internal server error",
			TraceID: traceID,
		}
		status := fiber.StatusInternalServerError

		var fiberErr *fiber.Error
		var validationErr *domain.ValidationError
		switch {
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			resp.Code = codeForStatus(status)
			resp.Message = fiberErr.Message
		case errors.As(err, &validationErr):
			status = fiber.StatusUnprocessableEntity
			resp.Code = "VALIDATION_ERROR"
			resp.Message = validationErr.Message
			resp.Field = validationErr.Field
		default:
			for _, m := range errorMappings {
				if errors.Is(err, m.err) {
					status = m.status
					resp.Code = m.code
					resp.Message = m.message
					if resp.Message == "" {
						resp.Message = m.err.Error()
					}
					break
				}
			}
		}

		if status >= fiber.StatusInternalServerError && log != nil {
			log.Errorw("request failed",
				"trace_id", traceID,
				"method", c.Method(),
				"path", c.Path(),
				"error", err,
			)
		}

		return c.Status(status).JSON(resp)
	}
}

func NewError(code int, message string) *fiber.Error {
	return fiber.NewError(code, message)
}

func BadRequest(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func Unauthorized(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusUnauthorized, message)
}

func Forbidden(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusForbidden, message)
}

func NotFound(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusNotFound, message)
}

func Conflict(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusConflict, message)
}
