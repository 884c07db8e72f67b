package middleware_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"campus-lostfound/internal/domain"
	"campus-lostfound/internal/middleware"
	"campus-lostfound/internal/pkg/imaging"
	"campus-lostfound/internal/service/auth"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"Fiber error", middleware.BadRequest("Invalid item ID"), fiber.StatusBadRequest, "BAD_REQUEST", "Invalid item ID"},
		{"Validation error", domain.NewValidationError("title", "Title is required"), fiber.StatusUnprocessableEntity, "VALIDATION_ERROR", "Title is required"},
		{"Not found", domain.ErrItemNotFound, fiber.StatusNotFound, "NOT_FOUND", "item not found"},
		{"Wrapped sentinel", fmt.Errorf("approve: %w", domain.ErrApprovedClaimExists), fiber.StatusConflict, "CONFLICT", domain.ErrApprovedClaimExists.Error()},
		{"Permission", domain.ErrNotCommentAuthor, fiber.StatusForbidden, "FORBIDDEN", "insufficient permissions to modify this comment"},
		{"Auth", auth.ErrEmailExists, fiber.StatusConflict, "CONFLICT", "Email already registered"},
		{"Image", imaging.ErrUnsupportedFormat, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "Only JPEG and PNG images are accepted"},
		{"Unexpected", errors.New("pq: connection refused"), fiber.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: middleware.NewErrorHandler(zap.NewNop().Sugar())})
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			var body middleware.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMsg, body.Message)
			assert.Len(t, body.TraceID, 8)
		})
	}
}

func TestErrorHandler_ValidationField(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.NewErrorHandler(nil)})
	app.Get("/", func(c *fiber.Ctx) error {
		return domain.NewValidationError("contact", "Please provide a contact detail (email or phone)")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "contact", body.Field)
}
