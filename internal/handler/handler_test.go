package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"campus-lostfound/internal/middleware"
)

// newApp returns an app whose requests run as userID. uuid.Nil means
// anonymous.
func newApp(userID uuid.UUID) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.NewErrorHandler(zap.NewNop().Sugar())})
	app.Use(func(c *fiber.Ctx) error {
		if userID != uuid.Nil {
			c.Locals(middleware.UserIDContextKey, userID)
		}
		return c.Next()
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}
