package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"campus-lostfound/internal/domain"
	"campus-lostfound/internal/service/auth"
)

const (
	UserContextKey   = "user"
	UserIDContextKey = "user_id"
)

// bearerToken reads the access token from the Authorization header. Live
// streams opened by EventSource cannot set headers, so the access_token query
// parameter is accepted as well.
func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		if token := c.Query("access_token"); token != "" {
			return token, nil
		}
		return "", Unauthorized("Missing authorization header")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", Unauthorized("Invalid authorization header format")
	}
	return parts[1], nil
}

func authenticate(c *fiber.Ctx, authService auth.Service, token string) error {
	claims, err := authService.ValidateAccessToken(token)
	if err != nil {
		return Unauthorized("Invalid or expired token")
	}

	user, err := authService.GetUserByID(c.Context(), claims.UserID)
	if err != nil || user == nil {
		return Unauthorized("User not found")
	}

	c.Locals(UserContextKey, user)
	c.Locals(UserIDContextKey, user.ID)
	return nil
}

func AuthRequired(authService auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return err
		}
		if err := authenticate(c, authService, token); err != nil {
			return err
		}
		return c.Next()
	}
}

// AuthOptional identifies the caller when a token is present and lets
// anonymous requests through. A bad token is still rejected.
func AuthOptional(authService auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" && c.Query("access_token") == "" {
			return c.Next()
		}
		token, err := bearerToken(c)
		if err != nil {
			return err
		}
		if err := authenticate(c, authService, token); err != nil {
			return err
		}
		return c.Next()
	}
}

func GetCurrentUser(c *fiber.Ctx) *domain.User {
	user, ok := c.Locals(UserContextKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}

// GetCurrentUserID returns uuid.Nil for anonymous requests.
func GetCurrentUserID(c *fiber.Ctx) uuid.UUID {
	userID, ok := c.Locals(UserIDContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userID
}

// GetUserID is GetCurrentUserID for routes behind AuthRequired.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userID := GetCurrentUserID(c)
	if userID == uuid.Nil {
		return uuid.Nil, Unauthorized("User not authenticated")
	}
	return userID, nil
}

// RequestMeta captures the client address and agent for audit entries.
// Behind Cloudflare the connecting IP header wins over the socket address.
func RequestMeta(c *fiber.Ctx) *domain.RequestMeta {
	ip := c.Get("CF-Connecting-IP")
	if ip == "" {
		ip = c.IP()
	}
	return &domain.RequestMeta{
		IPAddress: ip,
		UserAgent: c.Get("User-Agent"),
	}
}
