package auth_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"campus-lostfound/internal/config"
	"campus-lostfound/internal/domain"
	"campus-lostfound/internal/mocks"
	"campus-lostfound/internal/service/auth"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
	}
}

func setup() (*mocks.UserRepository, *mocks.SessionRepository, *mocks.EmailService, auth.Service) {
	userRepo := new(mocks.UserRepository)
	sessionRepo := new(mocks.SessionRepository)
	emailSvc := new(mocks.EmailService)
	return userRepo, sessionRepo, emailSvc, auth.NewService(userRepo, sessionRepo, emailSvc, testConfig(), zap.NewNop().Sugar())
}

func sha(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func hashed(t *testing.T, password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	input := domain.CreateUserInput{Email: " Sam@Campus.edu ", Password: "password123", FullName: "Sam Lee"}

	t.Run("Success", func(t *testing.T) {
		userRepo, sessionRepo, _, svc := setup()
		userRepo.On("ExistsByEmail", ctx, "sam@campus.edu").Return(false, nil).Once()
		userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil).Once()
		sessionRepo.On("Create", ctx, mock.MatchedBy(func(s *domain.Session) bool {
			return s.IPAddress != nil && *s.IPAddress == "10.0.0.1" && s.UserAgent == nil
		})).Return(nil).Once()

		user, tokens, err := svc.Register(ctx, input, &domain.RequestMeta{IPAddress: "10.0.0.1"})

		require.NoError(t, err)
		assert.Equal(t, "sam@campus.edu", user.Email)
		assert.True(t, user.EmailNotifications)
		assert.True(t, user.InAppNotifications)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
		assert.Equal(t, int64(900), tokens.ExpiresIn)

		claims, err := svc.ValidateAccessToken(tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		sessionRepo.AssertExpectations(t)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		userRepo, _, _, svc := setup()
		userRepo.On("ExistsByEmail", ctx, "sam@campus.edu").Return(true, nil).Once()

		_, _, err := svc.Register(ctx, input, nil)

		assert.ErrorIs(t, err, auth.ErrEmailExists)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Short password", func(t *testing.T) {
		_, _, _, svc := setup()

		_, _, err := svc.Register(ctx, domain.CreateUserInput{Email: "sam@campus.edu", Password: "short", FullName: "Sam"}, nil)

		assert.ErrorAs(t, err, new(*domain.ValidationError))
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{ID: uuid.New(), Email: "sam@campus.edu", PasswordHash: hashed(t, "password123"), IsActive: true}

	t.Run("Success", func(t *testing.T) {
		userRepo, sessionRepo, _, svc := setup()
		userRepo.On("GetByEmail", ctx, "sam@campus.edu").Return(user, nil).Once()
		sessionRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		got, tokens, err := svc.Login(ctx, domain.LoginInput{Email: "SAM@campus.edu", Password: "password123"}, nil)

		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.NotEmpty(t, tokens.RefreshToken)
	})

	t.Run("Wrong password", func(t *testing.T) {
		userRepo, _, _, svc := setup()
		userRepo.On("GetByEmail", ctx, "sam@campus.edu").Return(user, nil).Once()

		_, _, err := svc.Login(ctx, domain.LoginInput{Email: "sam@campus.edu", Password: "nope"}, nil)

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("Unknown email", func(t *testing.T) {
		userRepo, _, _, svc := setup()
		userRepo.On("GetByEmail", ctx, "ghost@campus.edu").Return(nil, nil).Once()

		_, _, err := svc.Login(ctx, domain.LoginInput{Email: "ghost@campus.edu", Password: "password123"}, nil)

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("Disabled account", func(t *testing.T) {
		userRepo, _, _, svc := setup()
		disabled := *user
		disabled.IsActive = false
		userRepo.On("GetByEmail", ctx, "sam@campus.edu").Return(&disabled, nil).Once()

		_, _, err := svc.Login(ctx, domain.LoginInput{Email: "sam@campus.edu", Password: "password123"}, nil)

		assert.ErrorIs(t, err, auth.ErrAccountDisabled)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{ID: uuid.New(), Email: "sam@campus.edu", IsActive: true}

	t.Run("Rotates the session", func(t *testing.T) {
		userRepo, sessionRepo, _, svc := setup()
		session := &domain.Session{ID: uuid.New(), UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}
		sessionRepo.On("GetByRefreshToken", ctx, sha("old-token")).Return(session, nil).Once()
		userRepo.On("GetByID", ctx, user.ID).Return(user, nil).Once()
		sessionRepo.On("Delete", ctx, session.ID).Return(nil).Once()
		sessionRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		tokens, err := svc.RefreshToken(ctx, "old-token", nil)

		require.NoError(t, err)
		assert.NotEqual(t, "old-token", tokens.RefreshToken)
		sessionRepo.AssertExpectations(t)
	})

	t.Run("Expired session", func(t *testing.T) {
		_, sessionRepo, _, svc := setup()
		session := &domain.Session{ID: uuid.New(), UserID: user.ID, ExpiresAt: time.Now().Add(-time.Minute)}
		sessionRepo.On("GetByRefreshToken", ctx, sha("stale")).Return(session, nil).Once()

		_, err := svc.RefreshToken(ctx, "stale", nil)

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
		sessionRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Unknown token", func(t *testing.T) {
		_, sessionRepo, _, svc := setup()
		sessionRepo.On("GetByRefreshToken", ctx, sha("unknown")).Return(nil, nil).Once()

		_, err := svc.RefreshToken(ctx, "unknown", nil)

		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	_, sessionRepo, _, svc := setup()
	sessionRepo.On("DeleteByRefreshToken", ctx, sha("token")).Return(nil).Once()

	require.NoError(t, svc.Logout(ctx, "token"))
	require.NoError(t, svc.Logout(ctx, ""))
	sessionRepo.AssertNumberOfCalls(t, "DeleteByRefreshToken", 1)
}

func TestAuthService_ValidateAccessToken(t *testing.T) {
	_, _, _, svc := setup()

	_, err := svc.ValidateAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_PasswordReset(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{ID: uuid.New(), Email: "sam@campus.edu", FullName: "Sam"}

	t.Run("Request emails a token", func(t *testing.T) {
		userRepo, _, emailSvc, svc := setup()
		userRepo.On("GetByEmail", ctx, "sam@campus.edu").Return(user, nil).Once()
		userRepo.On("SetPasswordResetToken", ctx, user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()
		sent := make(chan string, 1)
		emailSvc.On("SendPasswordResetEmail", mock.Anything, "sam@campus.edu", "Sam", mock.AnythingOfType("string")).
			Return(nil).
			Run(func(args mock.Arguments) { sent <- args.String(3) }).
			Once()

		require.NoError(t, svc.RequestPasswordReset(ctx, "sam@campus.edu"))

		select {
		case token := <-sent:
			assert.Len(t, token, 64)
		case <-time.After(time.Second):
			t.Fatal("reset email was not sent")
		}
	})

	t.Run("Unknown address is silent", func(t *testing.T) {
		userRepo, _, _, svc := setup()
		userRepo.On("GetByEmail", ctx, "ghost@campus.edu").Return(nil, nil).Once()

		require.NoError(t, svc.RequestPasswordReset(ctx, "ghost@campus.edu"))
		userRepo.AssertNotCalled(t, "SetPasswordResetToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Reset revokes sessions", func(t *testing.T) {
		userRepo, sessionRepo, _, svc := setup()
		expires := time.Now().Add(30 * time.Minute)
		pending := *user
		pending.PasswordResetExpiresAt = &expires
		userRepo.On("GetUserByResetToken", ctx, "abc").Return(&pending, nil).Once()
		userRepo.On("UpdatePassword", ctx, user.ID, mock.AnythingOfType("string")).Return(nil).Once()
		userRepo.On("ClearPasswordResetToken", ctx, user.ID).Return(nil).Once()
		sessionRepo.On("DeleteAllForUser", ctx, user.ID).Return(nil).Once()

		require.NoError(t, svc.ResetPassword(ctx, "abc", "newpassword"))
		userRepo.AssertExpectations(t)
		sessionRepo.AssertExpectations(t)
	})

	t.Run("Expired token", func(t *testing.T) {
		userRepo, _, _, svc := setup()
		expired := time.Now().Add(-time.Minute)
		pending := *user
		pending.PasswordResetExpiresAt = &expired
		userRepo.On("GetUserByResetToken", ctx, "abc").Return(&pending, nil).Once()

		err := svc.ResetPassword(ctx, "abc", "newpassword")

		assert.ErrorIs(t, err, auth.ErrTokenExpired)
	})

	t.Run("Unknown token", func(t *testing.T) {
		userRepo, _, _, svc := setup()
		userRepo.On("GetUserByResetToken", ctx, "zzz").Return(nil, nil).Once()

		assert.ErrorIs(t, svc.ResetPassword(ctx, "zzz", "newpassword"), auth.ErrInvalidToken)
	})
}
