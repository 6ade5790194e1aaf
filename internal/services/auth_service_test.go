package services_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"portfolio/internal/models"
	"portfolio/internal/repositories"
	"portfolio/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test_secret"

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	logrus.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestHashAndVerifyPassword(t *testing.T) {
	first, err := services.HashPassword("pw123")
	require.NoError(t, err)
	second, err := services.HashPassword("pw123")
	require.NoError(t, err)

	assert.NotEqual(t, "pw123", first)
	assert.NotEqual(t, first, second, "salt must vary between calls")
	assert.True(t, services.VerifyPassword(first, "pw123"))
	assert.True(t, services.VerifyPassword(second, "pw123"))
	assert.False(t, services.VerifyPassword(first, "wrong"))
	assert.False(t, services.VerifyPassword("not-a-digest", "pw123"))
}

func TestHashPassword_LongPasswords(t *testing.T) {
	long := strings.Repeat("a", 200)
	hashed, err := services.HashPassword(long)
	require.NoError(t, err)
	assert.True(t, services.VerifyPassword(hashed, long))

	// Bytes past bcrypt's 72-byte window still count.
	assert.False(t, services.VerifyPassword(hashed, strings.Repeat("a", 199)+"b"))
	assert.False(t, services.VerifyPassword(hashed, strings.Repeat("a", 72)))
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := services.NewAuthService(mockRepo, testSecret, time.Hour)

		mockRepo.On("GetByUsername", ctx, "alice").Return(nil, repositories.ErrNotFound).Once()
		mockRepo.On("GetByEmail", ctx, "alice@x.com").Return(nil, repositories.ErrNotFound).Once()
		mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
			args.Get(1).(*models.User).ID = 1
		}).Return(nil).Once()

		user, err := authService.Register(ctx, "alice", "alice@x.com", "pw123")
		require.NoError(t, err)
		assert.Equal(t, uint(1), user.ID)
		assert.NotEqual(t, "pw123", user.PasswordHash)
		assert.True(t, services.VerifyPassword(user.PasswordHash, "pw123"))
		mockRepo.AssertExpectations(t)
	})

	t.Run("username taken", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := services.NewAuthService(mockRepo, testSecret, time.Hour)

		mockRepo.On("GetByUsername", ctx, "alice").Return(&models.User{ID: 1}, nil).Once()

		_, err := authService.Register(ctx, "alice", "alice@x.com", "pw123")
		assert.ErrorIs(t, err, services.ErrUsernameTaken)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("email taken", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := services.NewAuthService(mockRepo, testSecret, time.Hour)

		mockRepo.On("GetByUsername", ctx, "alice").Return(nil, repositories.ErrNotFound).Once()
		mockRepo.On("GetByEmail", ctx, "alice@x.com").Return(&models.User{ID: 1}, nil).Once()

		_, err := authService.Register(ctx, "alice", "alice@x.com", "pw123")
		assert.ErrorIs(t, err, services.ErrEmailTaken)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unique constraint race on email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := services.NewAuthService(mockRepo, testSecret, time.Hour)

		mockRepo.On("GetByUsername", ctx, "alice").Return(nil, repositories.ErrNotFound).Once()
		mockRepo.On("GetByEmail", ctx, "alice@x.com").Return(nil, repositories.ErrNotFound).Once()
		mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).
			Return(fmt.Errorf("create user alice: %w", repositories.ErrDuplicateEntry)).Once()
		mockRepo.On("GetByEmail", ctx, "alice@x.com").Return(&models.User{ID: 7}, nil).Once()

		_, err := authService.Register(ctx, "alice", "alice@x.com", "pw123")
		assert.ErrorIs(t, err, services.ErrEmailTaken)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unique constraint race on username", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := services.NewAuthService(mockRepo, testSecret, time.Hour)

		mockRepo.On("GetByUsername", ctx, "alice").Return(nil, repositories.ErrNotFound).Once()
		mockRepo.On("GetByEmail", ctx, "alice@x.com").Return(nil, repositories.ErrNotFound).Twice()
		mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).
			Return(fmt.Errorf("create user alice: %w", repositories.ErrDuplicateEntry)).Once()

		_, err := authService.Register(ctx, "alice", "alice@x.com", "pw123")
		assert.ErrorIs(t, err, services.ErrUsernameTaken)
		mockRepo.AssertExpectations(t)
	})

	t.Run("long password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := services.NewAuthService(mockRepo, testSecret, time.Hour)
		long := strings.Repeat("a", 200)

		mockRepo.On("GetByUsername", ctx, "alice").Return(nil, repositories.ErrNotFound).Once()
		mockRepo.On("GetByEmail", ctx, "alice@x.com").Return(nil, repositories.ErrNotFound).Once()
		mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()

		user, err := authService.Register(ctx, "alice", "alice@x.com", long)
		require.NoError(t, err)
		assert.True(t, services.VerifyPassword(user.PasswordHash, long))
		mockRepo.AssertExpectations(t)
	})

	t.Run("store failure", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := services.NewAuthService(mockRepo, testSecret, time.Hour)

		mockRepo.On("GetByUsername", ctx, "alice").Return(nil, fmt.Errorf("database error")).Once()

		_, err := authService.Register(ctx, "alice", "alice@x.com", "pw123")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "database error")
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testSecret, time.Hour)

	hashed, err := services.HashPassword("pw123")
	require.NoError(t, err)
	user := &models.User{ID: 3, Username: "alice", Email: "alice@x.com", PasswordHash: hashed}

	// Test successful login
	mockRepo.On("GetByEmail", ctx, "alice@x.com").Return(user, nil).Once()
	got, err := authService.Authenticate(ctx, "alice@x.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	// Test invalid credentials (wrong password)
	mockRepo.On("GetByEmail", ctx, "alice@x.com").Return(user, nil).Once()
	_, err = authService.Authenticate(ctx, "alice@x.com", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// Test invalid credentials (unknown email)
	mockRepo.On("GetByEmail", ctx, "nobody@x.com").Return(nil, repositories.ErrNotFound).Once()
	_, err = authService.Authenticate(ctx, "nobody@x.com", "pw123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	// Unknown emails still pay for a bcrypt comparison
	dummy := services.UnknownUserHash()
	require.NotEmpty(t, dummy)
	cost, err := bcrypt.Cost([]byte(dummy))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
	assert.False(t, services.VerifyPassword(dummy, "pw123"))

	mockRepo.AssertExpectations(t)
}

func TestAuthService_Sessions(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testSecret, time.Hour)
	user := &models.User{ID: 42, Username: "alice", Email: "alice@x.com"}

	token, err := authService.IssueSession(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Valid token resolves to the stored user
	mockRepo.On("GetByID", ctx, uint(42)).Return(user, nil).Once()
	resolved, err := authService.ResolveSession(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), resolved.ID)

	// User no longer exists: anonymous
	mockRepo.On("GetByID", ctx, uint(42)).Return(nil, repositories.ErrNotFound).Once()
	_, err = authService.ResolveSession(ctx, token)
	assert.ErrorIs(t, err, services.ErrInvalidSession)

	// Store failure is reported separately so the cookie can be kept
	mockRepo.On("GetByID", ctx, uint(42)).Return(nil, fmt.Errorf("database error")).Once()
	_, err = authService.ResolveSession(ctx, token)
	assert.ErrorIs(t, err, services.ErrSessionUnavailable)
	assert.NotErrorIs(t, err, services.ErrInvalidSession)

	// Garbage token
	_, err = authService.ResolveSession(ctx, "invalid.token.string")
	assert.ErrorIs(t, err, services.ErrInvalidSession)

	// Signed with another secret
	other := services.NewAuthService(mockRepo, "another_secret", time.Hour)
	foreign, err := other.IssueSession(user)
	require.NoError(t, err)
	_, err = authService.ResolveSession(ctx, foreign)
	assert.ErrorIs(t, err, services.ErrInvalidSession)

	// Expired token
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	expiredString, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = authService.ResolveSession(ctx, expiredString)
	assert.ErrorIs(t, err, services.ErrInvalidSession)

	mockRepo.AssertExpectations(t)
}
