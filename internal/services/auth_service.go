package services

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"portfolio/internal/models"
	"portfolio/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// sessionClaims are carried by the signed session cookie.
type sessionClaims struct {
	UserID uint `json:"user_id"`
	jwt.StandardClaims
}

// AuthService handles registration, credential checks and sessions.
type AuthService struct {
	userRepo   repositories.UserRepository
	secret     []byte
	sessionTTL time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, secret string, sessionTTL time.Duration) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		userRepo:   userRepo,
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
	}
}

// unknownUserHash is compared against when a login names no account, so
// both failure paths cost one bcrypt comparison.
var (
	unknownUserHashOnce sync.Once
	unknownUserHash     string
)

// prehash condenses password to a fixed 44 bytes, below bcrypt's 72-byte
// input limit.
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// HashPassword returns a salted bcrypt digest of password. Passwords of any
// length are accepted.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(prehash(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether password matches digest.
func VerifyPassword(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), prehash(password)) == nil
}

func verifyAgainstUnknownUser(password string) {
	unknownUserHashOnce.Do(func() {
		hashed, err := HashPassword(uuid.NewString())
		if err != nil {
			logrus.WithError(err).Error("Failed to prepare unknown user hash")
			return
		}
		unknownUserHash = hashed
	})
	VerifyPassword(unknownUserHash, password)
}

// Register creates a user with a hashed password. A taken username or email
// yields ErrUsernameTaken or ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	logCtx := logrus.WithFields(logrus.Fields{"username": username, "email": email})

	if err := s.ensureAvailable(ctx, username, email); err != nil {
		return nil, err
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Username: username, Email: email, PasswordHash: hashed}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEntry) {
			// Lost a race with a concurrent registration; work out which field.
			logCtx.WithError(err).Warn("Registration hit unique constraint")
			if existing, lookupErr := s.userRepo.GetByEmail(ctx, email); lookupErr == nil && existing != nil {
				return nil, ErrEmailTaken
			}
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	logCtx.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

func (s *AuthService) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	return nil
}

// Authenticate returns the user owning email if password verifies.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			verifyAgainstUnknownUser(password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !VerifyPassword(user.PasswordHash, password) {
		logrus.WithField("user_id", user.ID).Warn("Login failed: wrong password")
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueSession returns a signed session token bound to the user's ID.
func (s *AuthService) IssueSession(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		UserID: user.ID,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.sessionTTL).Unix(),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, nil
}

// ResolveSession validates token and loads the user it is bound to. A bad
// token or a user that no longer exists is ErrInvalidSession; a store
// failure while loading the user is ErrSessionUnavailable.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidSession
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		logrus.WithError(err).WithField("user_id", claims.UserID).Error("Failed to load session user")
		return nil, fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
	}
	return user, nil
}
