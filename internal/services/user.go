package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/assettrack/apiserver/internal/metrics"
	"github.com/assettrack/apiserver/internal/store"
	"github.com/assettrack/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// Validation and authentication failures surfaced to callers.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters", minPasswordLength)
	ErrInvalidRole        = errors.New("invalid role")
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	List(ctx context.Context) ([]types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
}

// UserService encapsulates registration and authentication.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Authenticate verifies the supplied credentials against the Users
// table. Username matching is case-insensitive. Stored hashes are
// verified by scheme: bcrypt hashes via constant-time bcrypt
// comparison, anything else as a legacy unsalted SHA-256 hex digest so
// rows written by earlier deployments keep validating.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (types.User, error) {
	metrics.AuthAttemptsCounter.Inc()

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.AuthErrorsCounter.Inc()
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}

	if !verifyPassword(user.PasswordHash, password) {
		metrics.AuthErrorsCounter.Inc()
		return types.User{}, ErrInvalidCredentials
	}

	metrics.AuthSuccessCounter.Inc()
	return user, nil
}

// Register creates a new account. The username must not exist in any
// case variant; nothing is written when validation fails.
func (s *UserService) Register(ctx context.Context, username, password, role string) (types.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return types.User{}, errors.New("username is required")
	}
	if len(password) < minPasswordLength {
		return types.User{}, ErrPasswordTooShort
	}
	if role == "" {
		role = types.RoleUser
	}
	if role != types.RoleUser && role != types.RoleAdmin {
		return types.User{}, ErrInvalidRole
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return types.User{}, ErrDuplicateUsername
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, err
	}

	return s.repo.Create(ctx, types.User{
		Username:     username,
		Role:         role,
		PasswordHash: string(hashed),
	})
}

// GetByUsername returns the user with the given name.
func (s *UserService) GetByUsername(ctx context.Context, username string) (types.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func verifyPassword(storedHash, password string) bool {
	if strings.HasPrefix(storedHash, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
	}
	// Legacy scheme: unsalted single-round SHA-256, hex encoded.
	sum := sha256.Sum256([]byte(password))
	digest := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(digest), []byte(storedHash)) == 1
}

// LegacyPasswordHash returns the unsalted SHA-256 hex digest used by
// earlier deployments. New registrations always hash with bcrypt.
func LegacyPasswordHash(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
