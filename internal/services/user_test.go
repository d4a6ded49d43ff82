package services

import (
	"context"
	"errors"
	"testing"

	"github.com/assettrack/apiserver/internal/rowstore"
	"github.com/assettrack/apiserver/internal/store"
	"github.com/assettrack/apiserver/types"
)

func newUserService(t *testing.T) (*UserService, *store.UserRepository) {
	t.Helper()
	rs := rowstore.New(rowstore.NewMemoryBackend())
	if err := store.EnsureTables(context.Background(), rs); err != nil {
		t.Fatalf("ensure tables: %v", err)
	}
	repo := store.NewUserRepository(rs)
	return NewUserService(repo), repo
}

func TestRegisterThenAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService(t)

	created, err := svc.Register(ctx, "alice", "secret1", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.Role != types.RoleUser {
		t.Fatalf("expected default role %q, got %q", types.RoleUser, created.Role)
	}
	if created.PasswordHash == "secret1" {
		t.Fatalf("password stored in the clear")
	}

	// Username matching is case-insensitive on login.
	user, err := svc.Authenticate(ctx, "ALICE", "secret1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("unexpected username %q", user.Username)
	}

	if _, err := svc.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestRegisterRejectsDuplicateCaseVariant(t *testing.T) {
	ctx := context.Background()
	svc, repo := newUserService(t)

	if _, err := svc.Register(ctx, "Alice", "secret1", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Register(ctx, "ALICE", "secret2", ""); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}

	users, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("rejected registration wrote a row, have %d users", len(users))
	}
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc, repo := newUserService(t)

	if _, err := svc.Register(ctx, "bob", "short", ""); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if _, err := svc.Register(ctx, "bob", "secret1", "Owner"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := svc.Register(ctx, "   ", "secret1", ""); err == nil {
		t.Fatalf("expected error for blank username")
	}

	users, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("failed registrations wrote rows, have %d users", len(users))
	}
}

func TestAuthenticateLegacyHash(t *testing.T) {
	ctx := context.Background()
	svc, repo := newUserService(t)

	// A row written by an older deployment carries an unsalted SHA-256
	// hex digest instead of a bcrypt hash.
	_, err := repo.Create(ctx, types.User{
		Username:     "legacy",
		Role:         types.RoleUser,
		PasswordHash: LegacyPasswordHash("oldpass"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "legacy", "oldpass"); err != nil {
		t.Fatalf("legacy hash rejected: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "legacy", "other"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterAdminRole(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService(t)

	created, err := svc.Register(ctx, "root", "secret1", types.RoleAdmin)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.Role != types.RoleAdmin {
		t.Fatalf("expected admin role, got %q", created.Role)
	}
}
