package store

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/assettrack/apiserver/internal/rowstore"
	"github.com/assettrack/apiserver/types"
)

// UserRepository handles persistence for users over the Users table.
type UserRepository struct {
	rs *rowstore.RowStore
}

func NewUserRepository(rs *rowstore.RowStore) *UserRepository {
	return &UserRepository{rs: rs}
}

// List returns every user in storage order.
func (r *UserRepository) List(ctx context.Context) ([]types.User, error) {
	rows, err := r.rs.ReadAll(ctx, TableUsers)
	if err != nil {
		return nil, err
	}
	users := make([]types.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, rowToUser(row))
	}
	return users, nil
}

// GetByUsername returns the user with the given name, matched
// case-insensitively.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	rows, err := r.rs.ReadAll(ctx, TableUsers)
	if err != nil {
		return types.User{}, err
	}
	for _, row := range rows {
		user := rowToUser(row)
		if strings.EqualFold(user.Username, username) {
			return user, nil
		}
	}
	return types.User{}, ErrNotFound
}

// Create appends a new user row. The caller is responsible for the
// duplicate-username check; Create assigns the next sequential ID
// (max existing + 1, or 1 for an empty table).
func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return types.User{}, err
	}

	maxID := 0
	for _, u := range users {
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	user.ID = maxID + 1
	user.CreatedAt = time.Now()

	if err := r.rs.Append(ctx, TableUsers, userToRow(user)); err != nil {
		return types.User{}, err
	}
	return user, nil
}

func userToRow(user types.User) rowstore.Row {
	return rowstore.Row{
		"ID":        strconv.Itoa(user.ID),
		"Username":  user.Username,
		"Password":  user.PasswordHash,
		"Role":      user.Role,
		"CreatedAt": user.CreatedAt.Format(time.RFC3339),
	}
}

func rowToUser(row rowstore.Row) types.User {
	id, _ := strconv.Atoi(row["ID"])
	return types.User{
		ID:           id,
		Username:     row["Username"],
		PasswordHash: row["Password"],
		Role:         defaultString(row["Role"], types.RoleUser),
		CreatedAt:    parseTime(row["CreatedAt"]),
	}
}
