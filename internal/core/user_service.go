package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

type userService struct {
	db DB
}

// NewUserService constructs a UserService backed by PostgreSQL.
func NewUserService(db DB) UserService {
	return &userService{db: db}
}

const userColumns = `id, username, password_hash, role, created_at`

func scanUser(row pgx.Row) (*User, error) {
	u := &User{}
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*User, error) {
	u, err := scanUser(s.db.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = $1", username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, Errorf(KindNotFound, "user %q not found", username)
		}
		return nil, classifyStorageError(err, "get user")
	}
	return u, nil
}

func (s *userService) GetByID(ctx context.Context, userID int) (*User, error) {
	u, err := scanUser(s.db.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, Errorf(KindNotFound, "user id=%d not found", userID)
		}
		return nil, classifyStorageError(err, "get user")
	}
	return u, nil
}

func (s *userService) CreateUser(ctx context.Context, username, passwordHash string, role Role) (*User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO NOTHING
		RETURNING `+userColumns,
		username, passwordHash, string(role)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, Errorf(KindDuplicateKey, "username %q is already taken", username)
		}
		return nil, classifyStorageError(err, "create user")
	}
	return u, nil
}
