package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/amenitybook/reservation-api/internal/core/domain"
)

// AuthRepository implements ports.AuthRepository on PostgreSQL.
type AuthRepository struct {
	db *sqlx.DB
}

func NewAuthRepository(db *sqlx.DB) *AuthRepository {
	return &AuthRepository{db: db}
}

type userRow struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

const (
	queryInsertUser = `INSERT INTO users (username, password_hash, created_at) VALUES ($1, $2, $3) RETURNING id, created_at`
	querySelectUser = `SELECT id, username, password_hash, created_at FROM users WHERE username = $1`
)

// Create relies on the unique username constraint for concurrent
// registrations of the same name.
func (r *AuthRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	created := &domain.User{Username: user.Username, PasswordHash: user.PasswordHash}
	err := r.db.QueryRowxContext(ctx, queryInsertUser, user.Username, user.PasswordHash, user.CreatedAt.UTC()).
		Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	created.CreatedAt = created.CreatedAt.UTC()
	return created, nil
}

func (r *AuthRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row userRow
	if err := r.db.GetContext(ctx, &row, querySelectUser, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &domain.User{
		ID:           row.ID,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt.UTC(),
	}, nil
}
