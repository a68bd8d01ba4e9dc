package ports

import (
	"context"

	"github.com/amenitybook/reservation-api/internal/core/domain"
)

// AuthRepository defines the interface for credential persistence.
type AuthRepository interface {
	// FindByUsername returns domain.ErrUserNotFound when no record matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Create assigns ID and CreatedAt. Returns domain.ErrUserExists when the
	// username is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
