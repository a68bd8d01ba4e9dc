package ports

import (
	"context"

	"github.com/amenitybook/reservation-api/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.Session, error)
	TokenVerifier
}

// TokenVerifier checks a bearer token without touching the store.
type TokenVerifier interface {
	VerifyToken(token string) (*domain.Principal, error)
}
