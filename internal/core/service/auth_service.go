package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/amenitybook/reservation-api/internal/core/domain"
	"github.com/amenitybook/reservation-api/internal/core/ports"
)

const (
	defaultTokenTTL = 24 * time.Hour
	// maxPasswordBytes is the bcrypt input limit.
	maxPasswordBytes = 72
)

// AuthOptions tunes hashing and token issuance. Zero values fall back to
// bcrypt.DefaultCost and a 24h token lifetime.
type AuthOptions struct {
	TokenTTL   time.Duration
	BcryptCost int
	// Now overrides the clock used for issuing and verifying tokens.
	Now func() time.Time
}

// AuthService implements registration, login and token verification.
type AuthService struct {
	repo      ports.AuthRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	cost      int
	now       func() time.Time
	dummyHash []byte
	log       zerolog.Logger
}

// tokenClaims is the JWT payload. id and username mirror domain.Principal.
type tokenClaims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func NewAuthService(repo ports.AuthRepository, jwtSecret string, opts AuthOptions, log zerolog.Logger) (*AuthService, error) {
	if jwtSecret == "" {
		return nil, errors.New("auth service: empty jwt secret")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = defaultTokenTTL
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	// Compared against when the username is unknown so both login failure
	// paths spend the same bcrypt work.
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	return &AuthService{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  opts.TokenTTL,
		cost:      opts.BcryptCost,
		now:       opts.Now,
		dummyHash: dummy,
		log:       log,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrMissingCredentials
	}
	if len(password) > maxPasswordBytes {
		return nil, domain.ErrPasswordTooLong
	}

	// Fast path; the store's unique index still decides concurrent races.
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, domain.ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	if username == "" || password == "" {
		return nil, domain.ErrMissingCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("login: sign token: %w", err)
	}

	return &domain.Session{Token: token, UserID: user.ID}, nil
}

// VerifyToken checks signature, algorithm and expiry. Every failure is
// reported as domain.ErrInvalidToken.
func (s *AuthService) VerifyToken(token string) (*domain.Principal, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return s.jwtSecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.UserID == 0 && claims.Username == "" {
		return nil, domain.ErrInvalidToken
	}

	return &domain.Principal{ID: claims.UserID, Username: claims.Username}, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := s.now()
	claims := tokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.jwtSecret)
}
