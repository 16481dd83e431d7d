// Package auth implements the back-office login: bcrypt-verified
// credentials exchanged for an opaque session token kept in Redis.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
)

type Admin struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"-"` // bcrypt hash
}

type AdminRepository interface {
	GetAdminByEmail(ctx context.Context, email string) (*Admin, error)
}

// SessionStore maps opaque tokens to admin identities with a TTL.
type SessionStore interface {
	Put(ctx context.Context, token string, admin *Admin, ttl time.Duration) error
	Get(ctx context.Context, token string) (*Admin, error)
	Delete(ctx context.Context, token string) error
}

type Service struct {
	repo       AdminRepository
	sessions   SessionStore
	sessionTTL time.Duration
}

func NewService(repo AdminRepository, sessions SessionStore) *Service {
	return &Service{
		repo:       repo,
		sessions:   sessions,
		sessionTTL: 24 * time.Hour,
	}
}

// Login verifies the password and returns a fresh session token. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, *Admin, error) {
	admin, err := s.repo.GetAdminByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token := uuid.NewString()
	if err := s.sessions.Put(ctx, token, admin, s.sessionTTL); err != nil {
		return "", nil, err
	}
	return token, admin, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Validate resolves a cookie token to the admin it belongs to.
func (s *Service) Validate(ctx context.Context, token string) (*Admin, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}
	return s.sessions.Get(ctx, token)
}
