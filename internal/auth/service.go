package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=auth
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// ErrUserNotFound is returned by the repository when no account matches.
var ErrUserNotFound = errors.New("user not found")

type Service struct {
	repo     Repository
	secret   []byte
	tokenTTL time.Duration
}

func NewService(repo Repository, secret string, tokenTTL time.Duration) *Service {
	return &Service{repo: repo, secret: []byte(secret), tokenTTL: tokenTTL}
}

// Register creates an account and returns a signed token for it.
func (s *Service) Register(ctx context.Context, email, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	u := &User{Email: email, PasswordHash: string(hash)}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return "", err
	}

	return GenerateToken(u.ID, s.secret, s.tokenTTL)
}

// Login verifies the credentials and returns a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}

		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	return GenerateToken(u.ID, s.secret, s.tokenTTL)
}

// VerifyToken returns the user id carried by a valid token.
func (s *Service) VerifyToken(token string) (uuid.UUID, error) {
	return UserIDFromToken(token, s.secret)
}
