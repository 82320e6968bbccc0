package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"holidaytracker/internal/auth"
	apperrors "holidaytracker/internal/errors"
	"holidaytracker/internal/metrics"
	"holidaytracker/internal/model"
	"holidaytracker/internal/repository"
)

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(userID uint, email string) (string, error)
}

// AuthResult is returned by successful registration and login.
type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, email string, name *string, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

type authService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
	tokens TokenIssuer

	dummyOnce   sync.Once
	dummyDigest string
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, hasher auth.PasswordHasher, tokens TokenIssuer) AuthService {
	return &authService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register creates a new user with a hashed password and signs them in.
func (s *authService) Register(ctx context.Context, email string, name *string, password string) (res *AuthResult, err error) {
	defer func() { metrics.RecordAuthAttempt(metrics.EventRegister, err == nil) }()

	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperrors.ErrMissingCredentials
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	// If error is not "record not found", return it (could be a database error)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: digest,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Login authenticates a user. Unknown emails and wrong passwords are
// indistinguishable to the caller, in response and in timing.
func (s *authService) Login(ctx context.Context, email, password string) (res *AuthResult, err error) {
	defer func() { metrics.RecordAuthAttempt(metrics.EventLogin, err == nil) }()

	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperrors.ErrMissingCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.Verify(password, s.dummy())
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// dummy returns a digest produced with the live hasher parameters, so a miss
// costs as much as a real comparison.
func (s *authService) dummy() string {
	s.dummyOnce.Do(func() {
		d, err := s.hasher.Hash("holidaytracker-timing-equalizer")
		if err == nil {
			s.dummyDigest = d
		}
	})
	return s.dummyDigest
}
