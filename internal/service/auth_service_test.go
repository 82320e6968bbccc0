package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"holidaytracker/internal/auth"
	apperrors "holidaytracker/internal/errors"
	"holidaytracker/internal/model"
	"holidaytracker/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// countingHasher wraps a real hasher and counts Verify calls.
type countingHasher struct {
	auth.PasswordHasher
	verifies int
}

func (h *countingHasher) Verify(password, digest string) bool {
	h.verifies++
	return h.PasswordHasher.Verify(password, digest)
}

func newTestHasher() *countingHasher {
	return &countingHasher{PasswordHasher: auth.NewArgon2Hasher(auth.Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1})}
}

func newTestJWT() *auth.JWTService {
	return auth.NewJWTService(auth.TokenConfig{Secret: "test-secret", TTL: time.Hour, Issuer: "test"})
}

func TestAuthService_Register(t *testing.T) {
	name := "Test User"
	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful registration",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, repository.ErrNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:     "user already exists",
			email:    "existing@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrUserAlreadyExists,
		},
		{
			name:     "duplicate detected by store",
			email:    "race@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "race@example.com").Return(nil, repository.ErrNotFound)
				m.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)
			},
			expectedError: apperrors.ErrUserAlreadyExists,
		},
		{
			name:     "whitespace password is a password",
			email:    "spaces@example.com",
			password: "    ",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "spaces@example.com").Return(nil, repository.ErrNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:          "missing email",
			email:         "  ",
			password:      "password123",
			setupMock:     func(*MockUserRepository) {},
			expectedError: apperrors.ErrMissingCredentials,
		},
		{
			name:          "missing password",
			email:         "test@example.com",
			password:      "",
			setupMock:     func(*MockUserRepository) {},
			expectedError: apperrors.ErrMissingCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			hasher := newTestHasher()
			jwtService := newTestJWT()
			svc := NewAuthService(mockRepo, hasher, jwtService)
			res, err := svc.Register(context.Background(), tt.email, &name, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, res)
			} else {
				require.NoError(t, err)
				require.NotNil(t, res)
				assert.Equal(t, tt.email, res.User.Email)
				assert.Equal(t, &name, res.User.Name)
				assert.NotEqual(t, tt.password, res.User.PasswordHash)
				assert.True(t, hasher.Verify(tt.password, res.User.PasswordHash))

				claims, ok := jwtService.Verify(res.Token)
				require.True(t, ok)
				assert.Equal(t, res.User.ID, claims.UserID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Register_StoreFailure(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "a@example.com").Return(nil, errors.New("connection reset"))

	svc := NewAuthService(mockRepo, newTestHasher(), newTestJWT())
	_, err := svc.Register(context.Background(), "a@example.com", nil, "pw")

	require.Error(t, err)
	assert.Equal(t, 500, apperrors.MapErrorToHTTP(err).StatusCode)
}

func TestAuthService_Login(t *testing.T) {
	hasher := newTestHasher()
	digest, err := hasher.Hash("password123")
	require.NoError(t, err)
	stored := &model.User{ID: 7, Email: "test@example.com", PasswordHash: digest}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(stored, nil)
			},
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrong",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(stored, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, repository.ErrNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "whitespace password is checked, not missing",
			email:    "test@example.com",
			password: "   ",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(stored, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:          "missing fields",
			email:         "",
			password:      "",
			setupMock:     func(*MockUserRepository) {},
			expectedError: apperrors.ErrMissingCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)
			jwtService := newTestJWT()

			svc := NewAuthService(mockRepo, hasher, jwtService)
			res, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, res)
			} else {
				require.NoError(t, err)
				assert.Equal(t, stored, res.User)
				claims, ok := jwtService.Verify(res.Token)
				require.True(t, ok)
				assert.Equal(t, uint(7), claims.UserID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login_UnknownEmailStillVerifies(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrNotFound)
	hasher := newTestHasher()

	svc := NewAuthService(mockRepo, hasher, newTestJWT())
	_, err := svc.Login(context.Background(), "ghost@example.com", "pw")

	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Equal(t, 1, hasher.verifies)
}

func TestAuthService_Login_SameErrorForUnknownAndWrong(t *testing.T) {
	hasher := newTestHasher()
	digest, err := hasher.Hash("right")
	require.NoError(t, err)

	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "known@example.com").Return(&model.User{ID: 1, Email: "known@example.com", PasswordHash: digest}, nil)
	mockRepo.On("FindByEmail", mock.Anything, "unknown@example.com").Return(nil, repository.ErrNotFound)
	svc := NewAuthService(mockRepo, hasher, newTestJWT())

	_, wrongPassword := svc.Login(context.Background(), "known@example.com", "wrong")
	_, unknownEmail := svc.Login(context.Background(), "unknown@example.com", "right")

	assert.Equal(t, apperrors.MapErrorToHTTP(wrongPassword), apperrors.MapErrorToHTTP(unknownEmail))
}
