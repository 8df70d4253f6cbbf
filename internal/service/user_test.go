package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"rewards_engine/internal/model"
	"rewards_engine/internal/repository"
	"rewards_engine/internal/service/mocks"
	"rewards_engine/pkg/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T, now time.Time) (*UserService, *mocks.MockUserRepository) {
	repo := mocks.NewMockUserRepository(t)
	s := NewUserService(repo, nil, DefaultAuthPolicy())
	s.now = func() time.Time { return now }
	return s, repo
}

func TestGenerateReferralCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := generateReferralCode()
		require.NoError(t, err)
		assert.Len(t, code, referralCodeLength)
		for _, r := range code {
			assert.Contains(t, referralCodeAlphabet, string(r))
		}
		seen[code] = true
	}
	assert.Greater(t, len(seen), 45)
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)

	t.Run("Validation", func(t *testing.T) {
		tests := []struct {
			name  string
			input RegisterInput
		}{
			{"Bad email", RegisterInput{Email: "not-an-email", Name: "Ana", Password: "secret123"}},
			{"Short name", RegisterInput{Email: "ana@example.com", Name: " A ", Password: "secret123"}},
			{"Short password", RegisterInput{Email: "ana@example.com", Name: "Ana", Password: "123"}},
			{"Missing email", RegisterInput{Name: "Ana", Password: "secret123"}},
			{"Referral code with symbols", RegisterInput{Email: "ana@example.com", Name: "Ana", Password: "secret123", ReferralCode: "AB-12"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				s, _ := newUserService(t, now)
				_, _, err := s.Register(ctx, tt.input)
				assert.ErrorIs(t, err, ErrInvalidInput)
			})
		}
	})

	t.Run("Email taken", func(t *testing.T) {
		s, repo := newUserService(t, now)
		repo.On("GetUserByEmail", mock.Anything, "ana@example.com").Return(&model.User{ID: uuid.New()}, nil).Once()

		_, _, err := s.Register(ctx, RegisterInput{Email: "  Ana@Example.com ", Name: "Ana", Password: "secret123"})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("Without referral code", func(t *testing.T) {
		s, repo := newUserService(t, now)
		repo.On("GetUserByEmail", mock.Anything, "ana@example.com").Return(nil, repository.ErrNotFound).Once()
		repo.On("ReferralCodeExists", mock.Anything, mock.AnythingOfType("string")).Return(true, nil).Once()
		repo.On("ReferralCodeExists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil).Once()
		repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "ana@example.com" &&
				u.Role == model.UserRoleUser &&
				u.Status == model.UserStatusActive &&
				u.ReferredBy == nil &&
				u.WalletBalance.IsZero() &&
				u.PasswordHash != "secret123"
		})).Return(nil).Once()

		user, outcome, err := s.Register(ctx, RegisterInput{Email: "ana@example.com", Name: "Ana", Password: "secret123"})
		require.NoError(t, err)
		assert.Nil(t, outcome)
		assert.Len(t, user.ReferralCode, referralCodeLength)
		assert.True(t, auth.CheckPassword(user.PasswordHash, "secret123"))
		assert.Equal(t, now, user.CreatedAt)
	})

	t.Run("Referral code lookup failure", func(t *testing.T) {
		s, repo := newUserService(t, now)
		repo.On("GetUserByEmail", mock.Anything, "ana@example.com").Return(nil, repository.ErrNotFound).Once()
		repo.On("ReferralCodeExists", mock.Anything, mock.Anything).Return(false, nil).Once()
		repo.On("GetUserByReferralCode", mock.Anything, "AB12CD34").Return(nil, errors.New("timeout")).Once()

		_, _, err := s.Register(ctx, RegisterInput{Email: "ana@example.com", Name: "Ana", Password: "secret123", ReferralCode: "ab12cd34"})
		assert.ErrorContains(t, err, "failed to resolve referral code")
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("No unique code available", func(t *testing.T) {
		s, repo := newUserService(t, now)
		repo.On("GetUserByEmail", mock.Anything, "ana@example.com").Return(nil, repository.ErrNotFound).Once()
		repo.On("ReferralCodeExists", mock.Anything, mock.Anything).Return(true, nil).Times(referralCodeAttempts)

		_, _, err := s.Register(ctx, RegisterInput{Email: "ana@example.com", Name: "Ana", Password: "secret123"})
		assert.Error(t, err)
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)
	policy := DefaultAuthPolicy()

	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		s, repo := newUserService(t, now)
		user := &model.User{ID: uuid.New(), PasswordHash: hash, Status: model.UserStatusActive}
		repo.On("GetUserByEmail", mock.Anything, "ana@example.com").Return(user, nil).Once()

		got, err := s.Login(ctx, "Ana@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("Success clears earlier failures", func(t *testing.T) {
		s, repo := newUserService(t, now)
		user := &model.User{ID: uuid.New(), PasswordHash: hash, Status: model.UserStatusActive, FailedLoginAttempts: 2}
		repo.On("GetUserByEmail", mock.Anything, "ana@example.com").Return(user, nil).Once()
		repo.On("ResetLoginFailures", mock.Anything, user.ID).Return(nil).Once()

		_, err := s.Login(ctx, "ana@example.com", "secret123")
		require.NoError(t, err)
	})

	t.Run("Wrong password counts a failure", func(t *testing.T) {
		s, repo := newUserService(t, now)
		user := &model.User{ID: uuid.New(), PasswordHash: hash, Status: model.UserStatusActive}
		repo.On("GetUserByEmail", mock.Anything, "ana@example.com").Return(user, nil).Once()
		repo.On("RecordLoginFailure", mock.Anything, user.ID, policy.MaxLoginAttempts, policy.LockoutDuration).Return(nil).Once()

		_, err := s.Login(ctx, "ana@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Locked account", func(t *testing.T) {
		s, repo := newUserService(t, now)
		until := now.Add(5 * time.Minute)
		user := &model.User{ID: uuid.New(), PasswordHash: hash, Status: model.UserStatusActive, FailedLoginAttempts: 5, LockedUntil: &until}
		repo.On("GetUserByEmail", mock.Anything, "ana@example.com").Return(user, nil).Once()

		_, err := s.Login(ctx, "ana@example.com", "secret123")
		assert.ErrorIs(t, err, ErrAccountLocked)
	})

	t.Run("Expired lock", func(t *testing.T) {
		s, repo := newUserService(t, now)
		until := now.Add(-time.Minute)
		user := &model.User{ID: uuid.New(), PasswordHash: hash, Status: model.UserStatusActive, FailedLoginAttempts: 5, LockedUntil: &until}
		repo.On("GetUserByEmail", mock.Anything, "ana@example.com").Return(user, nil).Once()
		repo.On("ResetLoginFailures", mock.Anything, user.ID).Return(nil).Once()

		_, err := s.Login(ctx, "ana@example.com", "secret123")
		require.NoError(t, err)
	})

	t.Run("Banned account", func(t *testing.T) {
		s, repo := newUserService(t, now)
		user := &model.User{ID: uuid.New(), PasswordHash: hash, Status: model.UserStatusBanned}
		repo.On("GetUserByEmail", mock.Anything, "ana@example.com").Return(user, nil).Once()

		_, err := s.Login(ctx, "ana@example.com", "secret123")
		assert.ErrorIs(t, err, ErrUserInactive)
	})

	t.Run("Unknown email", func(t *testing.T) {
		s, repo := newUserService(t, now)
		repo.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, repository.ErrNotFound).Once()

		_, err := s.Login(ctx, "nobody@example.com", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserService_GetUser(t *testing.T) {
	s, repo := newUserService(t, time.Now())
	userID := uuid.New()
	repo.On("GetUserByID", mock.Anything, userID).Return(nil, repository.ErrNotFound).Once()

	_, err := s.GetUser(context.Background(), userID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
