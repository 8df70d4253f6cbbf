package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"rewards_engine/internal/model"
	"rewards_engine/internal/repository"
	"rewards_engine/pkg/auth"
	"rewards_engine/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	referralCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referralCodeLength   = 8
	referralCodeAttempts = 5
)

var inputValidator = validator.New()

type RegisterInput struct {
	Email        string  `validate:"required,email,max=255"`
	Name         string  `validate:"min=2,max=255"`
	Phone        *string `validate:"omitempty,max=32"`
	Password     string
	ReferralCode string `validate:"omitempty,alphanum,max=16"`
	IPAddress    string
}

type UserService struct {
	repo      UserRepository
	referrals *ReferralService
	policy    AuthPolicy
	now       func() time.Time
}

func NewUserService(repo UserRepository, referrals *ReferralService, policy AuthPolicy) *UserService {
	return &UserService{
		repo:      repo,
		referrals: referrals,
		policy:    policy,
		now:       time.Now,
	}
}

func generateReferralCode() (string, error) {
	alphabetSize := big.NewInt(int64(len(referralCodeAlphabet)))
	code := make([]byte, referralCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		code[i] = referralCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

func (s *UserService) uniqueReferralCode(ctx context.Context) (string, error) {
	for i := 0; i < referralCodeAttempts; i++ {
		code, err := generateReferralCode()
		if err != nil {
			return "", err
		}
		exists, err := s.repo.ReferralCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New("failed to generate a unique referral code")
}

func (s *UserService) validate(input *RegisterInput) error {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Name = strings.TrimSpace(input.Name)
	input.ReferralCode = strings.ToUpper(strings.TrimSpace(input.ReferralCode))

	if err := inputValidator.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fmt.Errorf("%w: %s failed %q", ErrInvalidInput, strings.ToLower(fieldErrs[0].Field()), fieldErrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(input.Password) < s.policy.MinPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, s.policy.MinPasswordLen)
	}
	return nil
}

// Register creates the account and, when a referral code was supplied, links it to the
// referrer. referredBy is resolved once here and never changes afterwards. The returned
// outcome is nil when no code was given.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, *model.ReferralOutcome, error) {
	log := logger.Logger()

	if err := s.validate(&input); err != nil {
		return nil, nil, err
	}

	_, err := s.repo.GetUserByEmail(ctx, input.Email)
	if err == nil {
		return nil, nil, ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := s.uniqueReferralCode(ctx)
	if err != nil {
		return nil, nil, err
	}

	var referredBy *uuid.UUID
	if input.ReferralCode != "" {
		referrer, err := s.repo.GetUserByReferralCode(ctx, input.ReferralCode)
		switch {
		case err == nil:
			referredBy = &referrer.ID
		case errors.Is(err, repository.ErrNotFound):
			log.Info("Registration with unknown referral code", zap.String("code", input.ReferralCode))
		default:
			return nil, nil, fmt.Errorf("failed to resolve referral code: %w", err)
		}
	}

	now := s.now()
	user := &model.User{
		ID:            uuid.New(),
		Email:         input.Email,
		Name:          input.Name,
		Phone:         input.Phone,
		PasswordHash:  hash,
		Role:          model.UserRoleUser,
		ReferralCode:  code,
		ReferredBy:    referredBy,
		Status:        model.UserStatusActive,
		WalletBalance: decimal.Zero,
		TotalEarnings: decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err = s.repo.CreateUser(ctx, user); err != nil {
		return nil, nil, err
	}

	log.Info("User registered", zap.String("user_id", user.ID.String()), zap.Bool("referred", referredBy != nil))

	if input.ReferralCode == "" {
		return user, nil, nil
	}

	outcome, err := s.referrals.ProcessReferralRegistration(ctx, input.ReferralCode, user.ID, input.IPAddress)
	if err != nil {
		// the account is kept, only the referral part failed
		log.Error("Referral registration failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return user, &model.ReferralOutcome{Reason: "referral could not be processed"}, nil
	}
	return user, outcome, nil
}

// Login checks the password and locks the account for the configured duration after too
// many consecutive failures.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.IsLocked(s.now()) {
		return nil, ErrAccountLocked
	}
	if !user.IsActive() {
		return nil, ErrUserInactive
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		err = s.repo.RecordLoginFailure(ctx, user.ID, s.policy.MaxLoginAttempts, s.policy.LockoutDuration)
		if err != nil {
			logger.Logger().Error("Failed to record login failure", zap.String("user_id", user.ID.String()), zap.Error(err))
		}
		return nil, ErrInvalidCredentials
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		if err = s.repo.ResetLoginFailures(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("failed to reset login attempts: %w", err)
		}
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetUserReferrals(ctx context.Context, userID uuid.UUID) ([]*model.UserReferral, error) {
	refs, err := s.repo.GetUserReferrals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user referrals: %w", err)
	}
	return refs, nil
}
