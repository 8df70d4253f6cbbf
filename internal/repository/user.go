package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rewards_engine/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var userColumns = []string{
	"id",
	"email",
	"name",
	"phone",
	"password_hash",
	"role",
	"referral_code",
	"referred_by",
	"status",
	"wallet_balance",
	"total_earnings",
	"total_videos_watched",
	"failed_login_attempts",
	"locked_until",
	"created_at",
	"updated_at",
}

type User struct {
	ID                  uuid.UUID       `db:"id"`
	Email               string          `db:"email"`
	Name                string          `db:"name"`
	Phone               *string         `db:"phone"`
	PasswordHash        string          `db:"password_hash"`
	Role                string          `db:"role"`
	ReferralCode        string          `db:"referral_code"`
	ReferredBy          *uuid.UUID      `db:"referred_by"`
	Status              string          `db:"status"`
	WalletBalance       decimal.Decimal `db:"wallet_balance"`
	TotalEarnings       decimal.Decimal `db:"total_earnings"`
	TotalVideosWatched  int             `db:"total_videos_watched"`
	FailedLoginAttempts int             `db:"failed_login_attempts"`
	LockedUntil         *time.Time      `db:"locked_until"`
	CreatedAt           time.Time       `db:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at"`
}

func (u *User) toModel() *model.User {
	return &model.User{
		ID:                  u.ID,
		Email:               u.Email,
		Name:                u.Name,
		Phone:               u.Phone,
		PasswordHash:        u.PasswordHash,
		Role:                model.UserRole(u.Role),
		ReferralCode:        u.ReferralCode,
		ReferredBy:          u.ReferredBy,
		Status:              model.UserStatus(u.Status),
		WalletBalance:       u.WalletBalance,
		TotalEarnings:       u.TotalEarnings,
		TotalVideosWatched:  u.TotalVideosWatched,
		FailedLoginAttempts: u.FailedLoginAttempts,
		LockedUntil:         u.LockedUntil,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query, args, err := squirrel.
		Insert("users").
		SetMap(map[string]interface{}{
			"id":                    user.ID,
			"email":                 user.Email,
			"name":                  user.Name,
			"phone":                 user.Phone,
			"password_hash":         user.PasswordHash,
			"role":                  string(user.Role),
			"referral_code":         user.ReferralCode,
			"referred_by":           user.ReferredBy,
			"status":                string(user.Status),
			"wallet_balance":        user.WalletBalance,
			"total_earnings":        user.TotalEarnings,
			"total_videos_watched":  0,
			"failed_login_attempts": 0,
			"created_at":            user.CreatedAt,
			"updated_at":            user.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build user insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (r *Repository) getUserWhere(ctx context.Context, q sqlx.QueryerContext, where squirrel.Sqlizer) (*model.User, error) {
	var user User
	query, args, err := squirrel.
		Select(userColumns...).
		From("users").
		Where(where).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = sqlx.GetContext(ctx, q, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user.toModel(), nil
}

func (r *Repository) GetUserByID(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return r.getUserWhere(ctx, r.db, squirrel.Eq{"id": userID})
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getUserWhere(ctx, r.db, squirrel.Eq{"email": email})
}

func (r *Repository) GetUserByReferralCode(ctx context.Context, code string) (*model.User, error) {
	return r.getUserWhere(ctx, r.db, squirrel.Eq{"referral_code": code})
}

func (r *Repository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	_, err := r.GetUserByReferralCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// lockUser loads the user row with FOR UPDATE. Every wallet mutation goes through it so
// that concurrent requests for the same user are serialized by the database.
func (r *Repository) lockUser(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID) (*model.User, error) {
	var user User
	query, args, err := squirrel.
		Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": userID}).
		Suffix("FOR UPDATE").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = tx.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user.toModel(), nil
}

func (r *Repository) RecordLoginFailure(ctx context.Context, userID uuid.UUID, maxAttempts int, lockFor time.Duration) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		user, err := r.lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}

		attempts := user.FailedLoginAttempts + 1
		set := map[string]interface{}{
			"failed_login_attempts": attempts,
			"updated_at":            time.Now(),
		}
		if attempts >= maxAttempts {
			set["locked_until"] = time.Now().Add(lockFor)
			set["failed_login_attempts"] = 0
		}

		query, args, err := squirrel.
			Update("users").
			SetMap(set).
			Where(squirrel.Eq{"id": userID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, query, args...)
		return err
	})
}

func (r *Repository) ResetLoginFailures(ctx context.Context, userID uuid.UUID) error {
	query, args, err := squirrel.
		Update("users").
		Set("failed_login_attempts", 0).
		Set("locked_until", nil).
		Where(squirrel.Eq{"id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

type userReferral struct {
	ID            uuid.UUID       `db:"id"`
	Name          string          `db:"name"`
	Email         string          `db:"email"`
	TotalEarnings decimal.Decimal `db:"total_earnings"`
	WalletBalance decimal.Decimal `db:"wallet_balance"`
	Status        string          `db:"status"`
	CreatedAt     time.Time       `db:"created_at"`
}

func (r *Repository) GetUserReferrals(ctx context.Context, userID uuid.UUID) ([]*model.UserReferral, error) {
	query := squirrel.Select(
		"id",
		"name",
		"email",
		"total_earnings",
		"wallet_balance",
		"status",
		"created_at",
	).
		From("users").
		Where(squirrel.Eq{"referred_by": userID}).
		OrderBy("total_earnings DESC").
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var referrals []*userReferral
	err = r.db.SelectContext(ctx, &referrals, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get user referrals: %w", err)
	}

	refs := make([]*model.UserReferral, len(referrals))
	for i, ref := range referrals {
		refs[i] = &model.UserReferral{
			ID:            ref.ID,
			Name:          ref.Name,
			Email:         ref.Email,
			TotalEarnings: ref.TotalEarnings,
			WalletBalance: ref.WalletBalance,
			Status:        model.UserStatus(ref.Status),
			JoinedAt:      ref.CreatedAt,
		}
	}

	return refs, nil
}
