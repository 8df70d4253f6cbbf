package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
	UserStatusBanned    UserStatus = "BANNED"
)

type UserRole string

const (
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

type User struct {
	ID                  uuid.UUID
	Email               string
	Name                string
	Phone               *string
	PasswordHash        string
	Role                UserRole
	ReferralCode        string
	ReferredBy          *uuid.UUID
	Status              UserStatus
	WalletBalance       decimal.Decimal
	TotalEarnings       decimal.Decimal
	TotalVideosWatched  int
	FailedLoginAttempts int
	LockedUntil         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsActive reports whether the user may earn or be credited.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

type UserReferral struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	TotalEarnings decimal.Decimal `json:"total_earnings"`
	WalletBalance decimal.Decimal `json:"wallet_balance"`
	Status        UserStatus      `json:"status"`
	JoinedAt      time.Time       `json:"joined_at"`
}
