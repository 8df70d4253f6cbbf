package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Position struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Level        int             `json:"level"`
	TasksPerDay  int             `json:"tasks_per_day"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Price        decimal.Decimal `json:"price"`
	ValidityDays int             `json:"validity_days"`
	IsActive     bool            `json:"is_active"`
}

type UserPositionStatus string

const (
	UserPositionActive  UserPositionStatus = "ACTIVE"
	UserPositionExpired UserPositionStatus = "EXPIRED"
)

type UserPosition struct {
	ID         uuid.UUID          `json:"id"`
	UserID     uuid.UUID          `json:"user_id"`
	Position   *Position          `json:"position"`
	StartDate  time.Time          `json:"start_date"`
	EndDate    time.Time          `json:"end_date"`
	AmountPaid decimal.Decimal    `json:"amount_paid"`
	Status     UserPositionStatus `json:"status"`
}

// IsCurrent reports whether the assignment is active and inside its validity window.
func (p *UserPosition) IsCurrent(now time.Time) bool {
	return p.Status == UserPositionActive && now.Before(p.EndDate)
}

type PositionPurchase struct {
	UserID    uuid.UUID
	Position  *Position
	StartDate time.Time
	EndDate   time.Time
	Debit     *LedgerEntry
}

type TaskEligibility struct {
	CanComplete    bool   `json:"can_complete"`
	TasksRemaining int    `json:"tasks_remaining"`
	CompletedToday int    `json:"completed_today"`
	DailyLimit     int    `json:"daily_limit"`
	Reason         string `json:"reason"`
}

// DayWindow is the half-open interval [Start, End) of one server-local calendar day.
type DayWindow struct {
	Start time.Time
	End   time.Time
}

func DayWindowAt(t time.Time) DayWindow {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return DayWindow{
		Start: start,
		End:   start.AddDate(0, 0, 1),
	}
}

func (w DayWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
