package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BonusShare is the outcome of paying one upline level for one completed task.
type BonusShare struct {
	Level         ReferralLevel   `json:"level"`
	AncestorID    uuid.UUID       `json:"ancestor_id"`
	Percentage    decimal.Decimal `json:"percentage"`
	Requested     decimal.Decimal `json:"requested"`
	Credited      decimal.Decimal `json:"credited"`
	Clamped       bool            `json:"clamped"`
	TransactionID *uuid.UUID      `json:"transaction_id,omitempty"`
	Error         string          `json:"error,omitempty"`
}

type BonusDistribution struct {
	Success               bool            `json:"success"`
	TotalBonusDistributed decimal.Decimal `json:"total_bonus_distributed"`
	Breakdown             []BonusShare    `json:"breakdown"`
}

type ManagementBonusStats struct {
	SubordinateCount int             `json:"subordinate_count"`
	DailyBonuses     decimal.Decimal `json:"daily_bonuses"`
	MonthlyBonuses   decimal.Decimal `json:"monthly_bonuses"`
}
