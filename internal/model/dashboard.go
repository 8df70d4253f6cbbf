package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DashboardStats struct {
	User               DashboardUser        `json:"user"`
	Position           *Position            `json:"position"`
	TaskStats          TaskEligibility      `json:"task_stats"`
	Earnings           IncomeStreams        `json:"earnings"`
	TeamStats          TeamStats            `json:"team_stats"`
	RecentTransactions []*WalletTransaction `json:"recent_transactions"`
	GeneratedAt        time.Time            `json:"generated_at"`
}

type DashboardUser struct {
	ID            uuid.UUID       `json:"id"`
	Email         string          `json:"email"`
	Name          string          `json:"name"`
	WalletBalance decimal.Decimal `json:"wallet_balance"`
	TotalEarnings decimal.Decimal `json:"total_earnings"`
	ReferralCode  string          `json:"referral_code"`
}

type IncomeStreams struct {
	TaskIncome        decimal.Decimal `json:"task_income"`
	ReferralRewards   decimal.Decimal `json:"referral_rewards"`
	ManagementBonuses decimal.Decimal `json:"management_bonuses"`
}

func (s IncomeStreams) Total() decimal.Decimal {
	return s.TaskIncome.Add(s.ReferralRewards).Add(s.ManagementBonuses)
}

type TeamStats struct {
	ManagementBonus   ManagementBonusStats `json:"management_bonus"`
	ReferralHierarchy *HierarchyStats      `json:"referral_hierarchy"`
}

// IncomeByType is a per-type sum of completed credits over a period.
type IncomeByType map[TransactionType]decimal.Decimal

func (m IncomeByType) Streams() IncomeStreams {
	streams := IncomeStreams{
		TaskIncome:        decimal.Zero,
		ReferralRewards:   decimal.Zero,
		ManagementBonuses: decimal.Zero,
	}
	for t, amount := range m {
		switch {
		case t == TransactionTaskIncome:
			streams.TaskIncome = streams.TaskIncome.Add(amount)
		case t.IsReferralReward():
			streams.ReferralRewards = streams.ReferralRewards.Add(amount)
		case t.IsManagementBonus():
			streams.ManagementBonuses = streams.ManagementBonuses.Add(amount)
		}
	}
	return streams
}
